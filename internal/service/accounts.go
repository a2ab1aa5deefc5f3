package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/testsdaw/backend/internal/domain/user"
	"github.com/testsdaw/backend/internal/store"
)

const bcryptCost = 10

// TokenIssuer signs access tokens for a user id.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

// AccountService registers users and logs them in.
type AccountService struct {
	store  store.Store
	tokens TokenIssuer
}

func NewAccountService(s store.Store, tokens TokenIssuer) *AccountService {
	return &AccountService{store: s, tokens: tokens}
}

// Register creates a user with a bcrypt password hash. A duplicate email
// returns store.ErrEmailTaken.
func (a *AccountService) Register(ctx context.Context, email, password, name string) (*user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &user.User{
		Email:        user.NormalizeEmail(email),
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(name),
	}
	if err := a.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login checks the credentials and returns the user with a fresh token.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
func (a *AccountService) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	u, err := a.store.GetUserByEmail(ctx, user.NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := a.tokens.Issue(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}
