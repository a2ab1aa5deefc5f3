package store

import (
	"context"
	"errors"

	"github.com/testsdaw/backend/internal/domain/attempt"
	"github.com/testsdaw/backend/internal/domain/question"
	"github.com/testsdaw/backend/internal/domain/user"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")
)

// Store is the data store gateway used by the services.
type Store interface {
	// Users
	CreateUser(ctx context.Context, u *user.User) error
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
	Ranking(ctx context.Context, limit int) ([]user.Standing, error)

	// Questions
	ListQuestions(ctx context.Context, f question.Filter) ([]question.Question, error)
	CountQuestions(ctx context.Context, f question.Filter) (int, error)
	GetQuestionsByIDs(ctx context.Context, ids []int64) ([]question.Question, error)
	ReplaceQuestions(ctx context.Context, qs []question.Question) (int, error)
	ListSubjects(ctx context.Context) ([]question.Subject, error)
	ListTopics(ctx context.Context, subjectCode string) ([]question.Topic, error)

	// Attempts
	SaveAttempt(ctx context.Context, a *attempt.Attempt) error
	ListAttemptsByUser(ctx context.Context, userID int64) ([]attempt.Attempt, error)
	CountFailedQuestions(ctx context.Context, userID int64) (int, error)

	Close() error
}

var _ Store = (*SQLStore)(nil)
