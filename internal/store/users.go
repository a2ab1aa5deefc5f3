package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/testsdaw/backend/internal/domain/user"
)

// ============================================================================
// Users
// ============================================================================

// CreateUser inserts u and sets its ID. A duplicate email yields ErrEmailTaken.
func (s *SQLStore) CreateUser(ctx context.Context, u *user.User) error {
	err := s.db.QueryRowContext(ctx,
		s.q("INSERT INTO users (email, password_hash, name) VALUES (?, ?, ?) RETURNING id"),
		u.Email, u.PasswordHash, u.Name,
	).Scan(&u.ID)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *SQLStore) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	err := s.db.QueryRowContext(ctx,
		s.q("SELECT id, email, password_hash, name FROM users WHERE email = ?"), email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// Ranking returns up to limit users ordered by number of attempts, most
// active first. Users without attempts are included with zero.
func (s *SQLStore) Ranking(ctx context.Context, limit int) ([]user.Standing, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT u.name, COUNT(a.id) AS total_tests
		FROM users u
		LEFT JOIN attempts a ON a.user_id = u.id
		GROUP BY u.id, u.name
		ORDER BY total_tests DESC, u.id ASC
		LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("ranking: %w", err)
	}
	defer rows.Close()

	var standings []user.Standing
	for rows.Next() {
		var st user.Standing
		if err := rows.Scan(&st.Name, &st.TotalTests); err != nil {
			return nil, fmt.Errorf("ranking: %w", err)
		}
		standings = append(standings, st)
	}
	return standings, rows.Err()
}
