package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/testsdaw/backend/internal/domain/attempt"
)

// ============================================================================
// Attempts
// ============================================================================

// SaveAttempt persists a scored attempt and marks its failed questions for
// the user in a single transaction, then sets a.ID.
//
// Marks are inserted with ON CONFLICT DO NOTHING, so a question already
// failed by the user (including by a concurrent submission) is skipped
// silently. A question's failed_count grows only when a mark is new, which
// keeps it equal to the number of distinct users who failed it.
func (s *SQLStore) SaveAttempt(ctx context.Context, a *attempt.Attempt) error {
	answers, err := json.Marshal(a.Answers)
	if err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, s.q(`
		INSERT INTO attempts (user_id, subject_code, topic_number, score, answers, answered_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`),
		a.UserID, a.SubjectCode, nullableInt(a.TopicNumber), a.Score, string(answers), a.AnsweredAt.UnixMilli(),
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}

	markFailed := s.q("INSERT INTO failed_questions (user_id, question_id) VALUES (?, ?) ON CONFLICT DO NOTHING")
	bumpCount := s.q("UPDATE questions SET failed_count = failed_count + 1 WHERE id = ?")
	for _, qid := range a.FailedQuestionIDs() {
		res, err := tx.ExecContext(ctx, markFailed, a.UserID, qid)
		if err != nil {
			return fmt.Errorf("mark failed question %d: %w", qid, err)
		}
		inserted, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("mark failed question %d: %w", qid, err)
		}
		if inserted == 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, bumpCount, qid); err != nil {
			return fmt.Errorf("bump failed count %d: %w", qid, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}
	a.ID = id
	return nil
}

// ListAttemptsByUser returns the user's attempts, most recent first.
func (s *SQLStore) ListAttemptsByUser(ctx context.Context, userID int64) ([]attempt.Attempt, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT id, user_id, subject_code, topic_number, score, answers, answered_at
		FROM attempts
		WHERE user_id = ?
		ORDER BY answered_at DESC, id DESC`), userID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []attempt.Attempt
	for rows.Next() {
		var (
			a          attempt.Attempt
			topic      sql.NullInt64
			answers    string
			answeredAt int64
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.SubjectCode, &topic, &a.Score, &answers, &answeredAt); err != nil {
			return nil, fmt.Errorf("list attempts: %w", err)
		}
		a.TopicNumber = intFromNull(topic)
		a.AnsweredAt = time.UnixMilli(answeredAt).UTC()
		if err := json.Unmarshal([]byte(answers), &a.Answers); err != nil {
			return nil, fmt.Errorf("attempt %d answers: %w", a.ID, err)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

func (s *SQLStore) CountFailedQuestions(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		s.q("SELECT COUNT(*) FROM failed_questions WHERE user_id = ?"), userID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count failed questions: %w", err)
	}
	return n, nil
}
