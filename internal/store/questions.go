package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/testsdaw/backend/internal/domain/question"
)

// ============================================================================
// Questions
// ============================================================================

const questionColumns = `id, subject_code, subject_name, topic_number, topic_title,
	text, options, correct_answer, explanation, failed_count`

// filterClause renders the WHERE clause shared by ListQuestions and
// CountQuestions.
func filterClause(f question.Filter) (string, []any) {
	where := "subject_code = ?"
	args := []any{f.SubjectCode}

	switch f.Mode {
	case question.ModeByTopic:
		if f.TopicNumber != nil {
			where += " AND topic_number = ?"
			args = append(args, *f.TopicNumber)
		}
	case question.ModeFailedOnly:
		where += " AND id IN (SELECT question_id FROM failed_questions WHERE user_id = ?)"
		args = append(args, f.UserID)
	}
	return where, args
}

// ListQuestions returns every question matching f, ordered by id.
func (s *SQLStore) ListQuestions(ctx context.Context, f question.Filter) ([]question.Question, error) {
	where, args := filterClause(f)
	rows, err := s.db.QueryContext(ctx,
		s.q("SELECT "+questionColumns+" FROM questions WHERE "+where+" ORDER BY id"), args...)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return scanQuestions(rows)
}

func (s *SQLStore) CountQuestions(ctx context.Context, f question.Filter) (int, error) {
	where, args := filterClause(f)
	var n int
	if err := s.db.QueryRowContext(ctx,
		s.q("SELECT COUNT(*) FROM questions WHERE "+where), args...,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

// GetQuestionsByIDs fetches the given questions in one query. Unknown ids
// are simply absent from the result.
func (s *SQLStore) GetQuestionsByIDs(ctx context.Context, ids []int64) ([]question.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx,
		s.q("SELECT "+questionColumns+" FROM questions WHERE id IN ("+placeholders(len(ids))+")"), args...)
	if err != nil {
		return nil, fmt.Errorf("get questions: %w", err)
	}
	return scanQuestions(rows)
}

// ReplaceQuestions swaps the whole catalog for qs in one transaction and
// returns the number of questions inserted. Failed marks on removed
// questions are dropped with them.
func (s *SQLStore) ReplaceQuestions(ctx context.Context, qs []question.Question) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("replace questions: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM failed_questions"); err != nil {
		return 0, fmt.Errorf("replace questions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM questions"); err != nil {
		return 0, fmt.Errorf("replace questions: %w", err)
	}

	insert := s.q(`INSERT INTO questions
		(subject_code, subject_name, topic_number, topic_title, text, options, correct_answer, explanation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	for _, q := range qs {
		options, err := json.Marshal(q.Options)
		if err != nil {
			return 0, fmt.Errorf("replace questions: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insert,
			q.SubjectCode, q.SubjectName, nullableInt(q.TopicNumber), q.TopicTitle,
			q.Text, string(options), q.CorrectAnswer, q.Explanation,
		); err != nil {
			return 0, fmt.Errorf("replace questions: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("replace questions: %w", err)
	}
	return len(qs), nil
}

// ListSubjects summarises the catalog by subject, ordered by code.
func (s *SQLStore) ListSubjects(ctx context.Context) ([]question.Subject, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT subject_code, subject_name, COUNT(*)
		FROM questions
		GROUP BY subject_code, subject_name
		ORDER BY subject_code`)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []question.Subject
	for rows.Next() {
		var sub question.Subject
		if err := rows.Scan(&sub.Code, &sub.Name, &sub.QuestionCount); err != nil {
			return nil, fmt.Errorf("list subjects: %w", err)
		}
		subjects = append(subjects, sub)
	}
	return subjects, rows.Err()
}

// ListTopics summarises one subject by topic, ordered by topic number with
// module-wide questions first.
func (s *SQLStore) ListTopics(ctx context.Context, subjectCode string) ([]question.Topic, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT topic_number, topic_title, COUNT(*)
		FROM questions
		WHERE subject_code = ?
		GROUP BY topic_number, topic_title
		ORDER BY CASE WHEN topic_number IS NULL THEN 0 ELSE 1 END, topic_number`), subjectCode)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()

	var topics []question.Topic
	for rows.Next() {
		var (
			t      question.Topic
			number sql.NullInt64
		)
		if err := rows.Scan(&number, &t.Title, &t.QuestionCount); err != nil {
			return nil, fmt.Errorf("list topics: %w", err)
		}
		t.Number = intFromNull(number)
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

func scanQuestions(rows *sql.Rows) ([]question.Question, error) {
	defer rows.Close()

	var questions []question.Question
	for rows.Next() {
		var (
			q       question.Question
			topic   sql.NullInt64
			options string
		)
		if err := rows.Scan(
			&q.ID, &q.SubjectCode, &q.SubjectName, &topic, &q.TopicTitle,
			&q.Text, &options, &q.CorrectAnswer, &q.Explanation, &q.FailedCount,
		); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.TopicNumber = intFromNull(topic)
		if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
			return nil, fmt.Errorf("question %d options: %w", q.ID, err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
