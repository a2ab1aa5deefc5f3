package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/testsdaw/backend/internal/domain/attempt"
	"github.com/testsdaw/backend/internal/domain/question"
	"github.com/testsdaw/backend/internal/event"
	"github.com/testsdaw/backend/internal/grader"
	"github.com/testsdaw/backend/internal/metrics"
	"github.com/testsdaw/backend/internal/store"
)

const MaxAnswers = 100

// SubmitRequest is one attempt submission.
type SubmitRequest struct {
	UserID      int64
	SubjectCode string
	TopicNumber *int
	Answers     []attempt.Answer
}

// SubmitResult is returned to the client after scoring. It is the only
// place correct answers are handed out.
type SubmitResult struct {
	AttemptID int64
	Score     int
	Correct   int
	Total     int
	Results   []attempt.QuestionResult
}

// ScoringService grades submissions against the stored answer keys and
// records attempts and failed questions.
type ScoringService struct {
	store     store.Store
	grader    grader.Grader
	publisher event.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewScoringService(s store.Store, g grader.Grader, p event.Publisher, logger *slog.Logger) *ScoringService {
	return &ScoringService{
		store:     s,
		grader:    g,
		publisher: p,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock replaces the time source used for answeredAt.
func (s *ScoringService) WithClock(now func() time.Time) *ScoringService {
	s.now = now
	return s
}

// Submit scores req and persists the attempt together with the failed
// marks. Nothing is written if any answer references an unknown question.
func (s *ScoringService) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	if req.UserID <= 0 {
		return nil, ErrUnauthenticated
	}
	subject := question.NormalizeSubject(req.SubjectCode)
	if subject == "" || len(req.Answers) == 0 || len(req.Answers) > MaxAnswers {
		return nil, ErrInvalidSubmission
	}

	ids := make([]int64, 0, len(req.Answers))
	seen := make(map[int64]bool, len(req.Answers))
	for _, a := range req.Answers {
		if a.QuestionID <= 0 || a.UserAnswer == "" {
			return nil, ErrInvalidSubmission
		}
		if !seen[a.QuestionID] {
			seen[a.QuestionID] = true
			ids = append(ids, a.QuestionID)
		}
	}

	qs, err := s.store.GetQuestionsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]question.Question, len(qs))
	for _, q := range qs {
		byID[q.ID] = q
	}

	results := make([]attempt.QuestionResult, len(req.Answers))
	for i, a := range req.Answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			s.logger.Warn("submission references unknown question",
				"user_id", req.UserID, "subject", subject, "question_id", a.QuestionID)
			metrics.UnknownQuestions.Inc()
			return nil, &UnknownQuestionError{QuestionID: a.QuestionID}
		}
		results[i] = attempt.QuestionResult{
			QuestionID:    q.ID,
			UserAnswer:    a.UserAnswer,
			CorrectAnswer: q.CorrectAnswer,
			Correct:       s.grader.Grade(a.UserAnswer, q.CorrectAnswer),
			Explanation:   q.Explanation,
		}
	}

	var topic *int
	if req.TopicNumber != nil {
		n := *req.TopicNumber
		topic = &n
	}
	a := attempt.New(req.UserID, subject, topic, results, s.now().UTC())
	if err := s.store.SaveAttempt(ctx, a); err != nil {
		return nil, fmt.Errorf("submit attempt: %w", err)
	}

	metrics.AttemptsScored.WithLabelValues(subject).Inc()
	metrics.AttemptScores.Observe(float64(a.Score))
	s.publish(ctx, a)

	return &SubmitResult{
		AttemptID: a.ID,
		Score:     a.Score,
		Correct:   a.Correct(),
		Total:     a.Total(),
		Results:   a.Answers,
	}, nil
}

// publish announces a committed attempt. Failures are logged only.
func (s *ScoringService) publish(ctx context.Context, a *attempt.Attempt) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishAttemptSubmitted(ctx, event.AttemptSubmitted{
		AttemptID:         a.ID,
		UserID:            a.UserID,
		SubjectCode:       a.SubjectCode,
		TopicNumber:       a.TopicNumber,
		Score:             a.Score,
		Correct:           a.Correct(),
		Total:             a.Total(),
		FailedQuestionIDs: a.FailedQuestionIDs(),
		AnsweredAt:        a.AnsweredAt,
	})
	if err != nil {
		s.logger.Error("failed to publish attempt event", "attempt_id", a.ID, "error", err)
	}
}
