package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/testsdaw/backend/internal/domain/attempt"
	"github.com/testsdaw/backend/internal/domain/question"
	"github.com/testsdaw/backend/internal/domain/user"
	"github.com/testsdaw/backend/internal/event"
	"github.com/testsdaw/backend/internal/grader"
	"github.com/testsdaw/backend/internal/service"
	"github.com/testsdaw/backend/internal/store"
)

func intPtr(n int) *int { return &n }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *store.SQLStore {
	t.Helper()
	s, err := store.Open(context.Background(), store.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createUser(t *testing.T, s store.Store, email, name string) int64 {
	t.Helper()
	u := &user.User{Email: email, PasswordHash: "hash", Name: name}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u.ID
}

// seedDWEC loads n DWEC questions split over topics 1 and 2 plus one DWES
// question, and returns the DWEC ones ordered by id. Question i has
// correct answer "A" when i is even and "C" otherwise.
func seedDWEC(t *testing.T, s store.Store, n int) []question.Question {
	t.Helper()
	var qs []question.Question
	for i := 0; i < n; i++ {
		correct := "A"
		if i%2 == 1 {
			correct = "C"
		}
		qs = append(qs, question.Question{
			SubjectCode:   "DWEC",
			SubjectName:   "Desarrollo web en entorno cliente",
			TopicNumber:   intPtr(i%2 + 1),
			TopicTitle:    fmt.Sprintf("Tema %d", i%2+1),
			Text:          fmt.Sprintf("question %d", i),
			Options:       []string{"A", "B", "C"},
			CorrectAnswer: correct,
			Explanation:   fmt.Sprintf("because %d", i),
		})
	}
	qs = append(qs, question.Question{
		SubjectCode:   "DWES",
		SubjectName:   "Desarrollo web en entorno servidor",
		TopicNumber:   intPtr(1),
		TopicTitle:    "Tema 1",
		Text:          "server question",
		Options:       []string{"A", "B"},
		CorrectAnswer: "B",
	})
	if _, err := s.ReplaceQuestions(context.Background(), qs); err != nil {
		t.Fatalf("seed questions: %v", err)
	}
	out, err := s.ListQuestions(context.Background(), question.Filter{SubjectCode: "DWEC", Mode: question.ModeFullModule})
	if err != nil {
		t.Fatalf("list questions: %v", err)
	}
	return out
}

type recordingPublisher struct {
	events []event.AttemptSubmitted
	err    error
}

func (p *recordingPublisher) PublishAttemptSubmitted(_ context.Context, e event.AttemptSubmitted) error {
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

// failingStore fails every attempt write.
type failingStore struct {
	store.Store
}

func (failingStore) SaveAttempt(context.Context, *attempt.Attempt) error {
	return errors.New("disk full")
}

func newScoring(s store.Store, p event.Publisher) *service.ScoringService {
	return service.NewScoringService(s, grader.ExactMatch{}, p, discardLogger())
}

// ── Selection ───────────────────────────────────────────────────────────────

func TestSelect_FullModuleReturnsAllWhenFewerThanLimit(t *testing.T) {
	s := newTestStore(t)
	seedDWEC(t, s, 7)
	uid := createUser(t, s, "ana@example.com", "Ana")

	sel := service.NewSelectionService(s, rand.New(rand.NewPCG(1, 2)))
	got, err := sel.Select(context.Background(), service.SelectRequest{
		UserID:      uid,
		SubjectCode: "dwec",
		Mode:        question.ModeFullModule,
		Limit:       10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 7 {
		t.Fatalf("expected 7 questions, got %d", len(got))
	}
	for _, q := range got {
		if q.SubjectCode != "DWEC" {
			t.Errorf("expected subject DWEC, got %q", q.SubjectCode)
		}
	}
}

func TestSelect_TruncatesToLimit(t *testing.T) {
	s := newTestStore(t)
	seedDWEC(t, s, 30)
	uid := createUser(t, s, "ana@example.com", "Ana")

	sel := service.NewSelectionService(s, nil)
	got, err := sel.Select(context.Background(), service.SelectRequest{
		UserID: uid, SubjectCode: "DWEC", Mode: question.ModeFullModule, Limit: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("expected 5 questions, got %d", len(got))
	}

	// Limit 0 falls back to the default.
	got, err = sel.Select(context.Background(), service.SelectRequest{
		UserID: uid, SubjectCode: "DWEC",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != service.DefaultLimit {
		t.Errorf("expected %d questions, got %d", service.DefaultLimit, len(got))
	}
}

func TestSelect_ByTopic(t *testing.T) {
	s := newTestStore(t)
	seedDWEC(t, s, 6)
	uid := createUser(t, s, "ana@example.com", "Ana")

	sel := service.NewSelectionService(s, nil)
	got, err := sel.Select(context.Background(), service.SelectRequest{
		UserID: uid, SubjectCode: "DWEC", TopicNumber: intPtr(2), Mode: question.ModeByTopic, Limit: 20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(got))
	}
	for _, q := range got {
		if q.TopicNumber == nil || *q.TopicNumber != 2 {
			t.Errorf("expected topic 2, got %v", q.TopicNumber)
		}
	}
}

func TestSelect_ByTopicWithoutTopic(t *testing.T) {
	s := newTestStore(t)
	uid := createUser(t, s, "ana@example.com", "Ana")

	sel := service.NewSelectionService(s, nil)
	_, err := sel.Select(context.Background(), service.SelectRequest{
		UserID: uid, SubjectCode: "DWEC", Mode: question.ModeByTopic,
	})
	if !errors.Is(err, service.ErrInvalidFilter) {
		t.Errorf("expected ErrInvalidFilter, got %v", err)
	}

	_, err = sel.Count(context.Background(), service.SelectRequest{
		UserID: uid, SubjectCode: "DWEC", Mode: question.ModeByTopic,
	})
	if !errors.Is(err, service.ErrInvalidFilter) {
		t.Errorf("expected ErrInvalidFilter from Count, got %v", err)
	}
}

func TestSelect_RequiresUser(t *testing.T) {
	sel := service.NewSelectionService(newTestStore(t), nil)
	_, err := sel.Select(context.Background(), service.SelectRequest{SubjectCode: "DWEC"})
	if !errors.Is(err, service.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestSelect_FailedOnly(t *testing.T) {
	s := newTestStore(t)
	qs := seedDWEC(t, s, 4)
	ana := createUser(t, s, "ana@example.com", "Ana")
	luis := createUser(t, s, "luis@example.com", "Luis")

	_, err := newScoring(s, nil).Submit(context.Background(), service.SubmitRequest{
		UserID:      ana,
		SubjectCode: "DWEC",
		Answers: []attempt.Answer{
			{QuestionID: qs[0].ID, UserAnswer: "B"},
			{QuestionID: qs[1].ID, UserAnswer: "C"},
			{QuestionID: qs[2].ID, UserAnswer: "C"},
		},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	sel := service.NewSelectionService(s, nil)
	got, err := sel.Select(context.Background(), service.SelectRequest{
		UserID: ana, SubjectCode: "DWEC", TopicNumber: intPtr(1), Mode: question.ModeFailedOnly, Limit: 20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids := map[int64]bool{}
	for _, q := range got {
		ids[q.ID] = true
	}
	if len(ids) != 2 || !ids[qs[0].ID] || !ids[qs[2].ID] {
		t.Errorf("expected failed questions %d and %d, got %v", qs[0].ID, qs[2].ID, ids)
	}

	count, err := sel.Count(context.Background(), service.SelectRequest{
		UserID: luis, SubjectCode: "DWEC", Mode: question.ModeFailedOnly,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count.Count != 0 {
		t.Errorf("expected no failed questions for another user, got %d", count.Count)
	}
}

func TestCount(t *testing.T) {
	s := newTestStore(t)
	seedDWEC(t, s, 7)
	uid := createUser(t, s, "ana@example.com", "Ana")
	sel := service.NewSelectionService(s, nil)

	tests := []struct {
		name      string
		req       service.SelectRequest
		wantCount int
		wantType  string
		wantTopic *int
	}{
		{
			name:      "no type counts the whole subject",
			req:       service.SelectRequest{SubjectCode: "dwec"},
			wantCount: 7,
			wantType:  "all",
		},
		{
			name:      "final ignores topic",
			req:       service.SelectRequest{SubjectCode: "DWEC", TopicNumber: intPtr(1), Mode: question.ModeFullModule},
			wantCount: 7,
			wantType:  "final",
		},
		{
			name:      "by topic",
			req:       service.SelectRequest{SubjectCode: "DWEC", TopicNumber: intPtr(1), Mode: question.ModeByTopic},
			wantCount: 4,
			wantType:  "tema",
			wantTopic: intPtr(1),
		},
		{
			name:      "unknown subject",
			req:       service.SelectRequest{SubjectCode: "XYZ"},
			wantCount: 0,
			wantType:  "all",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.UserID = uid
			got, err := sel.Count(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Count != tt.wantCount {
				t.Errorf("count: expected %d, got %d", tt.wantCount, got.Count)
			}
			if got.Type != tt.wantType {
				t.Errorf("type: expected %q, got %q", tt.wantType, got.Type)
			}
			if got.SubjectCode != question.NormalizeSubject(tt.req.SubjectCode) {
				t.Errorf("subject: expected normalized code, got %q", got.SubjectCode)
			}
			if (got.TopicNumber == nil) != (tt.wantTopic == nil) ||
				(got.TopicNumber != nil && *got.TopicNumber != *tt.wantTopic) {
				t.Errorf("topic: expected %v, got %v", tt.wantTopic, got.TopicNumber)
			}
		})
	}
}

// ── Scoring ─────────────────────────────────────────────────────────────────

func TestSubmit_ScoresAndMarksFailures(t *testing.T) {
	s := newTestStore(t)
	qs := seedDWEC(t, s, 2) // q0 correct "A", q1 correct "C"
	uid := createUser(t, s, "ana@example.com", "Ana")
	pub := &recordingPublisher{}

	res, err := newScoring(s, pub).Submit(context.Background(), service.SubmitRequest{
		UserID:      uid,
		SubjectCode: "dwec",
		TopicNumber: intPtr(1),
		Answers: []attempt.Answer{
			{QuestionID: qs[0].ID, UserAnswer: "A"},
			{QuestionID: qs[1].ID, UserAnswer: "B"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 50 || res.Correct != 1 || res.Total != 2 {
		t.Errorf("expected 50/1/2, got %d/%d/%d", res.Score, res.Correct, res.Total)
	}
	if res.AttemptID == 0 {
		t.Error("expected attempt id to be set")
	}

	want := []attempt.QuestionResult{
		{QuestionID: qs[0].ID, UserAnswer: "A", CorrectAnswer: "A", Correct: true, Explanation: qs[0].Explanation},
		{QuestionID: qs[1].ID, UserAnswer: "B", CorrectAnswer: "C", Correct: false, Explanation: qs[1].Explanation},
	}
	if len(res.Results) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(res.Results))
	}
	for i := range want {
		if res.Results[i] != want[i] {
			t.Errorf("result %d: expected %+v, got %+v", i, want[i], res.Results[i])
		}
	}

	failed, err := s.CountFailedQuestions(context.Background(), uid)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if failed != 1 {
		t.Errorf("expected 1 failed mark, got %d", failed)
	}

	sel := service.NewSelectionService(s, nil)
	got, err := sel.Select(context.Background(), service.SelectRequest{
		UserID: uid, SubjectCode: "DWEC", Mode: question.ModeFailedOnly,
	})
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != qs[1].ID {
		t.Errorf("expected only question %d to be marked failed, got %+v", qs[1].ID, got)
	}

	if len(pub.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.events))
	}
	e := pub.events[0]
	if e.AttemptID != res.AttemptID || e.SubjectCode != "DWEC" || e.Score != 50 ||
		len(e.FailedQuestionIDs) != 1 || e.FailedQuestionIDs[0] != qs[1].ID {
		t.Errorf("unexpected event: %+v", e)
	}
}

func TestSubmit_RoundsHalfUp(t *testing.T) {
	s := newTestStore(t)
	qs := seedDWEC(t, s, 20)
	uid := createUser(t, s, "ana@example.com", "Ana")

	answers := make([]attempt.Answer, len(qs))
	for i, q := range qs {
		answers[i] = attempt.Answer{QuestionID: q.ID, UserAnswer: q.CorrectAnswer}
	}
	for i := 0; i < 3; i++ {
		answers[i].UserAnswer = "B"
	}

	res, err := newScoring(s, nil).Submit(context.Background(), service.SubmitRequest{
		UserID: uid, SubjectCode: "DWEC", Answers: answers,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 85 {
		t.Errorf("expected 17/20 to score 85, got %d", res.Score)
	}
}

func TestSubmit_TrimsButKeepsCase(t *testing.T) {
	s := newTestStore(t)
	qs := seedDWEC(t, s, 2)
	uid := createUser(t, s, "ana@example.com", "Ana")

	res, err := newScoring(s, nil).Submit(context.Background(), service.SubmitRequest{
		UserID:      uid,
		SubjectCode: "DWEC",
		Answers: []attempt.Answer{
			{QuestionID: qs[0].ID, UserAnswer: "  A \n"},
			{QuestionID: qs[1].ID, UserAnswer: "c"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Results[0].Correct || res.Results[1].Correct {
		t.Errorf("expected [true false], got [%v %v]", res.Results[0].Correct, res.Results[1].Correct)
	}
}

func TestSubmit_UnknownQuestionPersistsNothing(t *testing.T) {
	s := newTestStore(t)
	qs := seedDWEC(t, s, 2)
	uid := createUser(t, s, "ana@example.com", "Ana")
	pub := &recordingPublisher{}

	_, err := newScoring(s, pub).Submit(context.Background(), service.SubmitRequest{
		UserID:      uid,
		SubjectCode: "DWEC",
		Answers: []attempt.Answer{
			{QuestionID: qs[0].ID, UserAnswer: "B"},
			{QuestionID: 9999, UserAnswer: "A"},
		},
	})
	if !errors.Is(err, service.ErrUnknownQuestion) {
		t.Fatalf("expected ErrUnknownQuestion, got %v", err)
	}
	var uqe *service.UnknownQuestionError
	if !errors.As(err, &uqe) || uqe.QuestionID != 9999 {
		t.Errorf("expected UnknownQuestionError for 9999, got %v", err)
	}

	attempts, err := s.ListAttemptsByUser(context.Background(), uid)
	if err != nil {
		t.Fatalf("list attempts: %v", err)
	}
	if len(attempts) != 0 {
		t.Errorf("expected no attempts, got %d", len(attempts))
	}
	failed, err := s.CountFailedQuestions(context.Background(), uid)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if failed != 0 {
		t.Errorf("expected no failed marks, got %d", failed)
	}
	if len(pub.events) != 0 {
		t.Errorf("expected no events, got %d", len(pub.events))
	}
}

func TestSubmit_RepeatedFailureMarkedOnce(t *testing.T) {
	s := newTestStore(t)
	qs := seedDWEC(t, s, 1)
	ana := createUser(t, s, "ana@example.com", "Ana")
	luis := createUser(t, s, "luis@example.com", "Luis")
	scoring := newScoring(s, nil)

	submit := func(uid int64) {
		t.Helper()
		_, err := scoring.Submit(context.Background(), service.SubmitRequest{
			UserID:      uid,
			SubjectCode: "DWEC",
			Answers:     []attempt.Answer{{QuestionID: qs[0].ID, UserAnswer: "B"}},
		})
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	submit(ana)
	submit(ana)
	submit(luis)

	for _, uid := range []int64{ana, luis} {
		n, err := s.CountFailedQuestions(context.Background(), uid)
		if err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if n != 1 {
			t.Errorf("user %d: expected 1 failed mark, got %d", uid, n)
		}
	}

	got, err := s.GetQuestionsByIDs(context.Background(), []int64{qs[0].ID})
	if err != nil {
		t.Fatalf("get question: %v", err)
	}
	if got[0].FailedCount != 2 {
		t.Errorf("expected failed count 2 (distinct users), got %d", got[0].FailedCount)
	}

	attempts, err := s.ListAttemptsByUser(context.Background(), ana)
	if err != nil {
		t.Fatalf("list attempts: %v", err)
	}
	if len(attempts) != 2 {
		t.Errorf("expected double submission to store 2 attempts, got %d", len(attempts))
	}
}

func TestSubmit_ConcurrentFailuresMarkedOnce(t *testing.T) {
	s := newTestStore(t)
	qs := seedDWEC(t, s, 1)
	uid := createUser(t, s, "ana@example.com", "Ana")
	scoring := newScoring(s, nil)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := scoring.Submit(context.Background(), service.SubmitRequest{
				UserID:      uid,
				SubjectCode: "DWEC",
				Answers: []attempt.Answer{
					{QuestionID: qs[0].ID, UserAnswer: "B"},
					{QuestionID: qs[0].ID, UserAnswer: "B"},
				},
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent submit: %v", err)
		}
	}

	marks, err := s.CountFailedQuestions(context.Background(), uid)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if marks != 1 {
		t.Errorf("expected 1 failed mark, got %d", marks)
	}

	got, err := s.GetQuestionsByIDs(context.Background(), []int64{qs[0].ID})
	if err != nil {
		t.Fatalf("get question: %v", err)
	}
	if got[0].FailedCount != 1 {
		t.Errorf("expected failed count 1, got %d", got[0].FailedCount)
	}

	attempts, err := s.ListAttemptsByUser(context.Background(), uid)
	if err != nil {
		t.Fatalf("list attempts: %v", err)
	}
	if len(attempts) != n {
		t.Errorf("expected %d attempts, got %d", n, len(attempts))
	}
}

func TestSubmit_RejectsMalformed(t *testing.T) {
	s := newTestStore(t)
	qs := seedDWEC(t, s, 1)
	uid := createUser(t, s, "ana@example.com", "Ana")
	scoring := newScoring(s, nil)

	tooMany := make([]attempt.Answer, service.MaxAnswers+1)
	for i := range tooMany {
		tooMany[i] = attempt.Answer{QuestionID: qs[0].ID, UserAnswer: "A"}
	}

	tests := []struct {
		name string
		req  service.SubmitRequest
		want error
	}{
		{"no user", service.SubmitRequest{SubjectCode: "DWEC", Answers: tooMany[:1]}, service.ErrUnauthenticated},
		{"no answers", service.SubmitRequest{UserID: uid, SubjectCode: "DWEC"}, service.ErrInvalidSubmission},
		{"too many answers", service.SubmitRequest{UserID: uid, SubjectCode: "DWEC", Answers: tooMany}, service.ErrInvalidSubmission},
		{"empty subject", service.SubmitRequest{UserID: uid, SubjectCode: " ", Answers: tooMany[:1]}, service.ErrInvalidSubmission},
		{"zero question id", service.SubmitRequest{UserID: uid, SubjectCode: "DWEC", Answers: []attempt.Answer{{UserAnswer: "A"}}}, service.ErrInvalidSubmission},
		{"empty user answer", service.SubmitRequest{UserID: uid, SubjectCode: "DWEC", Answers: []attempt.Answer{{QuestionID: qs[0].ID}}}, service.ErrInvalidSubmission},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := scoring.Submit(context.Background(), tt.req); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	attempts, err := s.ListAttemptsByUser(context.Background(), uid)
	if err != nil {
		t.Fatalf("list attempts: %v", err)
	}
	if len(attempts) != 0 {
		t.Errorf("expected malformed submissions to store nothing, got %d attempts", len(attempts))
	}
}

func TestSubmit_StoreFailure(t *testing.T) {
	s := newTestStore(t)
	qs := seedDWEC(t, s, 1)
	uid := createUser(t, s, "ana@example.com", "Ana")
	pub := &recordingPublisher{}

	_, err := newScoring(failingStore{Store: s}, pub).Submit(context.Background(), service.SubmitRequest{
		UserID:      uid,
		SubjectCode: "DWEC",
		Answers:     []attempt.Answer{{QuestionID: qs[0].ID, UserAnswer: "A"}},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, service.ErrUnknownQuestion) || errors.Is(err, service.ErrInvalidSubmission) {
		t.Errorf("expected a plain store failure, got %v", err)
	}
	if len(pub.events) != 0 {
		t.Errorf("expected no events after a failed write, got %d", len(pub.events))
	}
}

func TestSubmit_PublishFailureDoesNotFailSubmission(t *testing.T) {
	s := newTestStore(t)
	qs := seedDWEC(t, s, 1)
	uid := createUser(t, s, "ana@example.com", "Ana")
	pub := &recordingPublisher{err: errors.New("broker down")}

	res, err := newScoring(s, pub).Submit(context.Background(), service.SubmitRequest{
		UserID:      uid,
		SubjectCode: "DWEC",
		Answers:     []attempt.Answer{{QuestionID: qs[0].ID, UserAnswer: "A"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 100 {
		t.Errorf("expected score 100, got %d", res.Score)
	}
}

// ── Stats & ranking ─────────────────────────────────────────────────────────

func TestStats_GroupsFinalSeparately(t *testing.T) {
	s := newTestStore(t)
	uid := createUser(t, s, "ana@example.com", "Ana")
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, a := range []struct {
		topic *int
		score int
	}{
		{intPtr(1), 80},
		{intPtr(1), 90},
		{nil, 70},
	} {
		err := s.SaveAttempt(context.Background(), &attempt.Attempt{
			UserID:      uid,
			SubjectCode: "DWEC",
			TopicNumber: a.topic,
			Score:       a.score,
			AnsweredAt:  base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("save attempt: %v", err)
		}
	}

	got, err := service.NewStatsService(s).Stats(context.Background(), uid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Stats) != 2 {
		t.Fatalf("expected 2 groups, got %+v", got.Stats)
	}

	byTopic := map[string]attempt.TopicStats{}
	for _, st := range got.Stats {
		key := "final"
		if st.TopicNumber != nil {
			key = fmt.Sprint(*st.TopicNumber)
		}
		byTopic[key] = st
	}
	if st := byTopic["1"]; st.TotalAttempts != 2 || st.AvgScore != 85 {
		t.Errorf("topic 1: expected 2 attempts avg 85, got %+v", st)
	}
	if st := byTopic["final"]; st.TotalAttempts != 1 || st.AvgScore != 70 {
		t.Errorf("final: expected 1 attempt avg 70, got %+v", st)
	}
	if got.TotalFailedQuestions != 0 {
		t.Errorf("expected 0 failed questions, got %d", got.TotalFailedQuestions)
	}
}

func TestStats_Empty(t *testing.T) {
	s := newTestStore(t)
	uid := createUser(t, s, "ana@example.com", "Ana")

	got, err := service.NewStatsService(s).Stats(context.Background(), uid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Stats) != 0 || got.TotalFailedQuestions != 0 {
		t.Errorf("expected empty stats, got %+v", got)
	}

	if _, err := service.NewStatsService(s).Stats(context.Background(), 0); !errors.Is(err, service.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestRanking_Positions(t *testing.T) {
	s := newTestStore(t)
	qs := seedDWEC(t, s, 1)
	ana := createUser(t, s, "ana@example.com", "Ana")
	luis := createUser(t, s, "luis@example.com", "Luis")
	createUser(t, s, "eva@example.com", "Eva")
	scoring := newScoring(s, nil)

	for _, uid := range []int64{luis, luis, ana} {
		_, err := scoring.Submit(context.Background(), service.SubmitRequest{
			UserID:      uid,
			SubjectCode: "DWEC",
			Answers:     []attempt.Answer{{QuestionID: qs[0].ID, UserAnswer: "A"}},
		})
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	got, err := service.NewStatsService(s).Ranking(context.Background(), ana)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []service.RankingEntry{
		{Position: 1, Name: "Luis", TotalTests: 2},
		{Position: 2, Name: "Ana", TotalTests: 1},
		{Position: 3, Name: "Eva", TotalTests: 0},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %+v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

// ── Catalog & accounts ──────────────────────────────────────────────────────

func TestCatalog(t *testing.T) {
	s := newTestStore(t)
	seedDWEC(t, s, 5)
	c := service.NewCatalogService(s)

	subjects, err := c.Subjects(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(subjects) != 2 || subjects[0].Code != "DWEC" || subjects[0].QuestionCount != 5 {
		t.Errorf("unexpected subjects: %+v", subjects)
	}

	topics, err := c.Topics(context.Background(), "dwec")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(topics) != 2 || *topics[0].Number != 1 || topics[0].QuestionCount != 3 || topics[1].QuestionCount != 2 {
		t.Errorf("unexpected topics: %+v", topics)
	}

	if _, err := c.Topics(context.Background(), ""); !errors.Is(err, service.ErrInvalidFilter) {
		t.Errorf("expected ErrInvalidFilter, got %v", err)
	}
}

type staticIssuer struct{}

func (staticIssuer) Issue(userID int64) (string, error) {
	return fmt.Sprintf("token-%d", userID), nil
}

func TestAccounts_RegisterAndLogin(t *testing.T) {
	s := newTestStore(t)
	accounts := service.NewAccountService(s, staticIssuer{})

	u, err := accounts.Register(context.Background(), " Ana@Example.com ", "secret1", "Ana")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.ID == 0 || u.Email != "ana@example.com" {
		t.Errorf("unexpected user: %+v", u)
	}
	if u.PasswordHash == "secret1" {
		t.Error("password stored in clear")
	}

	if _, err := accounts.Register(context.Background(), "ana@example.com", "another", "Ana 2"); !errors.Is(err, store.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}

	got, token, err := accounts.Login(context.Background(), "ANA@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != u.ID || token != fmt.Sprintf("token-%d", u.ID) {
		t.Errorf("unexpected login result: %+v %q", got, token)
	}

	if _, _, err := accounts.Login(context.Background(), "ana@example.com", "wrong"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := accounts.Login(context.Background(), "nobody@example.com", "secret1"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}
