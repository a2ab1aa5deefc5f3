package service

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/testsdaw/backend/internal/domain/question"
	"github.com/testsdaw/backend/internal/metrics"
	"github.com/testsdaw/backend/internal/store"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// SelectRequest describes a question selection. Mode "" selects the whole
// subject.
type SelectRequest struct {
	UserID      int64
	SubjectCode string
	TopicNumber *int
	Mode        question.Mode
	Limit       int
}

// CountResult echoes the normalized filter alongside the count.
type CountResult struct {
	Count       int
	SubjectCode string
	TopicNumber *int
	Type        string
}

// SelectionService hands out randomized, answer-free question sets.
type SelectionService struct {
	store store.Store

	mu  sync.Mutex // guards rng; *rand.Rand is not safe for concurrent use
	rng *rand.Rand
}

// NewSelectionService creates a SelectionService. A nil rng is replaced by
// one seeded from the clock.
func NewSelectionService(s store.Store, rng *rand.Rand) *SelectionService {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return &SelectionService{store: s, rng: rng}
}

// Select returns up to req.Limit questions matching the filter in uniformly
// random order, without their correct answers.
func (s *SelectionService) Select(ctx context.Context, req SelectRequest) ([]question.PublicQuestion, error) {
	if req.UserID <= 0 {
		return nil, ErrUnauthenticated
	}
	f, err := question.NewFilter(req.SubjectCode, req.TopicNumber, req.Mode, req.UserID)
	if err != nil {
		return nil, err
	}

	qs, err := s.store.ListQuestions(ctx, f)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	picked := question.Pick(qs, clampLimit(req.Limit), s.rng)
	s.mu.Unlock()

	metrics.QuestionsServed.WithLabelValues(string(f.Mode)).Add(float64(len(picked)))
	return picked, nil
}

// Count applies the same filter as Select without shuffling or limiting.
func (s *SelectionService) Count(ctx context.Context, req SelectRequest) (CountResult, error) {
	if req.UserID <= 0 {
		return CountResult{}, ErrUnauthenticated
	}
	f, err := question.NewFilter(req.SubjectCode, req.TopicNumber, req.Mode, req.UserID)
	if err != nil {
		return CountResult{}, err
	}

	n, err := s.store.CountQuestions(ctx, f)
	if err != nil {
		return CountResult{}, err
	}

	typ := string(req.Mode)
	if typ == "" {
		typ = "all"
	}
	return CountResult{
		Count:       n,
		SubjectCode: f.SubjectCode,
		TopicNumber: f.TopicNumber,
		Type:        typ,
	}, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}
