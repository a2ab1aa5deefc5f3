package service

import (
	"context"

	"github.com/testsdaw/backend/internal/domain/attempt"
	"github.com/testsdaw/backend/internal/store"
)

const RankingSize = 100

type UserStats struct {
	Stats                []attempt.TopicStats
	TotalFailedQuestions int
}

// RankingEntry is one leaderboard row, positions starting at 1.
type RankingEntry struct {
	Position   int
	Name       string
	TotalTests int
}

// StatsService reads back persisted attempts for per-user statistics and
// the global leaderboard.
type StatsService struct {
	store store.Store
}

func NewStatsService(s store.Store) *StatsService {
	return &StatsService{store: s}
}

func (s *StatsService) Stats(ctx context.Context, userID int64) (*UserStats, error) {
	if userID <= 0 {
		return nil, ErrUnauthenticated
	}
	attempts, err := s.store.ListAttemptsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	failed, err := s.store.CountFailedQuestions(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserStats{
		Stats:                attempt.Summarize(attempts),
		TotalFailedQuestions: failed,
	}, nil
}

// Ranking returns the top users by number of attempts.
func (s *StatsService) Ranking(ctx context.Context, userID int64) ([]RankingEntry, error) {
	if userID <= 0 {
		return nil, ErrUnauthenticated
	}
	standings, err := s.store.Ranking(ctx, RankingSize)
	if err != nil {
		return nil, err
	}
	entries := make([]RankingEntry, len(standings))
	for i, st := range standings {
		entries[i] = RankingEntry{
			Position:   i + 1,
			Name:       st.Name,
			TotalTests: st.TotalTests,
		}
	}
	return entries, nil
}
