package leaderboardservice

import (
	"context"
	"sync"

	leaderboarddomain "github.com/satrf/scorekeeper/app/modules/leaderboard/domain"
	leaderboarddb "github.com/satrf/scorekeeper/app/modules/leaderboard/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// FakeRepository is a programmable fake for leaderboarddb.Repository.
type FakeRepository struct {
	mu      sync.Mutex
	trace   []string
	Queries []leaderboarddb.Query

	// Scores is filtered in memory when ApprovedScoresFunc is nil.
	Scores []leaderboarddomain.Score

	ApprovedScoresFunc func(ctx context.Context, db bun.IDB, q leaderboarddb.Query) ([]leaderboarddomain.Score, error)
}

func NewFakeRepository(scores ...leaderboarddomain.Score) *FakeRepository {
	return &FakeRepository{Scores: scores}
}

func (f *FakeRepository) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeRepository) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeRepository) ApprovedScores(ctx context.Context, db bun.IDB, q leaderboarddb.Query) ([]leaderboarddomain.Score, error) {
	f.record("ApprovedScores")
	f.mu.Lock()
	f.Queries = append(f.Queries, q)
	f.mu.Unlock()
	if f.ApprovedScoresFunc != nil {
		return f.ApprovedScoresFunc(ctx, db, q)
	}

	var out []leaderboarddomain.Score
	for _, s := range f.Scores {
		switch {
		case q.EventName != "" && s.EventName != q.EventName:
		case q.MatchNumber != "" && s.MatchNumber != q.MatchNumber:
		case q.Class != "" && s.Class != q.Class:
		case q.VeteranOnly && !s.Veteran:
		case q.ShooterKey != "" && leaderboarddomain.CompetitorKey(s.ShooterName) != q.ShooterKey:
		case !q.Since.IsZero() && s.CreatedAt.Before(q.Since):
		default:
			out = append(out, s)
		}
	}
	return out, nil
}

var _ leaderboarddb.Repository = (*FakeRepository)(nil)
