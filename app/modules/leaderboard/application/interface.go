package leaderboardservice

import (
	"context"

	leaderboarddomain "github.com/satrf/scorekeeper/app/modules/leaderboard/domain"
)

// Service computes leaderboards from approved scores.
type Service interface {
	OverallBoard(ctx context.Context, f leaderboarddomain.Filters) (*leaderboarddomain.Board, error)
	ClubBoard(ctx context.Context, f leaderboarddomain.Filters) (*leaderboarddomain.Board, error)
	MatchBoard(ctx context.Context, q MatchQuery) (*leaderboarddomain.Board, error)
	ShooterStatistics(ctx context.Context, name string) (*leaderboarddomain.Statistics, error)
	ShooterChart(ctx context.Context, name string) ([]byte, error)

	// Invalidate drops every cached board.
	Invalidate(ctx context.Context)

	// Warm recomputes the unfiltered boards into the cache.
	Warm(ctx context.Context) error
}

// MatchQuery selects one match. Class is optional.
type MatchQuery struct {
	EventName   string
	MatchNumber string
	Class       string
	Page        int
	Limit       int
}

var _ Service = (*LeaderboardService)(nil)
