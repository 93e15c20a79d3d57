package leaderboardhandlers

import (
	"context"

	leaderboardservice "github.com/satrf/scorekeeper/app/modules/leaderboard/application"
	leaderboarddomain "github.com/satrf/scorekeeper/app/modules/leaderboard/domain"
)

// FakeService is a programmable fake for leaderboardservice.Service.
type FakeService struct {
	OverallBoardFunc      func(ctx context.Context, f leaderboarddomain.Filters) (*leaderboarddomain.Board, error)
	ClubBoardFunc         func(ctx context.Context, f leaderboarddomain.Filters) (*leaderboarddomain.Board, error)
	MatchBoardFunc        func(ctx context.Context, q leaderboardservice.MatchQuery) (*leaderboarddomain.Board, error)
	ShooterStatisticsFunc func(ctx context.Context, name string) (*leaderboarddomain.Statistics, error)
	ShooterChartFunc      func(ctx context.Context, name string) ([]byte, error)

	Invalidated int
	Warmed      int
}

func (f *FakeService) OverallBoard(ctx context.Context, filters leaderboarddomain.Filters) (*leaderboarddomain.Board, error) {
	if f.OverallBoardFunc != nil {
		return f.OverallBoardFunc(ctx, filters)
	}
	return &leaderboarddomain.Board{Data: []leaderboarddomain.Entry{}}, nil
}

func (f *FakeService) ClubBoard(ctx context.Context, filters leaderboarddomain.Filters) (*leaderboarddomain.Board, error) {
	if f.ClubBoardFunc != nil {
		return f.ClubBoardFunc(ctx, filters)
	}
	return &leaderboarddomain.Board{Data: []leaderboarddomain.Entry{}}, nil
}

func (f *FakeService) MatchBoard(ctx context.Context, q leaderboardservice.MatchQuery) (*leaderboarddomain.Board, error) {
	if f.MatchBoardFunc != nil {
		return f.MatchBoardFunc(ctx, q)
	}
	return &leaderboarddomain.Board{Data: []leaderboarddomain.Entry{}}, nil
}

func (f *FakeService) ShooterStatistics(ctx context.Context, name string) (*leaderboarddomain.Statistics, error) {
	if f.ShooterStatisticsFunc != nil {
		return f.ShooterStatisticsFunc(ctx, name)
	}
	return nil, leaderboardservice.ErrShooterNotFound
}

func (f *FakeService) ShooterChart(ctx context.Context, name string) ([]byte, error) {
	if f.ShooterChartFunc != nil {
		return f.ShooterChartFunc(ctx, name)
	}
	return nil, leaderboardservice.ErrShooterNotFound
}

func (f *FakeService) Invalidate(context.Context) { f.Invalidated++ }

func (f *FakeService) Warm(context.Context) error {
	f.Warmed++
	return nil
}

var _ leaderboardservice.Service = (*FakeService)(nil)
