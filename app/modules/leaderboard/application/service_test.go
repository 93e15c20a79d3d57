package leaderboardservice

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	leaderboarddomain "github.com/satrf/scorekeeper/app/modules/leaderboard/domain"
	leaderboarddb "github.com/satrf/scorekeeper/app/modules/leaderboard/infrastructure/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func newTestService(repo *FakeRepository, ttl time.Duration) *LeaderboardService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewLeaderboardService(repo, Config{MinEvents: 1, MinClubMembers: 1, CacheTTL: ttl}, logger, nil, nil)
}

func allTime() leaderboarddomain.Filters {
	return leaderboarddomain.Filters{TimePeriod: leaderboarddomain.PeriodAll, Page: 1, Limit: 50}
}

func fixtureScores() []leaderboarddomain.Score {
	vet := approved("4", "Carl Botha", "Durban", "Prone C class", 570, 3)
	vet.Veteran = true
	return []leaderboarddomain.Score{
		approved("1", "Anna Smit", "Bloem", "Prone A class", 590, 0),
		approved("2", "Anna Smit", "Bloem", "Prone A class", 596, 2),
		approved("3", "Ben Venter", "Bloem", "Prone B class", 595, 1),
		vet,
	}
}

func TestLeaderboardService_OverallBoard(t *testing.T) {
	ctx := context.Background()

	t.Run("ranks and paginates", func(t *testing.T) {
		svc := newTestService(NewFakeRepository(fixtureScores()...), time.Minute)
		f := allTime()
		f.Limit = 2

		board, err := svc.OverallBoard(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, 3, board.Total)
		assert.Equal(t, 2, board.TotalPages)
		require.Len(t, board.Data, 2)
		assert.Equal(t, "Anna Smit", board.Data[0].UserName)
		assert.Equal(t, "all", board.Filters["time_period"])

		f.Page = 2
		board, err = svc.OverallBoard(ctx, f)
		require.NoError(t, err)
		require.Len(t, board.Data, 1)
		assert.Equal(t, 3, board.Data[0].Rank)
	})

	t.Run("second read is cached", func(t *testing.T) {
		repo := NewFakeRepository(fixtureScores()...)
		svc := newTestService(repo, time.Minute)

		_, err := svc.OverallBoard(ctx, allTime())
		require.NoError(t, err)
		_, err = svc.OverallBoard(ctx, allTime())
		require.NoError(t, err)
		assert.Equal(t, []string{"ApprovedScores"}, repo.Trace())

		svc.Invalidate(ctx)
		_, err = svc.OverallBoard(ctx, allTime())
		require.NoError(t, err)
		assert.Len(t, repo.Trace(), 2)
	})

	t.Run("filters reach the query", func(t *testing.T) {
		repo := NewFakeRepository(fixtureScores()...)
		svc := newTestService(repo, 0)

		f := allTime()
		f.Category = "veteran"
		board, err := svc.OverallBoard(ctx, f)
		require.NoError(t, err)
		require.Len(t, board.Data, 1)
		assert.Equal(t, "Carl Botha", board.Data[0].UserName)

		f = allTime()
		f.Category = "Prone B class"
		f.Discipline = "Prone Match 1"
		_, err = svc.OverallBoard(ctx, f)
		require.NoError(t, err)

		require.Len(t, repo.Queries, 2)
		assert.True(t, repo.Queries[0].VeteranOnly)
		assert.Empty(t, repo.Queries[0].Class)
		assert.Equal(t, leaderboarddb.Query{EventName: "Prone Match 1", Class: "Prone B class"}, repo.Queries[1])
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := NewFakeRepository()
		repo.ApprovedScoresFunc = func(context.Context, bun.IDB, leaderboarddb.Query) ([]leaderboarddomain.Score, error) {
			return nil, errors.New("db down")
		}
		svc := newTestService(repo, time.Minute)

		_, err := svc.OverallBoard(ctx, allTime())
		assert.ErrorContains(t, err, "db down")
	})

	t.Run("panic is recovered", func(t *testing.T) {
		repo := NewFakeRepository()
		repo.ApprovedScoresFunc = func(context.Context, bun.IDB, leaderboarddb.Query) ([]leaderboarddomain.Score, error) {
			panic("boom")
		}
		svc := newTestService(repo, time.Minute)

		_, err := svc.OverallBoard(ctx, allTime())
		assert.ErrorContains(t, err, "panic in OverallBoard")
	})
}

func TestLeaderboardService_ClubBoard(t *testing.T) {
	svc := newTestService(NewFakeRepository(fixtureScores()...), time.Minute)
	svc.cfg.MinClubMembers = 2

	board, err := svc.ClubBoard(context.Background(), allTime())
	require.NoError(t, err)
	require.Len(t, board.Data, 1)
	assert.Equal(t, "Bloem", board.Data[0].Club)
	assert.Equal(t, 2, board.Data[0].MemberCount)
}

func TestLeaderboardService_MatchBoard(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(NewFakeRepository(fixtureScores()...), time.Minute)

	board, err := svc.MatchBoard(ctx, MatchQuery{EventName: "Prone Match 1", MatchNumber: "1", Class: "Prone A class", Page: 1, Limit: 50})
	require.NoError(t, err)
	require.Len(t, board.Data, 2)
	assert.Equal(t, 596.0, board.Data[0].BestScore)
	assert.Equal(t, 1, board.Data[0].Rank)
	assert.Equal(t, "Prone A class", board.Filters["class"])

	_, err = svc.MatchBoard(ctx, MatchQuery{EventName: "Prone Match 1", Page: 1, Limit: 50})
	assert.True(t, errors.Is(err, ErrInvalidFilter))
}

func TestLeaderboardService_ShooterStatistics(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(NewFakeRepository(fixtureScores()...), time.Minute)

	stats, err := svc.ShooterStatistics(ctx, "anna  SMIT")
	require.NoError(t, err)
	assert.Equal(t, "Anna Smit", stats.ShooterName)
	assert.Equal(t, 2, stats.TotalScores)
	assert.Equal(t, 596.0, stats.BestScore)
	assert.Equal(t, 593.0, stats.AverageScore)
	assert.Equal(t, "Prone A class", stats.Category)
	require.NotNil(t, stats.CurrentRank)
	assert.Equal(t, 1, *stats.CurrentRank)
	require.NotNil(t, stats.CategoryRank)
	assert.Equal(t, 1, *stats.CategoryRank)
	require.NotNil(t, stats.ClubRank)
	assert.Equal(t, 1, *stats.ClubRank)

	_, err = svc.ShooterStatistics(ctx, "Nobody")
	assert.True(t, errors.Is(err, ErrShooterNotFound))

	_, err = svc.ShooterStatistics(ctx, "   ")
	assert.True(t, errors.Is(err, ErrShooterNotFound))
}

func TestLeaderboardService_ShooterChart(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(NewFakeRepository(fixtureScores()...), time.Minute)

	img, err := svc.ShooterChart(ctx, "Anna Smit")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngMagic))

	_, err = svc.ShooterChart(ctx, "Nobody")
	assert.True(t, errors.Is(err, ErrShooterNotFound))
}

func TestLeaderboardService_Warm(t *testing.T) {
	ctx := context.Background()
	repo := NewFakeRepository(fixtureScores()...)
	svc := newTestService(repo, time.Minute)

	require.NoError(t, svc.Warm(ctx))
	assert.Equal(t, 2, svc.cache.Len())

	_, err := svc.OverallBoard(ctx, allTime())
	require.NoError(t, err)
	_, err = svc.ClubBoard(ctx, allTime())
	require.NoError(t, err)
	assert.Len(t, repo.Trace(), 2, "boards served from the warmed cache")
}
