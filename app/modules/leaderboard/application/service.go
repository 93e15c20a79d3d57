package leaderboardservice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	leaderboarddomain "github.com/satrf/scorekeeper/app/modules/leaderboard/domain"
	leaderboarddb "github.com/satrf/scorekeeper/app/modules/leaderboard/infrastructure/repositories"
	"github.com/satrf/scorekeeper/app/observability"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	boardOverall = "overall"
	boardClub    = "club"
	boardMatch   = "match"
)

// Config holds the ranking thresholds.
type Config struct {
	MinEvents      int
	MinClubMembers int
	CacheTTL       time.Duration
}

// LeaderboardService implements the Service interface.
type LeaderboardService struct {
	repo    leaderboarddb.Repository
	cache   *Cache[[]leaderboarddomain.Entry]
	cfg     Config
	logger  *slog.Logger
	metrics observability.LeaderboardMetrics
	tracer  trace.Tracer
	palette ChartPalette
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(
	repo leaderboarddb.Repository,
	cfg Config,
	logger *slog.Logger,
	metrics observability.LeaderboardMetrics,
	tracer trace.Tracer,
) *LeaderboardService {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("leaderboard")
	}
	return &LeaderboardService{
		repo:    repo,
		cache:   NewCache[[]leaderboarddomain.Entry](cfg.CacheTTL),
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		palette: DefaultPalette,
	}
}

// withTelemetry wraps a read with tracing and metrics.
func withTelemetry[T any](
	s *LeaderboardService,
	ctx context.Context,
	operationName string,
	op func(ctx context.Context) (T, error),
) (result T, err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName)
	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered", slog.Any("error", err))
			s.metrics.RecordOperationFailure(ctx, operationName)
			span.RecordError(err)
		}
	}()

	result, err = op(ctx)
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(err)
		return result, fmt.Errorf("%s: %w", operationName, err)
	}
	s.metrics.RecordOperationSuccess(ctx, operationName)
	return result, nil
}

// rankings returns the full ranked list for a board, from cache when possible.
func (s *LeaderboardService) rankings(ctx context.Context, board string, f leaderboarddomain.Filters) ([]leaderboarddomain.Entry, error) {
	key := f.CacheKey(board)
	if entries, ok := s.cache.Get(key); ok {
		s.metrics.RecordCacheHit(ctx, board)
		return entries, nil
	}
	s.metrics.RecordCacheMiss(ctx, board)

	q := leaderboarddb.Query{
		EventName: f.Discipline,
		Since:     f.Since,
	}
	if f.IsVeteranCategory() {
		q.VeteranOnly = true
	} else {
		q.Class = f.Category
	}
	scores, err := s.repo.ApprovedScores(ctx, nil, q)
	if err != nil {
		return nil, err
	}

	var entries []leaderboarddomain.Entry
	switch board {
	case boardClub:
		entries = BuildClubs(scores, s.cfg.MinClubMembers)
	default:
		entries = BuildOverall(scores, s.cfg.MinEvents)
	}
	s.cache.Set(key, entries)
	return entries, nil
}

// OverallBoard ranks shooters with enough approved scores.
func (s *LeaderboardService) OverallBoard(ctx context.Context, f leaderboarddomain.Filters) (*leaderboarddomain.Board, error) {
	return withTelemetry(s, ctx, "OverallBoard", func(ctx context.Context) (*leaderboarddomain.Board, error) {
		entries, err := s.rankings(ctx, boardOverall, f)
		if err != nil {
			return nil, err
		}
		board := leaderboarddomain.Paginate(entries, f.Page, f.Limit, f.Echo())
		return &board, nil
	})
}

// ClubBoard ranks clubs with enough members.
func (s *LeaderboardService) ClubBoard(ctx context.Context, f leaderboarddomain.Filters) (*leaderboarddomain.Board, error) {
	return withTelemetry(s, ctx, "ClubBoard", func(ctx context.Context) (*leaderboarddomain.Board, error) {
		entries, err := s.rankings(ctx, boardClub, f)
		if err != nil {
			return nil, err
		}
		board := leaderboarddomain.Paginate(entries, f.Page, f.Limit, f.Echo())
		return &board, nil
	})
}

// MatchBoard ranks every approved score of one match.
func (s *LeaderboardService) MatchBoard(ctx context.Context, q MatchQuery) (*leaderboarddomain.Board, error) {
	return withTelemetry(s, ctx, "MatchBoard", func(ctx context.Context) (*leaderboarddomain.Board, error) {
		if strings.TrimSpace(q.EventName) == "" {
			return nil, &FilterError{Param: "eventName", Value: q.EventName}
		}
		if strings.TrimSpace(q.MatchNumber) == "" {
			return nil, &FilterError{Param: "matchNumber", Value: q.MatchNumber}
		}

		key := strings.Join([]string{boardMatch, q.EventName, q.MatchNumber, q.Class}, "|")
		entries, ok := s.cache.Get(key)
		if ok {
			s.metrics.RecordCacheHit(ctx, boardMatch)
		} else {
			s.metrics.RecordCacheMiss(ctx, boardMatch)
			scores, err := s.repo.ApprovedScores(ctx, nil, leaderboarddb.Query{
				EventName:   q.EventName,
				MatchNumber: q.MatchNumber,
				Class:       q.Class,
			})
			if err != nil {
				return nil, err
			}
			entries = BuildMatch(scores)
			s.cache.Set(key, entries)
		}

		filters := map[string]string{"eventName": q.EventName, "matchNumber": q.MatchNumber}
		if q.Class != "" {
			filters["class"] = q.Class
		}
		board := leaderboarddomain.Paginate(entries, q.Page, q.Limit, filters)
		return &board, nil
	})
}

func (s *LeaderboardService) shooterScores(ctx context.Context, name string) ([]leaderboarddomain.Score, error) {
	key := leaderboarddomain.CompetitorKey(name)
	if key == "" {
		return nil, ErrShooterNotFound
	}
	scores, err := s.repo.ApprovedScores(ctx, nil, leaderboarddb.Query{ShooterKey: key})
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, ErrShooterNotFound
	}
	return scores, nil
}

// ShooterStatistics summarises a shooter's approved scores and where they
// stand on the overall, club and category boards.
func (s *LeaderboardService) ShooterStatistics(ctx context.Context, name string) (*leaderboarddomain.Statistics, error) {
	return withTelemetry(s, ctx, "ShooterStatistics", func(ctx context.Context) (*leaderboarddomain.Statistics, error) {
		scores, err := s.shooterScores(ctx, name)
		if err != nil {
			return nil, err
		}

		own := BuildOverall(scores, 1)
		if len(own) != 1 {
			return nil, ErrShooterNotFound
		}
		me := own[0]
		stats := &leaderboarddomain.Statistics{
			ShooterName:  me.UserName,
			Club:         me.Club,
			Category:     me.Category,
			TotalScores:  me.EventCount,
			BestScore:    me.BestScore,
			AverageScore: me.AverageScore,
			TotalXCount:  me.TotalXCount,
		}

		all := leaderboarddomain.Filters{TimePeriod: leaderboarddomain.PeriodAll}
		overall, err := s.rankings(ctx, boardOverall, all)
		if err != nil {
			return nil, err
		}
		stats.CurrentRank = FindShooter(overall, name)

		if me.Category != "" {
			byCategory := all
			byCategory.Category = me.Category
			category, err := s.rankings(ctx, boardOverall, byCategory)
			if err != nil {
				return nil, err
			}
			stats.CategoryRank = FindShooter(category, name)
		}

		clubs, err := s.rankings(ctx, boardClub, all)
		if err != nil {
			return nil, err
		}
		stats.ClubRank = FindClub(clubs, me.Club)

		return stats, nil
	})
}

// ShooterChart renders a shooter's score history as a PNG.
func (s *LeaderboardService) ShooterChart(ctx context.Context, name string) ([]byte, error) {
	return withTelemetry(s, ctx, "ShooterChart", func(ctx context.Context) ([]byte, error) {
		scores, err := s.shooterScores(ctx, name)
		if err != nil {
			return nil, err
		}
		history := make([]leaderboarddomain.HistoryPoint, len(scores))
		for i, sc := range scores {
			at := sc.CreatedAt
			if sc.MatchDate != nil {
				at = *sc.MatchDate
			}
			history[i] = leaderboarddomain.HistoryPoint{At: at, Total: sc.Total, EventName: sc.EventName}
		}
		return GenerateScoreHistoryChart(history, s.palette)
	})
}

// Invalidate drops every cached board.
func (s *LeaderboardService) Invalidate(ctx context.Context) {
	s.cache.Invalidate()
	s.metrics.RecordCacheInvalidation(ctx)
	s.logger.InfoContext(ctx, "Leaderboard cache invalidated")
}

// Warm recomputes the unfiltered overall and club boards.
func (s *LeaderboardService) Warm(ctx context.Context) error {
	_, err := withTelemetry(s, ctx, "Warm", func(ctx context.Context) (struct{}, error) {
		all := leaderboarddomain.Filters{TimePeriod: leaderboarddomain.PeriodAll}
		for _, board := range []string{boardOverall, boardClub} {
			if _, err := s.rankings(ctx, board, all); err != nil {
				return struct{}{}, err
			}
		}
		return struct{}{}, nil
	})
	return err
}
