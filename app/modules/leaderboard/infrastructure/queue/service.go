package leaderboardqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/satrf/scorekeeper/app/observability"
)

const (
	// QueueName is the River queue refresh jobs run on.
	QueueName = "leaderboard"

	// RefreshWindow collapses refresh requests made close together into one job.
	RefreshWindow = 15 * time.Second
)

// QueueService schedules background leaderboard work.
type QueueService interface {
	// EnqueueRefresh asks for the cached boards to be rebuilt.
	EnqueueRefresh(ctx context.Context, reason string) error
	// HealthCheck verifies the queue database is reachable.
	HealthCheck(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// Service runs leaderboard jobs on River.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	metrics observability.OperationMetrics
}

// NewService creates a River client with its own pgx pool and registers
// the refresh worker.
func NewService(ctx context.Context, dsn string, warmer Warmer, logger *slog.Logger, metrics observability.OperationMetrics) (*Service, error) {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	ctxLogger := logger.With(slog.String("component", "river_queue"))
	metrics.RecordOperationAttempt(ctx, "initialize_queue")

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_queue")
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_queue")
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		metrics.RecordOperationFailure(ctx, "initialize_queue")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewRefreshWorker(ctxLogger, warmer))

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
			QueueName:          {MaxWorkers: 2},
		},
		Workers: workers,
	})
	if err != nil {
		pool.Close()
		metrics.RecordOperationFailure(ctx, "initialize_queue")
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	metrics.RecordOperationSuccess(ctx, "initialize_queue")
	ctxLogger.InfoContext(ctx, "Leaderboard queue initialized")
	return &Service{client: client, pool: pool, logger: ctxLogger, metrics: metrics}, nil
}

// Start starts working jobs.
func (s *Service) Start(ctx context.Context) error {
	if err := s.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start River client: %w", err)
	}
	s.logger.InfoContext(ctx, "Leaderboard queue started")
	return nil
}

// Stop waits for running jobs and closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	defer s.pool.Close()
	if err := s.client.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.logger.InfoContext(ctx, "Leaderboard queue stopped")
	return nil
}

// EnqueueRefresh inserts a refresh job unless one was inserted within
// RefreshWindow.
func (s *Service) EnqueueRefresh(ctx context.Context, reason string) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "enqueue_refresh")
	defer func() {
		s.metrics.RecordOperationDuration(ctx, "enqueue_refresh", time.Since(start))
	}()

	res, err := s.client.Insert(ctx, RefreshJob{Reason: reason}, &river.InsertOpts{
		Queue: QueueName,
		UniqueOpts: river.UniqueOpts{
			ByPeriod: RefreshWindow,
		},
	})
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, "enqueue_refresh")
		return fmt.Errorf("failed to enqueue leaderboard refresh: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "enqueue_refresh")
	s.logger.DebugContext(ctx, "Leaderboard refresh enqueued",
		slog.String("reason", reason),
		slog.Int64("job_id", res.Job.ID),
		slog.Bool("duplicate", res.UniqueSkippedAsDuplicate),
	)
	return nil
}

// HealthCheck pings the queue database.
func (s *Service) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("leaderboard queue unhealthy: %w", err)
	}
	return nil
}
