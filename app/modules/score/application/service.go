package scoreservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/satrf/scorekeeper/app/modules/score/application/parsers"
	scoredb "github.com/satrf/scorekeeper/app/modules/score/infrastructure/repositories"
	scorestorage "github.com/satrf/scorekeeper/app/modules/score/infrastructure/storage"
	"github.com/satrf/scorekeeper/app/observability"
	"github.com/satrf/scorekeeper/app/shared/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ScoreService implements the Service interface.
type ScoreService struct {
	repo          scoredb.Repository
	publisher     EventPublisher
	parsers       parsers.ParserFactory
	archiver      scorestorage.Archiver
	logger        *slog.Logger
	metrics       observability.ScoreMetrics
	tracer        trace.Tracer
	db            *bun.DB
	requireReview bool
	now           func() time.Time
}

// Option customises a ScoreService.
type Option func(*ScoreService)

// WithRequireReview stores imported scores as pending instead of approved.
func WithRequireReview(v bool) Option {
	return func(s *ScoreService) { s.requireReview = v }
}

// WithArchiver archives every previewed upload.
func WithArchiver(a scorestorage.Archiver) Option {
	return func(s *ScoreService) { s.archiver = a }
}

// WithParserFactory replaces the default spreadsheet parsers.
func WithParserFactory(f parsers.ParserFactory) Option {
	return func(s *ScoreService) { s.parsers = f }
}

// NewScoreService creates a new ScoreService.
func NewScoreService(
	repo scoredb.Repository,
	publisher EventPublisher,
	logger *slog.Logger,
	metrics observability.ScoreMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	opts ...Option,
) *ScoreService {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("score")
	}
	s := &ScoreService{
		repo:      repo,
		publisher: publisher,
		parsers:   parsers.NewFactory(),
		archiver:  scorestorage.NoopArchiver{},
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		db:        db,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *ScoreService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("identifier", identifier),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, operationName+" triggered",
		slog.String("operation", operationName),
		slog.String("identifier", identifier),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				slog.String("identifier", identifier),
				slog.Any("error", err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName)
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			slog.String("operation", operationName),
			slog.String("identifier", identifier),
			slog.Any("error", wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			slog.String("operation", operationName),
			slog.String("identifier", identifier),
			slog.Any("failure_payload", *result.Failure),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, operationName+" completed successfully",
			slog.String("operation", operationName),
			slog.String("identifier", identifier),
		)
		s.metrics.RecordOperationSuccess(ctx, operationName)
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *ScoreService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}

// publish sends an event after the change is committed. A failed publish is
// logged; the stored change stands.
func (s *ScoreService) publish(ctx context.Context, topic string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishJSON(ctx, topic, payload); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish score event",
			slog.String("topic", topic),
			slog.Any("error", err),
		)
	}
}
