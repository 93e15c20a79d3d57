package leaderboardrouter

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/satrf/scorekeeper/app/events"
)

const (
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"
)

// Invalidator drops cached boards.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Refresher schedules a rebuild of the cached boards.
type Refresher interface {
	EnqueueRefresh(ctx context.Context, reason string) error
}

// LeaderboardRouter reacts to score events by invalidating the board cache
// and scheduling a refresh.
type LeaderboardRouter struct {
	logger         *slog.Logger
	Router         *message.Router
	subscriber     message.Subscriber
	cache          Invalidator
	refresher      Refresher
	metricsBuilder *metrics.PrometheusMetricsBuilder
}

// NewLeaderboardRouter creates a new instance of the router. refresher may
// be nil, in which case boards are rebuilt lazily on the next read.
func NewLeaderboardRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	cache Invalidator,
	refresher Refresher,
	prometheusRegistry prometheus.Registerer,
) *LeaderboardRouter {
	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if prometheusRegistry != nil && os.Getenv(TestEnvironmentFlag) != TestEnvironmentValue {
		builder := metrics.NewPrometheusMetricsBuilder(prometheusRegistry, "", "")
		metricsBuilder = &builder
	}

	return &LeaderboardRouter{
		logger:         logger,
		Router:         router,
		subscriber:     subscriber,
		cache:          cache,
		refresher:      refresher,
		metricsBuilder: metricsBuilder,
	}
}

// Configure sets up the middlewares and registers the score event handlers.
func (r *LeaderboardRouter) Configure(ctx context.Context) error {
	if r.metricsBuilder != nil {
		r.logger.InfoContext(ctx, "Adding Prometheus router metrics middleware for Leaderboard")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
	)

	r.Router.AddNoPublisherHandler(
		"leaderboard."+events.ScoresImportedV1,
		events.ScoresImportedV1,
		r.subscriber,
		r.handleScoresImported,
	)
	r.Router.AddNoPublisherHandler(
		"leaderboard."+events.ScoreStatusChangedV1,
		events.ScoreStatusChangedV1,
		r.subscriber,
		r.handleScoreStatusChanged,
	)
	return nil
}

func (r *LeaderboardRouter) handleScoresImported(msg *message.Message) error {
	var payload events.ScoresImportedPayloadV1
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		r.logger.Warn("Dropping malformed event",
			slog.String("topic", events.ScoresImportedV1),
			slog.String("message_id", msg.UUID),
			slog.Any("error", err),
		)
		return nil
	}
	r.logger.InfoContext(msg.Context(), "Scores imported",
		slog.String("batch_id", payload.BatchID),
		slog.Int("imported", payload.Imported),
		slog.String("status", payload.Status),
	)
	return r.refresh(msg.Context(), events.ScoresImportedV1)
}

func (r *LeaderboardRouter) handleScoreStatusChanged(msg *message.Message) error {
	var payload events.ScoreStatusChangedPayloadV1
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		r.logger.Warn("Dropping malformed event",
			slog.String("topic", events.ScoreStatusChangedV1),
			slog.String("message_id", msg.UUID),
			slog.Any("error", err),
		)
		return nil
	}
	r.logger.InfoContext(msg.Context(), "Score changed",
		slog.String("score_id", payload.ScoreID),
		slog.String("change", payload.Change),
	)
	return r.refresh(msg.Context(), events.ScoreStatusChangedV1)
}

// refresh invalidates first so reads never see boards older than the event.
func (r *LeaderboardRouter) refresh(ctx context.Context, reason string) error {
	r.cache.Invalidate(ctx)
	if r.refresher == nil {
		return nil
	}
	return r.refresher.EnqueueRefresh(ctx, reason)
}

// Close stops the router and cleans up resources.
func (r *LeaderboardRouter) Close() error {
	return r.Router.Close()
}
