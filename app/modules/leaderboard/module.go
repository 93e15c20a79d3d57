package leaderboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/satrf/scorekeeper/app/modules/auth"
	authhandlers "github.com/satrf/scorekeeper/app/modules/auth/infrastructure/handlers"
	leaderboardservice "github.com/satrf/scorekeeper/app/modules/leaderboard/application"
	leaderboardhandlers "github.com/satrf/scorekeeper/app/modules/leaderboard/infrastructure/handlers"
	leaderboardqueue "github.com/satrf/scorekeeper/app/modules/leaderboard/infrastructure/queue"
	leaderboarddb "github.com/satrf/scorekeeper/app/modules/leaderboard/infrastructure/repositories"
	leaderboardrouter "github.com/satrf/scorekeeper/app/modules/leaderboard/infrastructure/router"
	"github.com/satrf/scorekeeper/app/observability"
	"github.com/satrf/scorekeeper/config"
	"github.com/uptrace/bun"
)

// Module represents the leaderboard module.
type Module struct {
	LeaderboardService leaderboardservice.Service
	LeaderboardRouter  *leaderboardrouter.LeaderboardRouter
	queue              leaderboardqueue.QueueService
	logger             *slog.Logger
	stopCtx            context.Context
	cancelFunc         context.CancelFunc
}

func newModule(service leaderboardservice.Service, logger *slog.Logger) *Module {
	stopCtx, cancel := context.WithCancel(context.Background())
	return &Module{
		LeaderboardService: service,
		logger:             logger,
		stopCtx:            stopCtx,
		cancelFunc:         cancel,
	}
}

// NewLeaderboardModule wires the leaderboard service, its score event
// handlers and refresh queue, and mounts the public routes.
func NewLeaderboardModule(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *bun.DB,
	subscriber message.Subscriber,
	router *message.Router,
	authModule *auth.Module,
	httpRouter chi.Router,
	registry prometheus.Registerer,
) (*Module, error) {
	logger.InfoContext(ctx, "Initializing leaderboard module")

	var metrics observability.LeaderboardMetrics = observability.NoopMetrics{}
	if registry != nil {
		metrics = observability.NewLeaderboardMetrics(registry)
	}

	service := leaderboardservice.NewLeaderboardService(
		leaderboarddb.NewRepository(db),
		leaderboardservice.Config{
			MinEvents:      cfg.Leaderboard.MinEvents,
			MinClubMembers: cfg.Leaderboard.MinClubMembers,
			CacheTTL:       cfg.Leaderboard.CacheTTL,
		},
		logger,
		metrics,
		observability.Tracer("leaderboard"),
	)

	module := newModule(service, logger)

	var refresher leaderboardrouter.Refresher
	if cfg.Postgres.DSN != "" {
		queue, err := leaderboardqueue.NewService(ctx, cfg.Postgres.DSN, service, logger, metrics)
		if err != nil {
			return nil, fmt.Errorf("failed to create leaderboard queue: %w", err)
		}
		module.queue = queue
		refresher = queue
	}

	if router != nil {
		module.LeaderboardRouter = leaderboardrouter.NewLeaderboardRouter(logger, router, subscriber, service, refresher, registry)
		if err := module.LeaderboardRouter.Configure(ctx); err != nil {
			return nil, fmt.Errorf("failed to configure leaderboard router: %w", err)
		}
	}

	if httpRouter != nil {
		handlers := leaderboardhandlers.NewLeaderboardHandlers(service, logger, cfg.Leaderboard.CacheTTL)
		leaderboardrouter.Mount(httpRouter, handlers,
			authhandlers.CORSMiddleware(cfg.HTTP.AllowedOrigins),
			authModule.RateLimit,
		)
	}

	logger.InfoContext(ctx, "Leaderboard module initialized")
	return module, nil
}

// Run starts the refresh queue, warms the boards and blocks until ctx is
// cancelled or Close is called.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	if wg != nil {
		defer wg.Done()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(m.stopCtx, cancel)
	defer stop()

	m.logger.InfoContext(ctx, "Starting leaderboard module")
	if m.queue != nil {
		if err := m.queue.Start(ctx); err != nil {
			m.logger.ErrorContext(ctx, "Failed to start leaderboard queue", slog.Any("error", err))
		}
	}
	if err := m.LeaderboardService.Warm(ctx); err != nil {
		m.logger.WarnContext(ctx, "Initial leaderboard warm-up failed", slog.Any("error", err))
	}

	<-ctx.Done()
	m.logger.Info("Leaderboard module goroutine stopped")
}

// Close stops the refresh queue.
func (m *Module) Close() error {
	m.logger.Info("Stopping leaderboard module")
	m.cancelFunc()
	if m.queue != nil {
		if err := m.queue.Stop(context.Background()); err != nil {
			return err
		}
	}
	m.logger.Info("Leaderboard module stopped")
	return nil
}
