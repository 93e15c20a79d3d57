// Package app wires the database, event bus, modules and HTTP router into
// one running server.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/satrf/scorekeeper/app/eventbus"
	"github.com/satrf/scorekeeper/app/modules/auth"
	"github.com/satrf/scorekeeper/app/modules/leaderboard"
	"github.com/satrf/scorekeeper/app/modules/score"
	"github.com/satrf/scorekeeper/app/observability"
	"github.com/satrf/scorekeeper/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const shutdownTimeout = 10 * time.Second

// App holds every long-lived component of the server.
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	DB         *bun.DB
	EventBus   eventbus.EventBus
	Router     *message.Router
	HTTPRouter chi.Router
	Registry   *prometheus.Registry

	AuthModule        *auth.Module
	ScoreModule       *score.Module
	LeaderboardModule *leaderboard.Module

	server *http.Server
	wg     sync.WaitGroup
}

// NewApp connects to Postgres and the event bus and initializes the modules.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: observability.NewRegistry(),
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	app.DB = bun.NewDB(sqldb, pgdialect.New())
	if err := app.DB.PingContext(ctx); err != nil {
		_ = app.DB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	bus, err := eventbus.NewEventBus(ctx, cfg.NATS.URL, logger)
	if err != nil {
		_ = app.DB.Close()
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}
	app.EventBus = bus

	router, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	if err != nil {
		app.closeInfra()
		return nil, fmt.Errorf("failed to create message router: %w", err)
	}
	app.Router = router

	httpRouter := chi.NewRouter()
	httpRouter.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	httpRouter.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	httpRouter.Handle("/metrics", promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{}))
	app.HTTPRouter = httpRouter

	if err := app.initializeModules(ctx); err != nil {
		app.closeInfra()
		return nil, err
	}

	app.server = &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return app, nil
}

func (app *App) initializeModules(ctx context.Context) error {
	app.AuthModule = auth.NewAuthModule(ctx, app.Config, app.HTTPRouter, app.Logger)

	scoreModule, err := score.NewScoreModule(ctx, app.Config, app.Logger, app.DB, app.EventBus, app.AuthModule, app.HTTPRouter, app.Registry)
	if err != nil {
		return fmt.Errorf("failed to initialize score module: %w", err)
	}
	app.ScoreModule = scoreModule

	leaderboardModule, err := leaderboard.NewLeaderboardModule(ctx, app.Config, app.Logger, app.DB, app.EventBus, app.Router, app.AuthModule, app.HTTPRouter, app.Registry)
	if err != nil {
		return fmt.Errorf("failed to initialize leaderboard module: %w", err)
	}
	app.LeaderboardModule = leaderboardModule
	return nil
}

// Run serves HTTP and consumes events until ctx is cancelled, then shuts
// everything down.
func (app *App) Run(ctx context.Context) error {
	app.wg.Add(1)
	go app.LeaderboardModule.Run(ctx, &app.wg)

	routerErr := make(chan error, 1)
	go func() {
		routerErr <- app.Router.Run(ctx)
	}()
	select {
	case <-app.Router.Running():
	case err := <-routerErr:
		return fmt.Errorf("message router failed to start: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		app.Logger.InfoContext(ctx, "HTTP server listening", slog.String("address", app.server.Addr))
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		runErr = fmt.Errorf("http server failed: %w", err)
	case err := <-routerErr:
		if err != nil {
			runErr = fmt.Errorf("message router failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Close(shutdownCtx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// Close stops the HTTP server, modules, router, event bus and database.
func (app *App) Close(ctx context.Context) error {
	app.Logger.Info("Shutting down")

	var errs []error
	if app.server != nil {
		if err := app.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}
	if app.LeaderboardModule != nil {
		if err := app.LeaderboardModule.Close(); err != nil {
			errs = append(errs, fmt.Errorf("leaderboard module: %w", err))
		}
	}
	app.wg.Wait()

	if app.Router != nil {
		if err := app.Router.Close(); err != nil {
			errs = append(errs, fmt.Errorf("message router: %w", err))
		}
	}
	app.closeInfra()

	app.Logger.Info("Shutdown complete")
	return errors.Join(errs...)
}

func (app *App) closeInfra() {
	if app.EventBus != nil {
		if err := app.EventBus.Close(); err != nil {
			app.Logger.Error("Failed to close event bus", slog.Any("error", err))
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database", slog.Any("error", err))
		}
	}
}
