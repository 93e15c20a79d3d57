package score

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/satrf/scorekeeper/app/modules/auth"
	authhandlers "github.com/satrf/scorekeeper/app/modules/auth/infrastructure/handlers"
	scoreservice "github.com/satrf/scorekeeper/app/modules/score/application"
	scorehandlers "github.com/satrf/scorekeeper/app/modules/score/infrastructure/handlers"
	scoredb "github.com/satrf/scorekeeper/app/modules/score/infrastructure/repositories"
	scorerouter "github.com/satrf/scorekeeper/app/modules/score/infrastructure/router"
	scorestorage "github.com/satrf/scorekeeper/app/modules/score/infrastructure/storage"
	"github.com/satrf/scorekeeper/app/observability"
	"github.com/satrf/scorekeeper/config"
	"github.com/uptrace/bun"
)

// Module represents the score module.
type Module struct {
	ScoreService scoreservice.Service
	logger       *slog.Logger
}

// NewScoreModule wires the score service and mounts the admin score routes.
func NewScoreModule(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *bun.DB,
	publisher scoreservice.EventPublisher,
	authModule *auth.Module,
	httpRouter chi.Router,
	registry prometheus.Registerer,
) (*Module, error) {
	logger.InfoContext(ctx, "Initializing score module")

	var metrics observability.ScoreMetrics = observability.NoopMetrics{}
	if registry != nil {
		metrics = observability.NewScoreMetrics(registry)
	}

	var archiver scorestorage.Archiver = scorestorage.NoopArchiver{}
	if cfg.Storage.ArchiveBucket != "" {
		s3Archiver, err := scorestorage.NewS3Archiver(ctx, cfg.Storage.ArchiveBucket, cfg.Storage.Region, cfg.Storage.Prefix)
		if err != nil {
			return nil, fmt.Errorf("failed to create upload archiver: %w", err)
		}
		archiver = s3Archiver
		logger.InfoContext(ctx, "Archiving uploads", slog.String("bucket", cfg.Storage.ArchiveBucket))
	}

	service := scoreservice.NewScoreService(
		scoredb.NewRepository(db),
		publisher,
		logger,
		metrics,
		observability.Tracer("score"),
		db,
		scoreservice.WithRequireReview(cfg.Import.RequireReview),
		scoreservice.WithArchiver(archiver),
	)

	if httpRouter != nil {
		handlers := scorehandlers.NewScoreHandlers(service, logger, cfg.HTTP.MaxUploadBytes)
		scorerouter.Mount(httpRouter, handlers,
			authhandlers.CORSMiddleware(cfg.HTTP.AllowedOrigins),
			authModule.RateLimit,
			authModule.Authenticate,
			authModule.RequireScoreManager,
		)
	}

	logger.InfoContext(ctx, "Score module initialized")
	return &Module{
		ScoreService: service,
		logger:       logger,
	}, nil
}
