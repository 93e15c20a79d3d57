package leaderboardqueue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/riverqueue/river"
)

// Warmer rebuilds cached boards.
type Warmer interface {
	Warm(ctx context.Context) error
}

// RefreshWorker runs RefreshJob.
type RefreshWorker struct {
	river.WorkerDefaults[RefreshJob]
	warmer Warmer
	logger *slog.Logger
}

// NewRefreshWorker creates a new RefreshWorker.
func NewRefreshWorker(logger *slog.Logger, warmer Warmer) *RefreshWorker {
	return &RefreshWorker{warmer: warmer, logger: logger}
}

// Work warms the boards. A failure is returned so River retries the job.
func (w *RefreshWorker) Work(ctx context.Context, job *river.Job[RefreshJob]) error {
	w.logger.InfoContext(ctx, "Refreshing leaderboards", slog.String("reason", job.Args.Reason))
	if err := w.warmer.Warm(ctx); err != nil {
		w.logger.ErrorContext(ctx, "Leaderboard refresh failed",
			slog.String("reason", job.Args.Reason),
			slog.Any("error", err),
		)
		return fmt.Errorf("failed to refresh leaderboards: %w", err)
	}
	return nil
}
