package scoremigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating scores table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS scores (
					id UUID PRIMARY KEY,
					batch_id VARCHAR(32) NOT NULL,
					event_name VARCHAR(200) NOT NULL,
					match_number VARCHAR(50) NOT NULL,
					shooter_name VARCHAR(200) NOT NULL,
					club VARCHAR(200) NOT NULL,
					competition_class VARCHAR(50) NOT NULL,
					veteran BOOLEAN NOT NULL DEFAULT FALSE,
					series1 DOUBLE PRECISION NOT NULL,
					series2 DOUBLE PRECISION NOT NULL,
					series3 DOUBLE PRECISION NOT NULL,
					series4 DOUBLE PRECISION NOT NULL,
					series5 DOUBLE PRECISION NOT NULL,
					series6 DOUBLE PRECISION NOT NULL,
					total DOUBLE PRECISION NOT NULL,
					place INTEGER,
					x_count INTEGER NOT NULL DEFAULT 0,
					match_date TIMESTAMPTZ,
					status VARCHAR(20) NOT NULL DEFAULT 'pending'
						CHECK (status IN ('pending', 'approved', 'rejected')),
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_scores_status_created_at ON scores(status, created_at);
				CREATE INDEX IF NOT EXISTS idx_scores_match ON scores(event_name, match_number, competition_class);
				CREATE INDEX IF NOT EXISTS idx_scores_batch_id ON scores(batch_id);
			`); err != nil {
				return fmt.Errorf("failed to create scores table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping scores table...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS scores;`); err != nil {
			return fmt.Errorf("failed to drop scores table: %w", err)
		}
		return nil
	})
}
