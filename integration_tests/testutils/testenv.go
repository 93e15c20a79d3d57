// Package testutils starts the containers integration tests run against.
package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	scoremigrations "github.com/satrf/scorekeeper/app/modules/score/infrastructure/repositories/migrations"
	"github.com/satrf/scorekeeper/integration_tests/containers"
	"github.com/testcontainers/testcontainers-go/modules/nats"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

// TestEnvironment holds the shared containers and connections.
type TestEnvironment struct {
	PgContainer   *postgres.PostgresContainer
	NatsContainer *nats.NATSContainer
	DSN           string
	NatsURL       string
	DB            *bun.DB
	Logger        *slog.Logger
}

var (
	envOnce sync.Once
	env     *TestEnvironment
	envErr  error
)

// Env returns the shared environment, starting it on first use. The test
// is skipped when containers cannot be started or -short is set.
func Env(t *testing.T) *TestEnvironment {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in short mode")
	}
	envOnce.Do(func() {
		env, envErr = newTestEnvironment(context.Background())
	})
	if envErr != nil {
		t.Skipf("integration environment unavailable: %v", envErr)
	}
	return env
}

func newTestEnvironment(ctx context.Context) (*TestEnvironment, error) {
	pgContainer, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		return nil, err
	}

	natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	e := &TestEnvironment{
		PgContainer:   pgContainer,
		NatsContainer: natsContainer,
		DSN:           dsn,
		NatsURL:       natsURL,
		DB:            db,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if os.Getenv("INTEGRATION_VERBOSE") != "" {
		e.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	if err := runMigrations(ctx, db, dsn); err != nil {
		e.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return e, nil
}

func runMigrations(ctx context.Context, db *bun.DB, dsn string) error {
	migrator := migrate.NewMigrator(db, scoremigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("init score migrations: %w", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("score migrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()
	riverMigrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return err
	}
	if _, err := riverMigrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		return fmt.Errorf("river migrations: %w", err)
	}
	return nil
}

// Reset empties the scores table.
func (e *TestEnvironment) Reset(t *testing.T) {
	t.Helper()
	if _, err := e.DB.ExecContext(context.Background(), "TRUNCATE TABLE scores"); err != nil {
		t.Fatalf("failed to truncate scores: %v", err)
	}
}

// Terminate closes connections and stops the containers.
func (e *TestEnvironment) Terminate(ctx context.Context) {
	if e.DB != nil {
		_ = e.DB.Close()
	}
	if e.NatsContainer != nil {
		_ = e.NatsContainer.Terminate(ctx)
	}
	if e.PgContainer != nil {
		_ = e.PgContainer.Terminate(ctx)
	}
}

// Shutdown terminates the shared environment if it was started. Call it
// from TestMain.
func Shutdown() {
	if env != nil {
		env.Terminate(context.Background())
	}
}
