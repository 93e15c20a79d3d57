package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_FileWithOverrides(t *testing.T) {
	path := writeConfig(t, `
postgres:
  dsn: postgres://file
http:
  address: ":9000"
  allowed_origins: ["https://a.example"]
jwt:
  secret: from-file
leaderboard:
  min_events: 4
  cache_ttl: 1m
`)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("ALLOWED_ORIGINS", "https://b.example, https://c.example")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://file", cfg.Postgres.DSN)
	assert.Equal(t, ":9000", cfg.HTTP.Address)
	assert.Equal(t, []string{"https://b.example", "https://c.example"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 4, cfg.Leaderboard.MinEvents)
	assert.Equal(t, time.Minute, cfg.Leaderboard.CacheTTL)
	assert.Equal(t, 2, cfg.Leaderboard.MinClubMembers)
	assert.False(t, cfg.Import.RequireReview)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_MissingFileUsesEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("IMPORT_REQUIRE_REVIEW", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "postgres://env", cfg.Postgres.DSN)
	assert.True(t, cfg.Import.RequireReview)
	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, 3, cfg.Leaderboard.MinEvents)
	assert.Equal(t, 24*time.Hour, cfg.JWT.DefaultTTL)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("bad yaml", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "postgres: ["))
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("LEADERBOARD_CACHE_TTL", "soon")
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	err := (&Config{}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
