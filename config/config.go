package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	JWT           JWTConfig           `yaml:"jwt"`
	Import        ImportConfig        `yaml:"import"`
	Leaderboard   LeaderboardConfig   `yaml:"leaderboard"`
	Storage       StorageConfig       `yaml:"storage"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration. An empty URL keeps events in process.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// HTTPConfig holds the API listener settings.
type HTTPConfig struct {
	Address        string   `yaml:"address"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps"`
	RateLimitBurst int      `yaml:"rate_limit_burst"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes"`
}

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret     string        `yaml:"secret"`
	Issuer     string        `yaml:"issuer"`
	DefaultTTL time.Duration `yaml:"default_ttl"`
}

// ImportConfig controls how imported scores are stored.
type ImportConfig struct {
	// RequireReview stores imports as pending instead of approved.
	RequireReview bool `yaml:"require_review"`
}

// LeaderboardConfig holds ranking thresholds and caching.
type LeaderboardConfig struct {
	MinEvents      int           `yaml:"min_events"`
	MinClubMembers int           `yaml:"min_club_members"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
}

// StorageConfig holds the upload archive location. An empty bucket
// disables archiving.
type StorageConfig struct {
	ArchiveBucket string `yaml:"archive_bucket"`
	Region        string `yaml:"region"`
	Prefix        string `yaml:"prefix"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	MetricsAddress string `yaml:"metrics_address"`
	Environment    string `yaml:"environment"`
	LogLevel       string `yaml:"log_level"`
}

// LoadConfig loads the configuration from a YAML file, then applies
// environment overrides and defaults. A missing file falls back to the
// environment alone. A .env file in the working directory is loaded first
// when present.
func LoadConfig(filename string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(filename)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("JWT_ISSUER"); v != "" {
		cfg.JWT.Issuer = v
	}
	if v := os.Getenv("JWT_DEFAULT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid JWT_DEFAULT_TTL value: %w", err)
		}
		cfg.JWT.DefaultTTL = d
	}
	if v := os.Getenv("IMPORT_REQUIRE_REVIEW"); v != "" {
		cfg.Import.RequireReview = v == "true"
	}
	if v := os.Getenv("LEADERBOARD_MIN_EVENTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid LEADERBOARD_MIN_EVENTS value: %w", err)
		}
		cfg.Leaderboard.MinEvents = n
	}
	if v := os.Getenv("LEADERBOARD_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid LEADERBOARD_CACHE_TTL value: %w", err)
		}
		cfg.Leaderboard.CacheTTL = d
	}
	if v := os.Getenv("ARCHIVE_BUCKET"); v != "" {
		cfg.Storage.ArchiveBucket = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.Storage.Region = v
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.HTTP.RateLimitRPS <= 0 {
		c.HTTP.RateLimitRPS = 5
	}
	if c.HTTP.RateLimitBurst <= 0 {
		c.HTTP.RateLimitBurst = 20
	}
	if c.HTTP.MaxUploadBytes <= 0 {
		c.HTTP.MaxUploadBytes = 10 << 20
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "scorekeeper"
	}
	if c.JWT.DefaultTTL <= 0 {
		c.JWT.DefaultTTL = 24 * time.Hour
	}
	if c.Leaderboard.MinEvents <= 0 {
		c.Leaderboard.MinEvents = 3
	}
	if c.Leaderboard.MinClubMembers <= 0 {
		c.Leaderboard.MinClubMembers = 2
	}
	if c.Leaderboard.CacheTTL <= 0 {
		c.Leaderboard.CacheTTL = 5 * time.Minute
	}
	if c.Storage.Prefix == "" {
		c.Storage.Prefix = "uploads/"
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = "development"
	}
	if c.Observability.LogLevel == "" {
		c.Observability.LogLevel = "info"
	}
}

// Validate checks the settings the API server cannot run without.
func (c *Config) Validate() error {
	var missing []string
	if c.Postgres.DSN == "" {
		missing = append(missing, "postgres.dsn (DATABASE_URL)")
	}
	if c.JWT.Secret == "" {
		missing = append(missing, "jwt.secret (JWT_SECRET)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// SlogLevel maps the configured log level onto slog.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Observability.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
