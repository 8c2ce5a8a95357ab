package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment knobs read before koanf runs.
const (
	envPrefix     = "JOBS_"
	envConfigFile = "JOBS_CONFIG"
	envDotEnvFile = "JOBS_DOTENV"
	defaultDotEnv = ".env"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if JOBS_CONFIG is set
//  3. env (prefix JOBS_), after seeding the process env from a .env file
//     (JOBS_DOTENV, default ".env"); variables already set are not overwritten.
func Load(_ context.Context) (*Config, error) {
	dotenv := os.Getenv(envDotEnvFile)
	if dotenv == "" {
		dotenv = defaultDotEnv
	}
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: dotenv %s: %w", ErrLoadConfig, dotenv, err)
	}

	base := New()
	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// Map env keys like JOBS_DATASET_PATH -> dataset_path (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.ScoreWorkers < 1:
		return fmt.Errorf("%w: score_workers must be positive", ErrInvalidConfig)
	case c.ScoringLatencyMinMS < 0 || c.ScoringLatencyMaxMS < c.ScoringLatencyMinMS:
		return fmt.Errorf("%w: scoring latency range %d..%d", ErrInvalidConfig, c.ScoringLatencyMinMS, c.ScoringLatencyMaxMS)
	}

	switch c.SentimentPolicy {
	case PolicyReuse, PolicyRescore:
	default:
		return fmt.Errorf("%w: unknown sentiment_policy %q", ErrInvalidConfig, c.SentimentPolicy)
	}

	switch c.DatasetSource {
	case SourceCSV:
		if c.DatasetPath == "" {
			return fmt.Errorf("%w: dataset_path must not be empty", ErrInvalidConfig)
		}
	case SourceSQLite, SourcePostgres:
		if c.DatasetDSN == "" {
			return fmt.Errorf("%w: dataset_dsn must not be empty", ErrInvalidConfig)
		}
		if c.DatasetTable == "" {
			return fmt.Errorf("%w: dataset_table must not be empty", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown dataset_source %q", ErrInvalidConfig, c.DatasetSource)
	}
	return nil
}
