// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and JOBS_* environment variables.
// - Validation failures wrap ErrInvalidConfig, loading failures wrap ErrLoadConfig.
package config

import (
	"runtime"
)

// Dataset source kinds.
const (
	SourceCSV      = "csv"
	SourceSQLite   = "sqlite"
	SourcePostgres = "postgres"
)

// Sentiment policies for analytics views.
const (
	PolicyReuse   = "reuse"
	PolicyRescore = "rescore"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatasetSource selects where raw listings come from: csv, sqlite or postgres.
	DatasetSource string `koanf:"dataset_source"`

	// DatasetPath is the CSV file read when DatasetSource is csv.
	DatasetPath string `koanf:"dataset_path"`

	// DatasetDSN is the database DSN for the sqlite and postgres sources.
	DatasetDSN string `koanf:"dataset_dsn"`

	// DatasetTable is the table holding raw listings for SQL sources.
	DatasetTable string `koanf:"dataset_table"`

	// ScoreWorkers bounds concurrent sentiment scoring while building the store.
	ScoreWorkers int `koanf:"score_workers"`

	// SentimentPolicy is reuse (stored scores) or rescore (recompute per request).
	SentimentPolicy string `koanf:"sentiment_policy"`

	// ScoringLatencyMinMS and ScoringLatencyMaxMS simulate an external scorer's latency.
	// Zero disables the simulation.
	ScoringLatencyMinMS int `koanf:"scoring_latency_min_ms"`
	ScoringLatencyMaxMS int `koanf:"scoring_latency_max_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":5051",
		DatasetSource:   SourceCSV,
		DatasetPath:     "data/dice_jobs.csv",
		DatasetTable:    "jobs",
		ScoreWorkers:    runtime.NumCPU() * 2,
		SentimentPolicy: PolicyReuse,
	}
}
