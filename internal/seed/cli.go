package seed

import (
	"fmt"
	"os"

	"github.com/okian/jobscope/pkg/logger"
)

// SetupLogging initializes the global logger for the seed tool.
func SetupLogging(verbose bool) error {
	if err := logger.Init(logger.WithOutput(os.Stderr)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the seed tool.
func ShowHelp() {
	os.Stdout.WriteString(`jobscope seed tool
==================

Generates a synthetic job-listing dataset and optionally checks that a
running jobscope service loaded it.

Usage:
  go run ./cmd/seed [options]

Options:
  -count int
        Number of listings to generate (default 500)
  -seed int
        Random seed (default 1)
  -malformed float
        Share of listings with an unparsable posting date (default 0.03)
  -format string
        Output format: csv, sqlite or postgres (default "csv")
  -output string
        CSV path or database DSN (default: jobs_TIMESTAMP.csv)
  -table string
        Table name for sql formats (default "jobs")
  -url string
        Verify a service at this base URL after writing
  -timeout duration
        HTTP request timeout (default 10s)
  -verbose
        Enable debug logging
  -help
        Show this help message

Examples:
  # Write 500 listings to jobs.csv
  go run ./cmd/seed -output jobs.csv

  # Seed a sqlite database
  go run ./cmd/seed -format sqlite -output jobs.db -count 2000

  # Check a service started with JOBS_DATASET_PATH=jobs.csv
  go run ./cmd/seed -output jobs.csv -url http://localhost:5051
`)
}
