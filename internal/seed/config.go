// Package seed generates synthetic job-listing datasets and checks that a
// running service loaded them.
package seed

import (
	"errors"
	"time"
)

// Output formats.
const (
	FormatCSV      = "csv"
	FormatSQLite   = "sqlite"
	FormatPostgres = "postgres"
)

// ErrVerify is returned when a running service disagrees with the generated dataset.
var ErrVerify = errors.New("verification failed")

// Config holds configuration for a seed run.
type Config struct {
	Count         int           // Number of listings to generate
	Seed          int64         // Random seed; equal seeds give equal datasets
	MalformedRate float64       // Share of listings with an unparsable posting date
	Format        string        // csv, sqlite or postgres
	Output        string        // CSV path or database DSN
	Table         string        // Table name for SQL formats
	BaseURL       string        // When set, verify a service loaded the dataset
	Timeout       time.Duration // HTTP request timeout
}

// Stats holds run statistics.
type Stats struct {
	Generated int
	Malformed int
	Written   int
	Verified  bool
	StartTime time.Time
	Duration  time.Duration
}

// Expected returns how many listings a service should hold after loading.
func (s *Stats) Expected() int {
	return s.Generated - s.Malformed
}
