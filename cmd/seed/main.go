package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/jobscope/internal/seed"
)

// Default configuration constants.
const (
	defaultCount         = 500
	defaultSeed          = 1
	defaultMalformedRate = 0.03
	defaultTable         = "jobs"
	defaultTimeout       = 10 * time.Second
	defaultRunTimeout    = 10 * time.Minute
)

func main() {
	var (
		count     = flag.Int("count", defaultCount, "Number of listings to generate")
		seedValue = flag.Int64("seed", defaultSeed, "Random seed")
		malformed = flag.Float64("malformed", defaultMalformedRate, "Share of listings with an unparsable posting date")
		format    = flag.String("format", seed.FormatCSV, "Output format: csv, sqlite or postgres")
		output    = flag.String("output", "", "CSV path or database DSN (default: jobs_TIMESTAMP.csv)")
		table     = flag.String("table", defaultTable, "Table name for sql formats")
		baseURL   = flag.String("url", "", "Verify a service at this base URL after writing")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose   = flag.Bool("verbose", false, "Enable debug logging")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seed.ShowHelp()
		return
	}

	if err := seed.SetupLogging(*verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	cfg := &seed.Config{
		Count:         *count,
		Seed:          *seedValue,
		MalformedRate: *malformed,
		Format:        *format,
		Output:        *output,
		Table:         *table,
		BaseURL:       *baseURL,
		Timeout:       *timeout,
	}

	if _, err := seed.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Seed failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
