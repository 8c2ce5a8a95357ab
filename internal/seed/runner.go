package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/jobscope/pkg/logger"
)

// Run generates a dataset, writes it, and optionally verifies a running
// service against it.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting seed",
		logger.Int("count", cfg.Count),
		logger.Any("seed", cfg.Seed),
		logger.String("format", cfg.Format),
		logger.String("baseURL", cfg.BaseURL))

	raws, err := Generate(ctx, cfg, stats)
	if err != nil {
		return stats, fmt.Errorf("generation failed: %w", err)
	}

	if _, err := Write(ctx, cfg, raws, stats); err != nil {
		return stats, fmt.Errorf("write failed: %w", err)
	}

	if cfg.BaseURL != "" {
		if err := Verify(ctx, cfg, stats); err != nil {
			return stats, fmt.Errorf("verification failed: %w", err)
		}
	}

	stats.Duration = time.Since(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	logger.Get().Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("malformed", stats.Malformed),
		logger.Int("written", stats.Written),
		logger.Bool("verified", stats.Verified),
		logger.String("duration", stats.Duration.String()))
}
