package seed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/jobscope/internal/adapters/dataset"
	"github.com/okian/jobscope/internal/domain/model"
	"github.com/okian/jobscope/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Write stores raws in the configured format and returns the destination name.
func Write(ctx context.Context, cfg *Config, raws []model.RawListing, stats *Stats) (string, error) {
	var (
		dest string
		err  error
	)
	switch cfg.Format {
	case FormatCSV, "":
		dest, err = writeCSVFile(cfg.Output, raws)
	case FormatSQLite, FormatPostgres:
		dest, err = writeTable(ctx, cfg, raws)
	default:
		return "", fmt.Errorf("%w: %q", dataset.ErrUnknownSource, cfg.Format)
	}
	if err != nil {
		return "", err
	}

	stats.Written = len(raws)
	logger.Get().Info(ctx, "dataset written",
		logger.String("destination", dest),
		logger.Int("listings", stats.Written))
	return dest, nil
}

func writeCSVFile(filename string, raws []model.RawListing) (string, error) {
	if filename == "" {
		filename = "jobs_" + time.Now().Format("20060102_150405") + ".csv"
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if err := dataset.WriteCSV(file, raws); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("failed to write csv: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	return filename, nil
}

func writeTable(ctx context.Context, cfg *Config, raws []model.RawListing) (string, error) {
	if cfg.Output == "" {
		return "", fmt.Errorf("%s output needs a dsn", cfg.Format)
	}
	src, err := dataset.NewSQLSource(cfg.Format, cfg.Output, cfg.Table)
	if err != nil {
		return "", err
	}
	if err := src.Import(ctx, raws); err != nil {
		return "", fmt.Errorf("failed to import listings: %w", err)
	}
	return src.Name(), nil
}
