package repository

import "github.com/okian/jobscope/pkg/logger"

// Option applies a configuration option to Build.
type Option func(*buildOptions)

type buildOptions struct {
	workers int
	logger  logger.Logger
}

// WithWorkers bounds how many descriptions are scored concurrently.
func WithWorkers(n int) Option {
	return func(o *buildOptions) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithLogger sets a custom logger for the build.
func WithLogger(l logger.Logger) Option {
	return func(o *buildOptions) {
		if l != nil {
			o.logger = l
		}
	}
}
