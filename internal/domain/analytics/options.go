package analytics

import (
	"github.com/okian/jobscope/internal/domain/sentiment"
	"github.com/okian/jobscope/pkg/logger"
)

// Option applies a configuration option to an analytics run.
type Option func(*runOptions)

type runOptions struct {
	rescorer sentiment.Scorer
	workers  int
	logger   logger.Logger
}

// WithRescore recomputes sentiment from descriptions instead of reusing the
// stored value. It applies to every view it is passed to.
func WithRescore(scorer sentiment.Scorer) Option {
	return func(o *runOptions) {
		o.rescorer = scorer
	}
}

// WithWorkers bounds rescoring concurrency.
func WithWorkers(n int) Option {
	return func(o *runOptions) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithLogger sets the logger used to report failed aggregates.
func WithLogger(l logger.Logger) Option {
	return func(o *runOptions) {
		if l != nil {
			o.logger = l
		}
	}
}
