package sentiment

import (
	"context"
	"time"

	"github.com/okian/jobscope/internal/domain/model"
	"github.com/okian/jobscope/pkg/logger"
	"github.com/okian/jobscope/pkg/metrics"
)

// Guard wraps a Scorer so that a failed call degrades to model.Unscored
// instead of failing the caller. Only context cancellation is propagated.
type Guard struct {
	next   Scorer
	logger logger.Logger
}

// NewGuard wraps next. A nil log falls back to the global logger.
func NewGuard(next Scorer, log logger.Logger) *Guard {
	if log == nil {
		log = logger.Get().Named("sentiment")
	}
	return &Guard{next: next, logger: log}
}

// Score implements Scorer.
func (g *Guard) Score(ctx context.Context, text string) (model.Polarity, error) {
	start := time.Now()
	p, err := g.next.Score(ctx, text)
	metrics.RecordSentimentLatency(float64(time.Since(start).Microseconds()) / 1000)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return model.Unscored, ctxErr
		}
		metrics.RecordSentimentError()
		g.logger.Warn(ctx, "sentiment scoring failed; treating as unscored", logger.Error(err))
		return model.Unscored, nil
	}
	if !p.Valid {
		metrics.RecordSentimentUnscored()
	}
	return p, nil
}
