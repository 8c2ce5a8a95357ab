// Package sentiment defines the contract for scoring free text polarity and
// ships an in-process VADER scorer.
package sentiment

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/jonreiter/govader"

	"github.com/okian/jobscope/internal/domain/model"
)

// Default scorer configuration constants.
const (
	defaultRandomSeed = 42
)

// Scorer computes the polarity of text. Empty or whitespace-only text yields
// model.Unscored without error.
type Scorer interface {
	Score(ctx context.Context, text string) (model.Polarity, error)
}

// ScorerFunc adapts a function to Scorer.
type ScorerFunc func(ctx context.Context, text string) (model.Polarity, error)

// Score implements Scorer.
func (f ScorerFunc) Score(ctx context.Context, text string) (model.Polarity, error) {
	return f(ctx, text)
}

// Option applies a configuration option to the LexiconScorer.
type Option func(*LexiconScorer)

// WithLatencyRange simulates the latency of a remote scoring service.
func WithLatencyRange(minLatency, maxLatency time.Duration) Option {
	return func(s *LexiconScorer) {
		if minLatency > 0 && maxLatency > minLatency {
			s.minLatency = minLatency
			s.maxLatency = maxLatency
		}
	}
}

// WithLexicon adds or overrides word valences on VADER's scale, roughly -4
// (most negative) to 4 (most positive).
func WithLexicon(words map[string]float64) Option {
	return func(s *LexiconScorer) {
		for w, v := range words {
			s.analyzer.Lexicon[strings.ToLower(w)] = v
		}
	}
}

// LexiconScorer scores text with the VADER lexicon and rules (negation,
// boosters, "but" shifts, capitalization and punctuation emphasis). The score
// is VADER's compound value, already normalized to [-1, 1]; text without
// opinion words scores 0.
type LexiconScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer

	minLatency time.Duration
	maxLatency time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewLexiconScorer creates a scorer with the stock VADER lexicon. The
// analyzer is read-only after construction, so Score is safe for concurrent use.
func NewLexiconScorer(opts ...Option) *LexiconScorer {
	s := &LexiconScorer{
		analyzer: govader.NewSentimentIntensityAnalyzer(),
		rng:      rand.New(rand.NewSource(defaultRandomSeed)), //nolint:gosec // deterministic seed for reproducible latency
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Score implements Scorer.
func (s *LexiconScorer) Score(ctx context.Context, text string) (model.Polarity, error) {
	if strings.TrimSpace(text) == "" {
		return model.Unscored, nil
	}

	if err := s.wait(ctx); err != nil {
		return model.Unscored, err
	}

	return model.Scored(s.analyzer.PolarityScores(text).Compound), nil
}

func (s *LexiconScorer) wait(ctx context.Context) error {
	if s.maxLatency == 0 {
		return ctx.Err()
	}
	s.mu.Lock()
	latency := s.minLatency + time.Duration(s.rng.Int63n(int64(s.maxLatency-s.minLatency)))
	s.mu.Unlock()

	t := time.NewTimer(latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("context cancelled: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}
