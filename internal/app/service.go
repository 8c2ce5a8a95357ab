// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/jobscope/internal/adapters/dataset"
	"github.com/okian/jobscope/internal/adapters/repository"
	"github.com/okian/jobscope/internal/config"
	"github.com/okian/jobscope/internal/domain/analytics"
	"github.com/okian/jobscope/internal/domain/sentiment"
	"github.com/okian/jobscope/internal/domain/search"
	"github.com/okian/jobscope/pkg/logger"
	"github.com/okian/jobscope/pkg/metrics"
)

// Analytics view labels.
const (
	viewOverview = "overview"
	viewScoped   = "scoped"
)

// Service owns the listing store and answers search and analytics queries
// over it. The store is built once in Start; queries never lock it.
type Service struct {
	mu sync.RWMutex

	// Core components
	source dataset.Source
	scorer sentiment.Scorer
	store  *repository.ListingStore

	// Configuration
	scoreWorkers    int
	sentimentPolicy string
	now             func() time.Time
	// Scoring latency configuration
	scoringMinLatency time.Duration
	scoringMaxLatency time.Duration

	// State
	started   bool
	startedAt time.Time

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets where raw listings are loaded from.
func WithSource(src dataset.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithScorer replaces the built-in lexicon scorer. It is wrapped in a
// sentiment.Guard on Start.
func WithScorer(scorer sentiment.Scorer) Option {
	return func(s *Service) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// WithScoreWorkers sets the number of concurrent sentiment scoring calls.
func WithScoreWorkers(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.scoreWorkers = count
		}
	}
}

// WithSentimentPolicy selects config.PolicyReuse or config.PolicyRescore.
// Unknown values are ignored.
func WithSentimentPolicy(policy string) Option {
	return func(s *Service) {
		if policy == config.PolicyReuse || policy == config.PolicyRescore {
			s.sentimentPolicy = policy
		}
	}
}

// WithScoringLatencyRange sets the simulated scoring latency range of the
// built-in scorer.
func WithScoringLatencyRange(minLatency, maxLatency time.Duration) Option {
	return func(s *Service) {
		if minLatency > 0 && maxLatency > minLatency {
			s.scoringMinLatency = minLatency
			s.scoringMaxLatency = maxLatency
		}
	}
}

// WithClock sets the reference time used to resolve relative posting dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		scoreWorkers:    runtime.NumCPU() * 2, // Default to 2x CPU cores
		sentimentPolicy: config.PolicyReuse,
		now:             time.Now,
		logger:          nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the dataset and builds the listing store. It must complete
// before the service answers queries.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.source == nil {
		return ErrNoSource
	}

	s.logger.Info(ctx, "starting listing service...", logger.String("source", s.source.Name()))

	raws, err := s.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load %s: %w", s.source.Name(), err)
	}

	if s.scorer == nil {
		s.scorer = sentiment.NewLexiconScorer(
			sentiment.WithLatencyRange(s.scoringMinLatency, s.scoringMaxLatency),
		)
	}
	if _, guarded := s.scorer.(*sentiment.Guard); !guarded {
		s.scorer = sentiment.NewGuard(s.scorer, s.logger.Named("sentiment"))
	}

	store, err := repository.Build(ctx, raws, s.now(), s.scorer,
		repository.WithWorkers(s.scoreWorkers),
		repository.WithLogger(s.logger.Named("store")),
	)
	if err != nil {
		return err
	}
	s.store = store

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "listing service started",
		logger.Int("listings", store.Len()),
		logger.Int("dropped", store.Dropped()),
		logger.Int("scoreWorkers", s.scoreWorkers),
		logger.String("sentimentPolicy", s.sentimentPolicy),
	)

	return nil
}

// Stop releases the store. Queries afterwards return ErrNotStarted.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.store = nil
	s.started = false
	s.logger.Info(context.Background(), "listing service stopped")
}

// reader returns the built store, or ErrNotStarted.
func (s *Service) reader() (*repository.ListingStore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// Search runs the query pipeline.
func (s *Service) Search(ctx context.Context, q search.Query) (search.Page, error) {
	store, err := s.reader()
	if err != nil {
		return search.Page{}, err
	}

	start := time.Now()
	page, err := search.Run(store.All(), q)
	if err != nil {
		return search.Page{}, err
	}
	metrics.RecordSearch(q.SortBy, page.TotalCount, float64(time.Since(start).Milliseconds()))

	s.logger.Debug(ctx, "search served",
		logger.String("title", q.Title),
		logger.String("location", q.Location),
		logger.String("skill", q.Skill),
		logger.Int("page", q.Page),
		logger.Int("total", page.TotalCount),
	)
	return page, nil
}

// Overview runs unscoped analytics.
func (s *Service) Overview(ctx context.Context) (analytics.Overview, error) {
	store, err := s.reader()
	if err != nil {
		return analytics.Overview{}, err
	}

	start := time.Now()
	over, err := analytics.RunOverview(ctx, store.All(), s.analyticsOptions()...)
	if err != nil {
		return analytics.Overview{}, err
	}
	metrics.RecordAnalytics(viewOverview, float64(time.Since(start).Milliseconds()))
	return over, nil
}

// Scoped runs analytics over the listings selected by scope.
func (s *Service) Scoped(ctx context.Context, scope analytics.Scope) (analytics.Result, error) {
	store, err := s.reader()
	if err != nil {
		return analytics.Result{}, err
	}

	start := time.Now()
	res, err := analytics.Run(ctx, store.All(), scope, s.analyticsOptions()...)
	if err != nil {
		return analytics.Result{}, err
	}
	metrics.RecordAnalytics(viewScoped, float64(time.Since(start).Milliseconds()))

	s.logger.Debug(ctx, "scoped analytics served",
		logger.String("city", scope.City),
		logger.String("employmentType", scope.EmploymentType),
		logger.Int("listings", res.Listings),
	)
	return res, nil
}

// analyticsOptions applies the same sentiment policy to every view.
func (s *Service) analyticsOptions() []analytics.Option {
	opts := []analytics.Option{analytics.WithLogger(s.logger.Named("analytics"))}
	if s.sentimentPolicy == config.PolicyRescore {
		opts = append(opts, analytics.WithRescore(s.scorer), analytics.WithWorkers(s.scoreWorkers))
	}
	return opts
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"scoreWorkers":    s.scoreWorkers,
		"sentimentPolicy": s.sentimentPolicy,
	}
	if s.source != nil {
		stats["source"] = s.source.Name()
	}

	if s.started {
		stats["listings"] = s.store.Len()
		stats["dropped"] = s.store.Dropped()
		stats["builtAt"] = s.store.BuiltAt().Format(time.RFC3339)
		stats["uptimeSeconds"] = int(time.Since(s.startedAt).Seconds())

		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)
		metrics.UpdateSystemMemoryUsage(mem.Alloc)
		metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
	}

	return stats
}
