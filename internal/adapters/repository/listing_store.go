package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/jobscope/internal/adapters/worker"
	"github.com/okian/jobscope/internal/domain/model"
	"github.com/okian/jobscope/internal/domain/sentiment"
	"github.com/okian/jobscope/internal/domain/timeparse"
	"github.com/okian/jobscope/pkg/logger"
	"github.com/okian/jobscope/pkg/metrics"
)

// ListingStore is built once and never mutated afterwards, so concurrent
// reads need no locking.
type ListingStore struct {
	listings []model.Listing
	dropped  int
	builtAt  time.Time
}

var _ Reader = (*ListingStore)(nil)

// Build normalizes raws against now and scores every retained description
// once. Records whose posting date cannot be parsed are dropped. Sentiment
// failures leave the listing unscored; only ctx cancellation fails the build.
func Build(ctx context.Context, raws []model.RawListing, now time.Time, scorer sentiment.Scorer, opts ...Option) (*ListingStore, error) {
	if scorer == nil {
		return nil, ErrNoScorer
	}
	o := buildOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Get().Named("store")
	}

	start := time.Now()
	listings := make([]model.Listing, 0, len(raws))
	dropped := 0
	for i := range raws {
		raw := &raws[i]
		postedAt, err := timeparse.Normalize(raw.PostedAt, now)
		if err != nil {
			dropped++
			o.logger.Debug(ctx, "dropping listing with unparsable posting date",
				logger.Int("row", i), logger.String("postdate", raw.PostedAt))
			continue
		}
		listings = append(listings, model.Listing{
			ID:              len(listings),
			JobID:           raw.JobID,
			Title:           raw.Title,
			Company:         raw.Company,
			LocationAddress: raw.LocationAddress,
			Skills:          raw.Skills,
			Description:     raw.Description,
			EmploymentType:  raw.EmploymentType,
			PostedAt:        postedAt,
			Week:            model.WeekOf(postedAt),
			City:            model.CityOf(raw.LocationAddress),
		})
	}

	pool := worker.NewPool(o.workers, worker.WithName("store-scorer"), worker.WithLogger(o.logger))
	err := pool.Run(ctx, len(listings), func(ctx context.Context, i int) error {
		p, err := scoreOne(ctx, scorer, listings[i].Description)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			o.logger.Warn(ctx, "sentiment scoring failed; listing left unscored",
				logger.Int("id", i), logger.Error(err))
			p = model.Unscored
		}
		listings[i].Sentiment = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuild, err)
	}

	took := time.Since(start)
	metrics.UpdateListingsLoaded(len(listings))
	metrics.UpdateListingsDropped(dropped)
	metrics.RecordStoreBuildLatency(float64(took.Milliseconds()))
	o.logger.Info(ctx, "listing store built",
		logger.Int("listings", len(listings)),
		logger.Int("dropped", dropped),
		logger.Int("workers", pool.Size()),
		logger.Duration("took", took),
	)

	return &ListingStore{listings: listings, dropped: dropped, builtAt: now}, nil
}

// scoreOne calls scorer, turning a panic into an error so one bad description
// cannot abort the build.
func scoreOne(ctx context.Context, scorer sentiment.Scorer, text string) (p model.Polarity, err error) {
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordSentimentError()
			p, err = model.Unscored, fmt.Errorf("%w: %v", ErrScorerPanic, r)
		}
	}()
	return scorer.Score(ctx, text)
}

// All returns listings in ingestion order.
func (s *ListingStore) All() []model.Listing { return s.listings }

// Len returns the number of listings.
func (s *ListingStore) Len() int { return len(s.listings) }

// Dropped returns how many raw records were rejected at build time.
func (s *ListingStore) Dropped() int { return s.dropped }

// BuiltAt returns the reference time the store was normalized against.
func (s *ListingStore) BuiltAt() time.Time { return s.builtAt }

// Each calls fn for every listing in ingestion order until fn returns false.
func (s *ListingStore) Each(fn func(model.Listing) bool) {
	for i := range s.listings {
		if !fn(s.listings[i]) {
			return
		}
	}
}
