package service_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	service "github.com/okian/jobscope/internal/app"
	"github.com/okian/jobscope/internal/config"
	"github.com/okian/jobscope/internal/domain/analytics"
	"github.com/okian/jobscope/internal/domain/model"
	"github.com/okian/jobscope/internal/domain/search"
	"github.com/okian/jobscope/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// staticSource serves a fixed slice of raw listings.
type staticSource struct {
	raws []model.RawListing
	err  error
}

func (s *staticSource) Name() string { return "static" }

func (s *staticSource) Load(context.Context) ([]model.RawListing, error) {
	return s.raws, s.err
}

// keywordScorer scores "good" 0.5, "bad" -0.5 and anything else 0.
type keywordScorer struct {
	calls atomic.Int64
}

func (k *keywordScorer) Score(_ context.Context, text string) (model.Polarity, error) {
	k.calls.Add(1)
	switch {
	case strings.TrimSpace(text) == "":
		return model.Unscored, nil
	case strings.Contains(text, "good"):
		return model.Scored(0.5), nil
	case strings.Contains(text, "bad"):
		return model.Scored(-0.5), nil
	}
	return model.Scored(0), nil
}

var fixedNow = time.Date(2024, time.March, 13, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func rawListings() []model.RawListing {
	return []model.RawListing{
		{Title: "Go Developer", LocationAddress: "Austin, TX", Skills: "Go, SQL", Description: "good", EmploymentType: "Full Time", PostedAt: "1 day ago"},
		{Title: "Java Developer", LocationAddress: "Boston, MA", Skills: "Java", Description: "bad", EmploymentType: "Contract", PostedAt: "2 hours ago"},
		{Title: "Broken", LocationAddress: "Boston, MA", PostedAt: "last week"},
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it reports sensible defaults before starting", func() {
			So(svc, ShouldNotBeNil)
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["sentimentPolicy"], ShouldEqual, config.PolicyReuse)
			So(stats["scoreWorkers"], ShouldBeGreaterThan, 0)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithScoreWorkers(8),
			service.WithSentimentPolicy(config.PolicyRescore),
			service.WithScoringLatencyRange(time.Millisecond, 2*time.Millisecond),
			service.WithClock(clock),
		)

		Convey("Then the options are applied", func() {
			stats := svc.GetStats()
			So(stats["scoreWorkers"], ShouldEqual, 8)
			So(stats["sentimentPolicy"], ShouldEqual, config.PolicyRescore)
		})
	})

	Convey("Given an unknown sentiment policy", t, func() {
		svc := service.New(service.WithSentimentPolicy("sometimes"))
		So(svc.GetStats()["sentimentPolicy"], ShouldEqual, config.PolicyReuse)
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a service with a dataset source", t, func() {
		svc := service.New(
			service.WithSource(&staticSource{raws: rawListings()}),
			service.WithScorer(&keywordScorer{}),
			service.WithClock(clock),
		)
		// Ensure service is stopped after test
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("And the store excludes unparsable rows", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["listings"], ShouldEqual, 2)
				So(stats["dropped"], ShouldEqual, 1)
				So(stats["source"], ShouldEqual, "static")
			})

			Convey("And starting twice is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})

	Convey("Given a service without a source", t, func() {
		svc := service.New()
		err := svc.Start(context.Background())
		So(errors.Is(err, service.ErrNoSource), ShouldBeTrue)
	})

	Convey("Given a source that fails", t, func() {
		loadErr := errors.New("disk gone")
		svc := service.New(service.WithSource(&staticSource{err: loadErr}))
		err := svc.Start(context.Background())

		Convey("Then Start returns the load error and queries stay unavailable", func() {
			So(errors.Is(err, loadErr), ShouldBeTrue)
			_, qerr := svc.Search(context.Background(), search.Query{Page: 1})
			So(errors.Is(qerr, service.ErrNotStarted), ShouldBeTrue)
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(
			service.WithSource(&staticSource{raws: rawListings()}),
			service.WithScorer(&keywordScorer{}),
			service.WithClock(clock),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := svc.Start(ctx)
		So(err, ShouldBeNil)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, false)
			})

			Convey("And queries return ErrNotStarted", func() {
				_, err := svc.Overview(ctx)
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
				_, err = svc.Scoped(ctx, analytics.Scope{City: "Austin"})
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})

			Convey("And stopping again is safe", func() {
				svc.Stop()
			})
		})
	})
}

func TestService_Queries(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := service.New(
			service.WithSource(&staticSource{raws: rawListings()}),
			service.WithScorer(&keywordScorer{}),
			service.WithClock(clock),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("Search applies the query pipeline", func() {
			page, err := svc.Search(ctx, search.Query{SortBy: search.SortDate, SortOrder: search.OrderDesc, Page: 1})
			So(err, ShouldBeNil)
			So(page.TotalCount, ShouldEqual, 2)
			So(page.Listings[0].Title, ShouldEqual, "Java Developer")
			So(page.Listings[0].PostedAt.Equal(fixedNow.Add(-2*time.Hour)), ShouldBeTrue)
		})

		Convey("Search rejects pages below 1", func() {
			_, err := svc.Search(ctx, search.Query{Page: 0})
			So(errors.Is(err, search.ErrInvalidArgument), ShouldBeTrue)
		})

		Convey("Overview lists cities and employment types", func() {
			over, err := svc.Overview(ctx)
			So(err, ShouldBeNil)
			So(over.AllCities, ShouldResemble, []string{"Austin", "Boston"})
			So(over.EmploymentTypes, ShouldResemble, []string{"Contract", "Full Time"})
			So(len(over.SentimentByCity), ShouldEqual, 2)
		})

		Convey("Scoped narrows the aggregates", func() {
			res, err := svc.Scoped(ctx, analytics.Scope{EmploymentType: "contract"})
			So(err, ShouldBeNil)
			So(res.Listings, ShouldEqual, 1)
			So(res.TopCities, ShouldResemble, []analytics.Count{{Key: "Boston", Count: 1}})
			So(res.SentimentByCity[0].Mean, ShouldAlmostEqual, -0.5)
		})
	})
}

func TestService_SentimentPolicy(t *testing.T) {
	Convey("Given the reuse policy", t, func() {
		ctx := context.Background()
		scorer := &keywordScorer{}
		svc := service.New(
			service.WithSource(&staticSource{raws: rawListings()}),
			service.WithScorer(scorer),
			service.WithClock(clock),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()
		built := scorer.calls.Load()

		Convey("Then analytics never call the scorer again", func() {
			_, err := svc.Overview(ctx)
			So(err, ShouldBeNil)
			_, err = svc.Scoped(ctx, analytics.Scope{City: "Austin"})
			So(err, ShouldBeNil)
			So(scorer.calls.Load(), ShouldEqual, built)
		})
	})

	Convey("Given the rescore policy", t, func() {
		ctx := context.Background()
		scorer := &keywordScorer{}
		svc := service.New(
			service.WithSource(&staticSource{raws: rawListings()}),
			service.WithScorer(scorer),
			service.WithSentimentPolicy(config.PolicyRescore),
			service.WithClock(clock),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()
		built := scorer.calls.Load()

		Convey("Then both views rescore their listings", func() {
			_, err := svc.Overview(ctx)
			So(err, ShouldBeNil)
			So(scorer.calls.Load(), ShouldEqual, built+2)

			_, err = svc.Scoped(ctx, analytics.Scope{City: "Austin"})
			So(err, ShouldBeNil)
			So(scorer.calls.Load(), ShouldEqual, built+3)
		})
	})
}
