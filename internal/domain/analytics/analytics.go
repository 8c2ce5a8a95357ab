// Package analytics computes aggregate views over listings: most requested
// skills, busiest cities, weekly posting volume and mean sentiment per city.
package analytics

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/okian/jobscope/internal/adapters/worker"
	"github.com/okian/jobscope/internal/domain/model"
	"github.com/okian/jobscope/pkg/logger"
	"github.com/okian/jobscope/pkg/metrics"
)

// Aggregate limits.
const (
	TopSkillsLimit = 10
	TopCitiesLimit = 5
)

// Aggregate names as reported in AggregateError and metrics.
const (
	AggregateTopSkills       = "top_skills"
	AggregateTopCities       = "top_cities"
	AggregateJobsByWeek      = "jobs_by_week"
	AggregateSentimentByCity = "sentiment_by_city"
)

const skillDelimiter = ", "

// Scope narrows analytics to a subset. Zero fields do not filter.
type Scope struct {
	City           string
	EmploymentType string
}

// IsZero reports whether s selects every listing.
func (s Scope) IsZero() bool {
	return strings.TrimSpace(s.City) == "" && strings.TrimSpace(s.EmploymentType) == ""
}

// Count is a key with its number of occurrences.
type Count struct {
	Key   string
	Count int
}

// CityScore is the mean sentiment of a city's scored listings.
type CityScore struct {
	City    string
	Mean    float64
	Samples int
}

// Result holds the four aggregates. A failed aggregate is left empty and
// reported in Errors.
type Result struct {
	Listings        int
	TopSkills       []Count
	TopCities       []Count
	JobsByWeek      []Count
	SentimentByCity []CityScore
	Errors          []*AggregateError
}

// Overview is the unscoped view plus the values a caller can scope by.
type Overview struct {
	Result
	AllCities       []string
	EmploymentTypes []string
}

// Run computes the aggregates over the listings selected by scope. It only
// fails when ctx is cancelled while rescoring.
func Run(ctx context.Context, listings []model.Listing, scope Scope, opts ...Option) (Result, error) {
	o := newRunOptions(opts)
	return compute(ctx, scope.apply(listings), o)
}

// RunOverview computes the unscoped aggregates together with the sorted
// city and employment type lists.
func RunOverview(ctx context.Context, listings []model.Listing, opts ...Option) (Overview, error) {
	o := newRunOptions(opts)
	res, err := compute(ctx, listings, o)
	if err != nil {
		return Overview{}, err
	}
	return Overview{
		Result:          res,
		AllCities:       distinct(listings, func(l *model.Listing) string { return l.City }),
		EmploymentTypes: distinct(listings, func(l *model.Listing) string { return strings.TrimSpace(l.EmploymentType) }),
	}, nil
}

func newRunOptions(opts []Option) *runOptions {
	o := &runOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logger.Get().Named("analytics")
	}
	return o
}

func compute(ctx context.Context, scoped []model.Listing, o *runOptions) (Result, error) {
	res := Result{
		Listings:        len(scoped),
		TopSkills:       []Count{},
		TopCities:       []Count{},
		JobsByWeek:      []Count{},
		SentimentByCity: []CityScore{},
	}

	polarities, scoreErr := o.polarities(ctx, scoped)
	if scoreErr != nil && ctx.Err() != nil {
		return Result{}, ctx.Err()
	}

	res.guard(ctx, o, AggregateTopSkills, func() error {
		res.TopSkills = topSkills(scoped)
		return nil
	})
	res.guard(ctx, o, AggregateTopCities, func() error {
		res.TopCities = topCities(scoped)
		return nil
	})
	res.guard(ctx, o, AggregateJobsByWeek, func() error {
		res.JobsByWeek = jobsByWeek(scoped)
		return nil
	})
	res.guard(ctx, o, AggregateSentimentByCity, func() error {
		if scoreErr != nil {
			return scoreErr
		}
		res.SentimentByCity = sentimentByCity(scoped, polarities)
		return nil
	})
	return res, nil
}

// guard runs one aggregate, turning an error or panic into an entry in
// r.Errors so the remaining aggregates still run.
func (r *Result) guard(ctx context.Context, o *runOptions, name string, fn func() error) {
	err := func() (err error) {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("%w: panic: %v", ErrAggregate, p)
			}
		}()
		return fn()
	}()
	if err == nil {
		return
	}
	r.Errors = append(r.Errors, &AggregateError{Aggregate: name, Err: err})
	metrics.RecordAnalyticsAggregateError(name)
	o.logger.Warn(ctx, "aggregate failed", logger.String("aggregate", name), logger.Error(err))
}

// polarities returns the sentiment to aggregate for each listing: the stored
// value, or a fresh score when rescoring is enabled.
func (o *runOptions) polarities(ctx context.Context, scoped []model.Listing) ([]model.Polarity, error) {
	out := make([]model.Polarity, len(scoped))
	if o.rescorer == nil {
		for i := range scoped {
			out[i] = scoped[i].Sentiment
		}
		return out, nil
	}

	pool := worker.NewPool(o.workers, worker.WithName("analytics-rescore"), worker.WithLogger(o.logger))
	err := pool.Run(ctx, len(scoped), func(ctx context.Context, i int) (err error) {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("%w: scorer panic: %v", ErrAggregate, p)
			}
		}()
		p, scoreErr := o.rescorer.Score(ctx, scoped[i].Description)
		if scoreErr != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p = model.Unscored
		}
		out[i] = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// apply returns the listings selected by s. City matches the derived city
// exactly, ignoring case; employment type matches as a whole word.
func (s Scope) apply(listings []model.Listing) []model.Listing {
	if s.IsZero() {
		return listings
	}
	city := strings.TrimSpace(s.City)
	var employment *regexp.Regexp
	if et := strings.TrimSpace(s.EmploymentType); et != "" {
		employment = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(et) + `\b`)
	}

	out := make([]model.Listing, 0, len(listings))
	for i := range listings {
		l := &listings[i]
		if city != "" && !strings.EqualFold(strings.TrimSpace(l.City), city) {
			continue
		}
		if employment != nil && !employment.MatchString(l.EmploymentType) {
			continue
		}
		out = append(out, *l)
	}
	return out
}

// counter counts keys and remembers the order they were first seen in.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// top returns at most n keys by descending count, ties in first-seen order.
func (c *counter) top(n int) []Count {
	out := make([]Count, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, Count{Key: k, Count: c.counts[k]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func topSkills(listings []model.Listing) []Count {
	c := newCounter()
	for i := range listings {
		if listings[i].Skills == "" {
			continue
		}
		for _, skill := range strings.Split(listings[i].Skills, skillDelimiter) {
			// "Go, " and "Go, , SQL" leave blank tokens; they are not skills.
			if strings.TrimSpace(skill) == "" {
				continue
			}
			c.add(skill)
		}
	}
	return c.top(TopSkillsLimit)
}

func topCities(listings []model.Listing) []Count {
	c := newCounter()
	for i := range listings {
		if listings[i].City == "" {
			continue
		}
		c.add(listings[i].City)
	}
	return c.top(TopCitiesLimit)
}

// jobsByWeek counts every week present, ordered by week.
func jobsByWeek(listings []model.Listing) []Count {
	c := newCounter()
	for i := range listings {
		if listings[i].Week == "" {
			continue
		}
		c.add(listings[i].Week)
	}
	out := c.top(0)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// sentimentByCity averages valid polarities per city, ordered by city.
// Cities without a single valid score are omitted.
func sentimentByCity(listings []model.Listing, polarities []model.Polarity) []CityScore {
	type acc struct {
		sum float64
		n   int
	}
	byCity := make(map[string]*acc)
	for i := range listings {
		city := listings[i].City
		p := polarities[i]
		if city == "" || !p.Valid {
			continue
		}
		a, ok := byCity[city]
		if !ok {
			a = &acc{}
			byCity[city] = a
		}
		a.sum += p.Value
		a.n++
	}

	out := make([]CityScore, 0, len(byCity))
	for city, a := range byCity {
		out = append(out, CityScore{City: city, Mean: a.sum / float64(a.n), Samples: a.n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].City < out[j].City })
	return out
}

// distinct returns the sorted non-empty values of field.
func distinct(listings []model.Listing, field func(*model.Listing) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for i := range listings {
		v := field(&listings[i])
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
