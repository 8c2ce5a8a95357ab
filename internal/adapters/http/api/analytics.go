package api

import (
	"context"
	"net/http"

	"github.com/okian/jobscope/internal/domain/analytics"
	"github.com/okian/jobscope/pkg/logger"
)

// AnalyticsDependencies defines the interface for analytics views.
type AnalyticsDependencies interface {
	Overview(ctx context.Context) (analytics.Overview, error)
	Scoped(ctx context.Context, scope analytics.Scope) (analytics.Result, error)
}

// AnalyticsHandler handles overview and scoped analytics requests.
type AnalyticsHandler struct {
	deps   AnalyticsDependencies
	logger logger.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(deps AnalyticsDependencies, log logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{deps: deps, logger: log}
}

type countResponse struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type cityScoreResponse struct {
	City    string  `json:"city"`
	Mean    float64 `json:"mean"`
	Samples int     `json:"samples"`
}

type aggregateErrorResponse struct {
	Aggregate string `json:"aggregate"`
	Message   string `json:"message"`
}

type analyticsResponse struct {
	Listings        int                      `json:"listings"`
	TopSkills       []countResponse          `json:"top_skills"`
	TopCities       []countResponse          `json:"top_cities"`
	JobsByWeek      []countResponse          `json:"jobs_by_week"`
	SentimentByCity []cityScoreResponse      `json:"sentiment_by_city"`
	Errors          []aggregateErrorResponse `json:"errors,omitempty"`
}

type overviewResponse struct {
	analyticsResponse
	AllCities       []string `json:"all_cities"`
	EmploymentTypes []string `json:"employment_types"`
}

func toCounts(cs []analytics.Count) []countResponse {
	out := make([]countResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, countResponse{Key: c.Key, Count: c.Count})
	}
	return out
}

func toAnalyticsResponse(res *analytics.Result) analyticsResponse {
	out := analyticsResponse{
		Listings:        res.Listings,
		TopSkills:       toCounts(res.TopSkills),
		TopCities:       toCounts(res.TopCities),
		JobsByWeek:      toCounts(res.JobsByWeek),
		SentimentByCity: make([]cityScoreResponse, 0, len(res.SentimentByCity)),
	}
	for _, s := range res.SentimentByCity {
		out.SentimentByCity = append(out.SentimentByCity, cityScoreResponse{City: s.City, Mean: s.Mean, Samples: s.Samples})
	}
	for _, e := range res.Errors {
		out.Errors = append(out.Errors, aggregateErrorResponse{Aggregate: e.Aggregate, Message: e.Err.Error()})
	}
	return out
}

// HandleOverview handles GET /analytics requests.
func (h *AnalyticsHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	const op = "api.analytics_overview"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	over, err := h.deps.Overview(r.Context())
	if err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, overviewResponse{
		analyticsResponse: toAnalyticsResponse(&over.Result),
		AllCities:         over.AllCities,
		EmploymentTypes:   over.EmploymentTypes,
	})
}

// HandleScoped handles GET /analytics/data?city=&type= requests.
func (h *AnalyticsHandler) HandleScoped(w http.ResponseWriter, r *http.Request) {
	const op = "api.analytics_scoped"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	params := r.URL.Query()
	res, err := h.deps.Scoped(r.Context(), analytics.Scope{
		City:           params.Get("city"),
		EmploymentType: params.Get("type"),
	})
	if err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toAnalyticsResponse(&res))
}
