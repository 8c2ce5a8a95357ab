package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/jobscope/internal/domain/model"
	"github.com/okian/jobscope/internal/domain/search"
	"github.com/okian/jobscope/pkg/logger"
)

// SearchDependencies defines the interface for listing search.
type SearchDependencies interface {
	Search(ctx context.Context, q search.Query) (search.Page, error)
}

// SearchHandler handles search requests.
type SearchHandler struct {
	deps   SearchDependencies
	logger logger.Logger
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(deps SearchDependencies, log logger.Logger) *SearchHandler {
	return &SearchHandler{deps: deps, logger: log}
}

type listingResponse struct {
	ID             int      `json:"id"`
	JobID          string   `json:"job_id,omitempty"`
	Title          string   `json:"title"`
	Company        string   `json:"company,omitempty"`
	Location       string   `json:"location"`
	City           string   `json:"city,omitempty"`
	Skills         string   `json:"skills"`
	Description    string   `json:"description"`
	EmploymentType string   `json:"employment_type"`
	PostedAt       string   `json:"posted_at"`
	Week           string   `json:"week"`
	Sentiment      *float64 `json:"sentiment"`
}

type searchResponse struct {
	Listings   []listingResponse `json:"listings"`
	TotalCount int               `json:"total_count"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
	PageRange  []int             `json:"page_range"`
}

func toListingResponse(l *model.Listing) listingResponse {
	out := listingResponse{
		ID:             l.ID,
		JobID:          l.JobID,
		Title:          l.Title,
		Company:        l.Company,
		Location:       l.LocationAddress,
		City:           l.City,
		Skills:         l.Skills,
		Description:    l.Description,
		EmploymentType: l.EmploymentType,
		PostedAt:       l.PostedAt.UTC().Format(time.RFC3339),
		Week:           l.Week,
	}
	if l.Sentiment.Valid {
		v := l.Sentiment.Value
		out.Sentiment = &v
	}
	return out
}

// HandleSearch handles GET /search?title=&location=&skill=&sort_by=&sort_order=&page= requests.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	const op = "api.search"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	params := r.URL.Query()
	page := 1
	if raw := strings.TrimSpace(params.Get("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		page = n
	}

	res, err := h.deps.Search(r.Context(), search.Query{
		Title:     params.Get("title"),
		Location:  params.Get("location"),
		Skill:     params.Get("skill"),
		SortBy:    params.Get("sort_by"),
		SortOrder: params.Get("sort_order"),
		Page:      page,
	})
	if err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}

	out := searchResponse{
		Listings:   make([]listingResponse, 0, len(res.Listings)),
		TotalCount: res.TotalCount,
		Page:       res.Page,
		TotalPages: res.TotalPages,
		PageRange:  res.PageRange,
	}
	for i := range res.Listings {
		out.Listings = append(out.Listings, toListingResponse(&res.Listings[i]))
	}
	writeJSON(w, http.StatusOK, out)
}
