// Package search implements the listing query pipeline: sort the whole
// collection, filter it, then cut a page.
package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/okian/jobscope/internal/domain/model"
)

// PageSize is the fixed number of listings per page.
const PageSize = 10

// pageWindow is how many neighbouring page links are offered on each side.
const pageWindow = 2

// Sort keys.
const (
	SortTitle    = "title"
	SortLocation = "location"
	SortDate     = "date"
)

// Sort orders.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Query carries already-typed search parameters. Empty filters match
// everything. Page is 1-indexed.
type Query struct {
	Title     string
	Location  string
	Skill     string
	SortBy    string
	SortOrder string
	Page      int
}

// Page is one page of results plus totals for the whole filtered set.
type Page struct {
	Listings   []model.Listing
	TotalCount int
	Page       int
	TotalPages int
	PageRange  []int
}

// Run answers q over listings without modifying them.
func Run(listings []model.Listing, q Query) (Page, error) {
	if q.Page < 1 {
		return Page{}, fmt.Errorf("%w: page must be >= 1, got %d", ErrInvalidArgument, q.Page)
	}

	sorted := sortListings(listings, q.SortBy, q.SortOrder)
	matched := filter(sorted, q)

	total := len(matched)
	pages := (total + PageSize - 1) / PageSize

	out := Page{
		Listings:   []model.Listing{},
		TotalCount: total,
		Page:       q.Page,
		TotalPages: pages,
		PageRange:  pageRange(q.Page, pages),
	}
	// Past the last page; checked first so the offset cannot overflow.
	if q.Page > pages {
		return out, nil
	}
	start := (q.Page - 1) * PageSize
	if start < total {
		end := start + PageSize
		if end > total {
			end = total
		}
		out.Listings = matched[start:end]
	}
	return out, nil
}

// sortListings returns a stably sorted copy. Without a recognized key the
// newest listings come first regardless of order.
func sortListings(listings []model.Listing, sortBy, order string) []model.Listing {
	out := make([]model.Listing, len(listings))
	copy(out, listings)

	desc := strings.EqualFold(strings.TrimSpace(order), OrderDesc)

	var key func(*model.Listing) string
	switch strings.ToLower(strings.TrimSpace(sortBy)) {
	case SortTitle:
		key = func(l *model.Listing) string { return l.Title }
	case SortLocation:
		key = func(l *model.Listing) string { return l.LocationAddress }
	case SortDate:
		sortByDate(out, desc)
		return out
	default:
		sortByDate(out, true)
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := key(&out[i]), key(&out[j])
		// Missing values go last in both directions.
		if a == "" || b == "" {
			return a != "" && b == ""
		}
		if desc {
			return a > b
		}
		return a < b
	})
	return out
}

func sortByDate(out []model.Listing, desc bool) {
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return out[i].PostedAt.After(out[j].PostedAt)
		}
		return out[i].PostedAt.Before(out[j].PostedAt)
	})
}

// filter keeps listings matching every non-empty filter, case-insensitively.
func filter(listings []model.Listing, q Query) []model.Listing {
	title := strings.ToLower(q.Title)
	location := strings.ToLower(q.Location)
	skill := strings.ToLower(q.Skill)
	if title == "" && location == "" && skill == "" {
		return listings
	}

	out := make([]model.Listing, 0, len(listings))
	for i := range listings {
		l := &listings[i]
		if !contains(l.Title, title) || !contains(l.LocationAddress, location) || !contains(l.Skills, skill) {
			continue
		}
		out = append(out, *l)
	}
	return out
}

func contains(field, needle string) bool {
	if needle == "" {
		return true
	}
	if field == "" {
		return false
	}
	return strings.Contains(strings.ToLower(field), needle)
}

// pageRange lists up to pageWindow pages on each side of current, clipped to [1, total].
func pageRange(current, total int) []int {
	lo := current - pageWindow
	if lo < 1 {
		lo = 1
	}
	hi := total
	if current <= total-pageWindow {
		hi = current + pageWindow
	}
	out := []int{}
	for p := lo; p <= hi; p++ {
		out = append(out, p)
	}
	return out
}
