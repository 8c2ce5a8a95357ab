// Package site serves the landing page that links the API and its docs.
package site

import (
	"context"
	"net/http"
)

// Register attaches the landing page to mux. Only the exact root path is
// served; anything unmatched elsewhere stays a 404.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/{$}", NewRootHandler().HandleRoot)
}

// RootHandler handles root path requests
type RootHandler struct{}

// NewRootHandler creates a new root handler
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// HandleRoot handles GET / requests
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

const indexHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>jobscope</title>
  </head>
  <body>
    <h1>jobscope</h1>
    <p>Search and analytics over job listings.</p>
    <ul>
      <li><a href="/search?sort_by=date&amp;sort_order=desc">/search</a> paginated listing search</li>
      <li><a href="/analytics">/analytics</a> overview aggregates</li>
      <li><a href="/analytics/data?city=Austin">/analytics/data</a> aggregates scoped by city or employment type</li>
      <li><a href="/stats">/stats</a> service statistics</li>
      <li><a href="/healthz">/healthz</a> Prometheus metrics</li>
      <li><a href="/api-docs">/api-docs</a> API reference</li>
    </ul>
  </body>
</html>`
