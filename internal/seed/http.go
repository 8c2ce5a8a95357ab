package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/jobscope/pkg/logger"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient creates a client for the service at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// GetJSON fetches path and decodes a 200 response into v.
func (c *HTTPClient) GetJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d: %s", path, resp.StatusCode, body)
	}
	if v == nil {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	return nil
}

type statsResponse struct {
	Started  bool `json:"started"`
	Listings int  `json:"listings"`
	Dropped  int  `json:"dropped"`
}

type searchResponse struct {
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// Verify checks that the service at cfg.BaseURL holds the generated dataset:
// /stats and an unfiltered /search must both report stats.Expected() listings.
func Verify(ctx context.Context, cfg *Config, stats *Stats) error {
	client := NewHTTPClient(cfg.BaseURL, cfg.Timeout)
	log := logger.Get()

	log.Info(ctx, "checking service health")
	if err := client.GetJSON(ctx, "/healthz", nil); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	var st statsResponse
	if err := client.GetJSON(ctx, "/stats", &st); err != nil {
		return err
	}
	if !st.Started {
		return fmt.Errorf("%w: service not started", ErrVerify)
	}
	if st.Listings != stats.Expected() {
		return fmt.Errorf("%w: service holds %d listings, expected %d", ErrVerify, st.Listings, stats.Expected())
	}
	if st.Dropped != stats.Malformed {
		return fmt.Errorf("%w: service dropped %d listings, expected %d", ErrVerify, st.Dropped, stats.Malformed)
	}

	var sr searchResponse
	if err := client.GetJSON(ctx, "/search?page=1", &sr); err != nil {
		return err
	}
	if sr.TotalCount != stats.Expected() {
		return fmt.Errorf("%w: search matched %d listings, expected %d", ErrVerify, sr.TotalCount, stats.Expected())
	}

	if err := client.GetJSON(ctx, "/analytics/data", nil); err != nil {
		return err
	}

	stats.Verified = true
	log.Info(ctx, "service verified",
		logger.Int("listings", st.Listings),
		logger.Int("pages", sr.TotalPages))
	return nil
}
