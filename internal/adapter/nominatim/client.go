package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/nonprofit-etl/internal/domain"
	"github.com/couchcryptid/nonprofit-etl/internal/observability"
)

// maxErrorBody caps how much of a non-200 body ends up in an error message.
const maxErrorBody = 512

// Client implements domain.Geocoder using the OpenStreetMap Nominatim search API.
type Client struct {
	userAgent  string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Nominatim client. The public service requires every
// request to carry an identifying User-Agent.
func NewClient(baseURL, userAgent string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Geocode looks up a free-text address and returns the first match.
func (c *Client) Geocode(ctx context.Context, query string) (domain.Coordinates, error) {
	params := url.Values{
		"q":      {query},
		"format": {"json"},
		"limit":  {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domain.Coordinates{}, fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode, body)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode response: %w", err)
	}

	if len(places) == 0 {
		return domain.Coordinates{}, nil
	}

	p := places[0]
	if p.Lat == "" || p.Lon == "" {
		return domain.Coordinates{}, fmt.Errorf("decode response: result missing lat/lon")
	}
	c.logger.Debug("geocoded", "query", query, "display_name", p.DisplayName)
	return domain.Coordinates{Lat: p.Lat, Lng: p.Lon}, nil
}

// Nominatim API response types. Coordinates are decimal strings.

type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}
