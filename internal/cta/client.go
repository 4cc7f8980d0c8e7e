package cta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the official Train Tracker positions endpoint.
const DefaultBaseURL = "http://lapi.transitchicago.com/api/1.0/ttpositions.aspx"

// ErrNoData indicates the feed responded without any route or train entries.
// Callers treat this as "no trains found" rather than a failure.
var ErrNoData = errors.New("cta: no position data in response")

// APIError is an application-level error embedded in an otherwise successful
// feed response (bad route, expired key, ...).
type APIError struct {
	Name string
}

func (e *APIError) Error() string {
	return "cta: api error: " + e.Name
}

// Client fetches live train positions from the CTA Train Tracker API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a Train Tracker client with the given request timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Positions fetches the current vehicle records for a route.
func (c *Client) Positions(ctx context.Context, route string) ([]Train, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid positions URL: %w", err)
	}
	q := u.Query()
	q.Set("key", c.apiKey)
	q.Set("rt", route)
	q.Set("outputType", "JSON")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch positions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("positions feed returned status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode positions response: %w", err)
	}

	if env.Ctatt.ErrNm != nil && *env.Ctatt.ErrNm != "" {
		return nil, &APIError{Name: *env.Ctatt.ErrNm}
	}

	if env.Ctatt.Route == nil {
		return nil, ErrNoData
	}

	var trains []Train
	for _, r := range env.Ctatt.Route {
		trains = append(trains, r.Trains...)
	}
	return trains, nil
}
