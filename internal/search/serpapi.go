package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultSerpAPIURL = "https://serpapi.com/search"
	serpMaxResults    = 10
)

// SerpAPI queries Google through serpapi.com.
type SerpAPI struct {
	APIKey   string
	Endpoint string
	Client   *http.Client
	Timeout  time.Duration
}

type serpResponse struct {
	Error          string   `json:"error"`
	OrganicResults []Result `json:"organic_results"`
}

func (s *SerpAPI) Search(ctx context.Context, query string, n int) ([]Result, error) {
	if s.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if n <= 0 {
		n = 5
	}

	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = DefaultSerpAPIURL
	}
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("api_key", s.APIKey)
	params.Set("num", fmt.Sprint(min(n, serpMaxResults)))
	params.Set("hl", "en")
	params.Set("gl", "us")

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("request build failed: %w", err)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	slog.Info("serpapi: executing search", "query", query, "num", n)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		return nil, ErrForbidden
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode >= 300:
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var data serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if data.Error != "" {
		return nil, &APIError{Message: data.Error}
	}
	if len(data.OrganicResults) == 0 {
		return nil, ErrNoResults
	}

	results := data.OrganicResults
	if len(results) > n {
		results = results[:n]
	}
	slog.Info("serpapi: search complete", "query", query, "results", len(results))
	return results, nil
}
