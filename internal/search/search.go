// Package search queries web search backends and returns normalized results.
package search

import (
	"context"
	"errors"
	"fmt"
)

// Result is a single organic search hit.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet,omitempty"`
}

// Searcher runs a query and returns at most n results.
type Searcher interface {
	Search(ctx context.Context, query string, n int) ([]Result, error)
}

var (
	ErrNoAPIKey     = errors.New("search: API key not configured")
	ErrUnauthorized = errors.New("search: invalid API key")
	ErrForbidden    = errors.New("search: API key not authorized for this request")
	ErrRateLimited  = errors.New("search: rate limit exceeded")
	ErrNoResults    = errors.New("search: no results found")
	ErrDecode       = errors.New("search: invalid JSON response")
)

// APIError carries an error message reported in a 2xx response body.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return "search API error: " + e.Message
}

// StatusError is returned for non-2xx responses without a dedicated sentinel.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("search HTTP error %d", e.Code)
}
