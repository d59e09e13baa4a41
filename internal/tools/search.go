package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/soochol/toolbox/internal/search"
)

type searchArgs struct {
	Q          string `json:"q" jsonschema:"The search query string"`
	NumResults int    `json:"num_results,omitempty" jsonschema:"Number of results to return (1-10, default: 5)" default:"5"`
}

func (a searchArgs) limit() int {
	switch {
	case a.NumResults <= 0:
		return 5
	case a.NumResults > 10:
		return 10
	}
	return a.NumResults
}

var searchSchema = mustArgSchema[searchArgs]()

// SearchTool queries Google through SerpAPI.
type SearchTool struct {
	Searcher search.Searcher
}

func (s *SearchTool) Name() string { return "get_search_query" }

func (s *SearchTool) Description() string {
	return "Search the internet using Google via SerpAPI. Returns formatted search results with titles, URLs, and snippets. " +
		"Use this to find current information, answer factual questions, or research topics. " +
		"Automatically handles errors like rate limits, invalid keys, and timeouts."
}

func (s *SearchTool) InputSchema() map[string]any { return searchSchema.Map() }

func (s *SearchTool) Execute(ctx context.Context, input any) (any, error) {
	args, err := decodeArgs[searchArgs](searchSchema, input)
	if err != nil {
		return nil, err
	}

	results, err := s.Searcher.Search(ctx, args.Q, args.limit())
	if err != nil {
		msg := searchErrorMessage(args.Q, err)
		slog.Error("search failed", "query", args.Q, "err", err)
		return msg, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Search Results for '%s':\n\n", args.Q)
	for i, r := range results {
		fmt.Fprintf(&sb, "%d. %s\n   URL: %s\n   %s\n\n", i+1, orDefault(r.Title, "No title"), orDefault(r.Link, "No link"), orDefault(r.Snippet, "No snippet"))
	}
	return sb.String(), nil
}

func searchErrorMessage(query string, err error) string {
	var apiErr *search.APIError
	var statusErr *search.StatusError
	switch {
	case errors.Is(err, search.ErrNoAPIKey):
		return "Error: SerpAPI key not configured. Set SERP_API_KEY environment variable."
	case errors.Is(err, search.ErrNoResults):
		return fmt.Sprintf("No results found for query: %s", query)
	case errors.Is(err, search.ErrUnauthorized):
		return "Search error: Invalid API key. Check SERP_API_KEY."
	case errors.Is(err, search.ErrForbidden):
		return "Search error: API key not authorized for this request."
	case errors.Is(err, search.ErrRateLimited):
		return "Search error: Rate limit exceeded. Please try again later."
	case errors.Is(err, search.ErrDecode):
		return "Search error: Invalid JSON response from API"
	case errors.As(err, &apiErr):
		return "Search API Error: " + apiErr.Message
	case errors.As(err, &statusErr):
		return fmt.Sprintf("Search HTTP error %d", statusErr.Code)
	case isTimeout(err):
		return fmt.Sprintf("Search timeout: Query '%s' took too long to complete", query)
	default:
		return "Search error: Could not connect to SerpAPI. Check internet connection."
	}
}

// SearchFallbackTool scrapes DuckDuckGo when SerpAPI is unavailable.
type SearchFallbackTool struct {
	Searcher search.Searcher
}

func (s *SearchFallbackTool) Name() string { return "search_fallback" }

func (s *SearchFallbackTool) Description() string {
	return "Fallback search using DuckDuckGo web scraping when SerpAPI fails. Returns result titles and URLs."
}

func (s *SearchFallbackTool) InputSchema() map[string]any { return searchSchema.Map() }

func (s *SearchFallbackTool) Execute(ctx context.Context, input any) (any, error) {
	args, err := decodeArgs[searchArgs](searchSchema, input)
	if err != nil {
		return nil, err
	}

	slog.Info("using fallback search", "query", args.Q)
	results, err := s.Searcher.Search(ctx, args.Q, args.limit())
	if errors.Is(err, search.ErrNoResults) {
		return "Fallback search failed: No results found", nil
	}
	if err != nil {
		slog.Error("fallback search failed", "query", args.Q, "err", err)
		return fmt.Sprintf("Fallback search error: %v", err), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Fallback Search Results for '%s':\n\n", args.Q)
	for i, r := range results {
		fmt.Fprintf(&sb, "%d. %s\n   URL: %s\n\n", i+1, orDefault(r.Title, "N/A"), orDefault(r.Link, "N/A"))
	}
	return sb.String(), nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
