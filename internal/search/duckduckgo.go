package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultDuckDuckGoURL = "https://duckduckgo.com/html"
	browserUserAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// DuckDuckGo scrapes the HTML results page. It needs no API key and is
// used when SerpAPI is unavailable.
type DuckDuckGo struct {
	Endpoint string
	Client   *http.Client
	Timeout  time.Duration
}

func (d *DuckDuckGo) Search(ctx context.Context, query string, n int) ([]Result, error) {
	if n <= 0 {
		n = 5
	}
	endpoint := d.Endpoint
	if endpoint == "" {
		endpoint = DefaultDuckDuckGoURL
	}
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, fmt.Errorf("request build failed: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}

	slog.Info("duckduckgo: executing search", "query", query, "num", n)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("HTML parse failed: %w", err)
	}

	var results []Result
	doc.Find("a.result__a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		title := strings.TrimSpace(s.Text())
		href, _ := s.Attr("href")
		if title == "" || href == "" {
			return true
		}
		results = append(results, Result{Title: title, Link: unwrapRedirect(href)})
		return len(results) < n
	})

	if len(results) == 0 {
		return nil, ErrNoResults
	}
	return results, nil
}

// unwrapRedirect returns the target of a DuckDuckGo "/l/?uddg=" redirect link,
// or href unchanged.
func unwrapRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil || !strings.HasPrefix(u.Path, "/l/") {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}
