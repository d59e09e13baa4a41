package notify

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public ntfy relay.
const DefaultBaseURL = "https://ntfy.sh"

// Message is one event from a channel's JSON stream.
type Message struct {
	ID      string `json:"id"`
	Time    int64  `json:"time"`
	Event   string `json:"event"`
	Topic   string `json:"topic"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Timestamp returns the message time in UTC.
func (m Message) Timestamp() time.Time {
	return time.Unix(m.Time, 0).UTC()
}

// NtfyClient publishes to and polls channels on an ntfy relay.
type NtfyClient struct {
	BaseURL string
	Client  *http.Client
	// Timeout bounds each request. Zero means 10s.
	Timeout time.Duration
}

func (c *NtfyClient) client() *http.Client {
	if c.Client == nil {
		return http.DefaultClient
	}
	return c.Client
}

func (c *NtfyClient) timeout() time.Duration {
	if c.Timeout <= 0 {
		return 10 * time.Second
	}
	return c.Timeout
}

func (c *NtfyClient) channelURL(channel string) string {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(channel)
}

// Send posts message as the raw request body. A non-empty title is sent in
// the Title header.
func (c *NtfyClient) Send(ctx context.Context, channel, title, message string) error {
	if channel == "" {
		return fmt.Errorf("ntfy send: channel is required")
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.channelURL(channel), bytes.NewReader([]byte(message)))
	if err != nil {
		return err
	}
	if title != "" {
		req.Header.Set("Title", title)
	}

	resp, err := c.client().Do(req)
	if err != nil {
		return fmt.Errorf("ntfy send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return &StatusError{Op: "ntfy send", Code: resp.StatusCode}
	}
	return nil
}

// Poll returns the messages cached for channel without waiting for new ones.
// Lines that are not valid JSON are skipped.
func (c *NtfyClient) Poll(ctx context.Context, channel string) ([]Message, error) {
	if channel == "" {
		return nil, fmt.Errorf("ntfy poll: channel is required")
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.channelURL(channel)+"/json?poll=1", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("ntfy poll: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, &StatusError{Op: "ntfy poll", Code: resp.StatusCode}
	}

	var messages []Message
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var msg Message
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			slog.Warn("ntfy: skipping malformed message", "channel", channel, "line", line)
			continue
		}
		if msg.Event != "" && msg.Event != "message" {
			continue
		}
		messages = append(messages, msg)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ntfy poll: reading stream: %w", err)
	}
	return messages, nil
}

var _ Relay = (*NtfyClient)(nil)
