package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DefaultURL is the local execution endpoint.
const DefaultURL = "http://localhost:8080/run_code"

// maxResponseBody caps how much of a response body is read.
const maxResponseBody = 10 << 20

// Config configures a Client. Zero values fall back to defaults.
type Config struct {
	URL string
	// APITimeout is added to compile+run timeouts to bound each HTTP round-trip.
	APITimeout time.Duration
	// MaxRetries is the total number of attempts per submission.
	MaxRetries   int
	InitialDelay time.Duration

	HTTPClient *http.Client
	Logger     *slog.Logger
}

// DefaultConfig returns the stock retry policy: 3 attempts, 1s linear delay,
// 10s API buffer.
func DefaultConfig() Config {
	return Config{
		URL:          DefaultURL,
		APITimeout:   10 * time.Second,
		MaxRetries:   3,
		InitialDelay: time.Second,
	}
}

// Client submits code to the remote execution service.
type Client struct {
	url          string
	apiTimeout   time.Duration
	maxAttempts  int
	initialDelay time.Duration
	httpClient   *http.Client
	logger       *slog.Logger
	maxBody      int64

	sleep func(context.Context, time.Duration) error
	newID func() string
}

// New creates a Client from cfg.
func New(cfg Config) *Client {
	d := DefaultConfig()
	if cfg.URL == "" {
		cfg.URL = d.URL
	}
	if cfg.APITimeout <= 0 {
		cfg.APITimeout = d.APITimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = d.MaxRetries
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = d.InitialDelay
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		url:          cfg.URL,
		apiTimeout:   cfg.APITimeout,
		maxAttempts:  cfg.MaxRetries,
		initialDelay: cfg.InitialDelay,
		httpClient:   cfg.HTTPClient,
		logger:       cfg.Logger,
		maxBody:      maxResponseBody,
		sleep:        sleepContext,
		newID:        uuid.NewString,
	}
}

// URL returns the execution endpoint.
func (c *Client) URL() string { return c.url }

type state int

const (
	stateAttempting state = iota
	stateBackoff
	stateSucceeded
	stateFailed
)

// Submit extracts the code block from completion and runs it remotely.
//
// Exactly one of the returned values is non-nil. Validation failures
// (missing fence, unsupported language) return before any network call.
// A gateway timeout is retried with linear backoff up to the attempt budget;
// every other failure ends the call immediately.
func (c *Client) Submit(ctx context.Context, completion string, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	log := c.logger.With("request_id", c.newID())

	ext := Extract(completion)
	if !ext.Found {
		log.Error("sandbox: rejected submission", "err", ErrMissingCodeBlock)
		return nil, ErrMissingCodeBlock
	}
	if !IsSupported(opts.Language) {
		err := fmt.Errorf("%w: %s", ErrUnsupportedLanguage, opts.Language)
		log.Error("sandbox: rejected submission", "err", err)
		return nil, err
	}

	payload, err := json.Marshal(NewRequest(ext.Code, opts))
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	timeout := time.Duration(opts.CompileTimeout+opts.RunTimeout)*time.Second + c.apiTimeout

	var (
		result  *Result
		lastErr error
		attempt int
		st      = stateAttempting
	)
	for {
		switch st {
		case stateAttempting:
			log.Info("sandbox: calling API", "attempt", attempt+1, "max_attempts", c.maxAttempts, "url", c.url)
			status, body, err := c.post(ctx, payload, timeout)
			switch Classify(status, err) {
			case Succeed:
				result, err = decodeResult(body)
				if err != nil {
					lastErr = fmt.Errorf("%s%w: %v", failurePrefix, ErrDecode, err)
					st = stateFailed
					continue
				}
				log.Info("sandbox: API call successful", "attempt", attempt+1)
				st = stateSucceeded
			case Retry:
				lastErr = fmt.Errorf("%s%w on attempt %d/%d", failurePrefix, ErrGatewayTimeout, attempt+1, c.maxAttempts)
				log.Warn("sandbox: gateway timeout", "attempt", attempt+1, "max_attempts", c.maxAttempts)
				st = stateBackoff
			case Fail:
				if errors.Is(err, ErrResponseTooLarge) {
					lastErr = fmt.Errorf("%s%w", failurePrefix, err)
				} else if err != nil {
					lastErr = fmt.Errorf("%s%w: %v", failurePrefix, ErrTransport, err)
				} else {
					lastErr = fmt.Errorf("%s%w: %d %s", failurePrefix, ErrStatus, status, http.StatusText(status))
				}
				st = stateFailed
			}

		case stateBackoff:
			if attempt >= c.maxAttempts-1 {
				lastErr = fmt.Errorf("%w, retries exhausted", lastErr)
				st = stateFailed
				continue
			}
			delay := Backoff(c.initialDelay, attempt)
			log.Info("sandbox: retrying", "delay", delay)
			if err := c.sleep(ctx, delay); err != nil {
				lastErr = fmt.Errorf("%s%w: %v", failurePrefix, ErrTransport, err)
				st = stateFailed
				continue
			}
			attempt++
			st = stateAttempting

		case stateSucceeded:
			return result, nil

		case stateFailed:
			log.Error("sandbox: API call failed", "err", lastErr)
			return nil, lastErr
		}
	}
}

// post performs one HTTP round-trip bounded by timeout. A non-nil error means
// no status was received.
func (c *Client) post(ctx context.Context, payload []byte, timeout time.Duration) (int, []byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return 0, nil, fmt.Errorf("reading response body: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		return resp.StatusCode, nil, fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, c.maxBody)
	}
	return resp.StatusCode, body, nil
}

func decodeResult(body []byte) (*Result, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("response is not a JSON object")
	}
	var res Result
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, err
	}
	res.Raw = raw
	return &res, nil
}
