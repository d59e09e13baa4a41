package sandbox

import (
	"context"
	"net/http"
	"time"
)

// Decision is the outcome of classifying one attempt.
type Decision int

const (
	// Succeed means the response is usable and the loop stops.
	Succeed Decision = iota
	// Retry means the failure is transient and another attempt may follow.
	Retry
	// Fail means the failure is terminal.
	Fail
)

func (d Decision) String() string {
	switch d {
	case Succeed:
		return "succeed"
	case Retry:
		return "retry"
	default:
		return "fail"
	}
}

// Classify maps an attempt's HTTP status and transport error to a Decision.
// Only a gateway timeout is transient; a transport error, including a local
// timeout, is terminal.
func Classify(status int, err error) Decision {
	switch {
	case err != nil:
		return Fail
	case status == http.StatusGatewayTimeout:
		return Retry
	case status >= 200 && status < 300:
		return Succeed
	default:
		return Fail
	}
}

// Backoff returns the delay before the attempt following attempt (0-based).
// The increase is linear: initial, 2*initial, 3*initial, ...
func Backoff(initial time.Duration, attempt int) time.Duration {
	return initial * time.Duration(attempt+1)
}

// sleepContext waits for d, returning early with ctx.Err() on cancellation.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
