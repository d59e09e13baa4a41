package notify

import (
	"context"
	"fmt"
)

// Sender delivers a message to a named channel on an external relay.
type Sender interface {
	// Send publishes message to channel. title is optional.
	Send(ctx context.Context, channel, title, message string) error
}

// Relay is a Sender that can also read back recent channel messages.
type Relay interface {
	Sender
	Poll(ctx context.Context, channel string) ([]Message, error)
}

// StatusError is returned when the relay answers with a non-2xx status.
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: relay returned HTTP %d", e.Op, e.Code)
}
