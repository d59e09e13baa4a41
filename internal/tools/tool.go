// Package tools implements the functions an agent can call, together with the
// JSON schemas advertised to the model for each of them.
package tools

import (
	"context"
	"errors"
)

// Tool is a named, schema-described function callable by an agent.
type Tool interface {
	Name() string
	Description() string
	InputSchema() map[string]any
	Execute(ctx context.Context, input any) (any, error)
}

// ErrInvalidArguments is returned when tool input does not match its schema.
var ErrInvalidArguments = errors.New("invalid tool arguments")

// ErrUnknownTool is returned by Registry.Execute for unregistered names.
var ErrUnknownTool = errors.New("unknown tool")
