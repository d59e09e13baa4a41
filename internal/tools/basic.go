package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

type doMathArgs struct {
	A         int    `json:"a"`
	B         int    `json:"b"`
	Operation string `json:"operation" jsonschema:"The mathematical operation to perform" enum:"sum,multiply,divide,subtract"`
}

var doMathSchema = mustArgSchema[doMathArgs]()

// DoMathTool performs integer arithmetic on two operands.
type DoMathTool struct{}

func (d *DoMathTool) Name() string                { return "do_math" }
func (d *DoMathTool) Description() string         { return "Add, multiply, subtract, or divide 2 numbers" }
func (d *DoMathTool) InputSchema() map[string]any { return doMathSchema.Map() }

func (d *DoMathTool) Execute(_ context.Context, input any) (any, error) {
	args, err := decodeArgs[doMathArgs](doMathSchema, input)
	if err != nil {
		return nil, err
	}

	var result string
	switch args.Operation {
	case "sum":
		result = strconv.Itoa(args.A + args.B)
	case "subtract":
		result = strconv.Itoa(args.A - args.B)
	case "multiply":
		result = strconv.Itoa(args.A * args.B)
	case "divide":
		if args.B == 0 {
			return "Error: Division by zero", nil
		}
		result = formatFloat(float64(args.A) / float64(args.B))
	default:
		return "Error: Unknown operation", nil
	}
	return "The result is " + result, nil
}

// formatFloat renders f in shortest form, always with a decimal point.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

type getWeatherArgs struct {
	Location string `json:"location" jsonschema:"City or place name"`
}

var getWeatherSchema = mustArgSchema[getWeatherArgs]()

// GetWeatherTool returns a canned forecast. It exists to exercise the
// tool-calling loop without any external dependency.
type GetWeatherTool struct{}

func (g *GetWeatherTool) Name() string                { return "get_weather" }
func (g *GetWeatherTool) Description() string         { return "Get the current weather for a location" }
func (g *GetWeatherTool) InputSchema() map[string]any { return getWeatherSchema.Map() }

func (g *GetWeatherTool) Execute(_ context.Context, input any) (any, error) {
	args, err := decodeArgs[getWeatherArgs](getWeatherSchema, input)
	if err != nil {
		return nil, err
	}
	return fmt.Sprintf("The weather in %s is sunny and 72°F", args.Location), nil
}

var stopLoopSchema = mustArgSchema[struct{}]()

// StopLoopTool signals the agent loop to terminate.
type StopLoopTool struct{}

func (s *StopLoopTool) Name() string { return "stop_loop" }

func (s *StopLoopTool) Description() string {
	return "Call this exactly once when the final answer is known and has been stated " +
		"to the user. This must be the last action. Do not call any other tools " +
		"or produce further reasoning after calling stop_loop."
}

func (s *StopLoopTool) InputSchema() map[string]any { return stopLoopSchema.Map() }

func (s *StopLoopTool) Execute(_ context.Context, input any) (any, error) {
	if _, err := decodeArgs[struct{}](stopLoopSchema, input); err != nil {
		return nil, err
	}
	return true, nil
}
