package tools

import (
	"context"

	"github.com/soochol/toolbox/internal/sandbox"
)

// Submitter runs a completion on the remote execution service.
type Submitter interface {
	Submit(ctx context.Context, completion string, opts sandbox.Options) (*sandbox.Result, error)
}

type executeCodeArgs struct {
	Completion     string `json:"completion" jsonschema:"The code to execute. Must be wrapped in markdown code blocks (e.g. a python fenced block or a bare fenced block). The code will be automatically extracted from code blocks."`
	Stdin          string `json:"stdin,omitempty" jsonschema:"Input to provide to the program via standard input (stdin). Use this for programs that read input interactively."`
	CompileTimeout int    `json:"compile_timeout,omitempty" jsonschema:"Compilation timeout in seconds (for compiled languages like C++ and Java). Default: 10" default:"10"`
	RunTimeout     int    `json:"run_timeout,omitempty" jsonschema:"Execution timeout in seconds. The program will be terminated if it runs longer than this. Default: 5" default:"5"`
	MemoryLimitMB  int    `json:"memory_limit_mb,omitempty" jsonschema:"Memory limit in megabytes. The program will be terminated if it exceeds this limit. Default: 128" default:"128"`
	Language       string `json:"language,omitempty" jsonschema:"The programming language of the code. Default: python" default:"\"python\""`
}

// The language enum is advertised but not enforced, so an unsupported
// language reaches the pipeline and comes back in the "error" slot.
var executeCodeSchema = mustArgSchema[executeCodeArgs]()

// ExecuteCodeTool submits fenced code to the sandbox. Its result is always
// an object with "result" and "error" keys, exactly one of them non-null.
type ExecuteCodeTool struct {
	Sandbox Submitter
}

func (e *ExecuteCodeTool) Name() string { return "execute_code" }

func (e *ExecuteCodeTool) Description() string {
	return "Execute code in a sandboxed environment. Supports multiple programming languages " +
		"including Python, JavaScript, Java, C++, and more. Returns the output, errors, " +
		"and execution statistics. Use this when you need to run code to compute results, " +
		"test algorithms, or verify solutions."
}

func (e *ExecuteCodeTool) InputSchema() map[string]any {
	m := executeCodeSchema.Map()
	if props, ok := m["properties"].(map[string]any); ok {
		withEnum("language", sandbox.Languages())(props)
	}
	return m
}

func (e *ExecuteCodeTool) Execute(ctx context.Context, input any) (any, error) {
	args, err := decodeArgs[executeCodeArgs](executeCodeSchema, input)
	if err != nil {
		return nil, err
	}

	res, err := e.Sandbox.Submit(ctx, args.Completion, sandbox.Options{
		Stdin:          args.Stdin,
		CompileTimeout: args.CompileTimeout,
		RunTimeout:     args.RunTimeout,
		MemoryLimitMB:  args.MemoryLimitMB,
		Language:       args.Language,
	})
	if err != nil {
		return map[string]any{"result": nil, "error": err.Error()}, nil
	}
	return map[string]any{"result": res.Raw, "error": nil}, nil
}
