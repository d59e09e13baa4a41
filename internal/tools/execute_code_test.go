package tools

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soochol/toolbox/internal/sandbox"
)

func TestExecuteCode_Success(t *testing.T) {
	raw := map[string]any{"status": "Success", "run_result": map[string]any{"stdout": "hi\n"}}
	sub := &fakeSubmitter{result: &sandbox.Result{Status: "Success", Raw: raw}}
	tool := &ExecuteCodeTool{Sandbox: sub}

	got, err := tool.Execute(context.Background(), map[string]any{
		"completion":  "```python\nprint('hi')\n```",
		"stdin":       "x",
		"run_timeout": 2,
		"language":    "python",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"result": raw, "error": nil}, got)

	assert.Equal(t, "```python\nprint('hi')\n```", sub.completion)
	assert.Equal(t, sandbox.Options{Stdin: "x", RunTimeout: 2, Language: "python"}, sub.opts)
}

func TestExecuteCode_Failure(t *testing.T) {
	sub := &fakeSubmitter{err: fmt.Errorf("API Call Failed: %w", sandbox.ErrStatus)}
	tool := &ExecuteCodeTool{Sandbox: sub}

	got, err := tool.Execute(context.Background(), map[string]any{"completion": "```\nx\n```"})
	require.NoError(t, err)
	m := got.(map[string]any)
	assert.Nil(t, m["result"])
	assert.Contains(t, m["error"], "API Call Failed")
}

func TestExecuteCode_UnsupportedLanguage(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	sb := sandbox.New(sandbox.Config{
		URL:        srv.URL,
		HTTPClient: srv.Client(),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	tool := &ExecuteCodeTool{Sandbox: sb}

	got, err := tool.Execute(context.Background(), map[string]any{"completion": "```\nx\n```", "language": "cobol"})
	require.NoError(t, err)
	m := got.(map[string]any)
	assert.Nil(t, m["result"])
	assert.Equal(t, "unsupported language: cobol", m["error"])
	assert.Equal(t, int32(0), calls.Load())
}

func TestExecuteCode_NullResponseIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "null")
	}))
	defer srv.Close()

	sb := sandbox.New(sandbox.Config{
		URL:        srv.URL,
		HTTPClient: srv.Client(),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	got, err := (&ExecuteCodeTool{Sandbox: sb}).Execute(context.Background(), map[string]any{"completion": "```python\nprint(1)\n```"})
	require.NoError(t, err)
	m := got.(map[string]any)
	assert.Nil(t, m["result"])
	assert.Contains(t, m["error"], "decode")
}

func TestExecuteCode_Schema(t *testing.T) {
	schema := (&ExecuteCodeTool{}).InputSchema()
	assert.Equal(t, []any{"completion"}, schema["required"])

	props := schema["properties"].(map[string]any)
	lang := props["language"].(map[string]any)
	assert.Len(t, lang["enum"], len(sandbox.Languages()))
	assert.Equal(t, "python", lang["default"])
	assert.Equal(t, float64(128), props["memory_limit_mb"].(map[string]any)["default"])
}
