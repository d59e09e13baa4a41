package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoTool struct{ name string }

func (e *echoTool) Name() string                { return e.name }
func (e *echoTool) Description() string         { return "Echoes input" }
func (e *echoTool) InputSchema() map[string]any { return map[string]any{"type": "object"} }
func (e *echoTool) Execute(ctx context.Context, input any) (any, error) { return input, nil }

func TestToolRegistry_RegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&echoTool{name: "echo"})
	tool, ok := reg.Get("echo")
	require.True(t, ok, "echo tool not found")
	assert.Equal(t, "echo", tool.Name())
}

func TestToolRegistry_Execute(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&echoTool{name: "echo"})
	result, err := reg.Execute(context.Background(), "echo", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", result)
}

func TestToolRegistry_Execute_Unknown(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Execute(context.Background(), "unknown", nil)
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestToolRegistry_ListSorted(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&echoTool{name: "zeta"})
	reg.Register(&echoTool{name: "alpha"})
	reg.Register(&echoTool{name: "mid"})

	var names []string
	for _, tool := range reg.List() {
		names = append(names, tool.Name())
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}

func TestToolRegistry_Specs(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&echoTool{name: "echo"})
	specs := reg.Specs()
	require.Len(t, specs, 1)
	assert.Equal(t, "function", specs[0].Type)
	assert.Equal(t, "echo", specs[0].Function.Name)
	assert.Equal(t, "object", specs[0].Function.Parameters["type"])
}

func TestRegisterBuiltins(t *testing.T) {
	reg := NewRegistry()
	RegisterBuiltins(reg, Deps{Channels: DefaultChannels()})

	want := []string{
		"do_math", "execute_code", "flag_user", "get_search_query", "get_weather",
		"notify_external_system", "notify_user", "post_ntfy_message", "read_ntfy_messages",
		"search_fallback", "send_private_message", "stop_loop",
	}
	tools := reg.List()
	require.Len(t, tools, len(want))
	for i, name := range want {
		assert.Equal(t, name, tools[i].Name())
		assert.NotEmpty(t, tools[i].Description(), name)
		assert.Equal(t, "object", tools[i].InputSchema()["type"], name)
	}
}
