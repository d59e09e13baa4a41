package tools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleArgs struct {
	Name  string `json:"name" jsonschema:"Who to greet"`
	Mode  string `json:"mode,omitempty" enum:"loud,quiet"`
	Count int    `json:"count,omitempty" default:"3"`
}

func TestNewArgSchema(t *testing.T) {
	s, err := newArgSchema[sampleArgs]()
	require.NoError(t, err)

	m := s.Map()
	assert.Equal(t, "object", m["type"])
	assert.ElementsMatch(t, []any{"name"}, m["required"])

	props := m["properties"].(map[string]any)
	assert.Equal(t, "Who to greet", props["name"].(map[string]any)["description"])
	assert.Equal(t, []any{"loud", "quiet"}, props["mode"].(map[string]any)["enum"])
	assert.Equal(t, float64(3), props["count"].(map[string]any)["default"])
}

func TestArgSchema_MapIsCopy(t *testing.T) {
	s := mustArgSchema[sampleArgs]()
	m := s.Map()
	m["type"] = "mutated"
	assert.Equal(t, "object", s.Map()["type"])
}

func TestDecodeArgs(t *testing.T) {
	s := mustArgSchema[sampleArgs]()

	tests := []struct {
		name    string
		input   any
		want    sampleArgs
		wantErr bool
	}{
		{"map", map[string]any{"name": "bob", "count": 2}, sampleArgs{Name: "bob", Count: 2}, false},
		{"raw json", json.RawMessage(`{"name":"amy","mode":"loud"}`), sampleArgs{Name: "amy", Mode: "loud"}, false},
		{"bytes", []byte(`{"name":"x"}`), sampleArgs{Name: "x"}, false},
		{"missing required", map[string]any{"mode": "loud"}, sampleArgs{}, true},
		{"bad enum", map[string]any{"name": "a", "mode": "shout"}, sampleArgs{}, true},
		{"wrong type", map[string]any{"name": 5}, sampleArgs{}, true},
		{"fractional int", map[string]any{"name": "a", "count": 1.5}, sampleArgs{}, true},
		{"extra property", map[string]any{"name": "a", "other": true}, sampleArgs{}, true},
		{"not json", []byte(`{`), sampleArgs{}, true},
		{"nil", nil, sampleArgs{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeArgs[sampleArgs](s, tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArguments)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWithEnumAndDescription(t *testing.T) {
	s := mustArgSchema[sampleArgs](withEnum("name", []string{"a", "b"}), withDescription("mode", "volume"))
	props := s.Map()["properties"].(map[string]any)
	assert.Equal(t, []any{"a", "b"}, props["name"].(map[string]any)["enum"])
	assert.Equal(t, "volume", props["mode"].(map[string]any)["description"])

	_, err := decodeArgs[sampleArgs](s, map[string]any{"name": "c"})
	assert.ErrorIs(t, err, ErrInvalidArguments)
}
