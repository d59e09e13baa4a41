package tools

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// argSchema is the JSON schema of a tool's argument struct together with
// its compiled validator.
type argSchema struct {
	raw      map[string]any
	resolved *jsonschema.Resolved
}

// schemaOption edits the generated property map before compilation.
type schemaOption func(props map[string]any)

// withEnum restricts property name to values.
func withEnum(name string, values []string) schemaOption {
	return func(props map[string]any) {
		prop, ok := props[name].(map[string]any)
		if !ok {
			return
		}
		enum := make([]any, len(values))
		for i, v := range values {
			enum[i] = v
		}
		prop["enum"] = enum
	}
}

// withDescription overrides the description of property name.
func withDescription(name, desc string) schemaOption {
	return func(props map[string]any) {
		if prop, ok := props[name].(map[string]any); ok {
			prop["description"] = desc
		}
	}
}

// newArgSchema reflects T into a closed JSON schema. Fields without omitempty
// are required. The struct tags enum (comma separated) and default (a JSON
// literal) are copied into the matching property.
func newArgSchema[T any](opts ...schemaOption) (*argSchema, error) {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	delete(raw, "$schema")
	delete(raw, "$id")
	raw["additionalProperties"] = false

	props, ok := raw["properties"].(map[string]any)
	if !ok {
		props = map[string]any{}
		raw["properties"] = props
	}
	if err := enrichFromTags(props, reflect.TypeFor[T]()); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(props)
	}

	data, err = json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var compiled jsonschema.Schema
	if err := json.Unmarshal(data, &compiled); err != nil {
		return nil, err
	}
	resolved, err := compiled.Resolve(nil)
	if err != nil {
		return nil, err
	}
	return &argSchema{raw: raw, resolved: resolved}, nil
}

func mustArgSchema[T any](opts ...schemaOption) *argSchema {
	s, err := newArgSchema[T](opts...)
	if err != nil {
		panic(fmt.Sprintf("tools: schema for %T: %v", *new(T), err))
	}
	return s
}

func enrichFromTags(props map[string]any, typ reflect.Type) error {
	if typ.Kind() != reflect.Struct {
		return nil
	}
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		name := strings.Split(field.Tag.Get("json"), ",")[0]
		if name == "" || name == "-" {
			continue
		}
		prop, ok := props[name].(map[string]any)
		if !ok {
			continue
		}
		if enumTag := field.Tag.Get("enum"); enumTag != "" {
			parts := strings.Split(enumTag, ",")
			enum := make([]any, len(parts))
			for j, p := range parts {
				enum[j] = strings.TrimSpace(p)
			}
			prop["enum"] = enum
		}
		if defTag := field.Tag.Get("default"); defTag != "" {
			var def any
			if err := json.Unmarshal([]byte(defTag), &def); err != nil {
				return fmt.Errorf("field %s: bad default %q: %w", field.Name, defTag, err)
			}
			prop["default"] = def
		}
	}
	return nil
}

// Map returns a deep copy of the schema, safe for callers to modify.
func (s *argSchema) Map() map[string]any {
	data, _ := json.Marshal(s.raw)
	var out map[string]any
	_ = json.Unmarshal(data, &out)
	return out
}

// decodeArgs validates input against s and unmarshals it into T. input may be a
// JSON document ([]byte, json.RawMessage) or any JSON-marshalable value; nil
// is treated as an empty object.
func decodeArgs[T any](s *argSchema, input any) (T, error) {
	var args T

	var data []byte
	switch v := input.(type) {
	case nil:
		data = []byte("{}")
	case json.RawMessage:
		data = v
	case []byte:
		data = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return args, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
		}
		data = b
	}

	if len(data) == 0 {
		data = []byte("{}")
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return args, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	if instance == nil {
		instance = map[string]any{}
		data = []byte("{}")
	}
	if err := s.resolved.Validate(instance); err != nil {
		return args, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	if err := json.Unmarshal(data, &args); err != nil {
		return args, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return args, nil
}
