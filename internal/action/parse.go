package action

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/log.schema.json
var logSchemaJSON []byte

var logSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("log.schema.json", bytes.NewReader(logSchemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile("log.schema.json")
})

// Parse reads an action log in either encoding. JSON is tried first; input that is not a JSON
// action log falls back to legacy tuples. Per-action failures are reported on each Result and
// never abort the batch.
func Parse(raw []byte) ([]Result, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}

	actions, jsonErr := decodeJSONLog(trimmed)
	if jsonErr == nil {
		return parseStructured(actions), nil
	}
	if !bytes.Contains(trimmed, []byte("(")) {
		return nil, fmt.Errorf("%w: %v", ErrParseFormat, jsonErr)
	}
	return ParseLegacy(string(trimmed)), nil
}

// ParseJSON reads a JSON action log: a bare array or an object with an "execution" array.
func ParseJSON(raw []byte) ([]Result, error) {
	actions, err := decodeJSONLog(bytes.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFormat, err)
	}
	return parseStructured(actions), nil
}

func decodeJSONLog(raw []byte) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON document")
	}

	schema, err := logSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling action log schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, err
	}

	switch v := doc.(type) {
	case []any:
		return v, nil
	case map[string]any:
		actions, _ := v["execution"].([]any)
		return actions, nil
	}
	return nil, fmt.Errorf("unexpected action log shape")
}

func parseStructured(actions []any) []Result {
	results := make([]Result, 0, len(actions))
	for i, item := range actions {
		result := Result{Index: i}
		name, f, err := structuredFields(item)
		result.Source = name
		if err == nil {
			result.Records, result.Color, err = build(name, f)
		}
		if err != nil {
			result.Records = nil
			result.Err = &RecordError{Index: i, Source: name, Err: err}
		}
		results = append(results, result)
	}
	return results
}

func structuredFields(item any) (string, fields, error) {
	obj, ok := item.(map[string]any)
	if !ok {
		return "", nil, fmt.Errorf("%w: action is not an object", ErrParseFormat)
	}
	name, _ := obj["type"].(string)
	if strings.TrimSpace(name) == "" {
		return "", nil, fmt.Errorf("%w: %q", ErrMissingField, "type")
	}

	f := make(fields, len(obj))
	for key, value := range obj {
		if key == "type" {
			continue
		}
		f[key] = scalarString(value)
	}
	return name, f, nil
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
