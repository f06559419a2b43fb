package attr

import (
	"encoding/json"
	"fmt"
)

type Kind uint8

const (
	KindKnown Kind = iota + 1
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindKnown:
		return "known"
	case KindUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// Value is either a known scalar or an uncertain range carrying its current actual value.
type Value struct {
	kind   Kind
	scalar any
	min    any
	max    any
	extra  map[string]any
}

func Known(v any) Value {
	return Value{kind: KindKnown, scalar: v}
}

// Uncertain builds an unknown value with range [min, max]. A nil bound is omitted on export.
func Uncertain(min, max, actual any) Value {
	return Value{kind: KindUnknown, scalar: actual, min: min, max: max}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsKnown() bool { return v.kind == KindKnown }

// Resolve returns the known scalar or the unknown actual.
func (v Value) Resolve() any { return v.scalar }

func (v Value) Range() (min, max any) { return v.min, v.max }

// WithActual replaces the resolved scalar and keeps the representation.
func (v Value) WithActual(actual any) Value {
	out := v
	out.scalar = actual
	return out
}

func (v Value) descriptor() map[string]any {
	out := make(map[string]any, len(v.extra)+3)
	for key, value := range v.extra {
		out[key] = value
	}
	if v.min != nil {
		out["min"] = v.min
	}
	if v.max != nil {
		out["max"] = v.max
	}
	out["actual"] = v.scalar
	return out
}

func parseDescriptor(key string, raw json.RawMessage) (Value, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Value{}, fmt.Errorf("unknown attribute %q is not a range descriptor", key)
	}
	value := Value{kind: KindUnknown}
	for name, item := range fields {
		switch name {
		case "actual":
			value.scalar = item
		case "min":
			value.min = item
		case "max":
			value.max = item
		default:
			if value.extra == nil {
				value.extra = make(map[string]any)
			}
			value.extra[name] = item
		}
	}
	return value, nil
}

// Bool reports the truthiness of a resolved scalar.
func Bool(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}

// Float converts a resolved numeric scalar.
func Float(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
