package attr

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

var ErrNoSuchKey = errors.New("attribute not present")

// Shape is the storage layout an object arrived in.
type Shape uint8

const (
	// ShapeFlat holds every attribute directly on the object (legacy medic/police shape).
	ShapeFlat Shape = iota
	// ShapeSplit holds attributes under "known" and "unknown" buckets.
	ShapeSplit
)

type bucket uint8

const (
	bucketTop bucket = iota
	bucketKnown
	bucketUnknown
)

type entry struct {
	bucket bucket
	value  Value
}

// Create selects the bucket a Write uses for a key that is absent.
type Create uint8

const (
	CreateNone Create = iota
	CreateKnown
	CreateUnknown
)

// Set is the attribute collection of one raw model object.
type Set struct {
	shape   Shape
	entries map[string]entry
}

func NewFlat() *Set {
	return &Set{shape: ShapeFlat, entries: make(map[string]entry)}
}

func NewSplit() *Set {
	return &Set{shape: ShapeSplit, entries: make(map[string]entry)}
}

func (s *Set) Shape() Shape { return s.shape }

func (s *Set) Len() int { return len(s.entries) }

func (s *Set) Get(key string) (Value, bool) {
	e, ok := s.entries[key]
	return e.value, ok
}

// Resolve returns the actual scalar of key regardless of representation.
func (s *Set) Resolve(key string) (any, bool) {
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return e.value.Resolve(), true
}

// InKnown reports whether key is stored as a known value (flat or "known" bucket).
func (s *Set) InKnown(key string) bool {
	e, ok := s.entries[key]
	return ok && e.bucket != bucketUnknown
}

func (s *Set) InUnknown(key string) bool {
	e, ok := s.entries[key]
	return ok && e.bucket == bucketUnknown
}

// Put stores v under key, replacing any previous entry.
func (s *Set) Put(key string, v Value) {
	b := bucketKnown
	switch {
	case v.kind == KindUnknown:
		b = bucketUnknown
	case s.shape == ShapeFlat:
		b = bucketTop
	}
	s.entries[key] = entry{bucket: b, value: v}
}

// Write sets key to value in whichever representation currently holds it. An absent key is
// created according to create; flat objects have no unknown bucket and always create known.
func (s *Set) Write(key string, value any, create Create) error {
	if e, ok := s.entries[key]; ok {
		e.value = e.value.WithActual(value)
		s.entries[key] = e
		return nil
	}
	switch create {
	case CreateKnown:
		s.Put(key, Known(value))
	case CreateUnknown:
		if s.shape == ShapeFlat {
			s.Put(key, Known(value))
		} else {
			s.Put(key, Uncertain(nil, nil, value))
		}
	default:
		return fmt.Errorf("writing %q: %w", key, ErrNoSuchKey)
	}
	return nil
}

func (s *Set) Delete(key string) {
	delete(s.entries, key)
}

func (s *Set) Keys() []string {
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Resolved merges every attribute into one view of actual scalars.
func (s *Set) Resolved() map[string]any {
	out := make(map[string]any, len(s.entries))
	for key, e := range s.entries {
		out[key] = e.value.Resolve()
	}
	return out
}

func (s *Set) Clone() *Set {
	out := &Set{shape: s.shape, entries: make(map[string]entry, len(s.entries))}
	for key, e := range s.entries {
		out.entries[key] = e
	}
	return out
}

func (s *Set) MarshalJSON() ([]byte, error) {
	top := make(map[string]any)
	if s.shape == ShapeSplit {
		known := make(map[string]any)
		unknown := make(map[string]any)
		for key, e := range s.entries {
			switch e.bucket {
			case bucketKnown:
				known[key] = e.value.Resolve()
			case bucketUnknown:
				unknown[key] = e.value.descriptor()
			default:
				top[key] = e.value.Resolve()
			}
		}
		top["known"] = known
		top["unknown"] = unknown
		return json.Marshal(top)
	}
	for key, e := range s.entries {
		if e.bucket == bucketUnknown {
			return nil, fmt.Errorf("flat object holds unknown attribute %q", key)
		}
		top[key] = e.value.Resolve()
	}
	return json.Marshal(top)
}

// UnmarshalJSON reads either shape. An object with a "known" or "unknown" member is split;
// where a key appears in both buckets the unknown actual wins.
func (s *Set) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("attribute set must be an object")
	}
	s.entries = make(map[string]entry, len(fields))
	_, hasKnown := fields["known"]
	_, hasUnknown := fields["unknown"]
	if !hasKnown && !hasUnknown {
		s.shape = ShapeFlat
		for key, raw := range fields {
			v, err := decodeScalar(raw)
			if err != nil {
				return fmt.Errorf("attribute %q: %w", key, err)
			}
			s.entries[key] = entry{bucket: bucketTop, value: Known(v)}
		}
		return nil
	}

	s.shape = ShapeSplit
	for key, raw := range fields {
		if key == "known" || key == "unknown" {
			continue
		}
		v, err := decodeScalar(raw)
		if err != nil {
			return fmt.Errorf("attribute %q: %w", key, err)
		}
		s.entries[key] = entry{bucket: bucketTop, value: Known(v)}
	}
	if raw, ok := fields["known"]; ok && !isNull(raw) {
		var known map[string]json.RawMessage
		if err := json.Unmarshal(raw, &known); err != nil {
			return fmt.Errorf("known attributes: %w", err)
		}
		for key, item := range known {
			v, err := decodeScalar(item)
			if err != nil {
				return fmt.Errorf("known attribute %q: %w", key, err)
			}
			s.entries[key] = entry{bucket: bucketKnown, value: Known(v)}
		}
	}
	if raw, ok := fields["unknown"]; ok && !isNull(raw) {
		var unknown map[string]json.RawMessage
		if err := json.Unmarshal(raw, &unknown); err != nil {
			return fmt.Errorf("unknown attributes: %w", err)
		}
		for key, item := range unknown {
			v, err := parseDescriptor(key, item)
			if err != nil {
				return err
			}
			s.entries[key] = entry{bucket: bucketUnknown, value: v}
		}
	}
	return nil
}

func decodeScalar(raw json.RawMessage) (any, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
