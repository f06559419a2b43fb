// Package edit applies inspector edits to a world model.
package edit

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"planviz/internal/attr"
	"planviz/internal/world"
)

var (
	ErrUnknownFieldWriter = errors.New("no writer registered for field")
	ErrInvalidValue       = errors.New("invalid value for field")
)

type Edit struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// Parse reads "field=value". The value is decoded as JSON when it is valid JSON and kept as a
// plain string otherwise, so "alive=false" is a bool and "at=b1-1" a string.
func Parse(s string) (Edit, error) {
	field, raw, ok := strings.Cut(s, "=")
	field = strings.TrimSpace(field)
	if !ok || field == "" {
		return Edit{}, fmt.Errorf("edit %q must be field=value", s)
	}
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		value = raw
	}
	return Edit{Field: field, Value: value}, nil
}

type fieldKind uint8

const (
	fieldDefault fieldKind = iota + 1
	fieldPosition
	fieldEdgeBlocked
)

var fieldKinds = map[string]fieldKind{
	"available":   fieldDefault,
	"empty":       fieldDefault,
	"alive":       fieldDefault,
	"buried":      fieldDefault,
	"buriedness":  fieldDefault,
	"blockedness": fieldDefault,
	"distance":    fieldDefault,
	"at":          fieldPosition,
	"blocked":     fieldEdgeBlocked,
}

// Writable lists the fields Apply accepts.
func Writable() []string {
	names := make([]string, 0, len(fieldKinds))
	for name := range fieldKinds {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Apply writes edits to the object id. Edges are edited in both directions and their
// blockedness is reconciled. On error the model is left as it was.
func Apply(m *world.Model, id string, edits []Edit) error {
	set, kind, err := m.Find(id)
	if err != nil {
		return fmt.Errorf("editing %q: %w", id, err)
	}
	for _, e := range edits {
		if err := validate(m, e); err != nil {
			return fmt.Errorf("editing %q: %w", id, err)
		}
	}

	primary := set.Clone()
	if err := write(primary, edits); err != nil {
		return fmt.Errorf("editing %q: %w", id, err)
	}
	if kind != world.KindEdge {
		return m.Replace(kind, id, primary)
	}

	mirrorID, ok := world.MirrorID(id)
	if !ok {
		return fmt.Errorf("editing %q: %w: edge key must be two node ids", id, world.ErrInvalidObject)
	}
	mirrorSet, found := m.Collection(world.KindEdge).Get(mirrorID)
	if !found {
		return fmt.Errorf("editing %q: mirror %q: %w", id, mirrorID, world.ErrNotFound)
	}
	mirror := mirrorSet.Clone()
	if err := write(mirror, edits); err != nil {
		return fmt.Errorf("editing %q: mirror %q: %w", id, mirrorID, err)
	}
	reconcile(primary, mirror)

	if err := m.Replace(world.KindEdge, id, primary); err != nil {
		return err
	}
	return m.Replace(world.KindEdge, mirrorID, mirror)
}

func validate(m *world.Model, e Edit) error {
	kind, ok := fieldKinds[e.Field]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownFieldWriter, e.Field)
	}
	switch kind {
	case fieldPosition:
		node, isString := e.Value.(string)
		if !isString || !slices.Contains(m.NodeIDs(), node) {
			return fmt.Errorf("%w %q: %v is not a node id", ErrInvalidValue, e.Field, e.Value)
		}
	case fieldEdgeBlocked:
		if _, isBool := e.Value.(bool); !isBool {
			return fmt.Errorf("%w %q: %v is not a bool", ErrInvalidValue, e.Field, e.Value)
		}
	}
	return nil
}

func write(set *attr.Set, edits []Edit) error {
	for _, e := range edits {
		var err error
		switch fieldKinds[e.Field] {
		case fieldDefault:
			err = set.Write(e.Field, e.Value, attr.CreateNone)
		case fieldPosition:
			err = set.Write("at", []any{true, e.Value}, attr.CreateNone)
		case fieldEdgeBlocked:
			err = writeBlocked(set, e.Value.(bool))
		default:
			err = fmt.Errorf("%w %q", ErrUnknownFieldWriter, e.Field)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// writeBlocked stores the inverted "edge" flag and the raw "blocked-edge" flag in the bucket
// that already holds either of them.
func writeBlocked(set *attr.Set, blocked bool) error {
	create := attr.CreateUnknown
	if set.InKnown("edge") || set.InKnown("blocked-edge") {
		create = attr.CreateKnown
	}
	if err := set.Write("edge", !blocked, create); err != nil {
		return err
	}
	return set.Write("blocked-edge", blocked, create)
}

// reconcile keeps blockedness defined only while an edge is not definitely open.
func reconcile(edge, reverse *attr.Set) {
	if open, ok := edge.Resolve("edge"); ok && attr.Bool(open) {
		edge.Delete("blockedness")
		reverse.Delete("blockedness")
		return
	}
	if _, ok := edge.Get("blockedness"); ok {
		return
	}
	blocked, ok := edge.Resolve("blocked-edge")
	if !ok || !attr.Bool(blocked) {
		return
	}
	value := attr.Uncertain(0.0, 100.0, 0.0)
	if edge.InKnown("blocked-edge") {
		value = attr.Known(0.0)
	}
	put(edge, "blockedness", value)
	put(reverse, "blockedness", value)
}

// put stores v, collapsing an uncertain value to its actual on flat objects.
func put(set *attr.Set, key string, v attr.Value) {
	if set.Shape() == attr.ShapeFlat && !v.IsKnown() {
		v = attr.Known(v.Resolve())
	}
	set.Put(key, v)
}
