package world

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"planviz/internal/attr"
)

var (
	ErrParseFormat   = errors.New("world snapshot is not a JSON object with objects and graph.edges")
	ErrMalformedID   = errors.New("malformed node id")
	ErrInvalidObject = errors.New("invalid model object")
	ErrNotFound      = errors.New("model object not found")
)

// Object collections of a snapshot.
const (
	KindMedic    = "medic"
	KindPolice   = "police"
	KindCivilian = "civilian"
	KindBuilding = "building"
	KindHospital = "hospital"
	KindEdge     = "edge"
)

// Collection keeps objects in document order.
type Collection = orderedmap.OrderedMap[string, *attr.Set]

// Model is the raw world snapshot held by the caller. It is the only mutable state; every parse
// and layout is recomputed from it.
type Model struct {
	top     *orderedmap.OrderedMap[string, json.RawMessage]
	graph   *orderedmap.OrderedMap[string, json.RawMessage]
	objects *orderedmap.OrderedMap[string, *Collection]
	edges   *Collection

	// Invalid lists objects that could not be decoded. They are dropped from the model.
	Invalid []error
}

type ObjectError struct {
	Kind string
	ID   string
	Err  error
}

func (e *ObjectError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Kind, e.ID, e.Err)
}

func (e *ObjectError) Unwrap() error { return e.Err }

//go:embed schema/snapshot.schema.json
var snapshotSchemaJSON []byte

var snapshotSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("snapshot.schema.json", bytes.NewReader(snapshotSchemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile("snapshot.schema.json")
})

// Decode reads a world snapshot. Objects whose attributes cannot be read are skipped and
// reported in Model.Invalid.
func Decode(raw []byte) (*Model, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFormat, err)
	}
	schema, err := snapshotSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling snapshot schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFormat, err)
	}

	m := &Model{
		top:     orderedmap.New[string, json.RawMessage](),
		graph:   orderedmap.New[string, json.RawMessage](),
		objects: orderedmap.New[string, *Collection](),
	}
	if err := json.Unmarshal(raw, m.top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFormat, err)
	}

	objectsRaw, _ := m.top.Get("objects")
	kinds := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(objectsRaw, kinds); err != nil {
		return nil, fmt.Errorf("%w: objects: %v", ErrParseFormat, err)
	}
	for pair := kinds.Oldest(); pair != nil; pair = pair.Next() {
		collection, err := m.decodeCollection(pair.Key, pair.Value)
		if err != nil {
			return nil, err
		}
		m.objects.Set(pair.Key, collection)
	}

	graphRaw, _ := m.top.Get("graph")
	if err := json.Unmarshal(graphRaw, m.graph); err != nil {
		return nil, fmt.Errorf("%w: graph: %v", ErrParseFormat, err)
	}
	edgesRaw, _ := m.graph.Get("edges")
	m.edges, err = m.decodeCollection(KindEdge, edgesRaw)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) decodeCollection(kind string, raw json.RawMessage) (*Collection, error) {
	items := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(raw, items); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParseFormat, kind, err)
	}
	collection := orderedmap.New[string, *attr.Set]()
	for pair := items.Oldest(); pair != nil; pair = pair.Next() {
		var set attr.Set
		if err := json.Unmarshal(pair.Value, &set); err != nil {
			m.Invalid = append(m.Invalid, &ObjectError{Kind: kind, ID: pair.Key, Err: fmt.Errorf("%w: %v", ErrInvalidObject, err)})
			continue
		}
		collection.Set(pair.Key, &set)
	}
	return collection, nil
}

// Encode re-serialises the model with four-space indentation, keeping document order.
func Encode(m *Model) ([]byte, error) {
	out := orderedmap.New[string, any]()
	for pair := m.top.Oldest(); pair != nil; pair = pair.Next() {
		switch pair.Key {
		case "objects":
			out.Set(pair.Key, m.objects)
		case "graph":
			graph := orderedmap.New[string, any]()
			for g := m.graph.Oldest(); g != nil; g = g.Next() {
				if g.Key == "edges" {
					graph.Set(g.Key, m.edges)
					continue
				}
				graph.Set(g.Key, g.Value)
			}
			out.Set(pair.Key, graph)
		default:
			out.Set(pair.Key, pair.Value)
		}
	}
	data, err := json.MarshalIndent(out, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encoding model: %w", err)
	}
	return data, nil
}

// Collection returns the objects of one kind, or nil when the snapshot has none.
func (m *Model) Collection(kind string) *Collection {
	if kind == KindEdge {
		return m.edges
	}
	collection, _ := m.objects.Get(kind)
	return collection
}

var lookupOrder = []string{KindMedic, KindPolice, KindCivilian, KindHospital, KindBuilding, KindEdge}

// Find locates an object by id across agents, nodes, and edges.
func (m *Model) Find(id string) (*attr.Set, string, error) {
	for _, kind := range lookupOrder {
		collection := m.Collection(kind)
		if collection == nil {
			continue
		}
		if set, ok := collection.Get(id); ok {
			return set, kind, nil
		}
	}
	return nil, "", fmt.Errorf("%w: %q", ErrNotFound, id)
}

// Replace swaps the attribute set stored for id in the given collection.
func (m *Model) Replace(kind, id string, set *attr.Set) error {
	collection := m.Collection(kind)
	if collection == nil {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if _, ok := collection.Get(id); !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	collection.Set(id, set)
	return nil
}

// IsEdgeID reports whether id names a directed edge ("<from> <to>").
func IsEdgeID(id string) bool {
	return strings.Contains(id, " ")
}

// MirrorID returns the key of the opposite direction of an edge id.
func MirrorID(id string) (string, bool) {
	parts := strings.Split(id, " ")
	if len(parts) != 2 {
		return "", false
	}
	return parts[1] + " " + parts[0], true
}

// CanonicalID orders the endpoints of an edge id ascending.
func CanonicalID(id string) (from, to string, ok bool) {
	parts := strings.Split(id, " ")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	if parts[1] < parts[0] {
		return parts[1], parts[0], true
	}
	return parts[0], parts[1], true
}

// NodeIDs lists building then hospital ids in document order.
func (m *Model) NodeIDs() []string {
	var ids []string
	for _, kind := range []string{KindBuilding, KindHospital} {
		collection := m.Collection(kind)
		if collection == nil {
			continue
		}
		for pair := collection.Oldest(); pair != nil; pair = pair.Next() {
			ids = append(ids, pair.Key)
		}
	}
	return ids
}
