package world

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"planviz/internal/attr"
	"planviz/internal/geom"
)

type Node struct {
	ID string `json:"id"`
	// Type is the id prefix, e.g. "b" for "b3-5".
	Type     string         `json:"type"`
	Kind     string         `json:"kind"`
	Position geom.Point     `json:"position"`
	Attrs    map[string]any `json:"attrs,omitempty"`
}

type Edge struct {
	ID          string   `json:"id"`
	From        string   `json:"from"`
	To          string   `json:"to"`
	Distance    float64  `json:"distance"`
	Direct      bool     `json:"edge"`
	Blocked     bool     `json:"blocked"`
	Blockedness *float64 `json:"blockedness,omitempty"`
}

type Agent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Node string `json:"node"`
}

// World is the canonical view of a model. Nodes and edges are sorted by id; agents keep
// iteration order (medics, police, civilians, each in document order).
type World struct {
	Nodes  []Node  `json:"nodes"`
	Edges  []Edge  `json:"edges"`
	Agents []Agent `json:"agents"`
	Errors []error `json:"-"`
}

func (w *World) Node(id string) (Node, bool) {
	i, ok := slices.BinarySearchFunc(w.Nodes, id, func(n Node, id string) int {
		return strings.Compare(n.ID, id)
	})
	if !ok {
		return Node{}, false
	}
	return w.Nodes[i], true
}

var nodeIDPattern = regexp.MustCompile(`^(\D+)(\d+)-(\d+)$`)

// ParseNodeID splits "<prefix><x>-<y>" into its type prefix and grid position.
func ParseNodeID(id string) (string, geom.Point, error) {
	match := nodeIDPattern.FindStringSubmatch(id)
	if match == nil {
		return "", geom.Point{}, fmt.Errorf("%w: %q", ErrMalformedID, id)
	}
	x, errX := strconv.Atoi(match[2])
	y, errY := strconv.Atoi(match[3])
	if errX != nil || errY != nil {
		return "", geom.Point{}, fmt.Errorf("%w: %q", ErrMalformedID, id)
	}
	return match[1], geom.Point{X: x, Y: y}, nil
}

// Parse derives the canonical world from a model. Objects that fail are reported in
// World.Errors and left out; the rest still parse.
func Parse(m *Model) *World {
	w := &World{Nodes: []Node{}, Edges: []Edge{}, Agents: []Agent{}}
	w.Errors = append(w.Errors, m.Invalid...)

	for _, kind := range []string{KindBuilding, KindHospital} {
		each(m.Collection(kind), func(id string, set *attr.Set) {
			node, err := parseNode(kind, id, set)
			if err != nil {
				w.Errors = append(w.Errors, &ObjectError{Kind: kind, ID: id, Err: err})
				return
			}
			w.Nodes = append(w.Nodes, node)
		})
	}
	slices.SortStableFunc(w.Nodes, func(a, b Node) int { return strings.Compare(a.ID, b.ID) })
	w.Nodes = slices.CompactFunc(w.Nodes, func(a, b Node) bool { return a.ID == b.ID })

	w.Edges = parseEdges(m.Collection(KindEdge), &w.Errors)

	for _, kind := range []string{KindMedic, KindPolice, KindCivilian} {
		each(m.Collection(kind), func(id string, set *attr.Set) {
			agent, err := parseAgent(kind, id, set)
			if err != nil {
				w.Errors = append(w.Errors, &ObjectError{Kind: kind, ID: id, Err: err})
				return
			}
			w.Agents = append(w.Agents, agent)
		})
	}
	return w
}

func each(collection *Collection, fn func(id string, set *attr.Set)) {
	if collection == nil {
		return
	}
	for pair := collection.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

func parseNode(kind, id string, set *attr.Set) (Node, error) {
	prefix, pos, err := ParseNodeID(id)
	if err != nil {
		return Node{}, err
	}
	node := Node{ID: id, Type: prefix, Kind: kind, Position: pos}
	if set.Len() > 0 {
		node.Attrs = set.Resolved()
	}
	return node, nil
}

// parseEdges keeps one direction per undirected edge: the entry already keyed in sorted order,
// or the mirror when that is the only direction present.
func parseEdges(collection *Collection, errs *[]error) []Edge {
	type candidate struct {
		edge   Edge
		sorted bool
	}
	var order []string
	byID := make(map[string]candidate)

	each(collection, func(key string, set *attr.Set) {
		from, to, ok := CanonicalID(key)
		if !ok {
			*errs = append(*errs, &ObjectError{Kind: KindEdge, ID: key, Err: fmt.Errorf("%w: edge key must be two node ids", ErrInvalidObject)})
			return
		}
		id := from + " " + to
		existing, seen := byID[id]
		if seen && existing.sorted {
			return
		}
		if !seen {
			order = append(order, id)
		}
		byID[id] = candidate{edge: parseEdge(id, from, to, set), sorted: key == id}
	})

	edges := make([]Edge, 0, len(order))
	for _, id := range order {
		edges = append(edges, byID[id].edge)
	}
	slices.SortStableFunc(edges, func(a, b Edge) int { return strings.Compare(a.ID, b.ID) })
	return edges
}

func parseEdge(id, from, to string, set *attr.Set) Edge {
	edge := Edge{ID: id, From: from, To: to}
	if v, ok := set.Resolve("distance"); ok {
		edge.Distance, _ = attr.Float(v)
	}
	if v, ok := set.Resolve("edge"); ok {
		edge.Direct = attr.Bool(v)
	}
	if v, ok := set.Resolve("blocked-edge"); ok {
		b, isBool := v.(bool)
		edge.Blocked = isBool && b
	}
	if v, ok := set.Resolve("blockedness"); ok {
		if f, ok := attr.Float(v); ok {
			edge.Blockedness = &f
		}
	}
	return edge
}

func parseAgent(kind, id string, set *attr.Set) (Agent, error) {
	var at any
	var ok bool
	switch kind {
	case KindMedic, KindPolice:
		if !set.InKnown("at") {
			return Agent{}, fmt.Errorf("%w: %s position must be a known \"at\" attribute", ErrInvalidObject, kind)
		}
		at, ok = set.Resolve("at")
	case KindCivilian:
		at, ok = set.Resolve("at")
	default:
		return Agent{}, fmt.Errorf("%w: unknown agent kind %q", ErrInvalidObject, kind)
	}
	if !ok {
		return Agent{}, fmt.Errorf("%w: missing \"at\"", ErrInvalidObject)
	}
	node, err := atNode(at)
	if err != nil {
		return Agent{}, err
	}
	return Agent{ID: id, Type: kind, Node: node}, nil
}

// atNode reads the node id from an "at" pair such as [true, "b1-1"].
func atNode(v any) (string, error) {
	pair, ok := v.([]any)
	if !ok || len(pair) != 2 {
		return "", fmt.Errorf("%w: \"at\" must be a two-element list", ErrInvalidObject)
	}
	node, ok := pair[1].(string)
	if !ok || node == "" {
		return "", fmt.Errorf("%w: \"at\" node must be a string id", ErrInvalidObject)
	}
	return node, nil
}
