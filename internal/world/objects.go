package world

import (
	"slices"
	"strings"

	"planviz/internal/attr"
)

// ObjectView is one selectable object of the inspector with its resolved attributes.
type ObjectView struct {
	ID    string         `json:"id"`
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs"`
}

var objectKinds = []string{KindMedic, KindPolice, KindCivilian, KindBuilding, KindHospital}

// Objects lists agents and nodes sorted by id, followed by edges stored under their sorted key.
func Objects(m *Model) []ObjectView {
	var objects []ObjectView
	for _, kind := range objectKinds {
		each(m.Collection(kind), func(id string, set *attr.Set) {
			objects = append(objects, ObjectView{ID: id, Type: kind, Attrs: set.Resolved()})
		})
	}

	var edges []ObjectView
	each(m.Collection(KindEdge), func(id string, set *attr.Set) {
		from, to, ok := CanonicalID(id)
		if !ok || from+" "+to != id {
			return
		}
		edges = append(edges, ObjectView{ID: id, Type: KindEdge, Attrs: set.Resolved()})
	})

	byID := func(a, b ObjectView) int { return strings.Compare(a.ID, b.ID) }
	slices.SortStableFunc(objects, byID)
	slices.SortStableFunc(edges, byID)
	return append(objects, edges...)
}

// View returns the inspector view of a single object.
func View(m *Model, id string) (ObjectView, error) {
	set, kind, err := m.Find(id)
	if err != nil {
		return ObjectView{}, err
	}
	return ObjectView{ID: id, Type: kind, Attrs: set.Resolved()}, nil
}
