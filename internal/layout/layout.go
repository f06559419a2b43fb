// Package layout places a parsed world on a render surface.
package layout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"planviz/internal/geom"
	"planviz/internal/world"
)

var ErrUnknownNode = errors.New("references a node that is not in the world")

type ElementKind string

const (
	KindNode  ElementKind = "node"
	KindEdge  ElementKind = "edge"
	KindAgent ElementKind = "agent"
	KindLabel ElementKind = "label"
)

// Geometry holds the shape of one element. Origin is the rectangle corner, circle centre, text
// anchor, or line start; End is set for lines only.
type Geometry struct {
	Origin geom.Vec  `json:"origin"`
	End    *geom.Vec `json:"end,omitempty"`
	Width  float64   `json:"width,omitempty"`
	Height float64   `json:"height,omitempty"`
	Radius float64   `json:"radius,omitempty"`
	Text   string    `json:"text,omitempty"`
}

type Paint struct {
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"stroke_width,omitempty"`
	FontFamily  string  `json:"font_family,omitempty"`
	FontSize    string  `json:"font_size,omitempty"`
}

type Element struct {
	ID   string      `json:"id"`
	Kind ElementKind `json:"kind"`
	// Object is the model object id the element selects in the inspector.
	Object   string   `json:"object,omitempty"`
	Geometry Geometry `json:"geometry"`
	Paint    Paint    `json:"paint"`
}

// Scene is the placed world. Elements are in draw order: edges, nodes, agents.
type Scene struct {
	Surface  Surface    `json:"surface"`
	Border   float64    `json:"border"`
	Grid     geom.Point `json:"grid"`
	Elements []Element  `json:"elements"`
	Errors   []error    `json:"-"`
}

// Element returns the element with the given id.
func (s *Scene) Element(id string) (Element, bool) {
	for _, e := range s.Elements {
		if e.ID == id {
			return e, true
		}
	}
	return Element{}, false
}

type placer struct {
	surface Surface
	style   Style
	grid    geom.Point
	nodes   map[string]world.Node
}

// Layout maps w onto surface. Edges and agents whose node is missing are reported in
// Scene.Errors and left out.
func Layout(w *world.World, surface Surface, style Style) *Scene {
	p := &placer{surface: surface, style: style, nodes: make(map[string]world.Node, len(w.Nodes))}
	for _, n := range w.Nodes {
		p.grid.X = max(p.grid.X, n.Position.X)
		p.grid.Y = max(p.grid.Y, n.Position.Y)
		p.nodes[n.ID] = n
	}
	p.grid.X++
	p.grid.Y++

	scene := &Scene{Surface: surface, Border: style.Border, Grid: p.grid, Elements: []Element{}}
	for _, e := range w.Edges {
		elements, err := p.edge(e)
		if err != nil {
			scene.Errors = append(scene.Errors, err)
			continue
		}
		scene.Elements = append(scene.Elements, elements...)
	}
	for _, n := range w.Nodes {
		scene.Elements = append(scene.Elements, p.node(n)...)
	}
	agents, errs := p.agents(w.Nodes, w.Agents)
	scene.Elements = append(scene.Elements, agents...)
	scene.Errors = append(scene.Errors, errs...)
	return scene
}

// Position maps a grid coordinate to the surface: dim * (coord / extent) + border.
func (p *placer) position(pos geom.Point) geom.Vec {
	return geom.Vec{
		X: p.surface.Width*float64(pos.X)/float64(p.grid.X) + p.style.Border,
		Y: p.surface.Height*float64(pos.Y)/float64(p.grid.Y) + p.style.Border,
	}
}

func (p *placer) centre(n world.Node) geom.Vec {
	return p.position(n.Position).Add(geom.Vec{X: p.style.Node.Width / 2, Y: p.style.Node.Height / 2})
}

func (p *placer) node(n world.Node) []Element {
	origin := p.position(n.Position)
	rect := Element{
		ID:     n.ID,
		Kind:   KindNode,
		Object: n.ID,
		Geometry: Geometry{
			Origin: origin,
			Width:  p.style.Node.Width,
			Height: p.style.Node.Height,
		},
		Paint: Paint{Fill: p.style.Node.Colors[n.Kind]},
	}
	anchor := origin.Add(geom.Vec{X: p.style.Node.Width / 2, Y: -p.style.Node.Height * 1.5})
	return []Element{rect, p.text(n.ID+"-id", n.ID, n.ID, anchor)}
}

func (p *placer) edge(e world.Edge) ([]Element, error) {
	from, ok := p.nodes[e.From]
	if !ok {
		return nil, fmt.Errorf("edge %q: %s %w", e.ID, e.From, ErrUnknownNode)
	}
	to, ok := p.nodes[e.To]
	if !ok {
		return nil, fmt.Errorf("edge %q: %s %w", e.ID, e.To, ErrUnknownNode)
	}
	line := geom.Line{From: p.centre(from), To: p.centre(to)}
	stroke := p.style.Edge.Open
	if e.Blocked {
		stroke = p.style.Edge.Blocked
	}
	end := line.To
	elements := []Element{{
		ID:       e.ID,
		Kind:     KindEdge,
		Object:   e.ID,
		Geometry: Geometry{Origin: line.From, End: &end},
		Paint:    Paint{Stroke: stroke, StrokeWidth: p.style.Edge.Width},
	}}

	mid := line.Midpoint()
	elements = append(elements, p.text(e.ID+"-distance", e.ID, "distance: "+formatNumber(e.Distance), mid))
	if e.Blockedness != nil {
		shifted := mid.Add(geom.Vec{X: p.style.Text.X, Y: p.style.Text.Y})
		elements = append(elements, p.text(e.ID+"-blockedness", e.ID, "blockedness: "+formatNumber(*e.Blockedness), shifted))
	}
	return elements, nil
}

// agents stacks agents on their node in iteration order, then labels each occupied node with the
// ids stacked there.
func (p *placer) agents(nodes []world.Node, agents []world.Agent) ([]Element, []error) {
	population := make(map[string][]string, len(nodes))
	var elements []Element
	var errs []error
	for _, a := range agents {
		n, ok := p.nodes[a.Node]
		if !ok {
			errs = append(errs, fmt.Errorf("agent %q: %s %w", a.ID, a.Node, ErrUnknownNode))
			continue
		}
		slot := float64(len(population[a.Node]))
		origin := p.position(n.Position)
		centre := geom.Vec{
			X: origin.X + p.style.Node.Width + p.style.Agent.Radius + slot*p.style.AgentStride(),
			Y: origin.Y + p.style.Node.Height + p.style.Agent.Radius,
		}
		elements = append(elements, Element{
			ID:       a.ID,
			Kind:     KindAgent,
			Object:   a.ID,
			Geometry: Geometry{Origin: centre, Radius: p.style.Agent.Radius},
			Paint:    Paint{Fill: p.style.Agent.Colors[a.Type]},
		})
		population[a.Node] = append(population[a.Node], a.ID)
	}

	for _, n := range nodes {
		ids := population[n.ID]
		if len(ids) == 0 {
			continue
		}
		anchor := p.position(n.Position).Add(geom.Vec{X: p.style.Node.Width / 2, Y: p.style.Agent.Radius * 3})
		elements = append(elements, p.text(n.ID+"-agents", n.ID, strings.Join(ids, ", "), anchor))
	}
	return elements, errs
}

func (p *placer) text(id, object, text string, at geom.Vec) Element {
	return Element{
		ID:       id,
		Kind:     KindLabel,
		Object:   object,
		Geometry: Geometry{Origin: at.Add(geom.Vec{X: p.style.Text.FirstX, Y: p.style.Text.FirstY}), Text: text},
		Paint:    Paint{FontFamily: p.style.Text.FontFamily, FontSize: p.style.Text.FontSize},
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
