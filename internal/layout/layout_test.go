package layout

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planviz/internal/geom"
	"planviz/internal/world"
	"planviz/internal/world/worldtest"
)

func fixtureScene(t *testing.T) *Scene {
	t.Helper()
	m, err := world.Decode([]byte(worldtest.Snapshot))
	require.NoError(t, err)
	return Layout(world.Parse(m), Surface{Width: 300, Height: 200}, DefaultStyle())
}

func ids(elements []Element) []string {
	out := make([]string, 0, len(elements))
	for _, e := range elements {
		out = append(out, e.ID)
	}
	return out
}

func TestLayout_DrawOrder(t *testing.T) {
	scene := fixtureScene(t)
	require.Empty(t, scene.Errors)

	assert.Equal(t, geom.Point{X: 3, Y: 2}, scene.Grid)
	assert.Equal(t, []string{
		"b0-0 h1-0", "b0-0 h1-0-distance",
		"b2-1 h1-0", "b2-1 h1-0-distance", "b2-1 h1-0-blockedness",
		"b0-0", "b0-0-id", "b2-1", "b2-1-id", "h1-0", "h1-0-id",
		"medic1", "police1", "civ1", "b0-0-agents", "b2-1-agents",
	}, ids(scene.Elements))
}

func TestLayout_NodePositions(t *testing.T) {
	scene := fixtureScene(t)

	cases := map[string]geom.Vec{
		"b0-0": {X: 40, Y: 40},
		"h1-0": {X: 140, Y: 40},
		"b2-1": {X: 240, Y: 140},
	}
	for id, want := range cases {
		e, ok := scene.Element(id)
		require.True(t, ok, id)
		assert.Equal(t, KindNode, e.Kind)
		assert.Equal(t, want, e.Geometry.Origin, id)
	}

	hospital, _ := scene.Element("h1-0")
	assert.Equal(t, "green", hospital.Paint.Fill)

	label, _ := scene.Element("b0-0-id")
	assert.Equal(t, geom.Vec{X: 65, Y: 35}, label.Geometry.Origin)
	assert.Equal(t, "b0-0", label.Geometry.Text)
}

func TestLayout_AgentStacking(t *testing.T) {
	scene := fixtureScene(t)
	style := DefaultStyle()

	medic, _ := scene.Element("medic1")
	police, _ := scene.Element("police1")
	assert.Equal(t, geom.Vec{X: 85, Y: 85}, medic.Geometry.Origin)
	assert.Equal(t, medic.Geometry.Origin.Y, police.Geometry.Origin.Y)
	assert.Equal(t, style.AgentStride(), police.Geometry.Origin.X-medic.Geometry.Origin.X)
	assert.Greater(t, police.Geometry.Origin.X-medic.Geometry.Origin.X, 2*style.Agent.Radius)
	assert.Equal(t, "blue", police.Paint.Fill)

	civ, _ := scene.Element("civ1")
	assert.Equal(t, geom.Vec{X: 285, Y: 185}, civ.Geometry.Origin)

	stacked, _ := scene.Element("b0-0-agents")
	assert.Equal(t, "medic1, police1", stacked.Geometry.Text)
	assert.Equal(t, geom.Vec{X: 65, Y: 125}, stacked.Geometry.Origin)
}

func TestLayout_Edges(t *testing.T) {
	scene := fixtureScene(t)

	open, _ := scene.Element("b0-0 h1-0")
	assert.Equal(t, geom.Vec{X: 55, Y: 55}, open.Geometry.Origin)
	require.NotNil(t, open.Geometry.End)
	assert.Equal(t, geom.Vec{X: 155, Y: 55}, *open.Geometry.End)
	assert.Equal(t, "aqua", open.Paint.Stroke)

	distance, _ := scene.Element("b0-0 h1-0-distance")
	assert.Equal(t, "distance: 10", distance.Geometry.Text)
	assert.Equal(t, geom.Vec{X: 115, Y: 95}, distance.Geometry.Origin)

	_, ok := scene.Element("b0-0 h1-0-blockedness")
	assert.False(t, ok)

	blocked, _ := scene.Element("b2-1 h1-0")
	assert.Equal(t, "red", blocked.Paint.Stroke)
	blockedness, _ := scene.Element("b2-1 h1-0-blockedness")
	assert.Equal(t, "blockedness: 30", blockedness.Geometry.Text)
	assert.Equal(t, geom.Vec{X: 215, Y: 175}, blockedness.Geometry.Origin)
}

func TestLayout_ZeroBlockednessIsLabelled(t *testing.T) {
	zero := 0.0
	w := &world.World{
		Nodes: []world.Node{{ID: "b0-0", Kind: world.KindBuilding}, {ID: "b1-0", Kind: world.KindBuilding, Position: geom.Point{X: 1}}},
		Edges: []world.Edge{{ID: "b0-0 b1-0", From: "b0-0", To: "b1-0", Blocked: true, Blockedness: &zero}},
	}
	scene := Layout(w, DefaultSurface(), DefaultStyle())

	label, ok := scene.Element("b0-0 b1-0-blockedness")
	require.True(t, ok)
	assert.Equal(t, "blockedness: 0", label.Geometry.Text)
}

func TestLayout_MissingNodesSkipped(t *testing.T) {
	w := &world.World{
		Nodes:  []world.Node{{ID: "b0-0", Kind: world.KindBuilding}},
		Edges:  []world.Edge{{ID: "b0-0 b9-9", From: "b0-0", To: "b9-9"}},
		Agents: []world.Agent{{ID: "m1", Type: world.KindMedic, Node: "b9-9"}, {ID: "m2", Type: world.KindMedic, Node: "b0-0"}},
	}
	scene := Layout(w, DefaultSurface(), DefaultStyle())

	assert.Equal(t, []string{"b0-0", "b0-0-id", "m2", "b0-0-agents"}, ids(scene.Elements))
	require.Len(t, scene.Errors, 2)
	for _, err := range scene.Errors {
		assert.True(t, errors.Is(err, ErrUnknownNode))
	}
}

func TestLayout_EmptyWorld(t *testing.T) {
	scene := Layout(&world.World{}, DefaultSurface(), DefaultStyle())
	assert.Equal(t, geom.Point{X: 1, Y: 1}, scene.Grid)
	assert.Empty(t, scene.Elements)
}

func TestWriteSVG(t *testing.T) {
	scene := fixtureScene(t)

	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, scene))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `viewBox="0 0 380 280"`)
	assert.Contains(t, out, `<rect id="b0-0" x="40" y="40" width="30" height="30" fill="grey"/>`)
	assert.Contains(t, out, `<circle id="police1" cx="120" cy="85" r="15" fill="blue"/>`)
	assert.Contains(t, out, `<line id="b0-0 h1-0" x1="55" y1="55" x2="155" y2="55" stroke="aqua" stroke-width="10"/>`)
	assert.Contains(t, out, ">medic1, police1</text>")
	assert.Less(t, strings.Index(out, "<line"), strings.Index(out, "<rect"))
	assert.Less(t, strings.Index(out, "<rect"), strings.Index(out, "<circle"))
}
