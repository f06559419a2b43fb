package layout

import "planviz/internal/world"

// Surface is the drawable area nodes are mapped onto, excluding the border.
type Surface struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

type NodeStyle struct {
	Width  float64           `json:"width" yaml:"width"`
	Height float64           `json:"height" yaml:"height"`
	Colors map[string]string `json:"colors" yaml:"colors"`
}

type EdgeStyle struct {
	Width   float64 `json:"width" yaml:"width"`
	Blocked string  `json:"blocked" yaml:"blocked"`
	Open    string  `json:"open" yaml:"open"`
}

type AgentStyle struct {
	Radius float64           `json:"radius" yaml:"radius"`
	Gap    float64           `json:"gap" yaml:"gap"`
	Colors map[string]string `json:"colors" yaml:"colors"`
}

// TextStyle places labels. Every label is shifted by (FirstX, FirstY); a second label on the
// same anchor is shifted again by (X, Y).
type TextStyle struct {
	FirstX     float64 `json:"first_x" yaml:"first_x"`
	FirstY     float64 `json:"first_y" yaml:"first_y"`
	X          float64 `json:"x" yaml:"x"`
	Y          float64 `json:"y" yaml:"y"`
	FontFamily string  `json:"font_family" yaml:"font_family"`
	FontSize   string  `json:"font_size" yaml:"font_size"`
}

type Style struct {
	// Border is a fixed margin added to both axes.
	Border float64    `json:"border" yaml:"border"`
	Node   NodeStyle  `json:"node" yaml:"node"`
	Edge   EdgeStyle  `json:"edge" yaml:"edge"`
	Agent  AgentStyle `json:"agent" yaml:"agent"`
	Text   TextStyle  `json:"text" yaml:"text"`
}

const DefaultBorder = 40

func DefaultSurface() Surface {
	return Surface{Width: 1000, Height: 1000}
}

func DefaultStyle() Style {
	return Style{
		Border: DefaultBorder,
		Node: NodeStyle{
			Width:  30,
			Height: 30,
			Colors: map[string]string{
				world.KindHospital: "green",
				world.KindBuilding: "grey",
			},
		},
		Edge: EdgeStyle{Width: 10, Blocked: "red", Open: "aqua"},
		Agent: AgentStyle{
			Radius: 15,
			Gap:    5,
			Colors: map[string]string{
				world.KindMedic:    "lime",
				world.KindPolice:   "blue",
				world.KindCivilian: "olive",
			},
		},
		Text: TextStyle{FirstX: 10, FirstY: 40, X: 0, Y: 30, FontFamily: "arial", FontSize: "24pt"},
	}
}

// AgentStride is the lateral distance between two agents stacked on one node.
func (s Style) AgentStride() float64 {
	return 2*s.Agent.Radius + s.Agent.Gap
}
