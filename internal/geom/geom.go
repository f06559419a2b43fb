package geom

import "fmt"

// Point is a logical grid coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("Point(%d, %d)", p.X, p.Y)
}

// Vec is a coordinate on the render surface.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

type Line struct {
	From Vec `json:"from"`
	To   Vec `json:"to"`
}

func (l Line) Midpoint() Vec {
	return Vec{X: (l.From.X + l.To.X) / 2, Y: (l.From.Y + l.To.Y) / 2}
}
