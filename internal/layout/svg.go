package layout

import (
	"fmt"
	"html"
	"io"
	"strings"
)

// WriteSVG draws the scene as a standalone SVG document. The view box covers the surface plus a
// border on every side.
func WriteSVG(w io.Writer, s *Scene) error {
	var svg strings.Builder
	width := s.Surface.Width + 2*s.Border
	height := s.Surface.Height + 2*s.Border
	svg.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg viewBox="0 0 %s %s" xmlns="http://www.w3.org/2000/svg">
`, formatNumber(width), formatNumber(height)))

	for _, e := range s.Elements {
		g := e.Geometry
		id := html.EscapeString(e.ID)
		switch e.Kind {
		case KindEdge:
			if g.End == nil {
				return fmt.Errorf("edge element %q has no end point", e.ID)
			}
			svg.WriteString(fmt.Sprintf(`<line id="%s" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s"/>`,
				id, formatNumber(g.Origin.X), formatNumber(g.Origin.Y), formatNumber(g.End.X), formatNumber(g.End.Y),
				e.Paint.Stroke, formatNumber(e.Paint.StrokeWidth)))
		case KindNode:
			svg.WriteString(fmt.Sprintf(`<rect id="%s" x="%s" y="%s" width="%s" height="%s" fill="%s"/>`,
				id, formatNumber(g.Origin.X), formatNumber(g.Origin.Y), formatNumber(g.Width), formatNumber(g.Height), e.Paint.Fill))
		case KindAgent:
			svg.WriteString(fmt.Sprintf(`<circle id="%s" cx="%s" cy="%s" r="%s" fill="%s"/>`,
				id, formatNumber(g.Origin.X), formatNumber(g.Origin.Y), formatNumber(g.Radius), e.Paint.Fill))
		case KindLabel:
			svg.WriteString(fmt.Sprintf(`<text id="%s" x="%s" y="%s" font-family="%s" font-size="%s">%s</text>`,
				id, formatNumber(g.Origin.X), formatNumber(g.Origin.Y), e.Paint.FontFamily, e.Paint.FontSize, html.EscapeString(g.Text)))
		default:
			return fmt.Errorf("element %q has unknown kind %q", e.ID, e.Kind)
		}
		svg.WriteString("\n")
	}
	svg.WriteString("</svg>\n")

	_, err := io.WriteString(w, svg.String())
	return err
}
