package timeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const defaultBarWidth = 60

var (
	agentStyle  = lipgloss.NewStyle().Bold(true)
	axisStyle   = lipgloss.NewStyle().Faint(true)
	legendStyle = lipgloss.NewStyle().PaddingLeft(1)
)

// Colors maps each legend label to its color.
func (tl *Timeline) Colors() map[string]string {
	colors := make(map[string]string, len(tl.Labels))
	for i, label := range tl.Labels {
		colors[label] = tl.Legend[i]
	}
	return colors
}

// WriteText draws the timeline as one bar per row, scaled to width columns, followed by the
// legend. A width below one uses the default.
func WriteText(w io.Writer, tl *Timeline, width int) error {
	if width < 1 {
		width = defaultBarWidth
	}
	if len(tl.Rows) == 0 {
		_, err := fmt.Fprintln(w, axisStyle.Render("no actions"))
		return err
	}

	start, end := tl.Rows[0].StartMS, tl.Rows[0].EndMS
	agentWidth := 0
	for _, row := range tl.Rows {
		start = min(start, row.StartMS)
		end = max(end, row.EndMS)
		agentWidth = max(agentWidth, len(row.Agent))
	}
	span := max(end-start, 1)
	colors := tl.Colors()

	var b strings.Builder
	for _, row := range tl.Rows {
		from := int((row.StartMS - start) * int64(width) / span)
		to := int((row.EndMS - start) * int64(width) / span)
		to = min(max(to, from+1), width)
		from = min(from, to-1)

		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(colors[row.Label])).Render(strings.Repeat("█", to-from))
		fmt.Fprintf(&b, "%s %s%s%s %s %s\n",
			agentStyle.Render(fmt.Sprintf("%-*s", agentWidth, row.Agent)),
			axisStyle.Render(strings.Repeat("·", from)),
			bar,
			axisStyle.Render(strings.Repeat("·", width-to)),
			row.Label,
			axisStyle.Render(fmt.Sprintf("%s-%s", seconds(row.StartMS), seconds(row.EndMS))),
		)
	}

	b.WriteString("\n")
	for i, label := range tl.Labels {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(tl.Legend[i])).Render("■")
		b.WriteString(legendStyle.Render(swatch+" "+label) + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func seconds(ms int64) string {
	return fmt.Sprintf("%gs", float64(ms)/1000)
}
