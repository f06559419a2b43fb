package timeline

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planviz/internal/action"
)

func agents(rows []action.Record) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Agent)
	}
	return out
}

func TestAssemble_PlannerFirst(t *testing.T) {
	records := []action.Record{
		{Agent: "b", Label: "Move x", StartMS: 0},
		{Agent: "a", Label: "Move y", StartMS: 0},
		{Agent: "planner", Label: "Plan", StartMS: 0},
	}
	tl := Assemble(records, Palette{})
	assert.Equal(t, []string{"planner", "a", "b"}, agents(tl.Rows))
}

func TestAssemble_UndefinedAgentAfterPlanner(t *testing.T) {
	records := []action.Record{
		{Agent: "a", Label: "Move y", StartMS: 0},
		{Agent: "", Label: "DeliverOntime p1", StartMS: 5},
		{Agent: "planner", Label: "Plan", StartMS: 9},
	}
	tl := Assemble(records, Palette{})
	assert.Equal(t, []string{"planner", "", "a"}, agents(tl.Rows))
}

func TestAssemble_StartTimeWithinAgent(t *testing.T) {
	records := []action.Record{
		{Agent: "a", Label: "Move 2", StartMS: 3000},
		{Agent: "a", Label: "Move 1", StartMS: 1000},
		{Agent: "a", Label: "Move 3", StartMS: 1000},
	}
	tl := Assemble(records, Palette{})
	require.Len(t, tl.Rows, 3)
	assert.Equal(t, "Move 1", tl.Rows[0].Label)
	assert.Equal(t, "Move 3", tl.Rows[1].Label)
	assert.Equal(t, "Move 2", tl.Rows[2].Label)
}

func TestAssemble_LegendFollowsSortedRows(t *testing.T) {
	records := []action.Record{
		{Agent: "z", Label: "Clean r1", StartMS: 0},
		{Agent: "a", Label: "Move n1", StartMS: 5},
		{Agent: "a", Label: "Clean r1", StartMS: 0},
		{Agent: "planner", Label: "Plan", StartMS: 0},
	}
	palette := Palette{"Clean r1": "#FFA500", "Move n1": "#8B0000", "Plan": "#0000FF"}
	tl := Assemble(records, palette)

	assert.Equal(t, []string{"Plan", "Clean r1", "Move n1"}, tl.Labels)
	assert.Equal(t, []string{"#0000FF", "#FFA500", "#8B0000"}, tl.Legend)
}

func TestBuild_FirstSeenColorWins(t *testing.T) {
	// both render as "ExtraClean rm1" but resolve different colors
	raw := `[
		{"type": "ExtraCleanPart", "agent": "r1", "room": "rm1", "start_time": 0, "duration": 1},
		{"type": "ExtraClean", "agent": "r2", "room": "rm1", "start_time": 0, "duration": 1}
	]`
	tl, err := Build([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, []string{"ExtraClean rm1"}, tl.Labels)
	assert.Equal(t, []string{action.Color("ExtraCleanPart")}, tl.Legend)
}

func TestBuild_SkipsFailedRecords(t *testing.T) {
	raw := "[Move(start_time=0, duration=1, end_node='b'), Move(agent='m1', start_time=0, duration=1, end_node='b')]"
	tl, err := Build([]byte(raw))
	require.NoError(t, err)

	assert.Len(t, tl.Rows, 1)
	require.Len(t, tl.Failures, 1)
	assert.True(t, errors.Is(tl.Failures[0], action.ErrMissingAgent))
}

func TestBuild_FormatError(t *testing.T) {
	_, err := Build([]byte("no actions here"))
	assert.True(t, errors.Is(err, action.ErrParseFormat))
}

func TestBuild_Empty(t *testing.T) {
	tl, err := Build(nil)
	require.NoError(t, err)
	assert.Empty(t, tl.Rows)
	assert.Empty(t, tl.Legend)
}

func TestWriteText(t *testing.T) {
	records := []action.Record{
		{Agent: "m1", Label: "Move b1", StartMS: 0, EndMS: 1000},
		{Agent: "p1", Label: "Unblock e1", StartMS: 1000, EndMS: 2000},
	}
	tl := Assemble(records, Palette{"Move b1": "#8B0000", "Unblock e1": "#FFA500"})

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, tl, 10))
	out := buf.String()

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "m1")
	assert.Contains(t, lines[0], "█████")
	assert.NotContains(t, lines[0], "██████")
	assert.Contains(t, lines[0], "0s-1s")
	assert.Contains(t, lines[1], "Unblock e1")
	assert.Contains(t, out, "■ Move b1")
	assert.Contains(t, out, "■ Unblock e1")
}

func TestWriteText_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, Assemble(nil, Palette{}), 0))
	assert.Contains(t, buf.String(), "no actions")
}

func TestColors(t *testing.T) {
	tl := &Timeline{Labels: []string{"Plan", "Move n1"}, Legend: []string{"#0000FF", "#8B0000"}}
	assert.Equal(t, map[string]string{"Plan": "#0000FF", "Move n1": "#8B0000"}, tl.Colors())
}
