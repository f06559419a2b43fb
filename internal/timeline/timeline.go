package timeline

import (
	"cmp"
	"slices"

	"planviz/internal/action"
)

// PlannerAgent sorts ahead of every other agent.
const PlannerAgent = "planner"

type Timeline struct {
	Rows   []action.Record `json:"rows"`
	Legend []string        `json:"legend"`
	// Labels holds the label for each Legend entry, in the same order.
	Labels   []string `json:"labels"`
	Failures []error  `json:"-"`
}

// Palette maps labels to the color of the first action that produced them.
type Palette map[string]string

func (p Palette) note(label, color string) {
	if _, ok := p[label]; !ok {
		p[label] = color
	}
}

// Build parses a raw action log and assembles the timeline. Failed actions are collected in
// Failures and the remaining actions are still rendered.
func Build(raw []byte) (*Timeline, error) {
	results, err := action.Parse(raw)
	if err != nil {
		return nil, err
	}
	return FromResults(results), nil
}

func FromResults(results []action.Result) *Timeline {
	var records []action.Record
	var failures []error
	palette := make(Palette)
	for _, result := range results {
		if result.Err != nil {
			failures = append(failures, result.Err)
			continue
		}
		for _, record := range result.Records {
			palette.note(record.Label, result.Color)
		}
		records = append(records, result.Records...)
	}
	tl := Assemble(records, palette)
	tl.Failures = failures
	return tl
}

// Assemble sorts records by agent then start time and derives the legend colors in order of
// first label appearance within the sorted rows.
func Assemble(records []action.Record, palette Palette) *Timeline {
	rows := slices.Clone(records)
	slices.SortStableFunc(rows, compareRows)

	tl := &Timeline{Rows: rows, Legend: []string{}, Labels: []string{}}
	seen := make(map[string]struct{})
	for _, row := range rows {
		if _, ok := seen[row.Label]; ok {
			continue
		}
		seen[row.Label] = struct{}{}
		color, ok := palette[row.Label]
		if !ok {
			color = action.Color(string(action.TypeOther))
		}
		tl.Legend = append(tl.Legend, color)
		tl.Labels = append(tl.Labels, row.Label)
	}
	if tl.Rows == nil {
		tl.Rows = []action.Record{}
	}
	return tl
}

func compareRows(a, b action.Record) int {
	if a.Agent == b.Agent {
		return cmp.Compare(a.StartMS, b.StartMS)
	}
	if r := cmp.Compare(agentRank(a.Agent), agentRank(b.Agent)); r != 0 {
		return r
	}
	return cmp.Compare(a.Agent, b.Agent)
}

// agentRank puts the planner first, then actions with no agent id, then everyone else.
func agentRank(agent string) int {
	switch agent {
	case PlannerAgent:
		return 0
	case "":
		return 1
	default:
		return 2
	}
}
