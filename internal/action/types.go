package action

import (
	"errors"
	"fmt"
)

var (
	ErrMissingAgent = errors.New("action has neither agent nor agent0/agent1")
	ErrMissingField = errors.New("action missing required field")
	ErrBadTime      = errors.New("invalid action time")
	ErrParseFormat  = errors.New("input is neither a JSON action log nor legacy action tuples")
)

// Type names an action in the simulator vocabulary.
type Type string

const (
	TypeMove             Type = "Move"
	TypeDrive            Type = "Drive"
	TypeSail             Type = "Sail"
	TypeClean            Type = "Clean"
	TypeExtraClean       Type = "ExtraClean"
	TypeExtraCleanPart   Type = "ExtraCleanPart"
	TypeExtraCleanAssist Type = "ExtraCleanAssist"
	TypePlan             Type = "Plan"
	TypeLocalPlan        Type = "LocalPlan"
	TypeUnblock          Type = "Unblock"
	TypeRescue           Type = "Rescue"
	TypeLoad             Type = "Load"
	TypeUnload           Type = "Unload"
	TypeDeliverOntime    Type = "DeliverOntime"
	TypeDeliverAnytime   Type = "DeliverAnytime"
	TypeDeliverMultiple  Type = "DeliverMultiple"
	TypeOther            Type = "Other"
)

const partialPrefix = "Partial "

var colors = map[string]string{
	"Move":             "#8B0000",
	"Drive":            "#8B4513",
	"Sail":             "#1E90FF",
	"Clean":            "#FFA500",
	"ExtraClean":       "#006400",
	"ExtraCleanPart":   "#2E8B57",
	"ExtraCleanAssist": "#556B2F",
	"Plan":             "#0000FF",
	"LocalPlan":        "#4169E1",
	"Unblock":          "#800080",
	"Rescue":           "#DC143C",
	"Load":             "#008080",
	"Unload":           "#20B2AA",
	"DeliverOntime":    "#DAA520",
	"DeliverAnytime":   "#B8860B",
	"DeliverMultiple":  "#CD853F",
	"Other":            "#000000",

	"Partial Move":             "#ae4d4d",
	"Partial Drive":            "#ae8a71",
	"Partial Sail":             "#62b1ff",
	"Partial Clean":            "#ffc04d",
	"Partial ExtraClean":       "#4d934d",
	"Partial ExtraCleanPart":   "#6dae8a",
	"Partial ExtraCleanAssist": "#889a6d",
	"Partial Unblock":          "#a64da6",
	"Partial Rescue":           "#e75a73",
	"Partial Load":             "#4da6a6",
	"Partial Unload":           "#63c9c4",
}

// Color returns the display color for a lookup key, falling back to the Other color.
func Color(key string) string {
	if c, ok := colors[key]; ok {
		return c
	}
	return colors[string(TypeOther)]
}

// Record is one agent's action interval on the timeline.
type Record struct {
	Agent   string `json:"agent"`
	Label   string `json:"label"`
	StartMS int64  `json:"start_ms"`
	EndMS   int64  `json:"end_ms"`
}

// Result is the outcome of parsing one source action. A dual-agent action yields two records.
type Result struct {
	Index   int
	Source  string
	Records []Record
	Color   string
	Err     error
}

type RecordError struct {
	Index  int
	Source string
	Err    error
}

func (e *RecordError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("action %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("action %d (%s): %v", e.Index, e.Source, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }
