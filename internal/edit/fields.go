package edit

import (
	"slices"
	"strings"

	"planviz/internal/world"
)

type Control string

const (
	ControlCheckbox Control = "checkbox"
	ControlText     Control = "text"
	ControlSelect   Control = "select"
)

// Field describes one input of the object form.
type Field struct {
	Name    string   `json:"name"`
	Control Control  `json:"control"`
	Value   any      `json:"value,omitempty"`
	Checked bool     `json:"checked,omitempty"`
	Options []string `json:"options,omitempty"`
}

var hiddenFields = map[string]bool{"id": true, "type": true, "blocked-edge": true}

// Fields builds the form for object id, sorted by field name. The edge flag is offered as an
// inverted "blocked" checkbox and positions as a choice of node ids.
func Fields(m *world.Model, id string) ([]Field, error) {
	view, err := world.View(m, id)
	if err != nil {
		return nil, err
	}

	fields := make([]Field, 0, len(view.Attrs))
	for name, value := range view.Attrs {
		if hiddenFields[name] {
			continue
		}
		switch {
		case name == "at":
			field := Field{Name: name, Control: ControlSelect, Options: m.NodeIDs()}
			if pair, ok := value.([]any); ok && len(pair) == 2 {
				field.Value = pair[1]
			}
			fields = append(fields, field)
		case name == "edge":
			open, _ := value.(bool)
			fields = append(fields, Field{Name: "blocked", Control: ControlCheckbox, Checked: !open})
		default:
			if b, ok := value.(bool); ok {
				fields = append(fields, Field{Name: name, Control: ControlCheckbox, Checked: b})
				continue
			}
			fields = append(fields, Field{Name: name, Control: ControlText, Value: value})
		}
	}
	slices.SortFunc(fields, func(a, b Field) int { return strings.Compare(a.Name, b.Name) })
	return fields, nil
}
