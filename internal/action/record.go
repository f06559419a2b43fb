package action

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// fields is the attribute map of one action. A key mapped to "" was present without a value.
type fields map[string]string

func (f fields) value(key string) (string, bool) {
	v, ok := f[key]
	return v, ok && v != ""
}

// build turns one named action into its records. The returned color belongs to the label.
func build(name string, f fields) ([]Record, string, error) {
	agents, err := agentsOf(f)
	if err != nil {
		return nil, "", err
	}
	label, key, err := deriveLabel(name, f)
	if err != nil {
		return nil, "", err
	}
	start, err := millis(f, "start_time")
	if err != nil {
		return nil, "", err
	}
	duration, err := millis(f, "duration")
	if err != nil {
		return nil, "", err
	}
	if duration < 0 {
		return nil, "", fmt.Errorf("%w: negative duration %q", ErrBadTime, f["duration"])
	}

	records := make([]Record, 0, len(agents))
	for _, agent := range agents {
		records = append(records, Record{
			Agent:   agent,
			Label:   label,
			StartMS: start,
			EndMS:   start + duration,
		})
	}
	return records, Color(key), nil
}

func agentsOf(f fields) ([]string, error) {
	if agent, ok := f["agent"]; ok {
		return []string{agent}, nil
	}
	for _, pair := range [][2]string{{"agent0", "agent1"}, {"agent1", "agent2"}} {
		first, ok0 := f[pair[0]]
		second, ok1 := f[pair[1]]
		if ok0 && ok1 {
			return []string{first, second}, nil
		}
	}
	return nil, ErrMissingAgent
}

// deriveLabel derives the visible label and the color lookup key of an action.
func deriveLabel(name string, f fields) (label string, key string, err error) {
	require := func(field string) (string, error) {
		v, ok := f.value(field)
		if !ok {
			return "", fmt.Errorf("%w: %s needs %q", ErrMissingField, name, field)
		}
		return v, nil
	}

	label = name
	switch Type(name) {
	case TypeMove, TypeDrive, TypeSail, TypeUnblock:
		node, err := require("end_node")
		if err != nil {
			return "", "", err
		}
		label = name + " " + node
	case TypeClean, TypeExtraClean, TypeExtraCleanAssist:
		room, err := require("room")
		if err != nil {
			return "", "", err
		}
		label = name + " " + room
	case TypeExtraCleanPart:
		room, err := require("room")
		if err != nil {
			return "", "", err
		}
		label = string(TypeExtraClean) + " " + room
	case TypeRescue:
		target, err := require("target")
		if err != nil {
			return "", "", err
		}
		label = name + " " + target
	case TypeLoad, TypeUnload:
		if pkg, ok := f.value("package"); ok {
			label = name + " " + pkg
		}
	case TypeDeliverOntime, TypeDeliverAnytime:
		pkg, err := require("package")
		if err != nil {
			return "", "", err
		}
		label = name + " " + pkg
	case TypeDeliverMultiple:
		location, err := require("location")
		if err != nil {
			return "", "", err
		}
		label = name + " @ " + location
	}

	key = name
	if partial(f["partial"]) {
		key = partialPrefix + key
		label = partialPrefix + label
	}
	return label, key, nil
}

func partial(v string) bool {
	if v == "" || v == "None" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return true
	}
	return b
}

func millis(f fields, key string) (int64, error) {
	raw, ok := f.value(key)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMissingField, key)
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, fmt.Errorf("%w: %s=%q", ErrBadTime, key, raw)
	}
	return int64(math.Round(seconds * 1000)), nil
}
