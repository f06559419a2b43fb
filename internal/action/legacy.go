package action

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	decimalRepr  = regexp.MustCompile(`Decimal\(\s*['"]?([^'")]*)['"]?\s*\)`)
	tupleEnd     = regexp.MustCompile(`\), ?|\)`)
	tupleSplit   = regexp.MustCompile(`\(|, ?`)
	bracketStrip = strings.NewReplacer("[", "", "]", "")
)

// ParseLegacy reads the bracketed "[Name(k=v, ...), ...]" encoding.
func ParseLegacy(text string) []Result {
	text = decimalRepr.ReplaceAllString(text, "$1")
	text = bracketStrip.Replace(strings.TrimSpace(text))

	var results []Result
	for _, tuple := range tupleEnd.Split(text, -1) {
		tuple = strings.TrimSpace(tuple)
		if tuple == "" {
			continue
		}
		index := len(results)
		result := Result{Index: index, Source: tuple}
		name, f, err := parseTuple(tuple)
		if err == nil {
			result.Records, result.Color, err = build(name, f)
		}
		if err != nil {
			result.Records = nil
			result.Err = &RecordError{Index: index, Source: tuple, Err: err}
		}
		results = append(results, result)
	}
	return results
}

func parseTuple(tuple string) (string, fields, error) {
	if !strings.Contains(tuple, "(") {
		return "", nil, fmt.Errorf("%w: tuple %q has no argument list", ErrParseFormat, tuple)
	}
	components := tupleSplit.Split(tuple, -1)
	name := strings.TrimSpace(components[0])
	if name == "" {
		return "", nil, fmt.Errorf("%w: tuple %q has no action name", ErrParseFormat, tuple)
	}

	f := make(fields, len(components)-1)
	for _, component := range components[1:] {
		key, value, ok := strings.Cut(component, "=")
		if !ok {
			// continuation of a list-valued attribute split on ", "
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `'"`)
		if value == "None" {
			value = ""
		}
		f[strings.TrimSpace(key)] = value
	}
	return name, f, nil
}
