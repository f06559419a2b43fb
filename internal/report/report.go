// Package report turns parse, layout, and edit failures into a flat list of issues.
package report

import (
	"errors"
	"fmt"

	"planviz/internal/action"
	"planviz/internal/edit"
	"planviz/internal/layout"
	"planviz/internal/timeline"
	"planviz/internal/world"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	CodeParseFormat        = "parse_format"
	CodeMissingAgent       = "missing_agent"
	CodeMissingField       = "missing_field"
	CodeBadTime            = "bad_time"
	CodeMalformedID        = "malformed_id"
	CodeInvalidObject      = "invalid_object"
	CodeUnknownNode        = "unknown_node"
	CodeUnknownFieldWriter = "unknown_field_writer"
	CodeInvalidValue       = "invalid_value"
	CodeNotFound           = "not_found"
	CodeUnknown            = "error"
)

const (
	SourceLog   = "log"
	SourceModel = "model"
)

type Issue struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Source   string   `json:"source"`
	Entity   string   `json:"entity,omitempty"`
	Index    *int     `json:"index,omitempty"`
}

type Report struct {
	Issues []Issue `json:"issues"`
}

func (r *Report) Errors() []Issue { return r.filter(SeverityError) }

func (r *Report) Warnings() []Issue { return r.filter(SeverityWarn) }

func (r *Report) filter(severity Severity) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			out = append(out, issue)
		}
	}
	return out
}

var codes = []struct {
	err  error
	code string
}{
	{action.ErrParseFormat, CodeParseFormat},
	{world.ErrParseFormat, CodeParseFormat},
	{action.ErrMissingAgent, CodeMissingAgent},
	{action.ErrMissingField, CodeMissingField},
	{action.ErrBadTime, CodeBadTime},
	{world.ErrMalformedID, CodeMalformedID},
	{world.ErrInvalidObject, CodeInvalidObject},
	{world.ErrNotFound, CodeNotFound},
	{layout.ErrUnknownNode, CodeUnknownNode},
	{edit.ErrUnknownFieldWriter, CodeUnknownFieldWriter},
	{edit.ErrInvalidValue, CodeInvalidValue},
}

// Code returns the category of err.
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeUnknown
}

// FromError describes one failure. Record and object errors carry their location.
func FromError(source string, severity Severity, err error) Issue {
	issue := Issue{Severity: severity, Code: Code(err), Message: err.Error(), Source: source}

	var recordErr *action.RecordError
	var objectErr *world.ObjectError
	switch {
	case errors.As(err, &recordErr):
		index := recordErr.Index
		issue.Index = &index
		issue.Entity = recordErr.Source
		issue.Message = recordErr.Err.Error()
	case errors.As(err, &objectErr):
		issue.Entity = objectErr.ID
		issue.Message = objectErr.Err.Error()
	}
	return issue
}

// FromErrors reports skipped records; the rest of the input still rendered, so they are warnings.
func FromErrors(source string, errs []error) []Issue {
	issues := make([]Issue, 0, len(errs))
	for _, err := range errs {
		issues = append(issues, FromError(source, SeverityWarn, err))
	}
	return issues
}

// Inputs are the raw blobs to check. A nil blob is not checked.
type Inputs struct {
	Log   []byte
	Model []byte
}

// Run parses every input the way a render would and collects what failed. Inputs that cannot
// be read at all are errors; skipped records are warnings.
func Run(in Inputs, surface layout.Surface, style layout.Style) *Report {
	report := &Report{Issues: make([]Issue, 0)}

	if in.Log != nil {
		tl, err := timeline.Build(in.Log)
		if err != nil {
			report.Issues = append(report.Issues, FromError(SourceLog, SeverityError, err))
		} else {
			report.Issues = append(report.Issues, FromErrors(SourceLog, tl.Failures)...)
		}
	}

	if in.Model != nil {
		m, err := world.Decode(in.Model)
		if err != nil {
			report.Issues = append(report.Issues, FromError(SourceModel, SeverityError, err))
			return report
		}
		w := world.Parse(m)
		report.Issues = append(report.Issues, FromErrors(SourceModel, w.Errors)...)
		scene := layout.Layout(w, surface, style)
		report.Issues = append(report.Issues, FromErrors(SourceModel, scene.Errors)...)
	}
	return report
}

func (i Issue) String() string {
	location := i.Source
	if i.Entity != "" {
		location = fmt.Sprintf("%s %s", location, i.Entity)
	}
	if i.Index != nil {
		location = fmt.Sprintf("%s #%d", location, *i.Index)
	}
	return fmt.Sprintf("%s: %s (%s)", location, i.Message, i.Code)
}
