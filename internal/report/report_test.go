package report

import (
	"errors"
	"fmt"
	"testing"

	"planviz/internal/action"
	"planviz/internal/layout"
	"planviz/internal/world"
	"planviz/internal/world/worldtest"
)

func TestCode(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("wrapped: %w", world.ErrMalformedID), CodeMalformedID},
		{&action.RecordError{Index: 2, Err: action.ErrMissingAgent}, CodeMissingAgent},
		{&world.ObjectError{Kind: "edge", ID: "x", Err: world.ErrInvalidObject}, CodeInvalidObject},
		{action.ErrParseFormat, CodeParseFormat},
		{errors.New("boom"), CodeUnknown},
	}
	for _, tc := range cases {
		if got := Code(tc.err); got != tc.want {
			t.Fatalf("Code(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestFromErrorLocation(t *testing.T) {
	issue := FromError(SourceLog, SeverityWarn, &action.RecordError{Index: 3, Source: "Move", Err: action.ErrMissingAgent})
	if issue.Index == nil || *issue.Index != 3 {
		t.Fatalf("expected index 3, got %v", issue.Index)
	}
	if issue.Entity != "Move" {
		t.Fatalf("expected entity Move, got %q", issue.Entity)
	}
	if issue.Message != action.ErrMissingAgent.Error() {
		t.Fatalf("unexpected message %q", issue.Message)
	}

	issue = FromError(SourceModel, SeverityWarn, &world.ObjectError{Kind: "building", ID: "b35", Err: world.ErrMalformedID})
	if issue.Entity != "b35" || issue.Index != nil {
		t.Fatalf("unexpected location %+v", issue)
	}
}

func TestRun(t *testing.T) {
	t.Run("clean inputs", func(t *testing.T) {
		report := Run(Inputs{
			Log:   []byte(`[{"type": "Move", "agent": "m1", "end_node": "b1", "start_time": 0, "duration": 1}]`),
			Model: []byte(worldtest.Snapshot),
		}, layout.DefaultSurface(), layout.DefaultStyle())
		if len(report.Issues) != 0 {
			t.Fatalf("expected no issues, got %v", report.Issues)
		}
	})

	t.Run("skipped records are warnings", func(t *testing.T) {
		report := Run(Inputs{
			Log:   []byte("[Move(start_time=0, duration=1, end_node='b')]"),
			Model: []byte(`{"objects": {"building": {"b35": {}}, "medic": {"m1": {"at": [true, "b9-9"]}}}, "graph": {"edges": {}}}`),
		}, layout.DefaultSurface(), layout.DefaultStyle())

		if len(report.Errors()) != 0 {
			t.Fatalf("expected no errors, got %v", report.Errors())
		}
		got := make(map[string]bool)
		for _, issue := range report.Warnings() {
			got[issue.Code] = true
		}
		for _, code := range []string{CodeMissingAgent, CodeMalformedID, CodeUnknownNode} {
			if !got[code] {
				t.Fatalf("expected %s warning, got %v", code, report.Warnings())
			}
		}
	})

	t.Run("unreadable inputs are errors", func(t *testing.T) {
		report := Run(Inputs{Log: []byte("nothing"), Model: []byte("[]")}, layout.DefaultSurface(), layout.DefaultStyle())
		errs := report.Errors()
		if len(errs) != 2 {
			t.Fatalf("expected 2 errors, got %v", report.Issues)
		}
		for _, issue := range errs {
			if issue.Code != CodeParseFormat {
				t.Fatalf("expected parse_format, got %s", issue.Code)
			}
		}
	})
}
