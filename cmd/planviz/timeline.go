package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"planviz/internal/input"
	"planviz/internal/report"
	"planviz/internal/timeline"
)

func timelineCmd() *cobra.Command {
	var format string
	var width int
	cmd := &cobra.Command{
		Use:   "timeline [log]",
		Short: "Render an action log as a timeline",
		Long:  "Render an action log, JSON or legacy tuples, as sorted timeline rows. Reads stdin when no file or \"-\" is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTimeline(cmd, argOrStdin(args), format, width)
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	cmd.Flags().IntVar(&width, "width", 0, "Bar width in columns for text output")
	return cmd
}

func runTimeline(cmd *cobra.Command, path, format string, width int) error {
	if _, err := setup(); err != nil {
		return err
	}
	raw, err := input.Read(path, cmd.InOrStdin())
	if err != nil {
		return err
	}
	tl, err := timeline.Build(raw)
	if err != nil {
		return err
	}
	for _, issue := range report.FromErrors(report.SourceLog, tl.Failures) {
		slog.Warn("skipped action", "issue", issue.String())
	}

	switch format {
	case "json":
		return writeJSON(cmd, tl)
	case "text":
		return timeline.WriteText(cmd.OutOrStdout(), tl, width)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func argOrStdin(args []string) string {
	if len(args) == 0 {
		return input.Stdin
	}
	return args[0]
}

func writeJSON(cmd *cobra.Command, v any) error {
	return writeJSONTo(cmd.OutOrStdout(), v)
}

func writeJSONTo(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
