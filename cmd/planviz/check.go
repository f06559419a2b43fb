package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"planviz/internal/input"
	"planviz/internal/report"
)

func checkCmd() *cobra.Command {
	var logPath, modelPath string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report what would be skipped when rendering a log or snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			if logPath == "" && modelPath == "" {
				return fmt.Errorf("give --log, --model, or both")
			}

			var in report.Inputs
			if logPath != "" {
				if in.Log, err = input.Read(logPath, cmd.InOrStdin()); err != nil {
					return err
				}
			}
			if modelPath != "" {
				if in.Model, err = input.Read(modelPath, cmd.InOrStdin()); err != nil {
					return err
				}
			}
			return printReport(cmd.OutOrStdout(), report.Run(in, cfg.Layout.Surface, cfg.Layout.Style))
		},
	}
	cmd.Flags().StringVar(&logPath, "log", "", "Action log to check")
	cmd.Flags().StringVar(&modelPath, "model", "", "World snapshot to check")
	return cmd
}

func printReport(out io.Writer, r *report.Report) error {
	errorIssues := r.Errors()
	warnIssues := r.Warnings()

	if len(errorIssues) == 0 && len(warnIssues) == 0 {
		fmt.Fprintln(out, "No issues found.")
		return nil
	}

	if len(errorIssues) > 0 {
		fmt.Fprintf(out, "Errors (%d):\n", len(errorIssues))
		printIssues(out, errorIssues)
	}
	if len(warnIssues) > 0 {
		if len(errorIssues) > 0 {
			fmt.Fprintln(out, "")
		}
		fmt.Fprintf(out, "Warnings (%d):\n", len(warnIssues))
		printIssues(out, warnIssues)
	}

	if len(errorIssues) > 0 {
		return fmt.Errorf("check found errors")
	}
	return nil
}

func printIssues(out io.Writer, issues []report.Issue) {
	for _, issue := range issues {
		fmt.Fprintf(out, "  - %s\n", issue)
	}
}
