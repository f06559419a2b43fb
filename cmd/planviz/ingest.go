package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"planviz/internal/ingest"
)

func ingestCmd() *cobra.Command {
	var full bool
	var exclude []string
	cmd := &cobra.Command{
		Use:   "ingest <dir>...",
		Short: "Synchronise the model store with directories of snapshots",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, err := setup()
			if err != nil {
				return err
			}
			db, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close(ctx)

			result, err := ingest.Run(ctx, args, db, ingest.Options{
				Full:    full,
				Exclude: exclude,
				Logger:  slog.Default(),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Ingestion complete.")
			fmt.Fprintf(out, "  Models imported: %d\n", result.ModelsImported)
			fmt.Fprintf(out, "  Models removed:  %d\n", result.ModelsRemoved)
			fmt.Fprintf(out, "  Files skipped:   %d\n", result.FilesSkipped)
			fmt.Fprintf(out, "  Objects skipped: %d\n", result.RecordsSkipped)

			if len(result.Errors) > 0 {
				fmt.Fprintf(out, "\nErrors (%d):\n", len(result.Errors))
				for _, item := range result.Errors {
					fmt.Fprintf(out, "  - %v\n", item)
				}
				return fmt.Errorf("ingestion completed with errors")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "Force full re-import (ignore incremental hashes)")
	cmd.Flags().StringArrayVar(&exclude, "exclude", nil, "Path prefix to skip; repeatable")
	return cmd
}
