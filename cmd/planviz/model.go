package main

import (
	"context"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"planviz/internal/config"
	"planviz/internal/input"
	"planviz/internal/store"
	"planviz/internal/world"
)

// modelSource selects a snapshot from a file argument or, with --name, from the store.
type modelSource struct {
	name string
}

func (s *modelSource) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.name, "name", "", "Load the snapshot from the store instead of a file")
}

func (s *modelSource) load(ctx context.Context, cmd *cobra.Command, cfg *config.Config, args []string) (*world.Model, error) {
	var raw []byte
	if s.name != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("give either a snapshot file or --name, not both")
		}
		db, err := openStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		defer db.Close(ctx)
		stored, err := db.GetModel(ctx, s.name)
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", s.name, err)
		}
		raw = stored.Body
	} else {
		var err error
		raw, err = input.Read(argOrStdin(args), cmd.InOrStdin())
		if err != nil {
			return nil, err
		}
	}

	m, err := world.Decode(raw)
	if err != nil {
		return nil, err
	}
	for _, invalid := range m.Invalid {
		slog.Warn("skipped object", "error", invalid)
	}
	return m, nil
}

func modelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Manage snapshots in the model store",
	}
	cmd.AddCommand(modelSaveCmd())
	cmd.AddCommand(modelGetCmd())
	cmd.AddCommand(modelListCmd())
	cmd.AddCommand(modelDeleteCmd())
	return cmd
}

func modelSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <name> [snapshot]",
		Short: "Store a snapshot under a name",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, err := setup()
			if err != nil {
				return err
			}
			raw, err := input.Read(argOrStdin(args[1:]), cmd.InOrStdin())
			if err != nil {
				return err
			}
			m, err := world.Decode(raw)
			if err != nil {
				return err
			}

			db, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close(ctx)

			saved, err := db.PutModel(ctx, store.ModelInput{
				Name:  args[0],
				Body:  raw,
				Stats: store.StatsOf(world.Parse(m)),
			})
			if err != nil {
				return err
			}
			cmd.Printf("Saved %s (%s): %d nodes, %d edges, %d agents\n",
				saved.Name, saved.ID, saved.Stats.Nodes, saved.Stats.Edges, saved.Stats.Agents)
			return nil
		},
	}
}

func modelGetCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Print a stored snapshot",
		Args:  cobra.ExactArgs(1),
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

			m, err := db.GetModel(ctx, args[0])
			if err != nil {
				return fmt.Errorf("model %q: %w", args[0], err)
			}
			return input.Write(out, m.Body, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", input.Stdin, "Output file, compressed by .zst or .gz suffix")
	return cmd
}

func modelListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots",
		Args:  cobra.NoArgs,
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

			models, err := db.ListModels(ctx)
			if err != nil {
				return err
			}
			if len(models) == 0 {
				cmd.Println("No models stored.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tNODES\tEDGES\tAGENTS\tSOURCE\tUPDATED")
			for _, m := range models {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%s\n",
					m.Name, m.Stats.Nodes, m.Stats.Edges, m.Stats.Agents, m.SourceFile, m.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}
}

func modelDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a stored snapshot",
		Args:  cobra.ExactArgs(1),
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

			if err := db.DeleteModel(ctx, args[0]); err != nil {
				return fmt.Errorf("model %q: %w", args[0], err)
			}
			cmd.Printf("Deleted %s\n", args[0])
			return nil
		},
	}
}
