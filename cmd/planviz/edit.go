package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"planviz/internal/edit"
	"planviz/internal/input"
	"planviz/internal/store"
	"planviz/internal/world"
)

func editCmd() *cobra.Command {
	var source modelSource
	var id, out, saveAs string
	var sets []string
	cmd := &cobra.Command{
		Use:   "edit [snapshot] --id <object> --set field=value...",
		Short: "Edit one object of a snapshot",
		Long: "Edit one object of a snapshot and write the result. Edges are edited in both directions.\n" +
			"Values are read as JSON where possible, so --set alive=false writes a bool.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, err := setup()
			if err != nil {
				return err
			}
			if id == "" {
				return fmt.Errorf("--id is required")
			}
			if len(sets) == 0 {
				return fmt.Errorf("at least one --set is required")
			}
			edits := make([]edit.Edit, 0, len(sets))
			for _, s := range sets {
				e, err := edit.Parse(s)
				if err != nil {
					return err
				}
				edits = append(edits, e)
			}

			m, err := source.load(ctx, cmd, cfg, args)
			if err != nil {
				return err
			}
			if err := edit.Apply(m, id, edits); err != nil {
				return err
			}
			data, err := world.Encode(m)
			if err != nil {
				return err
			}
			slog.Debug("edited object", "id", id, "edits", len(edits))

			if saveAs != "" {
				db, err := openStore(ctx, cfg)
				if err != nil {
					return err
				}
				defer db.Close(ctx)
				if _, err := db.PutModel(ctx, store.ModelInput{
					Name:  saveAs,
					Body:  data,
					Stats: store.StatsOf(world.Parse(m)),
				}); err != nil {
					return err
				}
				slog.Info("saved model", "name", saveAs)
				if !cmd.Flags().Changed("out") {
					return nil
				}
			}
			return input.Write(out, data, cmd.OutOrStdout())
		},
	}
	source.register(cmd)
	cmd.Flags().StringVar(&id, "id", "", "Object id, e.g. civ1 or \"b0-0 h1-0\"")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field=value to write; repeatable. Fields: "+strings.Join(edit.Writable(), ", "))
	cmd.Flags().StringVarP(&out, "out", "o", input.Stdin, "Output file, compressed by .zst or .gz suffix")
	cmd.Flags().StringVar(&saveAs, "save", "", "Store the edited snapshot under this name")
	return cmd
}
