package main

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"planviz/internal/edit"
	"planviz/internal/world"
)

func objectsCmd() *cobra.Command {
	var source modelSource
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "objects [snapshot]",
		Short: "List the selectable objects of a snapshot",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, err := setup()
			if err != nil {
				return err
			}
			m, err := source.load(ctx, cmd, cfg, args)
			if err != nil {
				return err
			}
			objects := world.Objects(m)
			if asJSON {
				return writeJSON(cmd, objects)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTYPE\tATTRIBUTES")
			for _, o := range objects {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", o.ID, o.Type, formatAttrs(o.Attrs))
			}
			return tw.Flush()
		},
	}
	source.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func fieldsCmd() *cobra.Command {
	var source modelSource
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "fields <id> [snapshot]",
		Short: "Show the editable fields of one object",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, err := setup()
			if err != nil {
				return err
			}
			m, err := source.load(ctx, cmd, cfg, args[1:])
			if err != nil {
				return err
			}
			fields, err := edit.Fields(m, args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, fields)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, f := range fields {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Name, f.Control, formatField(f))
			}
			return tw.Flush()
		},
	}
	source.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func formatAttrs(attrs map[string]any) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, attrs[k]))
	}
	return strings.Join(parts, " ")
}

func formatField(f edit.Field) string {
	switch f.Control {
	case edit.ControlCheckbox:
		return fmt.Sprintf("%t", f.Checked)
	case edit.ControlSelect:
		return fmt.Sprintf("%v of [%s]", f.Value, strings.Join(f.Options, " "))
	default:
		return fmt.Sprintf("%v", f.Value)
	}
}
