package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"planviz/internal/input"
	"planviz/internal/layout"
	"planviz/internal/report"
	"planviz/internal/world"
)

func sceneCmd() *cobra.Command {
	var source modelSource
	var format, out string
	var width, height float64
	cmd := &cobra.Command{
		Use:   "scene [snapshot]",
		Short: "Lay out a world snapshot as SVG or JSON",
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

			surface := cfg.Layout.Surface
			if width > 0 {
				surface.Width = width
			}
			if height > 0 {
				surface.Height = height
			}
			w := world.Parse(m)
			scene := layout.Layout(w, surface, cfg.Layout.Style)
			// Decode already logged m.Invalid, which heads w.Errors.
			skipped := report.FromErrors(report.SourceModel, w.Errors[len(m.Invalid):])
			skipped = append(skipped, report.FromErrors(report.SourceModel, scene.Errors)...)
			for _, issue := range skipped {
				slog.Warn("skipped object", "issue", issue.String())
			}

			var buf bytes.Buffer
			switch format {
			case "svg":
				err = layout.WriteSVG(&buf, scene)
			case "json":
				err = writeJSONTo(&buf, scene)
			default:
				err = fmt.Errorf("unknown format %q", format)
			}
			if err != nil {
				return err
			}
			return input.Write(out, buf.Bytes(), cmd.OutOrStdout())
		},
	}
	source.register(cmd)
	cmd.Flags().StringVar(&format, "format", "svg", "Output format: svg or json")
	cmd.Flags().StringVarP(&out, "out", "o", input.Stdin, "Output file")
	cmd.Flags().Float64Var(&width, "width", 0, "Surface width, overrides layout.surface.width")
	cmd.Flags().Float64Var(&height, "height", 0, "Surface height, overrides layout.surface.height")
	return cmd
}
