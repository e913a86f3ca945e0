package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/castgraph/pkg/hooks"
	"github.com/vanderheijden86/castgraph/pkg/render"
)

type renderOptions struct {
	output string
	format string
	ticks  int
	title  string
}

func (o *renderOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", `Output file; "-" writes to stdout`)
	cmd.Flags().StringVar(&o.format, "format", "", "svg, png or html (default from the output extension)")
	cmd.Flags().IntVar(&o.ticks, "ticks", 0, "Simulation ticks before drawing (0 runs until the layout settles)")
	cmd.Flags().StringVar(&o.title, "title", "", "Document title")
}

func renderCmd(g *globalOptions) *cobra.Command {
	var opts renderOptions
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Lay the graph out and write it as SVG, PNG or HTML",
		Example: `  castgraph render -o graph.svg
  castgraph render -o graph.png --ticks 150
  castgraph render -o - --format html > graph.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output == "" {
				return fmt.Errorf("--output is required")
			}
			s, err := g.load(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			if opts.ticks == 0 {
				opts.ticks = s.cfg.Export.Ticks
			}
			if err := writeSnapshot(cmd, s, opts); err != nil {
				return err
			}
			printTimings(cmd)
			return nil
		},
	}
	opts.register(cmd)
	return cmd
}

// writeSnapshot settles the layout and writes one frame.
func writeSnapshot(cmd *cobra.Command, s *session, opts renderOptions) error {
	f := s.settle(opts.ticks)

	if opts.output == "-" {
		format := opts.format
		if format == "" {
			format = "svg"
		}
		format, _, err := render.ResolveFormat("", format)
		if err != nil {
			return err
		}
		return render.Write(cmd.OutOrStdout(), format, f, s.renderOptions(opts.title))
	}

	format, path, err := render.ResolveFormat(opts.output, opts.format)
	if err != nil {
		return err
	}

	hs, warnings := s.cfg.Hooks.Normalize()
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
	}
	runner := hooks.NewExecutor(hs, hooks.ExportContext{
		Path:         path,
		Format:       format,
		Characters:   len(f.Nodes),
		Interactions: len(f.Links),
		Timestamp:    f.At,
	})
	if err := runner.Run(cmd.Context(), hooks.PreExport); err != nil {
		return fmt.Errorf("export cancelled: %w", err)
	}

	if err := render.SaveSnapshot(render.SnapshotOptions{
		Path:    path,
		Format:  format,
		Frame:   f,
		Options: s.renderOptions(opts.title),
	}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d characters, %d interactions, %d ticks)\n",
		path, len(f.Nodes), len(f.Links), f.Tick)

	_ = runner.Run(cmd.Context(), hooks.PostExport)
	for _, r := range runner.Results() {
		if r.Failed() {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s hook %q: %v\n", r.Phase, r.Hook.Name, r.Err)
		}
	}
	if sum := runner.Summary(); sum != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), sum)
	}
	return nil
}
