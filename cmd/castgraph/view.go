package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/castgraph/pkg/debug"
	"github.com/vanderheijden86/castgraph/pkg/graph"
	"github.com/vanderheijden86/castgraph/pkg/loader"
	"github.com/vanderheijden86/castgraph/pkg/ui"
	"github.com/vanderheijden86/castgraph/pkg/watcher"
)

type viewOptions struct {
	help  bool
	watch bool
}

func viewCmd(g *globalOptions) *cobra.Command {
	var opts viewOptions
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show the graph in the terminal (default)",
		Long: `Show the graph in the terminal and animate the layout until it settles.

Hover a character or an arrow with the mouse to see its tooltip. Press ? for
the key bindings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, g, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.help, "help-page", false, "Open with the help page")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Reload when a local input document changes")
	return cmd
}

func runView(cmd *cobra.Command, g *globalOptions, opts viewOptions) error {
	s, err := g.load(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	uopts := ui.Options{
		Render:         s.renderOptions(""),
		FrameInterval:  s.cfg.FrameInterval(),
		ShowHelp:       opts.help || s.cfg.UI.ShowHelp,
		SnapshotDir:    s.cfg.Export.Dir,
		SnapshotFormat: s.cfg.Export.Format,
	}
	if opts.watch {
		w, err := watchInputs(cmd, s)
		if err != nil {
			return err
		}
		if w != nil {
			defer w.Stop()
			uopts.Changes = w.Changed()
			uopts.Reload = func() (*graph.Graph, error) {
				next, err := g.load(cmd.Context(), cmd)
				if err != nil {
					return nil, err
				}
				return next.graph, nil
			}
		}
	}

	if debug.Enabled() {
		path := filepath.Join(os.TempDir(), "castgraph-debug.log")
		restore, err := debug.LogToFile(path)
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer restore()
		fmt.Fprintf(cmd.ErrOrStderr(), "Debug log: %s\n", path)
	}

	if err := ui.Run(cmd.Context(), ui.New(s.graph, s.driverOptions(), uopts)); err != nil {
		return err
	}
	printTimings(cmd)
	return nil
}

// watchInputs starts a watcher on the local input documents. It returns
// nil when both documents are remote.
func watchInputs(cmd *cobra.Command, s *session) (*watcher.Watcher, error) {
	var paths []string
	for _, src := range []loader.Source{s.from.Edges, s.from.Nodes} {
		if !src.IsRemote() {
			paths = append(paths, src.String())
		}
	}
	if len(paths) == 0 {
		debug.Log("watch: both documents are remote, nothing to watch")
		return nil, nil
	}

	w, err := watcher.New(paths, watcher.WithOnError(func(err error) {
		debug.Log("watch: %v", err)
	}))
	if err != nil {
		return nil, err
	}
	if err := w.Start(cmd.Context()); err != nil {
		return nil, err
	}
	return w, nil
}
