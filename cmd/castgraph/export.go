package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/castgraph/pkg/config"
	"github.com/vanderheijden86/castgraph/pkg/export"
)

func exportCmd(g *globalOptions) *cobra.Command {
	var opts renderOptions
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a snapshot, asking for the format and path when run in a terminal",
		Long: `Export a snapshot of the settled layout.

With --output the snapshot is written directly, like render. Without it,
and when stdin is a terminal, a form asks for the format, the file and the
page title. Otherwise the export defaults from the config file are used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.load(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			if opts.ticks == 0 {
				opts.ticks = s.cfg.Export.Ticks
			}

			if opts.output == "" {
				if export.IsTerminal() {
					if err := askExport(&opts, s.cfg); err != nil {
						if export.Aborted(err) {
							fmt.Fprintln(cmd.ErrOrStderr(), "Export cancelled")
							return nil
						}
						return err
					}
				} else {
					if opts.format == "" {
						opts.format = s.cfg.Export.Format
					}
					opts.output = filepath.Join(s.cfg.Export.Dir, export.DefaultOutputPath(opts.format))
				}
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

func askExport(opts *renderOptions, cfg config.Config) error {
	defaults := export.WizardConfig{Format: opts.format, Title: opts.title}
	if defaults.Format == "" {
		defaults.Format = cfg.Export.Format
	}
	if cfg.Export.Dir != "" {
		defaults.OutputPath = filepath.Join(cfg.Export.Dir, export.DefaultOutputPath(defaults.Format))
	}

	saved := ""
	if dir := config.ConfigDir(); dir != "" {
		saved = filepath.Join(dir, "export.json")
	}
	answers, err := export.NewWizard(defaults, saved).Run()
	if err != nil {
		return err
	}
	opts.format = answers.Format
	opts.output = answers.OutputPath
	opts.title = answers.Title
	return nil
}
