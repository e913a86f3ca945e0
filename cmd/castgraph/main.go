// Package main provides the castgraph CLI entry point.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/castgraph/pkg/version"
)

func main() {
	// .env must be loaded before anything reads the environment.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		// SilenceErrors is set, so cobra has not printed it.
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "castgraph",
		Short: "Interactive graph of movie character relationships",
		Long: `castgraph draws characters and their interactions as a force-directed graph.

It reads two JSON documents, Edge-Relation.json and Nodes.json, from a data
directory or from URLs, lays the graph out with a force simulation and shows
it in the terminal, or renders it to SVG, PNG or an interactive HTML page.

Data directory lookup: --data-dir, then $CASTGRAPH_DATA_DIR, then data.dir
from the config file, then ./data, then ../data.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, opts, viewOptions{})
		},
	}

	opts.register(root)

	root.AddCommand(
		viewCmd(opts),
		renderCmd(opts),
		exportCmd(opts),
		statsCmd(opts),
		layoutCmd(opts),
		configCmd(opts),
	)
	return root
}
