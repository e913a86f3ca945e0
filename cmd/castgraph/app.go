package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/castgraph/internal/datasource"
	"github.com/vanderheijden86/castgraph/pkg/config"
	"github.com/vanderheijden86/castgraph/pkg/debug"
	"github.com/vanderheijden86/castgraph/pkg/driver"
	"github.com/vanderheijden86/castgraph/pkg/graph"
	"github.com/vanderheijden86/castgraph/pkg/loader"
	"github.com/vanderheijden86/castgraph/pkg/metrics"
	"github.com/vanderheijden86/castgraph/pkg/render"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	edges      string
	nodes      string
	dataDir    string
	configPath string
	seed       uint64
	timeout    time.Duration
}

func (o *globalOptions) register(root *cobra.Command) {
	f := root.PersistentFlags()
	f.StringVar(&o.edges, "edges", "", "Edge document: path or http(s) URL (default Edge-Relation.json in the data dir)")
	f.StringVar(&o.nodes, "nodes", "", "Node document: path or http(s) URL (default Nodes.json in the data dir)")
	f.StringVar(&o.dataDir, "data-dir", "", "Directory holding the two documents")
	f.StringVar(&o.configPath, "config", "", "Config file (default "+config.ConfigPath()+")")
	f.Uint64Var(&o.seed, "seed", 0, "Seed for the initial layout jitter (default from config)")
	f.DurationVar(&o.timeout, "timeout", 30*time.Second, "Timeout for fetching remote documents")
}

// loadConfig reads the config file, then applies the environment and flags.
func (o *globalOptions) loadConfig(cmd *cobra.Command) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFrom(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return cfg, err
	}

	cfg.ApplyEnv()
	if o.dataDir != "" {
		cfg.Data.Dir = o.dataDir
	}
	if o.edges != "" {
		cfg.Data.Edges = o.edges
	}
	if o.nodes != "" {
		cfg.Data.Nodes = o.nodes
	}
	if cmd.Flags().Changed("seed") {
		cfg.Layout.Seed = o.seed
	}
	return cfg, nil
}

// session is a loaded graph with the configuration that produced it.
type session struct {
	cfg   config.Config
	graph *graph.Graph
	from  datasource.Resolved
}

// load resolves the documents, fetches both and builds the graph. Nothing
// is built unless both fetches succeed.
func (o *globalOptions) load(ctx context.Context, cmd *cobra.Command) (*session, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	res, err := datasource.Resolve(datasource.ResolveOptions{
		DiscoveryOptions: datasource.DiscoveryOptions{
			FlagDir:   o.dataDir,
			ConfigDir: cfg.Data.Dir,
			Verbose:   debug.Enabled(),
			Logger:    func(msg string) { debug.Log("datasource: %s", msg) },
		},
		Edges: cfg.Data.Edges,
		Nodes: cfg.Data.Nodes,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	ds, err := loader.Load(ctx, res.Edges, res.Nodes, loader.Options{})
	if err != nil {
		return nil, err
	}
	if ds.Empty() {
		debug.Log("no edges in %s; the graph is empty", res.Edges)
	}

	return &session{cfg: cfg, graph: graph.Build(ds, cfg.GraphOptions()), from: res}, nil
}

func (s *session) driverOptions() driver.Options {
	return driver.Options{
		Layout:      s.cfg.Layout,
		TooltipFade: s.cfg.FadeDuration(),
	}
}

func (s *session) renderOptions(title string) render.Options {
	return render.Options{Canvas: s.cfg.Canvas, Title: title, Fade: s.cfg.FadeDuration()}
}

// settle runs a headless layout. ticks <= 0 runs until the simulation cools.
func (s *session) settle(ticks int) driver.Frame {
	d := driver.New(s.graph, nil, s.driverOptions())
	if ticks <= 0 {
		ticks = maxSettleTicks
	}
	f := d.Settle(ticks)
	debug.Log("layout: %d ticks, alpha %.4f", f.Tick, f.Alpha)
	return f
}

// maxSettleTicks bounds a run-until-cooled layout; the default cooling
// schedule needs about 300.
const maxSettleTicks = 10000

func printTimings(cmd *cobra.Command) {
	if !debug.Enabled() {
		return
	}
	if err := metrics.WriteReport(cmd.ErrOrStderr()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "metrics: %v\n", err)
	}
}
