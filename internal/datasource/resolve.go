package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vanderheijden86/castgraph/pkg/debug"
	"github.com/vanderheijden86/castgraph/pkg/loader"
)

// Resolved names the two documents to load.
type Resolved struct {
	Edges loader.Source
	Nodes loader.Source
	// From is the directory the relative names were resolved against; its
	// Kind is empty when both documents were given explicitly.
	From Candidate
}

// ResolveOptions extends discovery with explicit document locations.
type ResolveOptions struct {
	DiscoveryOptions
	// Edges and Nodes are --edges and --nodes, or the config's data.edges and
	// data.nodes. URLs and absolute paths are used as given, and a relative
	// path naming a file under WorkDir is taken from there.
	Edges string
	Nodes string
}

// Resolve turns flags, environment and config into two loader sources.
// A document given as a URL or an absolute path needs no data directory;
// otherwise its name is joined to the best discovered directory.
func Resolve(opts ResolveOptions) (Resolved, error) {
	opts.defaults()

	edges := orDefault(inWorkDir(opts.Edges, opts.WorkDir), opts.EdgesName)
	nodes := orDefault(inWorkDir(opts.Nodes, opts.WorkDir), opts.NodesName)

	if standalone(edges) && standalone(nodes) {
		return Resolved{Edges: loader.Source(edges), Nodes: loader.Source(nodes)}, nil
	}

	disc := opts.DiscoveryOptions
	disc.EdgesName, disc.NodesName = edges, nodes
	if standalone(edges) {
		disc.EdgesName = nodes
	}
	if standalone(nodes) {
		disc.NodesName = edges
	}
	disc.IncludeInvalid = true

	candidates := Discover(disc)
	best, err := SelectBest(candidates)
	if err != nil {
		var tried []string
		for _, c := range candidates {
			tried = append(tried, c.String())
		}
		if len(tried) == 0 {
			return Resolved{}, fmt.Errorf("%w: pass --data-dir or set %s", err, EnvDataDir)
		}
		return Resolved{}, fmt.Errorf("%w; tried:\n  %s", err, strings.Join(tried, "\n  "))
	}

	r := Resolved{
		Edges: loader.Source(join(best.Dir, edges)),
		Nodes: loader.Source(join(best.Dir, nodes)),
		From:  best,
	}
	debug.Log("datasource: using %s (%s)", best.Dir, best.Kind)
	return r, nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// inWorkDir returns loc joined to workDir when that names a regular file,
// and loc unchanged otherwise.
func inWorkDir(loc, workDir string) string {
	if strings.TrimSpace(loc) == "" || workDir == "" || standalone(loc) {
		return loc
	}
	p := filepath.Join(workDir, loc)
	if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
		return p
	}
	return loc
}

func standalone(loc string) bool {
	return loader.Source(loc).IsRemote() || filepath.IsAbs(loc)
}

func join(dir, loc string) string {
	if standalone(loc) {
		return loc
	}
	return filepath.Join(dir, loc)
}
