// Package testutil provides dataset generators for graph topologies and
// assertions shared by castgraph tests. All generators are deterministic.
package testutil

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/castgraph/pkg/model"
)

// Default document names, matching what the loader looks for in a data
// directory.
const (
	EdgesFile = "Edge-Relation.json"
	NodesFile = "Nodes.json"
)

// GeneratorConfig controls dataset generation.
type GeneratorConfig struct {
	Seed         uint64   // Random seed (0 means 42)
	IDPrefix     string   // Prefix for character ids (default "c")
	Movies       []string // Movies assigned round-robin to characters
	Interactions []string // Interaction kinds assigned round-robin to links
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:         42,
		IDPrefix:     "c",
		Movies:       []string{"Alien", "Heat", "Fargo"},
		Interactions: []string{"friend", "rival", "family"},
	}
}

// Generator creates datasets with various topologies.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	def := DefaultConfig()
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = def.IDPrefix
	}
	if len(cfg.Movies) == 0 {
		cfg.Movies = def.Movies
	}
	if len(cfg.Interactions) == 0 {
		cfg.Interactions = def.Interactions
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// ID returns the id of the i-th generated character.
func (g *Generator) ID(i int) string {
	return fmt.Sprintf("%s%d", g.cfg.IDPrefix, i)
}

func (g *Generator) nodes(n int) []model.NodeRecord {
	recs := make([]model.NodeRecord, n)
	for i := range recs {
		recs[i] = model.NodeRecord{
			ID:          g.ID(i),
			Name:        fmt.Sprintf("Character %d", i),
			Movie:       g.cfg.Movies[i%len(g.cfg.Movies)],
			Description: fmt.Sprintf("Generated character %d", i),
		}
	}
	return recs
}

func (g *Generator) edge(k, from, to int) model.EdgeRecord {
	return model.EdgeRecord{
		Source:      g.ID(from),
		Target:      g.ID(to),
		Interaction: g.cfg.Interactions[k%len(g.cfg.Interactions)],
	}
}

// Chain links c0 -> c1 -> ... -> c{size-1}.
func (g *Generator) Chain(size int) model.Dataset {
	ds := model.Dataset{Nodes: g.nodes(size)}
	for i := 1; i < size; i++ {
		ds.Edges = append(ds.Edges, g.edge(i-1, i-1, i))
	}
	return ds
}

// Star links every spoke to the hub c0.
func (g *Generator) Star(spokes int) model.Dataset {
	ds := model.Dataset{Nodes: g.nodes(spokes + 1)}
	for i := 1; i <= spokes; i++ {
		ds.Edges = append(ds.Edges, g.edge(i-1, i, 0))
	}
	return ds
}

// Cycle links c0 -> c1 -> ... -> c{size-1} -> c0.
func (g *Generator) Cycle(size int) model.Dataset {
	ds := model.Dataset{Nodes: g.nodes(size)}
	for i := 0; i < size; i++ {
		ds.Edges = append(ds.Edges, g.edge(i, i, (i+1)%size))
	}
	return ds
}

// SelfLoop is a single character interacting with itself.
func (g *Generator) SelfLoop() model.Dataset {
	return model.Dataset{
		Nodes: g.nodes(1),
		Edges: []model.EdgeRecord{g.edge(0, 0, 0)},
	}
}

// Parallel is n links between the same two characters, one per
// interaction kind in rotation.
func (g *Generator) Parallel(n int) model.Dataset {
	ds := model.Dataset{Nodes: g.nodes(2)}
	for i := 0; i < n; i++ {
		ds.Edges = append(ds.Edges, g.edge(i, 0, 1))
	}
	return ds
}

// Disconnected creates isolated chains of componentSize
// characters each.
func (g *Generator) Disconnected(components, componentSize int) model.Dataset {
	ds := model.Dataset{Nodes: g.nodes(components * componentSize)}
	k := 0
	for c := 0; c < components; c++ {
		base := c * componentSize
		for i := 1; i < componentSize; i++ {
			ds.Edges = append(ds.Edges, g.edge(k, base+i-1, base+i))
			k++
		}
	}
	return ds
}

// Random creates size characters and links random pairs until the edge
// count reaches edges. Self-links and parallel links may occur.
func (g *Generator) Random(size, edges int) model.Dataset {
	ds := model.Dataset{Nodes: g.nodes(size)}
	if size == 0 {
		return ds
	}
	for k := 0; k < edges; k++ {
		ds.Edges = append(ds.Edges, g.edge(g.rng.IntN(len(g.cfg.Interactions)), g.rng.IntN(size), g.rng.IntN(size)))
	}
	return ds
}

// WithoutRecords drops the node records for the given ids, leaving edges
// that reference characters with no record.
func WithoutRecords(ds model.Dataset, ids ...string) model.Dataset {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	out := model.Dataset{Edges: append([]model.EdgeRecord(nil), ds.Edges...)}
	for _, n := range ds.Nodes {
		if !drop[n.ID] {
			out.Nodes = append(out.Nodes, n)
		}
	}
	return out
}

// WriteDataset writes the two documents into dir and returns their paths.
func WriteDataset(dir string, ds model.Dataset) (edgesPath, nodesPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", err
	}
	edges, nodes := ds.Edges, ds.Nodes
	if edges == nil {
		edges = []model.EdgeRecord{}
	}
	if nodes == nil {
		nodes = []model.NodeRecord{}
	}

	edgesPath = filepath.Join(dir, EdgesFile)
	nodesPath = filepath.Join(dir, NodesFile)
	for path, v := range map[string]any{edgesPath: edges, nodesPath: nodes} {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", "", err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return "", "", err
		}
	}
	return edgesPath, nodesPath, nil
}
