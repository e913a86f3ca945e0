package testutil

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/castgraph/pkg/graph"
	"github.com/vanderheijden86/castgraph/pkg/model"
)

// TempDataDir writes ds into a fresh temporary directory and returns it.
func TempDataDir(t *testing.T, ds model.Dataset) string {
	t.Helper()
	dir := t.TempDir()
	if _, _, err := WriteDataset(dir, ds); err != nil {
		t.Fatalf("writing dataset: %v", err)
	}
	return dir
}

// AssertFinitePositions fails if any node has a NaN or infinite coordinate.
func AssertFinitePositions(t *testing.T, nodes []*graph.Node) {
	t.Helper()
	for _, n := range nodes {
		for _, v := range []float64{n.X, n.Y, n.VX, n.VY} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("node %s has non-finite state (%v,%v) v=(%v,%v)", n.ID, n.X, n.Y, n.VX, n.VY)
				break
			}
		}
	}
}

// AssertDistinctPositions fails if two nodes share a position.
func AssertDistinctPositions(t *testing.T, nodes []*graph.Node) {
	t.Helper()
	seen := make(map[[2]float64]string, len(nodes))
	for _, n := range nodes {
		key := [2]float64{n.X, n.Y}
		if other, ok := seen[key]; ok {
			t.Errorf("nodes %s and %s share position (%v,%v)", other, n.ID, n.X, n.Y)
		}
		seen[key] = n.ID
	}
}

// AssertLinksResolved fails if a link endpoint is not one of the graph's
// nodes.
func AssertLinksResolved(t *testing.T, g *graph.Graph) {
	t.Helper()
	for _, l := range g.Links {
		for _, end := range []*graph.Node{l.Source, l.Target} {
			if n, ok := g.Node(end.ID); !ok || n != end {
				t.Errorf("link %d endpoint %s is not a graph node", l.Index, end.ID)
			}
		}
	}
}

// AssertJSONEqual compares two values after encoding both as JSON.
func AssertJSONEqual(t *testing.T, expected, actual any) {
	t.Helper()
	want, err := json.Marshal(expected)
	if err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}
	got, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}
	if string(want) != string(got) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", want, got)
	}
}

// GoldenFile compares output against a file under testdata. Setting
// GENERATE_GOLDEN rewrites the file instead.
type GoldenFile struct {
	t      *testing.T
	path   string
	update bool
}

// NewGoldenFile creates a golden file helper for dir/name.
func NewGoldenFile(t *testing.T, dir, name string) *GoldenFile {
	t.Helper()
	return &GoldenFile{
		t:      t,
		path:   filepath.Join(dir, name),
		update: os.Getenv("GENERATE_GOLDEN") != "",
	}
}

// Path returns the full path to the golden file.
func (g *GoldenFile) Path() string {
	return g.path
}

// Assert compares actual against the golden file, reporting the first
// differing line.
func (g *GoldenFile) Assert(actual string) {
	g.t.Helper()

	if g.update {
		if err := os.MkdirAll(filepath.Dir(g.path), 0o755); err != nil {
			g.t.Fatalf("failed to create golden dir: %v", err)
		}
		if err := os.WriteFile(g.path, []byte(actual), 0o644); err != nil {
			g.t.Fatalf("failed to write golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", g.path)
		return
	}

	expected, err := os.ReadFile(g.path)
	if err != nil {
		if os.IsNotExist(err) {
			g.t.Fatalf("golden file does not exist: %s\nRun with GENERATE_GOLDEN=1 to create it", g.path)
		}
		g.t.Fatalf("failed to read golden file: %v", err)
	}
	if string(expected) == actual {
		return
	}

	want := strings.Split(string(expected), "\n")
	got := strings.Split(actual, "\n")
	for i := 0; i < len(want) || i < len(got); i++ {
		var w, a string
		if i < len(want) {
			w = want[i]
		}
		if i < len(got) {
			a = got[i]
		}
		if w != a {
			g.t.Errorf("golden file %s differs at line %d:\nexpected: %s\nactual:   %s", g.path, i+1, w, a)
			return
		}
	}
}
