//go:build ignore

// generate_testdata.go writes generated datasets for benchmarking the
// layout and for trying the viewer on larger casts.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//
//	testdata/bench/small/   (50 characters, 120 interactions)
//	testdata/bench/medium/  (300 characters, 900 interactions)
//	testdata/bench/large/   (1500 characters, 5000 interactions)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/castgraph/pkg/testutil"
)

type datasetSpec struct {
	name  string
	size  int
	edges int
}

var datasets = []datasetSpec{
	{"small", 50, 120},
	{"medium", 300, 900},
	{"large", 1500, 5000},
}

var movies = []string{
	"Alien", "Aliens", "Heat", "Fargo", "Arrival", "Memento",
	"Zodiac", "Sicario", "Drive", "Prisoners", "Her", "Up",
}

var interactions = []string{
	"friend", "rival", "family", "mentor", "colleague", "enemy", "romance",
}

func main() {
	outputDir := filepath.Join("testdata", "bench")

	for _, ds := range datasets {
		gen := testutil.New(testutil.GeneratorConfig{
			Seed:         uint64(ds.size),
			IDPrefix:     "ch",
			Movies:       movies,
			Interactions: interactions,
		})
		dir := filepath.Join(outputDir, ds.name)
		edges, nodes, err := testutil.WriteDataset(dir, gen.Random(ds.size, ds.edges))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", dir, err)
			os.Exit(1)
		}
		fmt.Printf("  Written %s and %s\n", edges, nodes)
	}

	fmt.Println("\nDone! Datasets created in", outputDir)
}
