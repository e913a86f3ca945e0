package loader_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vanderheijden86/castgraph/pkg/loader"
	"github.com/vanderheijden86/castgraph/pkg/model"
)

const (
	edgesJSON = `[
  {"source": "A", "target": "B", "interaction": "talks"},
  {"source": "B", "target": "A", "interaction": "argues"}
]`
	nodesJSON = `[
  {"id": "A", "name": "Alice", "movie": "M1", "description": "lead"},
  {"id": "B", "name": "Bob", "movie": "M2", "description": "rival"}
]`
)

func writeFile(t *testing.T, dir, name, content string) loader.Source {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return loader.Source(path)
}

func TestLoad_LocalFiles(t *testing.T) {
	dir := t.TempDir()
	edges := writeFile(t, dir, "Edge-Relation.json", edgesJSON)
	nodes := writeFile(t, dir, "Nodes.json", nodesJSON)

	ds, err := loader.Load(context.Background(), edges, nodes, loader.Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ds.Edges) != 2 || len(ds.Nodes) != 2 {
		t.Fatalf("got %d edges, %d nodes", len(ds.Edges), len(ds.Nodes))
	}
	if ds.Edges[1] != (model.EdgeRecord{Source: "B", Target: "A", Interaction: "argues"}) {
		t.Errorf("edge order not preserved: %+v", ds.Edges)
	}
	if ds.Nodes[0].Name != "Alice" || ds.Nodes[1].Description != "rival" {
		t.Errorf("unexpected nodes %+v", ds.Nodes)
	}
}

func TestLoad_Remote(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/Edge-Relation.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(edgesJSON))
	})
	mux.HandleFunc("/Nodes.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(nodesJSON))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ds, err := loader.Load(context.Background(),
		loader.Source(srv.URL+"/Edge-Relation.json"),
		loader.Source(srv.URL+"/Nodes.json"),
		loader.Options{Client: srv.Client()})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ds.Edges) != 2 || len(ds.Nodes) != 2 {
		t.Fatalf("got %d edges, %d nodes", len(ds.Edges), len(ds.Nodes))
	}
}

func TestLoad_MixedSources(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(nodesJSON))
	}))
	defer srv.Close()

	edges := writeFile(t, t.TempDir(), "edges.json", edgesJSON)
	ds, err := loader.Load(context.Background(), edges, loader.Source(srv.URL), loader.Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ds.Edges) != 2 || len(ds.Nodes) != 2 {
		t.Fatalf("got %d edges, %d nodes", len(ds.Edges), len(ds.Nodes))
	}
}

func TestLoad_OneFailureFailsAll(t *testing.T) {
	dir := t.TempDir()
	edges := writeFile(t, dir, "Edge-Relation.json", edgesJSON)

	ds, err := loader.Load(context.Background(), edges, loader.Source(filepath.Join(dir, "missing.json")), loader.Options{})
	if err == nil {
		t.Fatal("expected error when the node document is missing")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
	if !strings.Contains(err.Error(), "loading nodes") {
		t.Errorf("error should name the failing document: %v", err)
	}
	if len(ds.Edges) != 0 || len(ds.Nodes) != 0 {
		t.Errorf("partial dataset returned: %+v", ds)
	}
}

func TestLoad_MalformedDocument(t *testing.T) {
	dir := t.TempDir()
	edges := writeFile(t, dir, "edges.json", `{"source": "A"}`)
	nodes := writeFile(t, dir, "nodes.json", nodesJSON)

	_, err := loader.Load(context.Background(), edges, nodes, loader.Options{})
	if err == nil {
		t.Fatal("expected error for an object where an array is required")
	}
	if !strings.Contains(err.Error(), "parsing edges") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "nodes") {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(edgesJSON))
	}))
	defer srv.Close()

	_, err := loader.Load(context.Background(),
		loader.Source(srv.URL+"/edges"), loader.Source(srv.URL+"/nodes"), loader.Options{})
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected 404 error, got %v", err)
	}
}

func TestLoad_FailureCancelsSlowFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "edges") {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		select {
		case <-r.Context().Done():
		case <-time.After(10 * time.Second):
			w.Write([]byte(nodesJSON))
		}
	}))
	defer srv.Close()

	start := time.Now()
	_, err := loader.Load(context.Background(),
		loader.Source(srv.URL+"/edges"), loader.Source(srv.URL+"/nodes"), loader.Options{})
	if err == nil {
		t.Fatal("expected error")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("slow fetch was not cancelled (took %v)", elapsed)
	}
}

func TestLoad_ContextCancelled(t *testing.T) {
	dir := t.TempDir()
	edges := writeFile(t, dir, "edges.json", edgesJSON)
	nodes := writeFile(t, dir, "nodes.json", nodesJSON)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := loader.Load(ctx, edges, nodes, loader.Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoad_EmptySource(t *testing.T) {
	nodes := writeFile(t, t.TempDir(), "nodes.json", nodesJSON)

	if _, err := loader.Load(context.Background(), "  ", nodes, loader.Options{}); !errors.Is(err, loader.ErrEmptySource) {
		t.Fatalf("expected ErrEmptySource, got %v", err)
	}
}

func TestLoad_DocumentSizeLimit(t *testing.T) {
	dir := t.TempDir()
	edges := writeFile(t, dir, "edges.json", edgesJSON)
	nodes := writeFile(t, dir, "nodes.json", nodesJSON)

	_, err := loader.Load(context.Background(), edges, nodes, loader.Options{MaxDocumentSize: 16})
	if !errors.Is(err, loader.ErrDocumentSize) {
		t.Fatalf("expected ErrDocumentSize, got %v", err)
	}
}

func TestParseEdges(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"empty array", `[]`, 0, false},
		{"null", `null`, 0, false},
		{"with BOM", "\xEF\xBB\xBF" + edgesJSON, 2, false},
		{"extra fields ignored", `[{"source":"A","target":"B","interaction":"x","weight":3}]`, 1, false},
		{"truncated", `[{"source":"A"`, 0, true},
		{"not json", `source,target`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := loader.ParseEdges(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if len(recs) != tt.want {
				t.Errorf("got %d records, want %d", len(recs), tt.want)
			}
		})
	}
}

func TestParseNodes_MissingFields(t *testing.T) {
	recs, err := loader.ParseNodes(strings.NewReader(`[{"id": "C"}]`))
	if err != nil {
		t.Fatalf("ParseNodes: %v", err)
	}
	if len(recs) != 1 || recs[0] != (model.NodeRecord{ID: "C"}) {
		t.Errorf("got %+v", recs)
	}
}

func TestSource_IsRemote(t *testing.T) {
	tests := map[loader.Source]bool{
		"https://example.com/Nodes.json": true,
		"HTTP://example.com/x":           true,
		"data/Nodes.json":                false,
		"/abs/Nodes.json":                false,
		"ftp://example.com/x":            false,
	}
	for src, want := range tests {
		if got := src.IsRemote(); got != want {
			t.Errorf("%q.IsRemote() = %v, want %v", src, got, want)
		}
	}
}
