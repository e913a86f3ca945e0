// Package loader fetches the edge and node documents, from disk or over
// HTTP, and decodes them into a model.Dataset.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/castgraph/pkg/debug"
	"github.com/vanderheijden86/castgraph/pkg/metrics"
	"github.com/vanderheijden86/castgraph/pkg/model"
)

// DefaultMaxDocumentSize caps how much of a single document is read (64MB).
const DefaultMaxDocumentSize = 64 << 20

// Common errors.
var (
	ErrEmptySource  = errors.New("source location is empty")
	ErrDocumentSize = errors.New("document exceeds size limit")
)

// Source names one input document. It is either a local path or an
// http(s) URL.
type Source string

// IsRemote reports whether the source is fetched over HTTP.
func (s Source) IsRemote() bool {
	lower := strings.ToLower(string(s))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func (s Source) String() string {
	return string(s)
}

// Options configures Load.
type Options struct {
	// Client is used for remote sources. Defaults to a client with a 30s timeout.
	Client *http.Client

	// MaxDocumentSize limits each document. If 0, DefaultMaxDocumentSize is used.
	MaxDocumentSize int64
}

func (o Options) client() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	return &http.Client{Timeout: 30 * time.Second}
}

func (o Options) maxSize() int64 {
	if o.MaxDocumentSize > 0 {
		return o.MaxDocumentSize
	}
	return DefaultMaxDocumentSize
}

// Load fetches the edge and node documents concurrently and returns them as a
// Dataset. It succeeds only if both fetches succeed; the first failure
// cancels the other fetch.
func Load(ctx context.Context, edges, nodes Source, opts Options) (model.Dataset, error) {
	defer metrics.Timer(metrics.Load)()
	defer debug.LogEnterExit("loader.Load")()

	var ds model.Dataset
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		data, err := fetch(gctx, edges, opts)
		if err != nil {
			return fmt.Errorf("loading edges from %s: %w", edges, err)
		}
		recs, err := ParseEdges(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("loading edges from %s: %w", edges, err)
		}
		ds.Edges = recs
		return nil
	})

	g.Go(func() error {
		data, err := fetch(gctx, nodes, opts)
		if err != nil {
			return fmt.Errorf("loading nodes from %s: %w", nodes, err)
		}
		recs, err := ParseNodes(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("loading nodes from %s: %w", nodes, err)
		}
		ds.Nodes = recs
		return nil
	})

	if err := g.Wait(); err != nil {
		return model.Dataset{}, err
	}

	debug.Log("loaded %d edges, %d nodes", len(ds.Edges), len(ds.Nodes))
	return ds, nil
}

// ParseEdges decodes a JSON array of edge records.
func ParseEdges(r io.Reader) ([]model.EdgeRecord, error) {
	var recs []model.EdgeRecord
	if err := decode(r, &recs); err != nil {
		return nil, fmt.Errorf("parsing edges: %w", err)
	}
	return recs, nil
}

// ParseNodes decodes a JSON array of node records.
func ParseNodes(r io.Reader) ([]model.NodeRecord, error) {
	var recs []model.NodeRecord
	if err := decode(r, &recs); err != nil {
		return nil, fmt.Errorf("parsing nodes: %w", err)
	}
	return recs, nil
}

func decode(r io.Reader, v any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return json.Unmarshal(stripBOM(data), v)
}

func fetch(ctx context.Context, src Source, opts Options) ([]byte, error) {
	if strings.TrimSpace(string(src)) == "" {
		return nil, ErrEmptySource
	}
	if src.IsRemote() {
		return fetchRemote(ctx, src, opts)
	}
	return fetchLocal(ctx, src, opts)
}

func fetchLocal(ctx context.Context, src Source, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(string(src))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readLimited(f, opts.maxSize())
}

func fetchRemote(ctx context.Context, src Source, opts Options) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, string(src), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := opts.client().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return readLimited(resp.Body, opts.maxSize())
}

func readLimited(r io.Reader, max int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("%w (%d bytes)", ErrDocumentSize, max)
	}
	return data, nil
}

// stripBOM removes the UTF-8 Byte Order Mark if present
func stripBOM(b []byte) []byte {
	if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		return b[3:]
	}
	return b
}
