// Package datasource finds the edge and node documents when they are not
// named explicitly. It discovers candidate data directories, validates that
// each holds both documents, and selects the most authoritative one.
package datasource

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Default document names inside a data directory.
const (
	DefaultEdgesName = "Edge-Relation.json"
	DefaultNodesName = "Nodes.json"
)

// EnvDataDir names the environment variable consulted for the data directory.
const EnvDataDir = "CASTGRAPH_DATA_DIR"

// ErrNoDataSource is returned when no candidate directory holds both documents.
var ErrNoDataSource = errors.New("no data directory found")

// Kind identifies where a candidate directory came from.
type Kind string

const (
	KindFlag   Kind = "flag"   // --data-dir
	KindEnv    Kind = "env"    // $CASTGRAPH_DATA_DIR
	KindConfig Kind = "config" // data.dir in config.yaml
	KindLocal  Kind = "local"  // ./data
	KindParent Kind = "parent" // ../data
)

// Priority values per kind (higher wins).
const (
	PriorityFlag   = 100
	PriorityEnv    = 80
	PriorityConfig = 60
	PriorityLocal  = 40
	PriorityParent = 20
)

// Candidate is a directory that may hold the two documents.
type Candidate struct {
	Kind     Kind      `json:"kind"`
	Dir      string    `json:"dir"`
	Priority int       `json:"priority"`
	ModTime  time.Time `json:"mod_time"`
	Valid    bool      `json:"valid"`
	// ValidationError says why the candidate was rejected.
	ValidationError string `json:"validation_error,omitempty"`
}

func (c Candidate) String() string {
	status := "valid"
	if !c.Valid {
		status = "invalid: " + c.ValidationError
	}
	return fmt.Sprintf("%s (%s, priority=%d, %s)", c.Dir, c.Kind, c.Priority, status)
}

// DiscoveryOptions configures Discover.
type DiscoveryOptions struct {
	FlagDir   string // --data-dir
	ConfigDir string // data.dir from the config file
	// WorkDir anchors ./data and ../data. Defaults to the current directory.
	WorkDir string
	// Getenv looks up EnvDataDir. Defaults to os.Getenv.
	Getenv func(string) string

	EdgesName string
	NodesName string

	// IncludeInvalid keeps candidates that failed validation.
	IncludeInvalid bool
	Verbose        bool
	Logger         func(msg string)
}

func (o *DiscoveryOptions) defaults() {
	if o.Getenv == nil {
		o.Getenv = os.Getenv
	}
	if o.EdgesName == "" {
		o.EdgesName = DefaultEdgesName
	}
	if o.NodesName == "" {
		o.NodesName = DefaultNodesName
	}
	if o.Logger == nil {
		o.Logger = func(string) {}
	}
	if o.WorkDir == "" {
		if wd, err := os.Getwd(); err == nil {
			o.WorkDir = wd
		}
	}
}

// Discover lists candidate directories, highest priority first, each
// validated against the document names. Duplicate directories keep their
// highest-priority entry.
func Discover(opts DiscoveryOptions) []Candidate {
	opts.defaults()

	raw := []Candidate{
		{Kind: KindFlag, Dir: opts.FlagDir, Priority: PriorityFlag},
		{Kind: KindEnv, Dir: opts.Getenv(EnvDataDir), Priority: PriorityEnv},
		{Kind: KindConfig, Dir: opts.ConfigDir, Priority: PriorityConfig},
		{Kind: KindLocal, Dir: filepath.Join(opts.WorkDir, "data"), Priority: PriorityLocal},
		{Kind: KindParent, Dir: filepath.Join(opts.WorkDir, "..", "data"), Priority: PriorityParent},
	}

	seen := make(map[string]bool)
	var out []Candidate
	for _, c := range raw {
		if c.Dir == "" {
			continue
		}
		if abs, err := filepath.Abs(c.Dir); err == nil {
			c.Dir = abs
		}
		if seen[c.Dir] {
			continue
		}
		seen[c.Dir] = true

		if err := Validate(&c, opts.EdgesName, opts.NodesName); err != nil {
			if opts.Verbose {
				opts.Logger(fmt.Sprintf("Rejected %s: %v", c.Dir, err))
			}
			if !opts.IncludeInvalid {
				continue
			}
		} else if opts.Verbose {
			opts.Logger(fmt.Sprintf("Found data dir: %s (%s, mod=%s)", c.Dir, c.Kind, c.ModTime.Format(time.RFC3339)))
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out
}

// Validate checks that the candidate directory holds both documents as
// regular files and records the result on c. ModTime is the newer of the
// two files.
func Validate(c *Candidate, edgesName, nodesName string) error {
	c.Valid = false
	c.ValidationError = ""

	fail := func(err error) error {
		c.ValidationError = err.Error()
		return err
	}

	info, err := os.Stat(c.Dir)
	if err != nil {
		return fail(err)
	}
	if !info.IsDir() {
		return fail(fmt.Errorf("%s is not a directory", c.Dir))
	}

	for _, name := range []string{edgesName, nodesName} {
		fi, err := os.Stat(filepath.Join(c.Dir, name))
		if err != nil {
			return fail(fmt.Errorf("missing %s", name))
		}
		if !fi.Mode().IsRegular() {
			return fail(fmt.Errorf("%s is not a regular file", name))
		}
		if fi.ModTime().After(c.ModTime) {
			c.ModTime = fi.ModTime()
		}
	}

	c.Valid = true
	return nil
}

// SelectBest returns the highest-priority valid candidate.
func SelectBest(candidates []Candidate) (Candidate, error) {
	var best *Candidate
	for i := range candidates {
		c := &candidates[i]
		if !c.Valid {
			continue
		}
		if best == nil || c.Priority > best.Priority {
			best = c
		}
	}
	if best == nil {
		return Candidate{}, ErrNoDataSource
	}
	return *best, nil
}
