package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/vanderheijden86/castgraph/pkg/debug"
)

// ExportContext describes the snapshot being exported. It reaches hooks as
// environment variables.
type ExportContext struct {
	Path         string    // CASTGRAPH_EXPORT_PATH
	Format       string    // CASTGRAPH_EXPORT_FORMAT
	Characters   int       // CASTGRAPH_CHARACTER_COUNT
	Interactions int       // CASTGRAPH_INTERACTION_COUNT
	Timestamp    time.Time // CASTGRAPH_TIMESTAMP, RFC3339
}

// Env returns the context as KEY=value pairs.
func (c ExportContext) Env() []string {
	return []string{
		"CASTGRAPH_EXPORT_PATH=" + c.Path,
		"CASTGRAPH_EXPORT_FORMAT=" + c.Format,
		fmt.Sprintf("CASTGRAPH_CHARACTER_COUNT=%d", c.Characters),
		fmt.Sprintf("CASTGRAPH_INTERACTION_COUNT=%d", c.Interactions),
		"CASTGRAPH_TIMESTAMP=" + c.Timestamp.Format(time.RFC3339),
	}
}

// Result is the outcome of one hook.
type Result struct {
	Hook     Hook
	Phase    Phase
	Duration time.Duration
	Output   string
	Err      error
}

// Failed reports whether the hook exited with an error.
func (r Result) Failed() bool {
	return r.Err != nil
}

// ErrTimeout is returned for a hook that exceeded its timeout.
var ErrTimeout = errors.New("hook timed out")

// Executor runs the hooks of one export.
type Executor struct {
	hooks   Hooks
	export  ExportContext
	results []Result
}

// NewExecutor returns an executor for hooks, which should already be
// normalized.
func NewExecutor(hooks Hooks, export ExportContext) *Executor {
	return &Executor{hooks: hooks, export: export}
}

// Run runs every hook of phase in order. It stops at the first failing
// hook whose policy is fail and returns its error.
func (e *Executor) Run(ctx context.Context, phase Phase) error {
	for _, hook := range e.hooks.For(phase) {
		r := e.run(ctx, phase, hook)
		e.results = append(e.results, r)
		if !r.Failed() {
			debug.Log("hooks: %s %q ok in %s", phase, hook.Name, r.Duration)
			continue
		}
		debug.Log("hooks: %s %q failed: %v", phase, hook.Name, r.Err)
		if hook.OnError == OnErrorFail {
			return fmt.Errorf("%s hook %q: %w", phase, hook.Name, r.Err)
		}
	}
	return nil
}

func (e *Executor) run(ctx context.Context, phase Phase, hook Hook) Result {
	timeout := hook.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := shellCommand(ctx, hook.Command)
	cmd.Env = append(os.Environ(), e.export.Env()...)
	for k, v := range hook.Env {
		cmd.Env = append(cmd.Env, k+"="+os.ExpandEnv(v))
	}
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	// Children of the shell may hold the output pipe after a kill.
	cmd.WaitDelay = time.Second

	start := time.Now()
	err := cmd.Run()
	r := Result{
		Hook:     hook,
		Phase:    phase,
		Duration: time.Since(start),
		Output:   strings.TrimSpace(out.String()),
	}
	switch {
	case ctx.Err() == context.DeadlineExceeded:
		r.Err = fmt.Errorf("%w after %s", ErrTimeout, timeout)
	case err != nil:
		r.Err = err
		if r.Output != "" {
			r.Err = fmt.Errorf("%w: %s", err, r.Output)
		}
	}
	return r
}

func shellCommand(ctx context.Context, command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/C", command)
	}
	return exec.CommandContext(ctx, "sh", "-c", command)
}

// Results returns the outcome of every hook run so far.
func (e *Executor) Results() []Result {
	return e.results
}

// Summary is a one-line account of the hooks run, or "" when none ran.
func (e *Executor) Summary() string {
	if len(e.results) == 0 {
		return ""
	}
	failed := 0
	for _, r := range e.results {
		if r.Failed() {
			failed++
		}
	}
	if failed == 0 {
		return fmt.Sprintf("%d hook(s) ran", len(e.results))
	}
	return fmt.Sprintf("%d hook(s) ran, %d failed", len(e.results), failed)
}
