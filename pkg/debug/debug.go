// Package debug provides conditional debug logging for castgraph.
//
// Debug logging is enabled by setting the CASTGRAPH_DEBUG environment variable:
//
//	CASTGRAPH_DEBUG=1 castgraph render -o graph.svg
//
// When enabled, debug messages are written to stderr with timestamps.
// When disabled (default), all debug functions are no-ops.
//
// Usage:
//
//	func build() {
//	    defer debug.LogEnterExit("build")()
//	    debug.Log("building %d links", len(links))
//	}
package debug

import (
	"io"
	"log"
	"os"
	"time"
)

const prefix = "[CASTGRAPH_DEBUG] "

var (
	// enabled is true when CASTGRAPH_DEBUG env var is set
	enabled bool
	// logger writes to stderr with [CASTGRAPH_DEBUG] prefix
	logger *log.Logger
)

func init() {
	if os.Getenv("CASTGRAPH_DEBUG") != "" {
		enabled = true
		logger = log.New(os.Stderr, prefix, log.Ltime|log.Lmicroseconds)
	}
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return enabled
}

// SetEnabled allows programmatic control of debug logging.
func SetEnabled(e bool) {
	enabled = e
	if e && logger == nil {
		logger = log.New(os.Stderr, prefix, log.Ltime|log.Lmicroseconds)
	}
}

// SetOutput redirects debug output.
func SetOutput(w io.Writer) {
	if logger == nil {
		logger = log.New(w, prefix, log.Ltime|log.Lmicroseconds)
		return
	}
	logger.SetOutput(w)
}

// LogToFile appends debug output to path until the returned function is
// called, which closes the file and restores stderr. The terminal viewer
// uses it to keep log lines off the alternate screen.
func LogToFile(path string) (func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	SetOutput(f)
	return func() error {
		SetOutput(os.Stderr)
		return f.Close()
	}, nil
}

// Log writes a debug message if debug logging is enabled.
// Uses printf-style formatting.
func Log(format string, args ...any) {
	if !enabled {
		return
	}
	logger.Printf(format, args...)
}

// LogIf writes a debug message only if the condition is true.
func LogIf(cond bool, format string, args ...any) {
	if !enabled || !cond {
		return
	}
	logger.Printf(format, args...)
}

// LogEnterExit logs function entry and exit with timing.
// Usage:
//
//	func myFunc() {
//	    defer debug.LogEnterExit("myFunc")()
//	    // ...
//	}
func LogEnterExit(name string) func() {
	if !enabled {
		return func() {}
	}
	logger.Printf("-> %s", name)
	start := time.Now()
	return func() {
		logger.Printf("<- %s (%v)", name, time.Since(start))
	}
}
