// Package metrics records how long each stage of the load, build, layout and
// render pipeline takes.
//
// Stages record concurrently (the loader's two fetches, the render loop) so
// every counter is atomic. Collection is on unless CASTGRAPH_METRICS=0.
//
// Usage:
//
//	func build() {
//	    defer metrics.Timer(metrics.Build)()
//	    // ...
//	}
package metrics

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"
)

var enabled atomic.Bool

func init() {
	enabled.Store(os.Getenv("CASTGRAPH_METRICS") != "0")
}

// Enabled reports whether timings are being recorded.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled turns collection on or off.
func SetEnabled(e bool) {
	enabled.Store(e)
}

// Stage accumulates timings for one pipeline stage.
type Stage struct {
	name  string
	count atomic.Int64
	total atomic.Int64
	max   atomic.Int64
	min   atomic.Int64 // 0 until the first sample
}

func newStage(name string) *Stage {
	return &Stage{name: name}
}

// Name returns the stage name.
func (s *Stage) Name() string { return s.name }

// Count returns the number of samples.
func (s *Stage) Count() int64 { return s.count.Load() }

// Record adds one sample.
func (s *Stage) Record(d time.Duration) {
	if !Enabled() {
		return
	}
	ns := d.Nanoseconds()
	s.count.Add(1)
	s.total.Add(ns)

	for {
		old := s.max.Load()
		if ns <= old || s.max.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := s.min.Load()
		if (old != 0 && ns >= old) || s.min.CompareAndSwap(old, ns) {
			break
		}
	}
}

// Reset discards all samples.
func (s *Stage) Reset() {
	s.count.Store(0)
	s.total.Store(0)
	s.max.Store(0)
	s.min.Store(0)
}

// Snapshot returns the stage's current statistics.
func (s *Stage) Snapshot() Stats {
	count := s.count.Load()
	total := time.Duration(s.total.Load())
	st := Stats{
		Name:  s.name,
		Count: count,
		Total: total,
		Max:   time.Duration(s.max.Load()),
		Min:   time.Duration(s.min.Load()),
	}
	if count > 0 {
		st.Avg = total / time.Duration(count)
	}
	return st
}

// Stats is a point-in-time view of a Stage.
type Stats struct {
	Name  string        `json:"name"`
	Count int64         `json:"count"`
	Total time.Duration `json:"total_ns"`
	Avg   time.Duration `json:"avg_ns"`
	Max   time.Duration `json:"max_ns"`
	Min   time.Duration `json:"min_ns,omitempty"`
}

func (s Stats) String() string {
	return fmt.Sprintf("%-12s n=%-6d avg=%-10v max=%-10v total=%v",
		s.Name, s.Count, s.Avg.Round(time.Microsecond), s.Max.Round(time.Microsecond), s.Total.Round(time.Microsecond))
}

// Timer starts timing a stage; call the returned func to record.
func Timer(s *Stage) func() {
	if s == nil || !Enabled() {
		return func() {}
	}
	start := time.Now()
	return func() {
		s.Record(time.Since(start))
	}
}

// Pipeline stages.
var (
	Load       = newStage("load")
	Build      = newStage("build")
	GraphStats = newStage("graph_stats")
	LayoutTick = newStage("layout_tick")
	Render     = newStage("render")
	UIRender   = newStage("ui_render")
)

// Stages returns every pipeline stage in pipeline order.
func Stages() []*Stage {
	return []*Stage{Load, Build, GraphStats, LayoutTick, Render, UIRender}
}

// ResetAll clears every stage.
func ResetAll() {
	for _, s := range Stages() {
		s.Reset()
	}
}

// Snapshot returns statistics for the stages that have samples.
func Snapshot() []Stats {
	var out []Stats
	for _, s := range Stages() {
		if s.Count() > 0 {
			out = append(out, s.Snapshot())
		}
	}
	return out
}

// WriteReport prints one line per stage with samples.
func WriteReport(w io.Writer) error {
	for _, st := range Snapshot() {
		if _, err := fmt.Fprintln(w, st.String()); err != nil {
			return err
		}
	}
	return nil
}
