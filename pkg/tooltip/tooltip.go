// Package tooltip models the hover tooltip as an explicit two-state machine
// with timed opacity fades, independent of how pointer events are delivered.
package tooltip

import (
	"time"

	"github.com/vanderheijden86/castgraph/pkg/geom"
	"github.com/vanderheijden86/castgraph/pkg/graph"
)

// FadeDuration is the length of the fade-in and fade-out.
const FadeDuration = 200 * time.Millisecond

// Offset is added to the pointer position to place the tooltip.
var Offset = geom.Pt(20, -20)

// State is the visibility state of the tooltip.
type State int

const (
	Hidden State = iota
	Visible
)

func (s State) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Visible:
		return "visible"
	default:
		return "unknown"
	}
}

// EaseCubicInOut maps t in [0,1] onto a cubic ease-in-out curve.
func EaseCubicInOut(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	case t < 0.5:
		return 4 * t * t * t
	default:
		u := -2*t + 2
		return 1 - u*u*u/2
	}
}

type fade struct {
	from, to float64
	start    time.Time
	dur      time.Duration
}

func (f fade) at(now time.Time) float64 {
	if f.dur <= 0 {
		return f.to
	}
	t := float64(now.Sub(f.start)) / float64(f.dur)
	return f.from + (f.to-f.from)*EaseCubicInOut(t)
}

func (f fade) done(now time.Time) bool {
	return now.Sub(f.start) >= f.dur
}

// Tooltip is the state of the single tooltip overlay.
type Tooltip struct {
	// Duration of each fade; FadeDuration unless changed.
	Duration time.Duration

	state   State
	subject graph.Element
	content Content
	pos     geom.Point
	fade    fade
}

// New returns a hidden tooltip.
func New() *Tooltip {
	return &Tooltip{Duration: FadeDuration}
}

// Enter shows the tooltip for subject, positioned from pointer p. The fade
// starts from whatever opacity the tooltip has at now.
func (t *Tooltip) Enter(subject graph.Element, c Content, p geom.Point, now time.Time) {
	cur := t.Opacity(now)
	t.state = Visible
	t.subject = subject
	t.content = c
	t.pos = p.Add(Offset)
	t.fade = fade{from: cur, to: 1, start: now, dur: t.Duration}
}

// Move follows the pointer while visible. It reports whether the tooltip
// moved.
func (t *Tooltip) Move(p geom.Point) bool {
	if t.state != Visible {
		return false
	}
	t.pos = p.Add(Offset)
	return true
}

// Leave hides the tooltip. The content stays in place while it fades out.
func (t *Tooltip) Leave(now time.Time) {
	if t.state == Hidden {
		return
	}
	cur := t.Opacity(now)
	t.state = Hidden
	t.subject = nil
	t.fade = fade{from: cur, to: 0, start: now, dur: t.Duration}
}

// State returns the current state.
func (t *Tooltip) State() State {
	return t.state
}

// Subject returns the hovered element, or nil when hidden.
func (t *Tooltip) Subject() graph.Element {
	return t.subject
}

// Content returns the last content shown.
func (t *Tooltip) Content() Content {
	return t.content
}

// Position returns the tooltip's top-left corner.
func (t *Tooltip) Position() geom.Point {
	return t.pos
}

// Opacity returns the tooltip opacity at now.
func (t *Tooltip) Opacity(now time.Time) float64 {
	if t.fade.start.IsZero() {
		return 0
	}
	return t.fade.at(now)
}

// Fading reports whether a fade is still in progress at now.
func (t *Tooltip) Fading(now time.Time) bool {
	return !t.fade.start.IsZero() && !t.fade.done(now)
}
