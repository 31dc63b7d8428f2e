// Package croptool implements the pointer-driven crop interaction: an
// explicit state machine over eight resize handles plus move, with
// per-step clamping and optional aspect-ratio locking.
package croptool

import (
	"golang.org/x/mobile/event/mouse"

	"github.com/example/snapedit/internal/geom"
)

// Handle identifies what part of the crop rectangle a drag grabs.
type Handle int

const (
	HandleNone Handle = iota
	HandleMove
	HandleNW
	HandleN
	HandleNE
	HandleE
	HandleSE
	HandleS
	HandleSW
	HandleW
)

var handleNames = map[Handle]string{
	HandleNone: "none",
	HandleMove: "move",
	HandleNW:   "nw",
	HandleN:    "n",
	HandleNE:   "ne",
	HandleE:    "e",
	HandleSE:   "se",
	HandleS:    "s",
	HandleSW:   "sw",
	HandleW:    "w",
}

func (h Handle) String() string { return handleNames[h] }

func (h Handle) west() bool  { return h == HandleNW || h == HandleW || h == HandleSW }
func (h Handle) east() bool  { return h == HandleNE || h == HandleE || h == HandleSE }
func (h Handle) north() bool { return h == HandleNW || h == HandleN || h == HandleNE }
func (h Handle) south() bool { return h == HandleSW || h == HandleS || h == HandleSE }

// State is the interaction phase.
type State int

const (
	StateIdle State = iota
	StateDragging
)

// Hit slop around edges and corners, in percent of the container.
const handleSlopPct = 3.0

// Tool is the crop interaction state machine. All coordinates are percent
// of the displayed container. The rectangle always satisfies the bounds and
// minimum-size invariants; geometry violations are corrected by clamping,
// never surfaced.
type Tool struct {
	state     State
	handle    Handle
	start     geom.Point
	startRect geom.Rect
	rect      geom.Rect
	aspect    float64 // width/height, 0 = free-form
}

// New creates a tool over the initial rectangle. A positive aspect locks
// the rectangle to that width/height ratio.
func New(initial geom.Rect, aspect float64) *Tool {
	t := &Tool{aspect: aspect}
	t.SetRect(initial)
	return t
}

// Rect returns the current crop rectangle.
func (t *Tool) Rect() geom.Rect { return t.rect }

// State returns the interaction phase.
func (t *Tool) State() State { return t.state }

// ActiveHandle returns the handle owning the in-progress drag, or
// HandleNone when idle.
func (t *Tool) ActiveHandle() Handle {
	if t.state != StateDragging {
		return HandleNone
	}
	return t.handle
}

// Aspect returns the active ratio constraint, 0 when free-form.
func (t *Tool) Aspect() float64 { return t.aspect }

// SetAspect installs a new ratio constraint and reconciles the current
// rectangle with it immediately.
func (t *Tool) SetAspect(ratio float64) {
	if ratio < 0 {
		ratio = 0
	}
	t.aspect = ratio
	t.rect = geom.ApplyAspect(geom.ClampRect(t.rect), t.aspect)
}

// SetRect replaces the rectangle outside of a gesture, e.g. after undo.
func (t *Tool) SetRect(r geom.Rect) {
	t.rect = geom.ApplyAspect(geom.ClampRect(r), t.aspect)
	t.state = StateIdle
	t.handle = HandleNone
}

// HitTest maps a pointer position to the handle it lands on: corners win
// over edges, edges over the interior, the interior maps to move.
func (t *Tool) HitTest(p geom.Point) Handle {
	r := t.rect
	nearLeft := near(p.X, r.X)
	nearRight := near(p.X, r.MaxX())
	nearTop := near(p.Y, r.Y)
	nearBottom := near(p.Y, r.MaxY())
	withinX := p.X >= r.X-handleSlopPct && p.X <= r.MaxX()+handleSlopPct
	withinY := p.Y >= r.Y-handleSlopPct && p.Y <= r.MaxY()+handleSlopPct

	switch {
	case nearLeft && nearTop:
		return HandleNW
	case nearRight && nearTop:
		return HandleNE
	case nearRight && nearBottom:
		return HandleSE
	case nearLeft && nearBottom:
		return HandleSW
	case nearTop && withinX:
		return HandleN
	case nearBottom && withinX:
		return HandleS
	case nearLeft && withinY:
		return HandleW
	case nearRight && withinY:
		return HandleE
	case r.Contains(p):
		return HandleMove
	}
	return HandleNone
}

func near(v, edge float64) bool {
	d := v - edge
	return d >= -handleSlopPct && d <= handleSlopPct
}

// Begin starts a drag at p. It returns false, leaving the tool idle, when
// the pointer is not over the rectangle or any handle.
func (t *Tool) Begin(p geom.Point) bool {
	if t.state == StateDragging {
		return false
	}
	h := t.HitTest(p)
	if h == HandleNone {
		return false
	}
	t.state = StateDragging
	t.handle = h
	t.start = p
	t.startRect = t.rect
	return true
}

// Move recomputes the rectangle from the pointer delta. Each edge clamps to
// the container, the minimum size is enforced, and the aspect constraint is
// reconciled after every incremental step so the handles track the cursor
// while staying locked to the ratio.
func (t *Tool) Move(p geom.Point) geom.Rect {
	if t.state != StateDragging {
		return t.rect
	}
	t.rect = t.apply(p.Sub(t.start))
	return t.rect
}

// End finishes the drag and reports whether a drag was in progress; the
// returned rectangle is the one to commit.
func (t *Tool) End() (geom.Rect, bool) {
	if t.state != StateDragging {
		return t.rect, false
	}
	t.state = StateIdle
	t.handle = HandleNone
	return t.rect, true
}

// Cancel aborts the drag and restores the rectangle captured at Begin.
func (t *Tool) Cancel() {
	if t.state != StateDragging {
		return
	}
	t.rect = t.startRect
	t.state = StateIdle
	t.handle = HandleNone
}

func (t *Tool) apply(delta geom.Point) geom.Rect {
	r := t.startRect
	if t.handle == HandleMove {
		// Translation never resizes and clamps independently.
		r.X = geom.Clamp(r.X+delta.X, 0, 100-r.W)
		r.Y = geom.Clamp(r.Y+delta.Y, 0, 100-r.H)
		return r
	}
	minX, minY := r.X, r.Y
	maxX, maxY := r.MaxX(), r.MaxY()
	if t.handle.west() {
		minX = geom.Clamp(minX+delta.X, 0, maxX-geom.MinWidthPct)
	}
	if t.handle.east() {
		maxX = geom.Clamp(maxX+delta.X, minX+geom.MinWidthPct, 100)
	}
	if t.handle.north() {
		minY = geom.Clamp(minY+delta.Y, 0, maxY-geom.MinHeightPct)
	}
	if t.handle.south() {
		maxY = geom.Clamp(maxY+delta.Y, minY+geom.MinHeightPct, 100)
	}
	out := geom.Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
	if t.aspect > 0 {
		out = geom.ApplyAspect(out, t.aspect)
	}
	return out
}

// HandleMouse drives the state machine from a pointer event whose X/Y are
// in container pixels. It returns the rectangle to commit and true exactly
// when the event completed a drag.
func (t *Tool) HandleMouse(e mouse.Event, containerW, containerH float64) (geom.Rect, bool) {
	if containerW <= 0 || containerH <= 0 {
		return t.rect, false
	}
	p := geom.Point{
		X: float64(e.X) / containerW * 100,
		Y: float64(e.Y) / containerH * 100,
	}
	switch e.Direction {
	case mouse.DirPress:
		t.Begin(p)
	case mouse.DirNone:
		t.Move(p)
	case mouse.DirRelease:
		if t.state == StateDragging {
			t.Move(p)
			return t.End()
		}
	}
	return t.rect, false
}
