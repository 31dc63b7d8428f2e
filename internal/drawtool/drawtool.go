// Package drawtool captures freehand strokes as normalized point streams
// while a draw gesture is active. A gesture that ends with fewer than two
// points is a tap, not a stroke, and is discarded.
package drawtool

import (
	"golang.org/x/mobile/event/mouse"

	"github.com/example/snapedit/internal/document"
	"github.com/example/snapedit/internal/geom"
)

// Points closer than this to the previous one are dropped to bound memory
// on slow, dense pointer streams.
const decimateEpsilonPct = 0.5

// Tool accumulates the in-progress stroke.
type Tool struct {
	active bool
	points []geom.Point
	color  string
	size   float64
}

// New creates an idle tool.
func New() *Tool { return &Tool{} }

// Active reports whether a draw gesture is live.
func (t *Tool) Active() bool { return t.active }

// Points returns the captured points so far, for preview rendering.
func (t *Tool) Points() []geom.Point {
	return append([]geom.Point(nil), t.points...)
}

// Begin starts a stroke at p with the given brush color and size.
func (t *Tool) Begin(p geom.Point, color string, size float64) {
	if t.active {
		return
	}
	t.active = true
	t.color = color
	t.size = size
	t.points = t.points[:0]
	t.points = append(t.points, p.Clamped())
}

// Append adds the current pointer position, skipping points closer than the
// decimation epsilon to the previous one.
func (t *Tool) Append(p geom.Point) {
	if !t.active {
		return
	}
	p = p.Clamped()
	if last := t.points[len(t.points)-1]; last.Dist(p) < decimateEpsilonPct {
		return
	}
	t.points = append(t.points, p)
}

// End finalizes the gesture. It returns the committed stroke, or false when
// the gesture captured fewer than two points.
func (t *Tool) End() (document.Stroke, bool) {
	if !t.active {
		return document.Stroke{}, false
	}
	t.active = false
	if len(t.points) < 2 {
		t.points = t.points[:0]
		return document.Stroke{}, false
	}
	s := document.Stroke{
		ID:        document.NewID(),
		Points:    append([]geom.Point(nil), t.points...),
		Color:     t.color,
		BrushSize: t.size,
	}
	t.points = t.points[:0]
	return s, true
}

// Cancel aborts the gesture, dropping any captured points.
func (t *Tool) Cancel() {
	t.active = false
	t.points = t.points[:0]
}

// HandleMouse drives the capture from a pointer event in container pixels.
// It returns the finished stroke and true exactly when a release completed
// a committable gesture.
func (t *Tool) HandleMouse(e mouse.Event, containerW, containerH float64, color string, size float64) (document.Stroke, bool) {
	if containerW <= 0 || containerH <= 0 {
		return document.Stroke{}, false
	}
	p := geom.Point{
		X: float64(e.X) / containerW * 100,
		Y: float64(e.Y) / containerH * 100,
	}
	switch e.Direction {
	case mouse.DirPress:
		t.Begin(p, color, size)
	case mouse.DirNone:
		t.Append(p)
	case mouse.DirRelease:
		if t.active {
			t.Append(p)
			return t.End()
		}
	}
	return document.Stroke{}, false
}
