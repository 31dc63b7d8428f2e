// Package geom provides percent-space geometry for the editor. Rectangles
// and points are expressed as percentages of a reference canvas (0-100 on
// each axis) so they are independent of zoom and viewport size.
package geom

import (
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"
)

// Minimum crop extent on each axis, in percent of the source dimension.
const (
	MinWidthPct  = 10.0
	MinHeightPct = 10.0
)

// MinAspect and MaxAspect bound the enforceable ratio constraints. Outside
// this band the minimum extent on one axis forces the other past the
// canvas, so the lock cannot hold.
const (
	MinAspect = MinWidthPct / 100.0
	MaxAspect = 100.0 / MinHeightPct
)

// Point is a position in percent-of-canvas coordinates.
type Point struct {
	X float64
	Y float64
}

// Clamped returns p with both axes limited to [0,100].
func (p Point) Clamped() Point {
	return Point{X: Clamp(p.X, 0, 100), Y: Clamp(p.Y, 0, 100)}
}

// Sub returns the component-wise difference p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Rect is an axis-aligned rectangle in percent-of-canvas coordinates.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// FullRect covers the entire canvas.
func FullRect() Rect { return Rect{X: 0, Y: 0, W: 100, H: 100} }

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.W }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Ratio returns width divided by height, or 0 when degenerate.
func (r Rect) Ratio() float64 {
	if r.H <= 0 {
		return 0
	}
	return r.W / r.H
}

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.MaxX() && p.Y >= r.Y && p.Y <= r.MaxY()
}

// Empty reports whether the rectangle has no usable area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampRect forces r inside the canvas while keeping the minimum extent.
// Size is corrected before position so the rectangle can never be pushed
// outside by its own width or height.
func ClampRect(r Rect) Rect {
	r.W = Clamp(r.W, MinWidthPct, 100)
	r.H = Clamp(r.H, MinHeightPct, 100)
	r.X = Clamp(r.X, 0, 100-r.W)
	r.Y = Clamp(r.Y, 0, 100-r.H)
	return r
}

// ApplyAspect reconciles r with the target width/height ratio. When the live
// ratio exceeds the target the width shrinks to height*ratio, otherwise the
// height shrinks to width/ratio, keeping the top-left corner in place. A
// ratio of zero or less means free-form and returns r unchanged. The result
// is re-clamped so the minimum-extent and bounds invariants keep holding.
func ApplyAspect(r Rect, ratio float64) Rect {
	if ratio <= 0 || r.H <= 0 {
		return r
	}
	// Ratios beyond the enforceable band clamp to it; otherwise the
	// minimum-extent grow-back below would push the other axis past 100
	// and break the lock it just established.
	ratio = Clamp(ratio, MinAspect, MaxAspect)
	if r.W/r.H > ratio {
		r.W = r.H * ratio
	} else {
		r.H = r.W / ratio
	}
	// Shrinking can violate the minimum extent; grow the short axis back and
	// follow with the other so the ratio survives.
	if r.W < MinWidthPct {
		r.W = MinWidthPct
		r.H = r.W / ratio
	}
	if r.H < MinHeightPct {
		r.H = MinHeightPct
		r.W = r.H * ratio
	}
	r.W = Clamp(r.W, 0, 100)
	r.H = Clamp(r.H, 0, 100)
	r.X = Clamp(r.X, 0, 100-r.W)
	r.Y = Clamp(r.Y, 0, 100-r.H)
	return r
}

// NormalizeDegrees maps d into [0,360).
func NormalizeDegrees(d int) int {
	d %= 360
	if d < 0 {
		d += 360
	}
	return d
}

// SwapForRotation returns the output dimensions for a w*h region rotated by
// deg degrees. Quarter turns swap the axes.
func SwapForRotation(w, h, deg int) (int, int) {
	switch NormalizeDegrees(deg) {
	case 90, 270:
		return h, w
	default:
		return w, h
	}
}

// FitWithin downscales w*h preserving aspect ratio so that neither dimension
// exceeds maxEdge. Dimensions never drop below one pixel.
func FitWithin(w, h, maxEdge int) (int, int) {
	if maxEdge <= 0 || (w <= maxEdge && h <= maxEdge) {
		return w, h
	}
	scale := float64(maxEdge) / float64(w)
	if h > w {
		scale = float64(maxEdge) / float64(h)
	}
	w = int(math.Round(float64(w) * scale))
	h = int(math.Round(float64(h) * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// SourceRect resolves a percent-space crop rectangle against the source
// image dimensions, clamped to the source bounds. The result never shrinks
// below one pixel on either axis while the input is non-degenerate.
func SourceRect(crop Rect, srcW, srcH int) image.Rectangle {
	if crop.Empty() || srcW <= 0 || srcH <= 0 {
		return image.Rectangle{}
	}
	x0 := int(math.Round(crop.X / 100 * float64(srcW)))
	y0 := int(math.Round(crop.Y / 100 * float64(srcH)))
	x1 := int(math.Round(crop.MaxX() / 100 * float64(srcW)))
	y1 := int(math.Round(crop.MaxY() / 100 * float64(srcH)))
	r := image.Rect(x0, y0, x1, y1).Intersect(image.Rect(0, 0, srcW, srcH))
	if r.Dx() < 1 {
		r.Max.X = r.Min.X + 1
	}
	if r.Dy() < 1 {
		r.Max.Y = r.Min.Y + 1
	}
	return r.Intersect(image.Rect(0, 0, srcW, srcH))
}

// ParseAspect converts a "W:H" preset label into a ratio. "free" (or the
// empty string) yields 0, meaning unconstrained.
func ParseAspect(s string) (float64, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "free" {
		return 0, nil
	}
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid aspect ratio %q", s)
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid aspect ratio %q", s)
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid aspect ratio %q", s)
	}
	if w <= 0 || h <= 0 {
		return 0, fmt.Errorf("aspect ratio %q must be positive", s)
	}
	return w / h, nil
}
