// Package overlaytool implements selection and drag-to-move for text and
// sticker overlays. Selection is exclusive: picking one overlay deselects
// whatever was selected before.
package overlaytool

import (
	"golang.org/x/mobile/event/mouse"

	"github.com/example/snapedit/internal/document"
	"github.com/example/snapedit/internal/geom"
)

// OverlayKind tags which overlay list a selection refers to.
type OverlayKind int

const (
	KindText OverlayKind = iota
	KindSticker
)

// Selection names one overlay.
type Selection struct {
	Kind OverlayKind
	ID   string
}

// Hit radius around an overlay's anchor, in percent of the canvas.
const hitRadiusPct = 6.0

// Tool is the overlay interaction state machine. Drags mutate the working
// document in place; committing on release is the caller's job.
type Tool struct {
	selected    *Selection
	dragging    bool
	dragStart   geom.Point
	overlayBase geom.Point
}

// New creates an idle tool with nothing selected.
func New() *Tool { return &Tool{} }

// Selected returns the current selection, if any.
func (t *Tool) Selected() (Selection, bool) {
	if t.selected == nil {
		return Selection{}, false
	}
	return *t.selected, true
}

// Select makes the overlay the exclusive selection.
func (t *Tool) Select(kind OverlayKind, id string) {
	t.selected = &Selection{Kind: kind, ID: id}
}

// Deselect clears the selection.
func (t *Tool) Deselect() { t.selected = nil }

// ClearIf drops the selection when it refers to id.
func (t *Tool) ClearIf(id string) {
	if t.selected != nil && t.selected.ID == id {
		t.selected = nil
	}
}

// Dragging reports whether a drag gesture is live.
func (t *Tool) Dragging() bool { return t.dragging }

// HitTest finds the topmost overlay under p. Later list entries paint on
// top, so they win the hit.
func HitTest(doc *document.Document, p geom.Point) (Selection, bool) {
	for i := len(doc.Stickers) - 1; i >= 0; i-- {
		s := doc.Stickers[i]
		if (geom.Point{X: s.X, Y: s.Y}).Dist(p) <= hitRadiusPct {
			return Selection{Kind: KindSticker, ID: s.ID}, true
		}
	}
	for i := len(doc.Texts) - 1; i >= 0; i-- {
		o := doc.Texts[i]
		if (geom.Point{X: o.X, Y: o.Y}).Dist(p) <= hitRadiusPct {
			return Selection{Kind: KindText, ID: o.ID}, true
		}
	}
	return Selection{}, false
}

// Begin starts a drag at p. The overlay under the pointer becomes the
// selection; pressing empty canvas deselects and returns false.
func (t *Tool) Begin(doc *document.Document, p geom.Point) bool {
	if t.dragging {
		return false
	}
	sel, ok := HitTest(doc, p)
	if !ok {
		t.selected = nil
		return false
	}
	t.selected = &sel
	base, ok := overlayPos(doc, sel)
	if !ok {
		t.selected = nil
		return false
	}
	t.dragging = true
	t.dragStart = p
	t.overlayBase = base
	return true
}

// Move translates the dragged overlay by the pointer delta, clamped to the
// canvas on each axis.
func (t *Tool) Move(doc *document.Document, p geom.Point) {
	if !t.dragging || t.selected == nil {
		return
	}
	d := p.Sub(t.dragStart)
	pos := geom.Point{X: t.overlayBase.X + d.X, Y: t.overlayBase.Y + d.Y}.Clamped()
	setOverlayPos(doc, *t.selected, pos)
}

// End finishes the drag; the return value says whether there is a gesture
// for the caller to commit.
func (t *Tool) End() bool {
	was := t.dragging
	t.dragging = false
	return was
}

// Cancel aborts the drag and puts the overlay back where it started.
func (t *Tool) Cancel(doc *document.Document) {
	if !t.dragging || t.selected == nil {
		t.dragging = false
		return
	}
	setOverlayPos(doc, *t.selected, t.overlayBase)
	t.dragging = false
}

func overlayPos(doc *document.Document, sel Selection) (geom.Point, bool) {
	switch sel.Kind {
	case KindText:
		if i := doc.TextIndex(sel.ID); i >= 0 {
			return geom.Point{X: doc.Texts[i].X, Y: doc.Texts[i].Y}, true
		}
	case KindSticker:
		if i := doc.StickerIndex(sel.ID); i >= 0 {
			return geom.Point{X: doc.Stickers[i].X, Y: doc.Stickers[i].Y}, true
		}
	}
	return geom.Point{}, false
}

func setOverlayPos(doc *document.Document, sel Selection, pos geom.Point) {
	switch sel.Kind {
	case KindText:
		if i := doc.TextIndex(sel.ID); i >= 0 {
			doc.Texts[i].X, doc.Texts[i].Y = pos.X, pos.Y
		}
	case KindSticker:
		if i := doc.StickerIndex(sel.ID); i >= 0 {
			doc.Stickers[i].X, doc.Stickers[i].Y = pos.X, pos.Y
		}
	}
}

// HandleMouse drives the state machine from a pointer event in container
// pixels. It returns true when the event completed a drag to commit.
func (t *Tool) HandleMouse(doc *document.Document, e mouse.Event, containerW, containerH float64) bool {
	if containerW <= 0 || containerH <= 0 {
		return false
	}
	p := geom.Point{
		X: float64(e.X) / containerW * 100,
		Y: float64(e.Y) / containerH * 100,
	}
	switch e.Direction {
	case mouse.DirPress:
		t.Begin(doc, p)
	case mouse.DirNone:
		t.Move(doc, p)
	case mouse.DirRelease:
		if t.dragging {
			t.Move(doc, p)
			return t.End()
		}
	}
	return false
}
