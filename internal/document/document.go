// Package document holds the canonical edit document and its linear
// undo/redo history. A Document is a value: committing a gesture clones it
// into the history, so an undo restores every field exactly as it was.
package document

import (
	"github.com/google/uuid"

	"github.com/example/snapedit/internal/adjust"
	"github.com/example/snapedit/internal/geom"
)

// StickerKind distinguishes the two sticker render styles.
type StickerKind string

const (
	StickerBadge StickerKind = "badge"
	StickerEmoji StickerKind = "emoji"
)

// TextOverlay is a positioned text annotation. Coordinates are percentages
// of the displayed canvas; insertion order is the compositing order.
type TextOverlay struct {
	ID         string
	Text       string
	X          float64
	Y          float64
	FontSize   float64 // pixels at the reference preview width
	FontFamily string
	Color      string // hex, e.g. "#FFFFFF"
	Rotation   float64 // degrees
}

// StickerOverlay is a badge or emoji annotation.
type StickerOverlay struct {
	ID       string
	Kind     StickerKind
	Label    string
	X        float64
	Y        float64
	Scale    float64
	Rotation float64
}

// Stroke is one committed freehand poly-line. Strokes are immutable once
// committed; the only mutation is whole-list clearing.
type Stroke struct {
	ID        string
	Points    []geom.Point
	Color     string
	BrushSize float64 // pixels at the reference preview width
}

// Clone deep-copies the stroke.
func (s Stroke) Clone() Stroke {
	s.Points = append([]geom.Point(nil), s.Points...)
	return s
}

// Document is the versioned, in-memory description of all edits applied to
// one image. All coordinates are normalized so the document is independent
// of zoom and viewport size.
type Document struct {
	Rotation    int // degrees, one of 0/90/180/270
	FilterID    string
	Adjustments adjust.Vector
	Crop        geom.Rect
	Texts       []TextOverlay
	Stickers    []StickerOverlay
	Strokes     []Stroke
}

// New returns the all-defaults document: no rotation, identity filter and a
// full-frame crop.
func New() Document {
	return Document{
		Rotation: 0,
		FilterID: adjust.FilterOriginal,
		Crop:     geom.FullRect(),
	}
}

// Clone deep-copies the document so the copy shares no slices with d.
func (d Document) Clone() Document {
	d.Texts = append([]TextOverlay(nil), d.Texts...)
	d.Stickers = append([]StickerOverlay(nil), d.Stickers...)
	strokes := make([]Stroke, len(d.Strokes))
	for i, s := range d.Strokes {
		strokes[i] = s.Clone()
	}
	d.Strokes = strokes
	return d
}

// TextIndex returns the position of the text overlay with the given id, or
// -1 when absent.
func (d Document) TextIndex(id string) int {
	for i := range d.Texts {
		if d.Texts[i].ID == id {
			return i
		}
	}
	return -1
}

// StickerIndex returns the position of the sticker overlay with the given
// id, or -1 when absent.
func (d Document) StickerIndex(id string) int {
	for i := range d.Stickers {
		if d.Stickers[i].ID == id {
			return i
		}
	}
	return -1
}

// NewID mints an identifier for overlays and strokes.
func NewID() string { return uuid.NewString() }
