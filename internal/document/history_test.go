package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/snapedit/internal/adjust"
	"github.com/example/snapedit/internal/geom"
)

func docWithRotation(deg int) Document {
	d := New()
	d.Rotation = deg
	return d
}

func TestHistoryTruncationOnPush(t *testing.T) {
	h := NewHistory(New())
	a := docWithRotation(90)
	b := docWithRotation(180)
	c := docWithRotation(270)

	h.Push(a)
	h.Push(b)

	_, ok := h.Undo()
	require.True(t, ok)
	require.True(t, h.CanRedo())

	h.Push(c)

	// The redo tail must be gone and the current document must equal c.
	assert.False(t, h.CanRedo())
	assert.Equal(t, 270, h.Current().Rotation)
	assert.Equal(t, 3, h.Len())

	got, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, 90, got.Rotation)
}

func TestHistoryUndoRedoBounds(t *testing.T) {
	h := NewHistory(New())
	_, ok := h.Undo()
	assert.False(t, ok)
	_, ok = h.Redo()
	assert.False(t, ok)

	h.Push(docWithRotation(90))
	got, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, 0, got.Rotation)
	got, ok = h.Redo()
	require.True(t, ok)
	assert.Equal(t, 90, got.Rotation)
	assert.False(t, h.CanRedo())
}

func TestHistorySnapshotsAreIsolated(t *testing.T) {
	d := New()
	d.Strokes = append(d.Strokes, Stroke{
		ID:     NewID(),
		Points: []geom.Point{{X: 1, Y: 1}, {X: 2, Y: 2}},
		Color:  "#FF0000",
	})
	h := NewHistory(New())
	h.Push(d)

	// Mutating the pushed value afterwards must not leak into the snapshot.
	d.Strokes[0].Points[0] = geom.Point{X: 99, Y: 99}
	d.Strokes = nil

	cur := h.Current()
	require.Len(t, cur.Strokes, 1)
	assert.Equal(t, geom.Point{X: 1, Y: 1}, cur.Strokes[0].Points[0])

	// Same for the value handed back by Current.
	cur.Strokes[0].Color = "#000000"
	assert.Equal(t, "#FF0000", h.Current().Strokes[0].Color)
}

func TestDocumentDefaults(t *testing.T) {
	d := New()
	assert.Equal(t, 0, d.Rotation)
	assert.Equal(t, adjust.FilterOriginal, d.FilterID)
	assert.True(t, d.Adjustments.IsZero())
	assert.Equal(t, geom.FullRect(), d.Crop)
	assert.Empty(t, d.Texts)
	assert.Empty(t, d.Stickers)
	assert.Empty(t, d.Strokes)
}

func TestOverlayIndexLookups(t *testing.T) {
	d := New()
	id := NewID()
	d.Texts = append(d.Texts, TextOverlay{ID: id, Text: "hi"})
	assert.Equal(t, 0, d.TextIndex(id))
	assert.Equal(t, -1, d.TextIndex("missing"))
	assert.Equal(t, -1, d.StickerIndex(id))

	sid := NewID()
	d.Stickers = append(d.Stickers, StickerOverlay{ID: sid, Kind: StickerBadge, Label: "NEW"})
	assert.Equal(t, 0, d.StickerIndex(sid))
}
