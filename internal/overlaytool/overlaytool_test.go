package overlaytool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/snapedit/internal/document"
	"github.com/example/snapedit/internal/geom"
)

func docWithOverlays() (*document.Document, string, string) {
	doc := document.New()
	textID := document.NewID()
	stickerID := document.NewID()
	doc.Texts = append(doc.Texts, document.TextOverlay{ID: textID, Text: "hello", X: 50, Y: 50})
	doc.Stickers = append(doc.Stickers, document.StickerOverlay{
		ID: stickerID, Kind: document.StickerBadge, Label: "NEW", X: 20, Y: 20, Scale: 1,
	})
	return &doc, textID, stickerID
}

func TestSelectionIsExclusive(t *testing.T) {
	tool := New()
	tool.Select(KindText, "a")
	sel, ok := tool.Selected()
	require.True(t, ok)
	assert.Equal(t, Selection{Kind: KindText, ID: "a"}, sel)

	tool.Select(KindSticker, "b")
	sel, _ = tool.Selected()
	assert.Equal(t, Selection{Kind: KindSticker, ID: "b"}, sel)

	tool.ClearIf("other")
	_, ok = tool.Selected()
	assert.True(t, ok)
	tool.ClearIf("b")
	_, ok = tool.Selected()
	assert.False(t, ok)
}

func TestDragRoundTrip(t *testing.T) {
	doc, textID, _ := docWithOverlays()
	tool := New()

	require.True(t, tool.Begin(doc, geom.Point{X: 50, Y: 50}))
	tool.Move(doc, geom.Point{X: 62, Y: 41})
	require.True(t, tool.End())

	i := doc.TextIndex(textID)
	assert.InDelta(t, 62.0, doc.Texts[i].X, 1e-9)
	assert.InDelta(t, 41.0, doc.Texts[i].Y, 1e-9)

	// Dragging back by the inverse vector restores the original position.
	require.True(t, tool.Begin(doc, geom.Point{X: 62, Y: 41}))
	tool.Move(doc, geom.Point{X: 50, Y: 50})
	require.True(t, tool.End())
	assert.InDelta(t, 50.0, doc.Texts[i].X, 1e-9)
	assert.InDelta(t, 50.0, doc.Texts[i].Y, 1e-9)
}

func TestDragClampsToCanvas(t *testing.T) {
	doc, textID, _ := docWithOverlays()
	tool := New()
	require.True(t, tool.Begin(doc, geom.Point{X: 50, Y: 50}))
	tool.Move(doc, geom.Point{X: 500, Y: -500})
	tool.End()
	i := doc.TextIndex(textID)
	assert.Equal(t, 100.0, doc.Texts[i].X)
	assert.Equal(t, 0.0, doc.Texts[i].Y)
}

func TestBeginSelectsHitAndDeselectsMiss(t *testing.T) {
	doc, _, stickerID := docWithOverlays()
	tool := New()

	require.True(t, tool.Begin(doc, geom.Point{X: 21, Y: 19}))
	sel, ok := tool.Selected()
	require.True(t, ok)
	assert.Equal(t, Selection{Kind: KindSticker, ID: stickerID}, sel)
	tool.End()

	// Pressing empty canvas clears the selection.
	assert.False(t, tool.Begin(doc, geom.Point{X: 90, Y: 90}))
	_, ok = tool.Selected()
	assert.False(t, ok)
}

func TestTopmostOverlayWinsHit(t *testing.T) {
	doc := document.New()
	bottom := document.NewID()
	top := document.NewID()
	doc.Texts = append(doc.Texts,
		document.TextOverlay{ID: bottom, X: 50, Y: 50},
		document.TextOverlay{ID: top, X: 51, Y: 50},
	)
	sel, ok := HitTest(&doc, geom.Point{X: 50, Y: 50})
	require.True(t, ok)
	assert.Equal(t, top, sel.ID)
}

func TestCancelRestoresPosition(t *testing.T) {
	doc, textID, _ := docWithOverlays()
	tool := New()
	require.True(t, tool.Begin(doc, geom.Point{X: 50, Y: 50}))
	tool.Move(doc, geom.Point{X: 80, Y: 80})
	tool.Cancel(doc)

	i := doc.TextIndex(textID)
	assert.Equal(t, 50.0, doc.Texts[i].X)
	assert.Equal(t, 50.0, doc.Texts[i].Y)
	assert.False(t, tool.Dragging())
	assert.False(t, tool.End())
}
