package editor

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/snapedit/internal/adjust"
	"github.com/example/snapedit/internal/document"
	"github.com/example/snapedit/internal/geom"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	return img
}

func newSession(t *testing.T) *Session {
	t.Helper()
	s, err := New(testImage(200, 160))
	require.NoError(t, err)
	return s
}

func TestNewRejectsMissingImage(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestNewFromBytesDecodesPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(32, 32)))

	s, err := NewFromBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, geom.FullRect(), s.Document().Crop)
}

func TestPresetThenManualAdjustment(t *testing.T) {
	s := newSession(t)

	require.NoError(t, s.ApplyPreset("bw"))
	doc := s.Document()
	assert.Equal(t, "bw", doc.FilterID)
	assert.Equal(t, adjust.Vector{Brightness: 0, Contrast: 10, Saturation: -100, Exposure: 0}, doc.Adjustments)

	s.SetAdjustment(adjust.ChannelContrast, 20)
	doc = s.Document()
	assert.Equal(t, adjust.FilterCustom, doc.FilterID)
	assert.Equal(t, 20, doc.Adjustments.Contrast)
	assert.Equal(t, -100, doc.Adjustments.Saturation)
	assert.Equal(t, 0, doc.Adjustments.Brightness)
}

func TestUnknownPresetIsAnError(t *testing.T) {
	s := newSession(t)
	assert.Error(t, s.ApplyPreset("sepia-dream"))
	assert.False(t, s.CanUndo())
}

func TestPreviewAdjustmentDoesNotCommit(t *testing.T) {
	s := newSession(t)

	s.PreviewAdjustment(adjust.ChannelBrightness, 40)
	assert.Equal(t, 40, s.Document().Adjustments.Brightness)
	assert.False(t, s.CanUndo())

	// Committing makes it stick together with the commit's own change.
	s.SetAdjustment(adjust.ChannelContrast, 10)
	assert.True(t, s.CanUndo())
	assert.Equal(t, 40, s.Document().Adjustments.Brightness)
}

func TestHistoryTruncatesOnPush(t *testing.T) {
	s := newSession(t)

	s.SetAdjustment(adjust.ChannelBrightness, 10) // A
	s.SetAdjustment(adjust.ChannelBrightness, 20) // B
	require.True(t, s.Undo())
	s.SetAdjustment(adjust.ChannelBrightness, 30) // C

	assert.False(t, s.CanRedo())
	assert.Equal(t, 30, s.Document().Adjustments.Brightness)

	require.True(t, s.Undo())
	assert.Equal(t, 10, s.Document().Adjustments.Brightness)
}

func TestRotateSnapsToQuarterTurns(t *testing.T) {
	s := newSession(t)
	s.Rotate(90)
	assert.Equal(t, 90, s.Document().Rotation)
	s.Rotate(90)
	s.Rotate(90)
	s.Rotate(90)
	assert.Equal(t, 0, s.Document().Rotation)
	s.Rotate(-90)
	assert.Equal(t, 270, s.Document().Rotation)
}

func TestAddTextSelectsAndCommits(t *testing.T) {
	s := newSession(t)
	o := s.AddText("caption")

	doc := s.Document()
	require.Len(t, doc.Texts, 1)
	assert.Equal(t, 50.0, doc.Texts[0].X)
	assert.Equal(t, 50.0, doc.Texts[0].Y)
	assert.Equal(t, "caption", doc.Texts[0].Text)

	sel, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, o.ID, sel.ID)
	assert.True(t, s.CanUndo())
}

func TestUpdateTextMergesPartialFields(t *testing.T) {
	s := newSession(t)
	o := s.AddText("caption")

	size := 48.0
	col := "#FF0000"
	require.NoError(t, s.UpdateText(o.ID, TextUpdate{FontSize: &size, Color: &col}))

	doc := s.Document()
	assert.Equal(t, 48.0, doc.Texts[0].FontSize)
	assert.Equal(t, "#FF0000", doc.Texts[0].Color)
	assert.Equal(t, "caption", doc.Texts[0].Text)

	assert.Error(t, s.UpdateText("missing", TextUpdate{Color: &col}))
}

func TestDeleteOverlayClearsSelection(t *testing.T) {
	s := newSession(t)
	o := s.AddSticker(document.StickerBadge, "NEW")

	require.NoError(t, s.DeleteOverlay(o.ID))
	_, ok := s.Selected()
	assert.False(t, ok)
	assert.Empty(t, s.Document().Stickers)
	assert.Error(t, s.DeleteOverlay(o.ID))
}

func TestDrawGestureCommitsStroke(t *testing.T) {
	s := newSession(t)
	s.SetTool(ToolDraw)

	s.HandlePointer(mouse.Event{X: 20, Y: 20, Direction: mouse.DirPress, Button: mouse.ButtonLeft}, 200, 160)
	s.HandlePointer(mouse.Event{X: 100, Y: 80, Direction: mouse.DirNone}, 200, 160)
	s.HandlePointer(mouse.Event{X: 150, Y: 120, Direction: mouse.DirRelease, Button: mouse.ButtonLeft}, 200, 160)

	doc := s.Document()
	require.Len(t, doc.Strokes, 1)
	assert.GreaterOrEqual(t, len(doc.Strokes[0].Points), 2)
	assert.True(t, s.CanUndo())
}

func TestTapWithDrawToolIsDiscarded(t *testing.T) {
	s := newSession(t)
	s.SetTool(ToolDraw)

	s.HandlePointer(mouse.Event{X: 20, Y: 20, Direction: mouse.DirPress, Button: mouse.ButtonLeft}, 200, 160)
	s.HandlePointer(mouse.Event{X: 20, Y: 20, Direction: mouse.DirRelease, Button: mouse.ButtonLeft}, 200, 160)

	assert.Empty(t, s.Document().Strokes)
	assert.False(t, s.CanUndo())
}

func TestReleaseOutsideCanvasAbortsGesture(t *testing.T) {
	s := newSession(t)
	s.SetTool(ToolCrop)
	before := s.Document().Crop

	// Grab the SE corner and drag, then release outside the container.
	s.HandlePointer(mouse.Event{X: 200, Y: 160, Direction: mouse.DirPress, Button: mouse.ButtonLeft}, 200, 160)
	s.HandlePointer(mouse.Event{X: 120, Y: 100, Direction: mouse.DirNone}, 200, 160)
	s.HandlePointer(mouse.Event{X: -40, Y: -40, Direction: mouse.DirRelease, Button: mouse.ButtonLeft}, 200, 160)

	assert.Equal(t, before, s.Document().Crop)
	assert.False(t, s.CanUndo())
}

func TestDocumentSnapshotExcludesLiveCropAndStroke(t *testing.T) {
	s := newSession(t)

	// A crop drag in flight lives in the tool, not the document.
	s.SetTool(ToolCrop)
	s.HandlePointer(mouse.Event{X: 200, Y: 160, Direction: mouse.DirPress, Button: mouse.ButtonLeft}, 200, 160)
	s.HandlePointer(mouse.Event{X: 120, Y: 100, Direction: mouse.DirNone}, 200, 160)
	assert.Equal(t, geom.FullRect(), s.Document().Crop)
	s.CancelGesture()

	// Same for a stroke still being captured.
	s.SetTool(ToolDraw)
	s.HandlePointer(mouse.Event{X: 20, Y: 20, Direction: mouse.DirPress, Button: mouse.ButtonLeft}, 200, 160)
	s.HandlePointer(mouse.Event{X: 100, Y: 80, Direction: mouse.DirNone}, 200, 160)
	assert.Empty(t, s.Document().Strokes)
	s.CancelGesture()

	// An overlay drag mutates the working document immediately.
	o := s.AddText("live")
	s.SetTool(ToolSelect)
	s.HandlePointer(mouse.Event{X: 100, Y: 80, Direction: mouse.DirPress, Button: mouse.ButtonLeft}, 200, 160)
	s.HandlePointer(mouse.Event{X: 140, Y: 112, Direction: mouse.DirNone}, 200, 160)
	doc := s.Document()
	i := doc.TextIndex(o.ID)
	require.GreaterOrEqual(t, i, 0)
	assert.InDelta(t, 70.0, doc.Texts[i].X, 1e-9)
	s.CancelGesture()
}

func TestCropDragCommits(t *testing.T) {
	s := newSession(t)
	s.SetTool(ToolCrop)

	s.HandlePointer(mouse.Event{X: 200, Y: 160, Direction: mouse.DirPress, Button: mouse.ButtonLeft}, 200, 160)
	s.HandlePointer(mouse.Event{X: 120, Y: 100, Direction: mouse.DirNone}, 200, 160)
	s.HandlePointer(mouse.Event{X: 120, Y: 100, Direction: mouse.DirRelease, Button: mouse.ButtonLeft}, 200, 160)

	doc := s.Document()
	assert.InDelta(t, 60.0, doc.Crop.W, 1e-9)
	assert.InDelta(t, 62.5, doc.Crop.H, 1e-9)
	assert.True(t, s.CanUndo())
}

func TestOverlayDragCommits(t *testing.T) {
	s := newSession(t)
	o := s.AddText("move me")
	s.SetTool(ToolSelect)

	s.HandlePointer(mouse.Event{X: 100, Y: 80, Direction: mouse.DirPress, Button: mouse.ButtonLeft}, 200, 160)
	s.HandlePointer(mouse.Event{X: 140, Y: 112, Direction: mouse.DirNone}, 200, 160)
	s.HandlePointer(mouse.Event{X: 140, Y: 112, Direction: mouse.DirRelease, Button: mouse.ButtonLeft}, 200, 160)

	doc := s.Document()
	i := doc.TextIndex(o.ID)
	require.GreaterOrEqual(t, i, 0)
	assert.InDelta(t, 70.0, doc.Texts[i].X, 1e-9)
	assert.InDelta(t, 70.0, doc.Texts[i].Y, 1e-9)
}

func TestUndoRestoresCropTool(t *testing.T) {
	s := newSession(t)
	s.SetCrop(geom.Rect{X: 10, Y: 10, W: 50, H: 50})
	require.True(t, s.Undo())
	assert.Equal(t, geom.FullRect(), s.Document().Crop)
	require.True(t, s.Redo())
	assert.Equal(t, geom.Rect{X: 10, Y: 10, W: 50, H: 50}, s.Document().Crop)
}

func TestAddStrokeValidatesPointCount(t *testing.T) {
	s := newSession(t)
	err := s.AddStroke(document.Stroke{Points: []geom.Point{{X: 10, Y: 10}}})
	assert.Error(t, err)

	err = s.AddStroke(document.Stroke{Points: []geom.Point{{X: 10, Y: 10}, {X: 40, Y: 40}}})
	require.NoError(t, err)
	doc := s.Document()
	require.Len(t, doc.Strokes, 1)
	assert.NotEmpty(t, doc.Strokes[0].ID)
	assert.Equal(t, s.cfg.DefaultBrushColor, doc.Strokes[0].Color)
}

func TestExportProducesJPEG(t *testing.T) {
	s := newSession(t)
	data, err := s.Export(context.Background())
	require.NoError(t, err)
	require.Greater(t, len(data), 2)
	assert.Equal(t, []byte{0xFF, 0xD8}, data[:2])
}

func TestExportAsyncDeliversResult(t *testing.T) {
	s := newSession(t)
	done := make(chan []byte, 1)
	s.ExportAsync(context.Background(), func(data []byte, err error) {
		require.NoError(t, err)
		done <- data
	})
	select {
	case data := <-done:
		assert.NotEmpty(t, data)
	case <-time.After(10 * time.Second):
		t.Fatal("async export timed out")
	}
}

func TestExportHonorsCancelledContext(t *testing.T) {
	s := newSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Export(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
