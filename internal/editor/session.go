// Package editor ties the engine together: one Session owns the source
// image, the working document, the undo history and the three interaction
// tools, and routes pointer events to exactly one live gesture at a time.
package editor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"math"

	// Registered decoders for NewFromBytes.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/sirupsen/logrus"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/snapedit/internal/adjust"
	"github.com/example/snapedit/internal/compose"
	"github.com/example/snapedit/internal/config"
	"github.com/example/snapedit/internal/croptool"
	"github.com/example/snapedit/internal/document"
	"github.com/example/snapedit/internal/drawtool"
	"github.com/example/snapedit/internal/geom"
	"github.com/example/snapedit/internal/overlaytool"
)

// ActiveTool selects which interaction consumes pointer events.
type ActiveTool int

const (
	ToolSelect ActiveTool = iota
	ToolCrop
	ToolDraw
)

// Session is the editing facade for one image. It is not safe for
// concurrent use; hosts serialize calls per session.
type Session struct {
	cfg config.Config
	log logrus.FieldLogger

	src     *image.RGBA
	history *document.History
	doc     document.Document

	crop    *croptool.Tool
	overlay *overlaytool.Tool
	draw    *drawtool.Tool
	tool    ActiveTool

	brushColor string
	brushSize  float64
}

// Option configures a Session at construction.
type Option func(*Session)

// WithConfig installs a non-default configuration.
func WithConfig(cfg config.Config) Option {
	return func(s *Session) { s.cfg = cfg }
}

// WithLogger installs the session logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Session) { s.log = log }
}

// WithBrush overrides the initial brush color and size.
func WithBrush(color string, size float64) Option {
	return func(s *Session) {
		s.brushColor = color
		s.brushSize = size
	}
}

// New creates a session over src with an all-defaults document.
func New(src image.Image, opts ...Option) (*Session, error) {
	if src == nil || src.Bounds().Empty() {
		return nil, compose.ErrNoImage
	}
	s := &Session{
		cfg:     config.Default(),
		log:     logrus.StandardLogger(),
		src:     toRGBA(src),
		overlay: overlaytool.New(),
		draw:    drawtool.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.brushColor == "" {
		s.brushColor = s.cfg.DefaultBrushColor
	}
	if s.brushSize <= 0 {
		s.brushSize = s.cfg.DefaultBrushSize
	}

	doc := document.New()
	s.crop = croptool.New(doc.Crop, s.cfg.Aspect())
	doc.Crop = s.crop.Rect()
	s.doc = doc
	s.history = document.NewHistory(doc)
	return s, nil
}

// NewFromBytes decodes an encoded image (PNG, JPEG or GIF) and creates a
// session over it.
func NewFromBytes(data []byte, opts ...Option) (*Session, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("editor: decode image: %w", err)
	}
	s, err := New(img, opts...)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"format": format,
		"width":  s.src.Bounds().Dx(),
		"height": s.src.Bounds().Dy(),
	}).Debug("session opened")
	return s, nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// Config returns the active configuration.
func (s *Session) Config() config.Config { return s.cfg }

// Document returns a deep copy of the working document: the committed
// state plus uncommitted preview adjustments and in-progress overlay
// drags. A live crop drag or stroke capture stays inside its tool until
// release and does not appear in the snapshot.
func (s *Session) Document() document.Document { return s.doc.Clone() }

// Tool returns the active tool.
func (s *Session) Tool() ActiveTool { return s.tool }

// SetTool switches the active tool, aborting any gesture in flight so no
// half-finished drag leaks across tools.
func (s *Session) SetTool(t ActiveTool) {
	if t != s.tool {
		s.CancelGesture()
	}
	s.tool = t
}

// SetBrush changes the brush used by subsequent draw gestures.
func (s *Session) SetBrush(color string, size float64) {
	if color != "" {
		s.brushColor = color
	}
	if size > 0 {
		s.brushSize = size
	}
}

// Selected returns the current overlay selection, if any.
func (s *Session) Selected() (overlaytool.Selection, bool) {
	return s.overlay.Selected()
}

// commit snapshots the working document into the history.
func (s *Session) commit(op string) {
	s.history.Push(s.doc)
	s.log.WithFields(logrus.Fields{"op": op, "history": s.history.Len()}).Debug("commit")
}

// ApplyPreset replaces the adjustment vector with the preset's and records
// the preset as the active filter.
func (s *Session) ApplyPreset(id string) error {
	p, ok := adjust.PresetByID(id)
	if !ok {
		return fmt.Errorf("editor: unknown preset %q", id)
	}
	s.doc.Adjustments = p.Vector
	s.doc.FilterID = p.ID
	s.commit("preset:" + id)
	return nil
}

// PreviewAdjustment changes one channel without committing, for live
// slider feedback. The next SetAdjustment or other commit makes it stick;
// an undo discards it.
func (s *Session) PreviewAdjustment(ch adjust.Channel, value int) {
	s.doc.Adjustments = s.doc.Adjustments.Set(ch, value)
}

// SetAdjustment changes one channel and commits. Any manual change moves
// the document off its preset onto the custom filter.
func (s *Session) SetAdjustment(ch adjust.Channel, value int) {
	s.doc.Adjustments = s.doc.Adjustments.Set(ch, value)
	s.doc.FilterID = adjust.FilterCustom
	s.commit("adjust:" + string(ch))
}

// Rotate turns the base image by delta degrees, snapped to quarter turns.
func (s *Session) Rotate(delta int) {
	snapped := int(math.Round(float64(delta)/90)) * 90
	s.doc.Rotation = geom.NormalizeDegrees(s.doc.Rotation + snapped)
	s.commit("rotate")
}

// Reset restores the all-defaults document as a new committed state, so
// the reset itself is undoable.
func (s *Session) Reset() {
	doc := document.New()
	s.crop.SetRect(doc.Crop)
	doc.Crop = s.crop.Rect()
	s.doc = doc
	s.overlay.Deselect()
	s.commit("reset")
}

// AddText inserts a text overlay at the canvas center with the configured
// defaults, selects it and commits. The created overlay is returned.
func (s *Session) AddText(text string) document.TextOverlay {
	o := document.TextOverlay{
		ID:         document.NewID(),
		Text:       text,
		X:          50,
		Y:          50,
		FontSize:   s.cfg.DefaultTextSize,
		FontFamily: s.cfg.DefaultFont,
		Color:      "#FFFFFF",
	}
	s.doc.Texts = append(s.doc.Texts, o)
	s.overlay.Select(overlaytool.KindText, o.ID)
	s.commit("text:add")
	return o
}

// AddSticker inserts a sticker overlay at the canvas center, selects it
// and commits.
func (s *Session) AddSticker(kind document.StickerKind, label string) document.StickerOverlay {
	o := document.StickerOverlay{
		ID:    document.NewID(),
		Kind:  kind,
		Label: label,
		X:     50,
		Y:     50,
		Scale: 1,
	}
	s.doc.Stickers = append(s.doc.Stickers, o)
	s.overlay.Select(overlaytool.KindSticker, o.ID)
	s.commit("sticker:add")
	return o
}

// TextUpdate carries the fields of a text overlay to change; nil fields
// keep their current value.
type TextUpdate struct {
	Text       *string
	X, Y       *float64
	FontSize   *float64
	FontFamily *string
	Color      *string
	Rotation   *float64
}

// UpdateText merges u into the identified text overlay and commits.
func (s *Session) UpdateText(id string, u TextUpdate) error {
	i := s.doc.TextIndex(id)
	if i < 0 {
		return fmt.Errorf("editor: no text overlay %q", id)
	}
	o := &s.doc.Texts[i]
	if u.Text != nil {
		o.Text = *u.Text
	}
	if u.X != nil {
		o.X = geom.Clamp(*u.X, 0, 100)
	}
	if u.Y != nil {
		o.Y = geom.Clamp(*u.Y, 0, 100)
	}
	if u.FontSize != nil && *u.FontSize > 0 {
		o.FontSize = *u.FontSize
	}
	if u.FontFamily != nil {
		o.FontFamily = *u.FontFamily
	}
	if u.Color != nil {
		o.Color = *u.Color
	}
	if u.Rotation != nil {
		o.Rotation = *u.Rotation
	}
	s.commit("text:update")
	return nil
}

// StickerUpdate carries the fields of a sticker overlay to change; nil
// fields keep their current value.
type StickerUpdate struct {
	Label    *string
	X, Y     *float64
	Scale    *float64
	Rotation *float64
}

// UpdateSticker merges u into the identified sticker overlay and commits.
func (s *Session) UpdateSticker(id string, u StickerUpdate) error {
	i := s.doc.StickerIndex(id)
	if i < 0 {
		return fmt.Errorf("editor: no sticker overlay %q", id)
	}
	o := &s.doc.Stickers[i]
	if u.Label != nil {
		o.Label = *u.Label
	}
	if u.X != nil {
		o.X = geom.Clamp(*u.X, 0, 100)
	}
	if u.Y != nil {
		o.Y = geom.Clamp(*u.Y, 0, 100)
	}
	if u.Scale != nil && *u.Scale > 0 {
		o.Scale = *u.Scale
	}
	if u.Rotation != nil {
		o.Rotation = *u.Rotation
	}
	s.commit("sticker:update")
	return nil
}

// DeleteOverlay removes the text or sticker overlay with the given id,
// clearing the selection when it pointed at it.
func (s *Session) DeleteOverlay(id string) error {
	if i := s.doc.TextIndex(id); i >= 0 {
		s.doc.Texts = append(s.doc.Texts[:i], s.doc.Texts[i+1:]...)
		s.overlay.ClearIf(id)
		s.commit("text:delete")
		return nil
	}
	if i := s.doc.StickerIndex(id); i >= 0 {
		s.doc.Stickers = append(s.doc.Stickers[:i], s.doc.Stickers[i+1:]...)
		s.overlay.ClearIf(id)
		s.commit("sticker:delete")
		return nil
	}
	return fmt.Errorf("editor: no overlay %q", id)
}

// ClearStrokes removes every committed stroke in one undoable step.
func (s *Session) ClearStrokes() {
	if len(s.doc.Strokes) == 0 {
		return
	}
	s.doc.Strokes = nil
	s.commit("strokes:clear")
}

// AddStroke appends a finished stroke directly, bypassing capture. Script
// replay uses it; the stroke still obeys the two-point minimum.
func (s *Session) AddStroke(stroke document.Stroke) error {
	if len(stroke.Points) < 2 {
		return fmt.Errorf("editor: stroke needs at least 2 points, got %d", len(stroke.Points))
	}
	if stroke.ID == "" {
		stroke.ID = document.NewID()
	}
	for i, p := range stroke.Points {
		stroke.Points[i] = p.Clamped()
	}
	if stroke.BrushSize <= 0 {
		stroke.BrushSize = s.brushSize
	}
	if stroke.Color == "" {
		stroke.Color = s.brushColor
	}
	s.doc.Strokes = append(s.doc.Strokes, stroke.Clone())
	s.commit("stroke:add")
	return nil
}

// SetCrop replaces the crop rectangle outside of a gesture. The rectangle
// is clamped and aspect-reconciled, never rejected.
func (s *Session) SetCrop(r geom.Rect) {
	s.crop.SetRect(r)
	s.doc.Crop = s.crop.Rect()
	s.commit("crop:set")
}

// SetAspect installs a crop ratio constraint ("free" disables it) and
// commits the reconciled rectangle.
func (s *Session) SetAspect(spec string) error {
	ratio, err := geom.ParseAspect(spec)
	if err != nil {
		return fmt.Errorf("editor: %w", err)
	}
	s.crop.SetAspect(ratio)
	s.doc.Crop = s.crop.Rect()
	s.commit("crop:aspect")
	return nil
}

// CanUndo reports whether an undo target exists.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether a redo target exists.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// Undo aborts any live gesture and steps the history back.
func (s *Session) Undo() bool {
	s.CancelGesture()
	doc, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.restore(doc)
	return true
}

// Redo steps the history forward.
func (s *Session) Redo() bool {
	s.CancelGesture()
	doc, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.restore(doc)
	return true
}

func (s *Session) restore(doc document.Document) {
	s.doc = doc
	s.crop.SetRect(doc.Crop)
	if sel, ok := s.overlay.Selected(); ok {
		if doc.TextIndex(sel.ID) < 0 && doc.StickerIndex(sel.ID) < 0 {
			s.overlay.Deselect()
		}
	}
}

// CancelGesture aborts whatever gesture is in flight, restoring the
// pre-gesture state. It is safe to call when nothing is active.
func (s *Session) CancelGesture() {
	s.crop.Cancel()
	s.overlay.Cancel(&s.doc)
	s.draw.Cancel()
}

// HandlePointer routes a pointer event in container pixels to the active
// tool. Only one gesture can be live at a time because only the active
// tool ever sees events. A release outside the canvas aborts the gesture
// instead of committing it.
func (s *Session) HandlePointer(e mouse.Event, containerW, containerH float64) {
	if containerW <= 0 || containerH <= 0 {
		return
	}
	if e.Direction == mouse.DirRelease && outsideCanvas(e, containerW, containerH) {
		s.CancelGesture()
		return
	}
	switch s.tool {
	case ToolCrop:
		if rect, committed := s.crop.HandleMouse(e, containerW, containerH); committed {
			s.doc.Crop = rect
			s.commit("crop:drag")
		}
	case ToolDraw:
		if stroke, committed := s.draw.HandleMouse(e, containerW, containerH, s.brushColor, s.brushSize); committed {
			s.doc.Strokes = append(s.doc.Strokes, stroke)
			s.commit("stroke:draw")
		}
	default:
		if s.overlay.HandleMouse(&s.doc, e, containerW, containerH) {
			s.commit("overlay:drag")
		}
	}
}

func outsideCanvas(e mouse.Event, w, h float64) bool {
	x := float64(e.X) / w * 100
	y := float64(e.Y) / h * 100
	return x < 0 || x > 100 || y < 0 || y > 100
}

// Export flattens the working document and encodes it as JPEG.
func (s *Session) Export(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := compose.Export(s.src, s.doc, s.cfg.ComposeOptions())
	if err != nil {
		s.log.WithError(err).Error("export failed")
		return nil, err
	}
	s.log.WithField("bytes", len(data)).Debug("export done")
	return data, nil
}

// ExportAsync runs Export on its own goroutine and delivers the result to
// done. The working document is snapshotted up front so edits made while
// the export runs do not leak into it.
func (s *Session) ExportAsync(ctx context.Context, done func([]byte, error)) {
	src := s.src
	doc := s.doc.Clone()
	opts := s.cfg.ComposeOptions()
	log := s.log
	go func() {
		if err := ctx.Err(); err != nil {
			done(nil, err)
			return
		}
		data, err := compose.Export(src, doc, opts)
		if err != nil {
			log.WithError(err).Error("async export failed")
		}
		done(data, err)
	}()
}
