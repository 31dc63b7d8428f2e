// Package compose flattens an edit document against its source image:
// crop, rotation, color adjustments, strokes and overlays are rasterized
// into one output image and encoded to JPEG. The adjustment math is the
// shared descriptor from the adjust package, so the export matches the
// preview exactly.
package compose

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/example/snapedit/internal/adjust"
	"github.com/example/snapedit/internal/document"
	"github.com/example/snapedit/internal/geom"
)

// Export precondition and encode failures. Geometry problems never reach
// here; they are clamped long before export.
var (
	ErrNoImage = errors.New("compose: no source image")
	ErrNoCrop  = errors.New("compose: no crop region")
	ErrEncode  = errors.New("compose: encoder produced no data")
)

// Overlay metrics are expressed relative to the reference preview width and
// scaled by outputWidth/ReferenceWidth at render time.
const (
	defaultTextSizePx = 24.0
	badgeFontSizePx   = 16.0
	emojiFontSizePx   = 32.0
)

// Options bound the output raster.
type Options struct {
	// MaxOutputEdge caps the longest output dimension; 0 disables the cap.
	MaxOutputEdge int
	// JPEGQuality is the encoder quality (1-100).
	JPEGQuality int
	// ReferenceWidth is the preview width overlay metrics are relative to.
	ReferenceWidth float64
}

// DefaultOptions returns the production configuration.
func DefaultOptions() Options {
	return Options{
		MaxOutputEdge:  1920,
		JPEGQuality:    90,
		ReferenceWidth: 640,
	}
}

func (o Options) normalized() Options {
	if o.JPEGQuality <= 0 || o.JPEGQuality > 100 {
		o.JPEGQuality = DefaultOptions().JPEGQuality
	}
	if o.ReferenceWidth <= 0 {
		o.ReferenceWidth = DefaultOptions().ReferenceWidth
	}
	if o.MaxOutputEdge < 0 {
		o.MaxOutputEdge = 0
	}
	return o
}

// Render flattens doc against src and returns the output canvas. It fails
// fast when the source image or the crop region is missing.
func Render(src *image.RGBA, doc document.Document, opts Options) (*image.RGBA, error) {
	if src == nil || src.Bounds().Empty() {
		return nil, ErrNoImage
	}
	if doc.Crop.Empty() {
		return nil, ErrNoCrop
	}
	opts = opts.normalized()

	srcRect := geom.SourceRect(doc.Crop, src.Bounds().Dx(), src.Bounds().Dy())
	if srcRect.Empty() {
		return nil, ErrNoCrop
	}

	rot := geom.NormalizeDegrees(doc.Rotation)
	outW, outH := geom.SwapForRotation(srcRect.Dx(), srcRect.Dy(), rot)
	outW, outH = geom.FitWithin(outW, outH, opts.MaxOutputEdge)

	base := rotateQuadrant(cropRGBA(src, srcRect), rot)
	out := image.NewRGBA(image.Rect(0, 0, outW, outH))
	if base.Bounds().Dx() == outW && base.Bounds().Dy() == outH {
		draw.Draw(out, out.Bounds(), base, base.Bounds().Min, draw.Src)
	} else {
		xdraw.CatmullRom.Scale(out, out.Bounds(), base, base.Bounds(), draw.Src, nil)
	}

	// Bake the adjustments into the base layer before any overlay.
	adjust.NewDescriptor(doc.Adjustments).Apply(out)

	// Overlays and strokes scale with the output, not the source crop, so
	// their on-screen proportion survives any output resolution.
	overlayScale := float64(outW) / opts.ReferenceWidth

	drawStrokes(out, doc.Strokes, overlayScale)
	drawTexts(out, doc.Texts, overlayScale)
	drawStickers(out, doc.Stickers, overlayScale)
	return out, nil
}

func drawStrokes(out *image.RGBA, strokes []document.Stroke, scale float64) {
	w := out.Bounds().Dx()
	h := out.Bounds().Dy()
	for _, s := range strokes {
		pts := make([]image.Point, len(s.Points))
		for i, p := range s.Points {
			pts[i] = image.Pt(
				int(math.Round(p.X/100*float64(w))),
				int(math.Round(p.Y/100*float64(h))),
			)
		}
		thick := int(math.Round(s.BrushSize * scale))
		if thick < 1 {
			thick = 1
		}
		drawPolyline(out, pts, colorOrBlack(s.Color), thick)
	}
}

func drawTexts(out *image.RGBA, texts []document.TextOverlay, scale float64) {
	w := float64(out.Bounds().Dx())
	h := float64(out.Bounds().Dy())
	for _, o := range texts {
		if o.Text == "" {
			continue
		}
		size := o.FontSize
		if size <= 0 {
			size = defaultTextSizePx
		}
		face := fontFace(o.FontFamily, size*scale)
		sprite := textSprite(o.Text, face, colorOrBlack(o.Color))
		drawRotatedSprite(out, sprite, o.X/100*w, o.Y/100*h, o.Rotation)
	}
}

func drawStickers(out *image.RGBA, stickers []document.StickerOverlay, scale float64) {
	w := float64(out.Bounds().Dx())
	h := float64(out.Bounds().Dy())
	for _, s := range stickers {
		if s.Label == "" {
			continue
		}
		factor := s.Scale
		if factor <= 0 {
			factor = 1
		}
		var sprite *image.RGBA
		switch s.Kind {
		case document.StickerEmoji:
			face := fontFace(FontRegular, emojiFontSizePx*factor*scale)
			sprite = glyphSprite(s.Label, face, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		default:
			face := fontFace(FontBold, badgeFontSizePx*factor*scale)
			sprite = badgeSprite(s.Label, face)
		}
		drawRotatedSprite(out, sprite, s.X/100*w, s.Y/100*h, s.Rotation)
	}
}

// Export renders doc and encodes the canvas to JPEG at the configured
// quality. Encoder failures are surfaced the same way as missing inputs.
func Export(src *image.RGBA, doc document.Document, opts Options) ([]byte, error) {
	opts = opts.normalized()
	img, err := Render(src, doc, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: opts.JPEGQuality}); err != nil {
		return nil, fmt.Errorf("compose: encode: %w", err)
	}
	if buf.Len() == 0 {
		return nil, ErrEncode
	}
	return buf.Bytes(), nil
}
