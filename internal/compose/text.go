package compose

import (
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FontRegular and FontBold are the supported overlay font families.
const (
	FontRegular = "regular"
	FontBold    = "bold"
)

var (
	fontMu    sync.Mutex
	fontCache = map[string]*opentype.Font{}
)

func parsedFont(family string) (*opentype.Font, error) {
	fontMu.Lock()
	defer fontMu.Unlock()
	if f, ok := fontCache[family]; ok {
		return f, nil
	}
	data := goregular.TTF
	if family == FontBold {
		data = gobold.TTF
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	fontCache[family] = f
	return f, nil
}

// fontFace returns a new face for the family at the given pixel size,
// falling back to the fixed bitmap face when the outline font fails. A
// Face carries mutable rasterizer state and must not be shared between
// goroutines, so only the parsed font is cached; each render gets its own
// faces.
func fontFace(family string, size float64) font.Face {
	if family != FontBold {
		family = FontRegular
	}
	if size < 6 {
		size = 6
	}
	if size > 512 {
		size = 512
	}
	parsed, err := parsedFont(family)
	if err != nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}

// measureString returns the advance width plus ascent/descent of s in face.
func measureString(face font.Face, s string) (width, ascent, descent int) {
	d := &font.Drawer{Face: face}
	width = d.MeasureString(s).Ceil()
	m := face.Metrics()
	return width, m.Ascent.Ceil(), m.Descent.Ceil()
}

// shadow keeps text legible against arbitrary backgrounds.
var shadowColor = color.RGBA{A: 160}

// textSprite renders s with a drop shadow onto a transparent canvas sized
// to the measured extent. The sprite can be drawn directly or rotated into
// the output.
func textSprite(s string, face font.Face, col color.RGBA) *image.RGBA {
	w, ascent, descent := measureString(face, s)
	if w <= 0 {
		w = 1
	}
	off := int(math.Max(1, float64(ascent)/12))
	pad := off + 1
	img := image.NewRGBA(image.Rect(0, 0, w+2*pad+off, ascent+descent+2*pad+off))

	d := &font.Drawer{Dst: img, Src: image.NewUniform(shadowColor), Face: face}
	d.Dot = fixed.P(pad+off, pad+ascent+off)
	d.DrawString(s)

	d.Src = image.NewUniform(col)
	d.Dot = fixed.P(pad, pad+ascent)
	d.DrawString(s)
	return img
}

// glyphSprite renders s plainly, without shadow or background. Emoji-style
// stickers use it so the glyph stands alone.
func glyphSprite(s string, face font.Face, col color.RGBA) *image.RGBA {
	w, ascent, descent := measureString(face, s)
	if w <= 0 {
		w = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w+2, ascent+descent+2))
	d := &font.Drawer{Dst: img, Src: image.NewUniform(col), Face: face}
	d.Dot = fixed.P(1, 1+ascent)
	d.DrawString(s)
	return img
}

// badge colors are fixed; the label color is picked by background luma the
// same way the numbered markers do it.
var badgeBackground = color.RGBA{R: 24, G: 24, B: 24, A: 230}

// badgeSprite renders a rounded background rectangle sized to the label's
// measured extent plus padding, with the label centered on it.
func badgeSprite(label string, face font.Face) *image.RGBA {
	w, ascent, descent := measureString(face, label)
	padX := (ascent + descent) / 2
	padY := (ascent + descent) / 4
	if padX < 4 {
		padX = 4
	}
	if padY < 2 {
		padY = 2
	}
	bw := w + 2*padX
	bh := ascent + descent + 2*padY
	img := image.NewRGBA(image.Rect(0, 0, bw, bh))
	fillRoundedRect(img, img.Bounds(), bh/3, badgeBackground)

	brightness := 0.299*float64(badgeBackground.R) + 0.587*float64(badgeBackground.G) + 0.114*float64(badgeBackground.B)
	textCol := color.RGBA{A: 255}
	if brightness < 128 {
		textCol = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}

	d := &font.Drawer{Dst: img, Src: image.NewUniform(textCol), Face: face}
	d.Dot = fixed.P(padX, padY+ascent)
	d.DrawString(label)
	return img
}
