// Package adjust models the four-channel color adjustment vector and the
// pixel transform derived from it. The transform is a pure function shared
// by the live preview and the exporter so both always agree.
package adjust

import (
	"image"
	"image/color"
)

// Channel names one of the four adjustable values.
type Channel string

const (
	ChannelBrightness Channel = "brightness"
	ChannelContrast   Channel = "contrast"
	ChannelSaturation Channel = "saturation"
	ChannelExposure   Channel = "exposure"
)

// Channel values are integers in [minValue, maxValue].
const (
	minValue = -100
	maxValue = 100
)

// Vector is one adjustment setting per channel.
type Vector struct {
	Brightness int
	Contrast   int
	Saturation int
	Exposure   int
}

// Clamped returns v with every channel limited to the valid range.
func (v Vector) Clamped() Vector {
	return Vector{
		Brightness: clampValue(v.Brightness),
		Contrast:   clampValue(v.Contrast),
		Saturation: clampValue(v.Saturation),
		Exposure:   clampValue(v.Exposure),
	}
}

// IsZero reports whether v is the identity adjustment.
func (v Vector) IsZero() bool { return v == Vector{} }

// Get returns the value of the named channel, or 0 for an unknown name.
func (v Vector) Get(ch Channel) int {
	switch ch {
	case ChannelBrightness:
		return v.Brightness
	case ChannelContrast:
		return v.Contrast
	case ChannelSaturation:
		return v.Saturation
	case ChannelExposure:
		return v.Exposure
	}
	return 0
}

// Set returns a copy of v with the named channel replaced by the clamped
// value. Unknown channels leave v unchanged.
func (v Vector) Set(ch Channel, value int) Vector {
	value = clampValue(value)
	switch ch {
	case ChannelBrightness:
		v.Brightness = value
	case ChannelContrast:
		v.Contrast = value
	case ChannelSaturation:
		v.Saturation = value
	case ChannelExposure:
		v.Exposure = value
	}
	return v
}

func clampValue(v int) int {
	if v < minValue {
		return minValue
	}
	if v > maxValue {
		return maxValue
	}
	return v
}

// Descriptor is the composition operation derived from a Vector: three
// multiplicative factors applied per pixel. Brightness and exposure combine
// multiplicatively into one factor; contrast pivots around mid gray;
// saturation interpolates each channel against the pixel's luma. No factor
// can go negative.
type Descriptor struct {
	Brightness float64
	Contrast   float64
	Saturation float64
}

// NewDescriptor derives the pixel transform for v.
func NewDescriptor(v Vector) Descriptor {
	v = v.Clamped()
	return Descriptor{
		Brightness: nonNegative((1 + float64(v.Brightness)/100) * (1 + float64(v.Exposure)/100)),
		Contrast:   nonNegative(1 + float64(v.Contrast)/100),
		Saturation: nonNegative(1 + float64(v.Saturation)/100),
	}
}

func nonNegative(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}

// IsIdentity reports whether the descriptor leaves pixels unchanged.
func (d Descriptor) IsIdentity() bool {
	return d.Brightness == 1 && d.Contrast == 1 && d.Saturation == 1
}

// Rec.601 luma weights, the same ones the badge renderer uses to pick
// legible label colors.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// Pixel transforms a single color. Alpha passes through untouched.
func (d Descriptor) Pixel(c color.RGBA) color.RGBA {
	r := float64(c.R) * d.Brightness
	g := float64(c.G) * d.Brightness
	b := float64(c.B) * d.Brightness

	r = (r-128)*d.Contrast + 128
	g = (g-128)*d.Contrast + 128
	b = (b-128)*d.Contrast + 128

	lum := lumaR*r + lumaG*g + lumaB*b
	r = lum + (r-lum)*d.Saturation
	g = lum + (g-lum)*d.Saturation
	b = lum + (b-lum)*d.Saturation

	return color.RGBA{R: clampByte(r), G: clampByte(g), B: clampByte(b), A: c.A}
}

func clampByte(f float64) uint8 {
	if f <= 0 {
		return 0
	}
	if f >= 255 {
		return 255
	}
	return uint8(f + 0.5)
}

// Apply runs the transform over every pixel of img in place.
func (d Descriptor) Apply(img *image.RGBA) {
	if img == nil || d.IsIdentity() {
		return
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		row := img.Pix[off : off+b.Dx()*4]
		for x := 0; x < len(row); x += 4 {
			out := d.Pixel(color.RGBA{R: row[x], G: row[x+1], B: row[x+2], A: row[x+3]})
			row[x], row[x+1], row[x+2] = out.R, out.G, out.B
		}
	}
}
