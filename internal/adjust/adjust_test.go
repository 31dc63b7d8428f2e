package adjust

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetTable(t *testing.T) {
	table := Presets()
	require.GreaterOrEqual(t, len(table), 8)
	assert.Equal(t, FilterOriginal, table[0].ID)
	assert.True(t, table[0].Vector.IsZero())

	bw, ok := PresetByID("bw")
	require.True(t, ok)
	assert.Equal(t, Vector{Brightness: 0, Contrast: 10, Saturation: -100, Exposure: 0}, bw.Vector)

	_, ok = PresetByID("does-not-exist")
	assert.False(t, ok)

	// Every preset derives a non-negative transform.
	for _, p := range table {
		d := NewDescriptor(p.Vector)
		assert.GreaterOrEqual(t, d.Brightness, 0.0, p.ID)
		assert.GreaterOrEqual(t, d.Contrast, 0.0, p.ID)
		assert.GreaterOrEqual(t, d.Saturation, 0.0, p.ID)
	}
}

func TestVectorSetClamps(t *testing.T) {
	v := Vector{}
	v = v.Set(ChannelContrast, 250)
	assert.Equal(t, 100, v.Contrast)
	v = v.Set(ChannelSaturation, -1000)
	assert.Equal(t, -100, v.Saturation)
	v = v.Set(ChannelBrightness, 20)
	assert.Equal(t, 20, v.Get(ChannelBrightness))
	assert.Equal(t, 0, v.Get(Channel("bogus")))
}

func TestDescriptorFactors(t *testing.T) {
	d := NewDescriptor(Vector{Brightness: 50, Exposure: 20})
	assert.InDelta(t, 1.5*1.2, d.Brightness, 1e-12)

	// A -100 brightness with -100 exposure would multiply to 0, never below.
	d = NewDescriptor(Vector{Brightness: -100, Exposure: -100})
	assert.Zero(t, d.Brightness)

	d = NewDescriptor(Vector{})
	assert.True(t, d.IsIdentity())
}

func TestDescriptorIsPure(t *testing.T) {
	d := NewDescriptor(Vector{Brightness: 10, Contrast: 25, Saturation: -40, Exposure: 5})
	in := color.RGBA{R: 120, G: 40, B: 200, A: 255}
	first := d.Pixel(in)
	second := d.Pixel(in)
	// Deterministic: the same input always maps to the same output and the
	// function keeps no hidden state between calls.
	assert.Equal(t, first, second)
	assert.Equal(t, uint8(255), first.A)
}

func TestDescriptorSaturationGrayscale(t *testing.T) {
	d := NewDescriptor(Vector{Saturation: -100})
	out := d.Pixel(color.RGBA{R: 200, G: 50, B: 10, A: 255})
	assert.Equal(t, out.R, out.G)
	assert.Equal(t, out.G, out.B)
}

func TestApplyMatchesPixel(t *testing.T) {
	d := NewDescriptor(Vector{Brightness: 30, Contrast: -10, Saturation: 50})
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	want := image.NewRGBA(img.Bounds())
	seed := []color.RGBA{
		{10, 20, 30, 255}, {200, 100, 50, 255}, {0, 0, 0, 255}, {255, 255, 255, 255},
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			c := seed[(x+y)%len(seed)]
			img.SetRGBA(x, y, c)
			want.SetRGBA(x, y, d.Pixel(c))
		}
	}
	d.Apply(img)
	assert.Equal(t, want.Pix, img.Pix)
}

func TestApplyIdentityNoop(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(1, 1, color.RGBA{R: 9, G: 8, B: 7, A: 6})
	before := append([]uint8(nil), img.Pix...)
	NewDescriptor(Vector{}).Apply(img)
	assert.Equal(t, before, img.Pix)
}
