package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestPresetsCommandListsTable(t *testing.T) {
	out, err := execute(t, "presets")
	require.NoError(t, err)
	assert.Contains(t, out, "bw")
	assert.Contains(t, out, "Black & White")
	assert.Contains(t, out, "original")
}

func TestRenderCommandWritesJPEG(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	scriptPath := filepath.Join(dir, "edit.yaml")
	output := filepath.Join(dir, "out.jpg")

	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 90, G: 140, B: 190, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(input, buf.Bytes(), 0o644))
	require.NoError(t, os.WriteFile(scriptPath, []byte("rotate: 90\npreset: vivid\n"), 0o644))

	_, err := execute(t, "render", "-i", input, "-s", scriptPath, "-o", output)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	require.Greater(t, len(data), 2)
	assert.Equal(t, []byte{0xFF, 0xD8}, data[:2])
}

func TestRenderCommandRejectsMissingInput(t *testing.T) {
	_, err := execute(t, "render", "-i", filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}
