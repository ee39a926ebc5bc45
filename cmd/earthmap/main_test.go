package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// halfLand is dark on the left half and white on the right.
func halfLand(w, h int) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

func TestLandMask(t *testing.T) {
	rows := landMask(halfLand(400, 200), 8, 4, 128)
	require.Len(t, rows, 4)
	for _, row := range rows {
		assert.Equal(t, "####    ", row)
	}
}

func TestGenerateIsFormattedGo(t *testing.T) {
	src, err := generate([]string{"## ", " ##"})
	require.NoError(t, err)

	out := string(src)
	assert.True(t, strings.HasPrefix(out, "// Code generated by earthmap"))
	assert.Contains(t, out, "package globe")
	assert.Contains(t, out, "is 3x2")
	assert.Contains(t, out, "\t\"## \",\n")
}

func TestRunWritesFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "earth.png")
	out := filepath.Join(dir, "earthmap.go")

	f, err := os.Create(in)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, halfLand(240, 120)))
	require.NoError(t, f.Close())

	cmd := newCmd()
	cmd.SetArgs([]string{"-i", in, "-o", out, "--width", "12", "--height", "6"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"######      "`)
}

func TestRunMissingInput(t *testing.T) {
	cmd := newCmd()
	cmd.SetArgs([]string{"-i", filepath.Join(t.TempDir(), "missing.png")})
	cmd.SetErr(&strings.Builder{})
	assert.Error(t, cmd.Execute())
}
