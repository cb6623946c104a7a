package export

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

	mandel "github.com/marben/escapetime"
)

func TestFilenames(t *testing.T) {
	assert.Equal(t, "Mandelbrot.png", DefaultFilename(mandel.Mandelbrot))
	assert.Equal(t, "BurningShip.png", DefaultFilename(mandel.BurningShip))
	assert.Equal(t, "Julia.png", DefaultFilename(mandel.Julia))

	tests := []struct {
		in   string
		want string
	}{
		{"", "Julia.png"},
		{"  ", "Julia.png"},
		{"seahorse", "seahorse.png"},
		{"seahorse.png", "seahorse.png"},
		{"shot.PNG", "shot.PNG"},
		{"frame.jpg", "frame.jpg.png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Filename(tt.in, mandel.Julia), "input %q", tt.in)
	}
}

func TestPNGPreservesPixels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.SetRGBA(0, 0, color.RGBA{0, 0, 255, 255})
	img.SetRGBA(2, 1, color.RGBA{255, 0, 0, 255})

	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, img))

	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			assert.Equal(t, img.RGBAAt(x, y), color.RGBAModel.Convert(decoded.At(x, y)), "pixel %d,%d", x, y)
		}
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFilename(mandel.Mandelbrot))
	require.NoError(t, WriteFile(path, image.NewRGBA(image.Rect(0, 0, 4, 4))))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Width)
}

func TestNoFrame(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, PNG(&buf, nil), ErrNoFrame)
	assert.ErrorIs(t, WriteFile(filepath.Join(t.TempDir(), "x.png"), nil), ErrNoFrame)
}

type frames map[mandel.SurfaceID]*image.RGBA

func (f frames) Frame(id mandel.SurfaceID) (*image.RGBA, bool) {
	img, ok := f[id]
	return img, ok
}

func TestFrameFromProvider(t *testing.T) {
	fp := frames{mandel.JuliaSurface: image.NewRGBA(image.Rect(0, 0, 16, 9))}

	var buf bytes.Buffer
	require.NoError(t, Frame(&buf, fp, mandel.JuliaSurface))
	cfg, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Width)

	assert.ErrorIs(t, Frame(&buf, fp, mandel.PrimarySurface), ErrNoFrame)
}

func TestWriteSurface(t *testing.T) {
	dir := t.TempDir()
	fp := frames{mandel.PrimarySurface: image.NewRGBA(image.Rect(0, 0, 16, 9))}

	require.NoError(t, WriteSurface(filepath.Join(dir, "a.png"), fp, mandel.PrimarySurface))
	assert.FileExists(t, filepath.Join(dir, "a.png"))

	err := WriteSurface(filepath.Join(dir, "b.png"), fp, mandel.JuliaSurface)
	assert.ErrorIs(t, err, ErrNoFrame)
	assert.NoFileExists(t, filepath.Join(dir, "b.png"))
}
