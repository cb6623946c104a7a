// Package export writes rendered frames as PNG files.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	mandel "github.com/marben/escapetime"
)

// ErrNoFrame is returned when there is nothing rendered to export yet.
var ErrNoFrame = errors.New("no rendered frame")

const ext = ".png"

// DefaultFilename names an export after the variant it shows,
// e.g. "BurningShip.png".
func DefaultFilename(v mandel.Variant) string {
	return v.Title() + ext
}

// Filename returns name with a .png extension, or the variant default when
// name is blank.
func Filename(name string, v mandel.Variant) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultFilename(v)
	}
	if !strings.EqualFold(filepath.Ext(name), ext) {
		name += ext
	}
	return name
}

// PNG encodes img to w.
func PNG(w io.Writer, img *image.RGBA) error {
	if img == nil {
		return ErrNoFrame
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("png.Encode: %w", err)
	}
	return nil
}

// Frame encodes the current frame of surface id from fp to w.
func Frame(w io.Writer, fp mandel.FrameProvider, id mandel.SurfaceID) error {
	img, ok := fp.Frame(id)
	if !ok {
		return fmt.Errorf("export %s: %w", id, ErrNoFrame)
	}
	return PNG(w, img)
}

// WriteSurface writes the current frame of surface id from fp into path.
func WriteSurface(path string, fp mandel.FrameProvider, id mandel.SurfaceID) error {
	img, ok := fp.Frame(id)
	if !ok {
		return fmt.Errorf("export %s: %w", id, ErrNoFrame)
	}
	return WriteFile(path, img)
}

// WriteFile encodes img into the file path, replacing it if present.
func WriteFile(path string, img *image.RGBA) (err error) {
	if img == nil {
		return ErrNoFrame
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	return PNG(f, img)
}
