package viewer

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	mandel "github.com/marben/escapetime"
	"github.com/marben/escapetime/export"
	"github.com/marben/escapetime/interact"
)

// Action is a keyboard command. It runs on the session's input goroutine
// and returns a line for the status area.
type Action func(sess *interact.Session) (string, error)

// Step moves from current to the neighbouring entry of the sorted choices
// in direction dir (+1 or -1). It reports false at either end.
func Step(choices []int, current, dir int) (int, bool) {
	i, found := slices.BinarySearch(choices, current)
	switch {
	case dir > 0 && found:
		i++
	case dir < 0:
		i--
	}
	if i < 0 || i >= len(choices) {
		return current, false
	}
	return choices[i], true
}

func Reset(id mandel.SurfaceID) Action {
	return func(sess *interact.Session) (string, error) {
		return "reset " + string(id), sess.Reset(id)
	}
}

func CycleScheme(sess *interact.Session) (string, error) {
	return "scheme " + sess.CycleScheme().String(), nil
}

func CycleVariant(sess *interact.Session) (string, error) {
	v, err := sess.CycleVariant()
	return "variant " + v.String(), err
}

// Iterations steps through mandel.IterationChoices.
func Iterations(dir int) Action {
	return func(sess *interact.Session) (string, error) {
		n, ok := Step(mandel.IterationChoices, sess.Params().MaxIterations, dir)
		if !ok {
			return fmt.Sprintf("iterations stay at %d", sess.Params().MaxIterations), nil
		}
		return fmt.Sprintf("%d iterations", n), sess.SetMaxIterations(n)
	}
}

// Width steps through mandel.SurfaceWidths.
func Width(dir int) Action {
	return func(sess *interact.Session) (string, error) {
		w, ok := Step(mandel.SurfaceWidths, sess.Surface().Width, dir)
		if !ok {
			return fmt.Sprintf("width stays at %d", sess.Surface().Width), nil
		}
		return fmt.Sprintf("surface %s", mandel.SurfaceForWidth(w)), sess.SetWidth(w)
	}
}

// NextPreset visits the landmark views in order, wrapping around.
func NextPreset() Action {
	next := 0
	return func(sess *interact.Session) (string, error) {
		p := mandel.Presets[next%len(mandel.Presets)]
		next++
		return p.Name, sess.GoTo(p.Name)
	}
}

// Save writes the current frame of both surfaces into dir under their
// default export names. Surfaces without a frame are skipped.
func Save(dir string) Action {
	return func(sess *interact.Session) (string, error) {
		var (
			saved []string
			errs  []error
			names = map[string]bool{}
		)
		for _, id := range []mandel.SurfaceID{mandel.PrimarySurface, mandel.JuliaSurface} {
			if _, ok := sess.Frame(id); !ok {
				continue
			}
			name := sess.ExportFilename(id, "")
			if names[name] {
				// a Julia primary and the Julia surface share the default
				name = sess.ExportFilename(id, strings.TrimSuffix(name, ".png")+"-seed")
			}
			names[name] = true

			path := filepath.Join(dir, name)
			if err := export.WriteSurface(path, sess, id); err != nil {
				errs = append(errs, err)
				continue
			}
			saved = append(saved, path)
		}
		if len(saved) == 0 && len(errs) == 0 {
			return "", fmt.Errorf("save: %w", export.ErrNoFrame)
		}
		return "saved " + strings.Join(saved, ", "), errors.Join(errs...)
	}
}
