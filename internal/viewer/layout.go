// Package viewer is the toolkit-independent half of the desktop viewer:
// where the two surfaces sit in the window, what the display last received
// from the session, and the keyboard commands.
package viewer

import (
	"image"

	mandel "github.com/marben/escapetime"
)

const (
	// Gap separates the primary and the Julia surface.
	Gap = 8
	// StatusHeight is the text area below the surfaces.
	StatusHeight = 64
)

// Layout places the primary surface on the left and the Julia surface on
// the right, both at the session's surface size.
type Layout struct {
	Surface mandel.Surface
}

// Size is the window size in pixels.
func (l Layout) Size() (width, height int) {
	return 2*l.Surface.Width + Gap, l.Surface.Height + StatusHeight
}

// Origin is the window position of the top-left pixel of surface id.
func (l Layout) Origin(id mandel.SurfaceID) image.Point {
	if id == mandel.JuliaSurface {
		return image.Pt(l.Surface.Width+Gap, 0)
	}
	return image.Point{}
}

// Bounds is the window rectangle covered by surface id.
func (l Layout) Bounds(id mandel.SurfaceID) image.Rectangle {
	o := l.Origin(id)
	return image.Rect(o.X, o.Y, o.X+l.Surface.Width, o.Y+l.Surface.Height)
}

// Hit finds the surface under window position p and returns p relative to
// that surface.
func (l Layout) Hit(p image.Point) (mandel.SurfaceID, image.Point, bool) {
	for _, id := range []mandel.SurfaceID{mandel.PrimarySurface, mandel.JuliaSurface} {
		if p.In(l.Bounds(id)) {
			return id, p.Sub(l.Origin(id)), true
		}
	}
	return "", image.Point{}, false
}

// Local returns window position p relative to surface id, clamped to the
// surface. A drag that leaves the surface keeps zooming to its edge.
func (l Layout) Local(id mandel.SurfaceID, p image.Point) image.Point {
	p = p.Sub(l.Origin(id))
	p.X = min(max(p.X, 0), l.Surface.Width)
	p.Y = min(max(p.Y, 0), l.Surface.Height)
	return p
}
