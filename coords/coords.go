// Package coords maps surface pixels to the complex plane and derives the
// viewports produced by zoom gestures.
//
// Pixel (0,0) is the top-left corner and maps to (ReMin, ImMax); the Y axis
// is inverted, so pixel (Width, Height) maps to (ReMax, ImMin).
package coords

import (
	"math"

	mandel "github.com/marben/escapetime"
)

// PixelPoint is a position on a surface in (possibly fractional) pixels.
type PixelPoint struct {
	X, Y float64
}

// Box is an axis aligned rectangle in surface pixels.
type Box struct {
	X, Y, W, H float64
}

// Min is the top-left corner of the box.
func (b Box) Min() PixelPoint {
	return PixelPoint{b.X, b.Y}
}

// Max is the bottom-right corner of the box.
func (b Box) Max() PixelPoint {
	return PixelPoint{b.X + b.W, b.Y + b.H}
}

// Empty reports a box without height, i.e. a click.
func (b Box) Empty() bool {
	return b.H == 0
}

// PixelToComplex maps a surface position to the plane.
func PixelToComplex(x, y float64, v mandel.Viewport, s mandel.Surface) (re, im float64) {
	re = x*((v.ReMax-v.ReMin)/float64(s.Width)) + v.ReMin
	im = y*((v.ImMin-v.ImMax)/float64(s.Height)) + v.ImMax
	return re, im
}

// PixelToPoint is PixelToComplex returning a mandel.Point.
func PixelToPoint(p PixelPoint, v mandel.Viewport, s mandel.Surface) mandel.Point {
	re, im := PixelToComplex(p.X, p.Y, v, s)
	return mandel.Point{Re: re, Im: im}
}

// DeriveBalancedViewport returns the viewport starting at reMin over the
// imaginary span [imMin, imMax] whose ReMax gives square pixels on a
// width×height surface.
func DeriveBalancedViewport(reMin, imMin, imMax float64, width, height int) mandel.Viewport {
	return mandel.Viewport{
		ReMin: reMin,
		ReMax: deriveReMax(reMin, imMin, imMax, width, height),
		ImMin: imMin,
		ImMax: imMax,
	}
}

func deriveReMax(reMin, imMin, imMax float64, width, height int) float64 {
	return float64(width)*((imMax-imMin)/float64(height)) + reMin
}

// BalanceTolerance is the relative ReMax error Balance still accepts as
// agreeing with the derived value.
const BalanceTolerance = 1e-9

// Balance replaces v.ReMax with the derived value. The bool reports whether
// the supplied ReMax disagreed by more than BalanceTolerance, which callers
// surface as a diagnostic.
func Balance(v mandel.Viewport, s mandel.Surface) (mandel.Viewport, bool) {
	reMax := deriveReMax(v.ReMin, v.ImMin, v.ImMax, s.Width, s.Height)
	adjusted := !Balanced(v, s, BalanceTolerance)
	v.ReMax = reMax
	return v, adjusted
}

// Balanced reports whether v already has the derived ReMax, within a
// relative tolerance of tol.
func Balanced(v mandel.Viewport, s mandel.Surface, tol float64) bool {
	reMax := deriveReMax(v.ReMin, v.ImMin, v.ImMax, s.Width, s.Height)
	span := v.ReMax - v.ReMin
	return math.Abs(reMax-v.ReMax) <= tol*math.Abs(span)
}

// RectToViewport returns the viewport covering the pixel rectangle between
// topLeft and bottomRight of the current viewport.
func RectToViewport(topLeft, bottomRight PixelPoint, v mandel.Viewport, s mandel.Surface) mandel.Viewport {
	reMin, imMax := PixelToComplex(topLeft.X, topLeft.Y, v, s)
	reMax, imMin := PixelToComplex(bottomRight.X, bottomRight.Y, v, s)
	return mandel.Viewport{ReMin: reMin, ReMax: reMax, ImMin: imMin, ImMax: imMax}
}

// StaticZoomFactor is the share of the surface a click zoom keeps.
const StaticZoomFactor = 0.25

// FixedRatioBox is the box of factor·Width × factor·Height centred on center.
func FixedRatioBox(center PixelPoint, factor float64, s mandel.Surface) Box {
	w := factor * float64(s.Width)
	h := factor * float64(s.Height)
	return Box{X: center.X - w/2, Y: center.Y - h/2, W: w, H: h}
}

// FixedRatioZoom zooms in around center, keeping factor of the current
// extent along both axes.
func FixedRatioZoom(center PixelPoint, factor float64, v mandel.Viewport, s mandel.Surface) mandel.Viewport {
	b := FixedRatioBox(center, factor, s)
	return RectToViewport(b.Min(), b.Max(), v, s)
}

// ZoomBox is the drag rectangle anchored at anchor: its height is the
// vertical distance to pos and its width keeps mandel.AspectRatio.
func ZoomBox(anchor, pos PixelPoint) Box {
	h := math.Abs(pos.Y - anchor.Y)
	return Box{X: anchor.X, Y: anchor.Y, W: h * mandel.AspectRatio, H: h}
}
