// Package iterate computes escape times of the supported recurrences.
//
// Each function returns the first step n in [1, maxIter) at which the orbit
// leaves the circle of radius 2 (|z_n|² > 4), or Bounded if it stays inside
// up to the cap. The squares of the current orbit point are computed once per
// step and reused by both the escape test and the next step.
package iterate

import (
	mandel "github.com/marben/escapetime"
	"github.com/marben/escapetime/palette"
)

// Bounded marks an orbit that did not escape within the cap.
const Bounded = palette.Bounded

// EscapeRadiusSquared is the squared escape radius.
const EscapeRadiusSquared = 4.0

// Func computes the escape time of one plane point.
type Func func(re, im float64) int

// Mandelbrot iterates z ← z² + c from z = 0.
func Mandelbrot(cRe, cIm float64, maxIter int) int {
	var zRe, zIm, zRe2, zIm2 float64
	for n := 1; n < maxIter; n++ {
		zIm = 2*zRe*zIm + cIm
		zRe = zRe2 - zIm2 + cRe
		zRe2, zIm2 = zRe*zRe, zIm*zIm
		if zRe2+zIm2 > EscapeRadiusSquared {
			return n
		}
	}
	return Bounded
}

// BurningShip iterates z ← (|Re z| + i|Im z|)² + c from z = 0.
func BurningShip(cRe, cIm float64, maxIter int) int {
	var zRe, zIm, zRe2, zIm2 float64
	for n := 1; n < maxIter; n++ {
		// |x|² == x², so the kept squares serve the folded point too
		zIm = 2*abs(zRe)*abs(zIm) + cIm
		zRe = zRe2 - zIm2 + cRe
		zRe2, zIm2 = zRe*zRe, zIm*zIm
		if zRe2+zIm2 > EscapeRadiusSquared {
			return n
		}
	}
	return Bounded
}

// Julia iterates z ← z² + seed starting from the point itself.
func Julia(zRe, zIm, seedRe, seedIm float64, maxIter int) int {
	zRe2, zIm2 := zRe*zRe, zIm*zIm
	for n := 1; n < maxIter; n++ {
		zIm = 2*zRe*zIm + seedIm
		zRe = zRe2 - zIm2 + seedRe
		zRe2, zIm2 = zRe*zRe, zIm*zIm
		if zRe2+zIm2 > EscapeRadiusSquared {
			return n
		}
	}
	return Bounded
}

// For returns the escape-time function selected by p.
func For(p mandel.Params) Func {
	maxIter := p.MaxIterations
	switch p.Variant {
	case mandel.BurningShip:
		return func(re, im float64) int { return BurningShip(re, im, maxIter) }
	case mandel.Julia:
		seed := p.Seed
		return func(re, im float64) int { return Julia(re, im, seed.Re, seed.Im, maxIter) }
	default:
		return func(re, im float64) int { return Mandelbrot(re, im, maxIter) }
	}
}

// Performed is the iteration cost a result accounts for in render statistics:
// the escape step, or the full cap for bounded orbits.
func Performed(n, maxIter int) int {
	if n == Bounded {
		return maxIter
	}
	return n
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
