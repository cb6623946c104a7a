package iterate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mandel "github.com/marben/escapetime"
)

func TestMandelbrotFarPointsEscapeImmediately(t *testing.T) {
	assert.Equal(t, 1, Mandelbrot(3, 0, 50))

	for _, r := range []float64{2.01, 2.5, 4, 100} {
		for a := 0.0; a < 2*math.Pi; a += math.Pi / 8 {
			re, im := r*math.Cos(a), r*math.Sin(a)
			assert.Equal(t, 1, Mandelbrot(re, im, 50), "c=(%g,%g)", re, im)
		}
	}
}

func TestMandelbrotOriginIsBounded(t *testing.T) {
	for _, maxIter := range []int{1, 2, 5, 50, 1200, 3000} {
		assert.Equal(t, Bounded, Mandelbrot(0, 0, maxIter), "maxIter=%d", maxIter)
	}
	// main cardioid and period-2 bulb
	assert.Equal(t, Bounded, Mandelbrot(-0.1, 0.1, 3000))
	assert.Equal(t, Bounded, Mandelbrot(-1, 0, 3000))
}

func TestMandelbrotEscapeIsBelowCap(t *testing.T) {
	for re := -2.5; re <= 1; re += 0.05 {
		for im := -1.5; im <= 1.5; im += 0.05 {
			n := Mandelbrot(re, im, 100)
			if n != Bounded {
				require.GreaterOrEqual(t, n, 1)
				require.Less(t, n, 100)
			}
		}
	}
}

func TestBurningShipMatchesMandelbrotOnRealAxis(t *testing.T) {
	assert.Equal(t, Mandelbrot(-1, 0, 500), BurningShip(-1, 0, 500))
	for re := -2.2; re <= 0.6; re += 0.01 {
		require.Equal(t, Mandelbrot(re, 0, 500), BurningShip(re, 0, 500), "c=%g", re)
	}
}

func TestBurningShipFoldsComponents(t *testing.T) {
	// the fold makes the set differ from Mandelbrot off the real axis
	differ := 0
	for re := -2.0; re <= 1; re += 0.1 {
		for im := -1.5; im <= 1.5; im += 0.1 {
			if Mandelbrot(re, im, 100) != BurningShip(re, im, 100) {
				differ++
			}
		}
	}
	assert.Positive(t, differ)
	assert.Equal(t, 1, BurningShip(3, 0, 50))
	assert.Equal(t, Bounded, BurningShip(0, 0, 50))
}

// orbitEscape is an independent z → z² escape test on complex128.
func orbitEscape(z complex128, maxIter int) int {
	for n := 1; n < maxIter; n++ {
		z = z * z
		if real(z)*real(z)+imag(z)*imag(z) > 4 {
			return n
		}
	}
	return Bounded
}

func TestJuliaZeroSeedIsSquaringOrbit(t *testing.T) {
	for re := -2.0; re <= 2; re += 0.07 {
		for im := -2.0; im <= 2; im += 0.07 {
			r := math.Hypot(re, im)
			if math.Abs(r-1) < 0.05 {
				continue // unit circle: the two formulations may round differently
			}
			want := orbitEscape(complex(re, im), 200)
			require.Equal(t, want, Julia(re, im, 0, 0, 200), "z0=(%g,%g)", re, im)
		}
	}
}

func TestJuliaUsesSeedNotPoint(t *testing.T) {
	// 0 → -1 → 0 → ... stays bounded for the basilica seed
	assert.Equal(t, Bounded, Julia(0, 0, -1, 0, 500))
	// the same starting point escapes for a seed outside the Mandelbrot set
	assert.Equal(t, 1, Julia(0, 0, 3, 0, 500))
	assert.Equal(t, 1, Julia(2.5, 0, -1, 0, 500))
}

func TestForDispatch(t *testing.T) {
	seed := mandel.Point{Re: -0.8, Im: 0.156}
	points := [][2]float64{{0, 0}, {-0.75, 0.1}, {0.3, -0.5}, {-1.7, -0.02}, {1.1, 1.1}}
	for _, pt := range points {
		m := For(mandel.Params{Variant: mandel.Mandelbrot, MaxIterations: 300})
		b := For(mandel.Params{Variant: mandel.BurningShip, MaxIterations: 300})
		j := For(mandel.Params{Variant: mandel.Julia, MaxIterations: 300, Seed: seed})
		assert.Equal(t, Mandelbrot(pt[0], pt[1], 300), m(pt[0], pt[1]))
		assert.Equal(t, BurningShip(pt[0], pt[1], 300), b(pt[0], pt[1]))
		assert.Equal(t, Julia(pt[0], pt[1], seed.Re, seed.Im, 300), j(pt[0], pt[1]))
	}
}

func TestDeterministic(t *testing.T) {
	for i := 0; i < 100; i++ {
		re, im := -2+float64(i)*0.031, 1.2-float64(i)*0.023
		assert.Equal(t, Mandelbrot(re, im, 1000), Mandelbrot(re, im, 1000))
		assert.Equal(t, BurningShip(re, im, 1000), BurningShip(re, im, 1000))
	}
}

func TestPerformed(t *testing.T) {
	assert.Equal(t, 50, Performed(Bounded, 50))
	assert.Equal(t, 7, Performed(7, 50))
}
