package coords

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mandel "github.com/marben/escapetime"
)

const eps = 1e-12

var (
	classic = mandel.Viewport{ReMin: -2, ReMax: 1, ImMin: -1.5, ImMax: 1.5}
	wide    = mandel.SurfaceForWidth(960)
)

func TestPixelToComplexCorners(t *testing.T) {
	surfaces := []mandel.Surface{{Width: 4, Height: 4}, {Width: 20, Height: 10}, wide}
	for _, s := range surfaces {
		re, im := PixelToComplex(0, 0, classic, s)
		assert.InDelta(t, classic.ReMin, re, eps)
		assert.InDelta(t, classic.ImMax, im, eps)

		re, im = PixelToComplex(float64(s.Width), float64(s.Height), classic, s)
		assert.InDelta(t, classic.ReMax, re, eps)
		assert.InDelta(t, classic.ImMin, im, eps)

		re, im = PixelToComplex(float64(s.Width), 0, classic, s)
		assert.InDelta(t, classic.ReMax, re, eps)
		assert.InDelta(t, classic.ImMax, im, eps)

		re, im = PixelToComplex(0, float64(s.Height), classic, s)
		assert.InDelta(t, classic.ReMin, re, eps)
		assert.InDelta(t, classic.ImMin, im, eps)
	}
}

func TestPixelToComplexInvertsY(t *testing.T) {
	s := mandel.Surface{Width: 4, Height: 4}
	_, top := PixelToComplex(0, 0, classic, s)
	_, below := PixelToComplex(0, 1, classic, s)
	assert.Greater(t, top, below)

	p := PixelToPoint(PixelPoint{2, 2}, classic, s)
	assert.InDelta(t, -0.5, p.Re, eps)
	assert.InDelta(t, 0, p.Im, eps)
}

func TestDeriveBalancedViewport(t *testing.T) {
	v := DeriveBalancedViewport(-2, -1.5, 1.5, 1600, 900)
	assert.InDelta(t, -2+3*16.0/9.0, v.ReMax, eps)
	assert.Equal(t, -2.0, v.ReMin)
	assert.Equal(t, -1.5, v.ImMin)
	assert.Equal(t, 1.5, v.ImMax)
	require.NoError(t, v.Validate())
}

func TestDeriveBalancedViewportIsIdempotent(t *testing.T) {
	for _, w := range mandel.SurfaceWidths {
		s := mandel.SurfaceForWidth(w)
		first := DeriveBalancedViewport(-3.2, -1.5, 1.5, s.Width, s.Height)
		second := DeriveBalancedViewport(first.ReMin, first.ImMin, first.ImMax, s.Width, s.Height)
		assert.Equal(t, first.ReMax, second.ReMax, "width %d", w)

		balanced, adjusted := Balance(first, s)
		assert.False(t, adjusted)
		assert.Equal(t, first, balanced)
	}
}

func TestBalanceReportsDisagreement(t *testing.T) {
	v, adjusted := Balance(classic, wide)
	assert.True(t, adjusted)
	assert.InDelta(t, -2+3*16.0/9.0, v.ReMax, eps)
	assert.True(t, Balanced(v, wide, 1e-9))
	assert.False(t, Balanced(classic, wide, 1e-9))
}

func TestHomeViewNeedsNoBalancing(t *testing.T) {
	for _, variant := range []mandel.Variant{mandel.Mandelbrot, mandel.BurningShip, mandel.Julia} {
		home := mandel.Home(variant)
		assert.Equal(t, -2.0, home.ReMin, variant)
		assert.Equal(t, -1.5, home.ImMin, variant)
		assert.Equal(t, 1.5, home.ImMax, variant)
	}

	for _, w := range mandel.SurfaceWidths {
		s := mandel.SurfaceForWidth(w)
		v, adjusted := Balance(mandel.HomeView, s)
		assert.False(t, adjusted, "width %d", w)
		assert.InDelta(t, mandel.HomeView.ReMax, v.ReMax, eps)
	}
}

func TestBalanceReportsSquarePresets(t *testing.T) {
	for _, p := range mandel.Presets {
		_, adjusted := Balance(p.Viewport, wide)
		assert.True(t, adjusted, p.Name)
	}
}

func TestRectToViewportFullSurfaceIsIdentity(t *testing.T) {
	for _, s := range []mandel.Surface{{Width: 4, Height: 4}, wide} {
		v, _ := Balance(classic, s)
		got := RectToViewport(PixelPoint{0, 0}, PixelPoint{float64(s.Width), float64(s.Height)}, v, s)
		assert.InDelta(t, v.ReMin, got.ReMin, eps)
		assert.InDelta(t, v.ReMax, got.ReMax, eps)
		assert.InDelta(t, v.ImMin, got.ImMin, eps)
		assert.InDelta(t, v.ImMax, got.ImMax, eps)
	}
}

func TestRectToViewportShrinks(t *testing.T) {
	v, _ := Balance(mandel.HomeView, wide)
	box := ZoomBox(PixelPoint{100, 50}, PixelPoint{400, 230})
	got := RectToViewport(box.Min(), box.Max(), v, wide)
	require.NoError(t, got.Validate())
	assert.Less(t, got.ReMax-got.ReMin, v.ReMax-v.ReMin)
	assert.Less(t, got.ImMax-got.ImMin, v.ImMax-v.ImMin)
	// the box keeps the aspect ratio, so the result needs no balancing
	assert.True(t, Balanced(got, wide, 1e-9))
}

func TestZoomBox(t *testing.T) {
	b := ZoomBox(PixelPoint{10, 20}, PixelPoint{999, 110})
	assert.Equal(t, Box{X: 10, Y: 20, W: 90 * mandel.AspectRatio, H: 90}, b)

	// dragging upwards still grows the box below the anchor
	up := ZoomBox(PixelPoint{10, 20}, PixelPoint{0, 0})
	assert.Equal(t, 20.0, up.H)
	assert.Equal(t, 20.0, up.Y)

	assert.True(t, ZoomBox(PixelPoint{5, 5}, PixelPoint{80, 5}).Empty())
}

func TestFixedRatioZoom(t *testing.T) {
	v, _ := Balance(mandel.HomeView, wide)
	center := PixelPoint{480, 270}
	got := FixedRatioZoom(center, StaticZoomFactor, v, wide)

	assert.InDelta(t, (v.ReMax-v.ReMin)*StaticZoomFactor, got.ReMax-got.ReMin, 1e-9)
	assert.InDelta(t, (v.ImMax-v.ImMin)*StaticZoomFactor, got.ImMax-got.ImMin, 1e-9)

	c := PixelToPoint(center, v, wide)
	assert.InDelta(t, c.Re, (got.ReMin+got.ReMax)/2, 1e-9)
	assert.InDelta(t, c.Im, (got.ImMin+got.ImMax)/2, 1e-9)
	assert.True(t, Balanced(got, wide, 1e-9))
}
