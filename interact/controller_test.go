package interact

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mandel "github.com/marben/escapetime"
	"github.com/marben/escapetime/coords"
)

var (
	testSurface  = mandel.SurfaceForWidth(320)
	testViewport = mandel.Viewport{ReMin: -2, ReMax: 2, ImMin: -1.125, ImMax: 1.125}
)

func TestParseClickPolicy(t *testing.T) {
	for _, p := range []ClickPolicy{ClickPickSeed, ClickZoom, ClickIgnore} {
		got, err := ParseClickPolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err := ParseClickPolicy("double-click")
	assert.Error(t, err)
}

func TestControllerDragZooms(t *testing.T) {
	c := NewController(testSurface, ClickPickSeed, 0)

	_, ok := c.PointerMove(image.Pt(10, 10))
	assert.False(t, ok, "no overlay while idle")

	c.PointerDown(image.Pt(40, 20))
	assert.True(t, c.Dragging())

	box, ok := c.PointerMove(image.Pt(90, 65))
	require.True(t, ok)
	assert.Equal(t, coords.Box{X: 40, Y: 20, W: 45 * mandel.AspectRatio, H: 45}, box)

	out := c.PointerUp(image.Pt(90, 65), testViewport)
	assert.False(t, c.Dragging())
	require.Equal(t, Zoom, out.Kind)

	want := coords.RectToViewport(box.Min(), box.Max(), testViewport, testSurface)
	assert.Equal(t, want, out.Viewport)
	assert.NoError(t, out.Viewport.Validate())
}

func TestControllerUpwardDragAnchorsAtPointerDown(t *testing.T) {
	c := NewController(testSurface, ClickIgnore, 0)
	c.PointerDown(image.Pt(100, 100))
	out := c.PointerUp(image.Pt(20, 40), testViewport)

	require.Equal(t, Zoom, out.Kind)
	re, im := coords.PixelToComplex(100, 100, testViewport, testSurface)
	assert.Equal(t, re, out.Viewport.ReMin)
	assert.Equal(t, im, out.Viewport.ImMax)
	assert.NoError(t, out.Viewport.Validate())
}

func TestControllerClick(t *testing.T) {
	tests := []struct {
		name   string
		policy ClickPolicy
		want   OutcomeKind
	}{
		{"seed", ClickPickSeed, Seed},
		{"zoom", ClickZoom, FixedZoom},
		{"ignore", ClickIgnore, None},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(testSurface, tt.policy, 0)
			c.PointerDown(image.Pt(160, 90))
			// horizontal movement only still counts as a click
			out := c.PointerUp(image.Pt(170, 90), testViewport)
			assert.Equal(t, tt.want, out.Kind)

			switch out.Kind {
			case Seed:
				assert.Equal(t, coords.PixelToPoint(coords.PixelPoint{X: 160, Y: 90}, testViewport, testSurface), out.Seed)
			case FixedZoom:
				want := coords.FixedRatioZoom(coords.PixelPoint{X: 160, Y: 90}, coords.StaticZoomFactor, testViewport, testSurface)
				assert.Equal(t, want, out.Viewport)
			}
		})
	}
}

func TestControllerUpWithoutDown(t *testing.T) {
	c := NewController(testSurface, ClickPickSeed, 0)
	assert.Equal(t, None, c.PointerUp(image.Pt(5, 5), testViewport).Kind)
}

func TestControllerCancel(t *testing.T) {
	c := NewController(testSurface, ClickPickSeed, 0)
	c.PointerDown(image.Pt(1, 1))
	c.SetSurface(mandel.SurfaceForWidth(640))
	assert.False(t, c.Dragging())
	assert.Equal(t, None, c.PointerUp(image.Pt(50, 50), testViewport).Kind)
}

func TestControllerZoomFactor(t *testing.T) {
	c := NewController(testSurface, ClickZoom, 0.5)
	c.PointerDown(image.Pt(160, 90))
	out := c.PointerUp(image.Pt(160, 90), testViewport)

	require.Equal(t, FixedZoom, out.Kind)
	assert.InDelta(t, (testViewport.ReMax-testViewport.ReMin)/2, out.Viewport.ReMax-out.Viewport.ReMin, 1e-12)
	assert.InDelta(t, (testViewport.ImMax-testViewport.ImMin)/2, out.Viewport.ImMax-out.Viewport.ImMin, 1e-12)
}
