// Package interact turns pointer gestures into new viewports or Julia seeds
// and drives rendering for an interactive session with a primary surface
// and a Julia surface.
package interact

import (
	"fmt"
	"image"
	"strings"

	mandel "github.com/marben/escapetime"
	"github.com/marben/escapetime/coords"
)

// ClickPolicy decides what a click (a gesture without vertical extent) does.
// Drags always zoom.
type ClickPolicy int

const (
	ClickPickSeed ClickPolicy = iota // pick the Julia seed under the pointer
	ClickZoom                        // zoom around the pointer by a fixed factor
	ClickIgnore
)

var clickPolicyNames = map[ClickPolicy]string{
	ClickPickSeed: "seed",
	ClickZoom:     "zoom",
	ClickIgnore:   "ignore",
}

func (p ClickPolicy) String() string {
	if name, ok := clickPolicyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("ClickPolicy(%d)", int(p))
}

// ParseClickPolicy accepts the String form.
func ParseClickPolicy(s string) (ClickPolicy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p, name := range clickPolicyNames {
		if name == s {
			return p, nil
		}
	}
	return ClickIgnore, fmt.Errorf("unknown click policy %q", s)
}

// OutcomeKind tells what a finished gesture asks for.
type OutcomeKind int

const (
	None      OutcomeKind = iota
	Zoom                  // Viewport is the dragged box
	Seed                  // Seed is the plane point that was clicked
	FixedZoom             // Viewport is a fixed-ratio zoom around the click
)

func (k OutcomeKind) String() string {
	switch k {
	case Zoom:
		return "zoom"
	case Seed:
		return "seed"
	case FixedZoom:
		return "fixed-zoom"
	default:
		return "none"
	}
}

// Outcome is the result of a pointer-up.
type Outcome struct {
	Kind     OutcomeKind
	Viewport mandel.Viewport
	Seed     mandel.Point
}

// Controller tracks the gesture on one surface. It is Idle until a pointer
// goes down and Dragging until it comes up again.
type Controller struct {
	surface    mandel.Surface
	policy     ClickPolicy
	zoomFactor float64

	dragging bool
	anchor   coords.PixelPoint
}

// NewController returns an idle controller. A zoomFactor outside (0, 1]
// falls back to coords.StaticZoomFactor.
func NewController(s mandel.Surface, policy ClickPolicy, zoomFactor float64) *Controller {
	if !(zoomFactor > 0 && zoomFactor <= 1) {
		zoomFactor = coords.StaticZoomFactor
	}
	return &Controller{surface: s, policy: policy, zoomFactor: zoomFactor}
}

func (c *Controller) Policy() ClickPolicy { return c.policy }

func (c *Controller) Dragging() bool { return c.dragging }

// SetSurface switches to a resized surface and abandons any gesture.
func (c *Controller) SetSurface(s mandel.Surface) {
	c.surface = s
	c.Cancel()
}

// Cancel abandons the current gesture, e.g. when the pointer leaves.
func (c *Controller) Cancel() {
	c.dragging = false
}

// PointerDown anchors a new gesture at pos.
func (c *Controller) PointerDown(pos image.Point) {
	c.dragging = true
	c.anchor = toPixel(pos)
}

// PointerMove returns the zoom box to draw as an overlay. The bool is false
// while idle.
func (c *Controller) PointerMove(pos image.Point) (coords.Box, bool) {
	if !c.dragging {
		return coords.Box{}, false
	}
	return coords.ZoomBox(c.anchor, toPixel(pos)), true
}

// PointerUp finishes the gesture against the viewport currently shown.
func (c *Controller) PointerUp(pos image.Point, v mandel.Viewport) Outcome {
	if !c.dragging {
		return Outcome{Kind: None}
	}
	c.dragging = false

	box := coords.ZoomBox(c.anchor, toPixel(pos))
	if !box.Empty() {
		return Outcome{
			Kind:     Zoom,
			Viewport: coords.RectToViewport(box.Min(), box.Max(), v, c.surface),
		}
	}

	switch c.policy {
	case ClickPickSeed:
		return Outcome{Kind: Seed, Seed: coords.PixelToPoint(c.anchor, v, c.surface)}
	case ClickZoom:
		return Outcome{Kind: FixedZoom, Viewport: coords.FixedRatioZoom(c.anchor, c.zoomFactor, v, c.surface)}
	default:
		return Outcome{Kind: None}
	}
}

func toPixel(p image.Point) coords.PixelPoint {
	return coords.PixelPoint{X: float64(p.X), Y: float64(p.Y)}
}
