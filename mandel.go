package mandel

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidViewport = errors.New("invalid viewport")
	ErrInvalidSurface  = errors.New("invalid surface")
	ErrInvalidParams   = errors.New("invalid fractal parameters")
)

// Viewport is the rectangle of the complex plane mapped onto a surface.
// It is a value: zooms and resets replace it, nothing mutates it in place.
type Viewport struct {
	ReMin, ReMax float64
	ImMin, ImMax float64
}

// Validate reports ErrInvalidViewport unless ReMax > ReMin and ImMax > ImMin.
func (v Viewport) Validate() error {
	for _, f := range []float64{v.ReMin, v.ReMax, v.ImMin, v.ImMax} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: non-finite bound in %s", ErrInvalidViewport, v)
		}
	}
	if !(v.ReMax > v.ReMin) {
		return fmt.Errorf("%w: ReMax %g <= ReMin %g", ErrInvalidViewport, v.ReMax, v.ReMin)
	}
	if !(v.ImMax > v.ImMin) {
		return fmt.Errorf("%w: ImMax %g <= ImMin %g", ErrInvalidViewport, v.ImMax, v.ImMin)
	}
	return nil
}

func (v Viewport) String() string {
	return fmt.Sprintf("[re %g..%g, im %g..%g]", v.ReMin, v.ReMax, v.ImMin, v.ImMax)
}

// Point is a point of the complex plane.
type Point struct {
	Re, Im float64
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.Re, p.Im)
}

// HomeView is the startup view of every variant: the classic frame with
// ReMax following from the imaginary span and AspectRatio.
var HomeView = Viewport{
	ReMin: -2,
	ReMax: -2 + 3*AspectRatio,
	ImMin: -1.5,
	ImMax: 1.5,
}

// Home returns the default view of the variant.
func Home(v Variant) Viewport {
	return HomeView
}

// Classic regions / landmarks in the Mandelbrot set
var (
	// Seahorse Valley – dense filaments and repeating “seahorse” curls
	SeahorseValley = Viewport{
		ReMin: -0.8,
		ReMax: -0.7,
		ImMin: 0.05,
		ImMax: 0.15,
	}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = Viewport{
		ReMin: -1.85,
		ReMax: -1.75,
		ImMin: -0.10,
		ImMax: -0.02,
	}

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = Viewport{
		ReMin: -0.7435,
		ReMax: -0.7420,
		ImMin: 0.1310,
		ImMax: 0.1325,
	}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = Viewport{
		ReMin: -0.7480,
		ReMax: -0.7450,
		ImMin: 0.0950,
		ImMax: 0.0980,
	}

	// Valley of the Dragon – deep, highly detailed spiral filaments
	ValleyOfTheDragon = Viewport{
		ReMin: -0.7400,
		ReMax: -0.7350,
		ImMin: 0.1800,
		ImMax: 0.1850,
	}

	// Minibrot in a Mini-Spiral – self-similar Mandelbrot copy inside a spiral arm
	MinibrotInMiniSpiral = Viewport{
		ReMin: -1.7390,
		ReMax: -1.7375,
		ImMin: -0.0235,
		ImMax: -0.0220,
	}
)

// Preset is a named landmark view.
type Preset struct {
	Name     string
	Viewport Viewport
}

// Presets lists the landmarks in display order.
var Presets = []Preset{
	{"seahorse-valley", SeahorseValley},
	{"elephant-valley", ElephantValley},
	{"spiral-minibrot", SpiralMinibrot},
	{"triple-spiral", TripleSpiral},
	{"valley-of-the-dragon", ValleyOfTheDragon},
	{"minibrot-in-mini-spiral", MinibrotInMiniSpiral},
}

// PresetByName looks a landmark up by its name.
func PresetByName(name string) (Preset, bool) {
	for _, p := range Presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}
