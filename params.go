package mandel

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// AspectRatio is the width/height ratio every surface and viewport keeps.
const AspectRatio = 16.0 / 9.0

// Surface is the pixel raster a viewport is rendered onto.
type Surface struct {
	Width, Height int
}

// SurfaceWidths are the widths a user may pick; heights follow from AspectRatio.
var SurfaceWidths = []int{320, 640, 960, 1280, 1600, 1920}

// DefaultWidth is the surface width used when nothing else is configured.
const DefaultWidth = 960

// SurfaceForWidth returns the surface of the given width with the height
// derived from AspectRatio.
func SurfaceForWidth(width int) Surface {
	return Surface{Width: width, Height: int(math.Round(float64(width) / AspectRatio))}
}

// Validate rejects surfaces without pixels.
func (s Surface) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSurface, s.Width, s.Height)
	}
	return nil
}

// Pixels is the number of pixels on the surface.
func (s Surface) Pixels() int {
	return s.Width * s.Height
}

func (s Surface) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Variant selects the escape-time recurrence.
type Variant int

const (
	Mandelbrot Variant = iota
	BurningShip
	Julia
)

var variantNames = map[Variant]string{
	Mandelbrot:  "mandelbrot",
	BurningShip: "burning-ship",
	Julia:       "julia",
}

func (v Variant) String() string {
	if s, ok := variantNames[v]; ok {
		return s
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

// Title is the human readable name, also used for default file names.
func (v Variant) Title() string {
	switch v {
	case BurningShip:
		return "BurningShip"
	case Julia:
		return "Julia"
	default:
		return "Mandelbrot"
	}
}

// Next cycles Mandelbrot → Burning Ship → Julia → Mandelbrot.
func (v Variant) Next() Variant {
	return (v + 1) % 3
}

// ParseVariant accepts the String form, case-insensitively.
func ParseVariant(s string) (Variant, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for v, name := range variantNames {
		if name == s {
			return v, nil
		}
	}
	return Mandelbrot, fmt.Errorf("%w: unknown variant %q", ErrInvalidParams, s)
}

// IterationChoices are the iteration caps a user may pick.
var IterationChoices = []int{5, 10, 25, 50, 100, 250, 500, 1000, 1200, 2000, 3000}

const DefaultMaxIterations = 1200

// DefaultSeed is the Julia seed used until one is picked.
var DefaultSeed = Point{Re: -0.67319, Im: 0.3542}

// Params describes what to render. It is passed by value into every render;
// changing a setting means building a new Params.
type Params struct {
	Variant       Variant
	MaxIterations int
	Seed          Point // only used by Julia
}

// DefaultParams returns the startup parameters for a variant.
func DefaultParams(v Variant) Params {
	return Params{Variant: v, MaxIterations: DefaultMaxIterations, Seed: DefaultSeed}
}

func (p Params) Validate() error {
	if _, ok := variantNames[p.Variant]; !ok {
		return fmt.Errorf("%w: %s", ErrInvalidParams, p.Variant)
	}
	if p.MaxIterations < 1 {
		return fmt.Errorf("%w: max iterations %d", ErrInvalidParams, p.MaxIterations)
	}
	if math.IsNaN(p.Seed.Re) || math.IsNaN(p.Seed.Im) {
		return fmt.Errorf("%w: seed %s", ErrInvalidParams, p.Seed)
	}
	return nil
}

func (p Params) WithVariant(v Variant) Params {
	p.Variant = v
	return p
}

func (p Params) WithMaxIterations(n int) Params {
	p.MaxIterations = n
	return p
}

func (p Params) WithSeed(seed Point) Params {
	p.Seed = seed
	return p
}

// IsIterationChoice reports whether n is one of IterationChoices.
func IsIterationChoice(n int) bool {
	return slices.Contains(IterationChoices, n)
}

// IsSurfaceWidth reports whether w is one of SurfaceWidths.
func IsSurfaceWidth(w int) bool {
	return slices.Contains(SurfaceWidths, w)
}
