// Package palette maps escape iteration counts to colors.
//
// Every scheme is total over int: the bounded sentinel -1 maps to InSet and
// any other count yields an opaque color. Channel arithmetic is done on int
// and clamped to [0,255], the same way a clamped canvas buffer stores it.
package palette

import (
	"fmt"
	"image/color"
	"strings"
)

// Bounded is the iteration count of an orbit that never escaped.
const Bounded = -1

// SpectrumPeriod is the length of the Spectrum hue cycle.
const SpectrumPeriod = 764

// InSet is the color of points that never escaped.
var InSet = color.RGBA{0, 0, 0, 255}

// Scheme selects one palette function.
type Scheme int

const (
	JuliaSteps Scheme = iota
	Spectrum
	Burning
	Blue
	Red
	Green
	Purple
	Yellow
	Cyan
	White
	numSchemes
)

var schemeNames = [numSchemes]string{
	JuliaSteps: "julia",
	Spectrum:   "spectrum",
	Burning:    "burning",
	Blue:       "blue",
	Red:        "red",
	Green:      "green",
	Purple:     "purple",
	Yellow:     "yellow",
	Cyan:       "cyan",
	White:      "white",
}

// DefaultScheme is the scheme a new session starts with.
const DefaultScheme = Spectrum

// Schemes returns every scheme in cycling order.
func Schemes() []Scheme {
	out := make([]Scheme, 0, numSchemes)
	for s := Scheme(0); s < numSchemes; s++ {
		out = append(out, s)
	}
	return out
}

func (s Scheme) String() string {
	if s.valid() {
		return schemeNames[s]
	}
	return fmt.Sprintf("scheme(%d)", int(s))
}

func (s Scheme) valid() bool {
	return s >= 0 && s < numSchemes
}

// Next returns the scheme after s, wrapping around.
func (s Scheme) Next() Scheme {
	if !s.valid() {
		return 0
	}
	return (s + 1) % numSchemes
}

// Parse accepts a scheme name, case-insensitively.
func Parse(name string) (Scheme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range schemeNames {
		if n == name {
			return Scheme(i), nil
		}
	}
	return DefaultScheme, fmt.Errorf("unknown color scheme %q", name)
}

// Color maps an iteration count to a color under scheme s. Unknown schemes
// paint every escaped point white.
func Color(s Scheme, iterations int) color.RGBA {
	if iterations == Bounded {
		return InSet
	}
	switch s {
	case JuliaSteps:
		return juliaSteps(iterations)
	case Spectrum:
		return spectrum(iterations)
	case Burning:
		return burning(iterations)
	case Blue:
		// fed n+50 so that the first escapes are not pure black
		return rgb(5, 0, mod(iterations+50, 255))
	case Red:
		return rgb(mod(iterations, 255), 0, 0)
	case Green:
		return rgb(0, mod(iterations, 255), 0)
	case Purple:
		v := mod(iterations, 255)
		return rgb(v, 0, v)
	case Yellow:
		v := mod(iterations, 255)
		return rgb(v, v, 0)
	case Cyan:
		v := mod(iterations, 255)
		return rgb(25, v, v)
	case White:
		v := mod(iterations, 255)
		return rgb(v, v, v)
	default:
		return color.RGBA{255, 255, 255, 255}
	}
}

// Func returns the palette function of s.
func Func(s Scheme) func(iterations int) color.RGBA {
	return func(iterations int) color.RGBA {
		return Color(s, iterations)
	}
}

func juliaSteps(n int) color.RGBA {
	return rgb(0, 0, (mod(n, 5)+1)*50)
}

// spectrum walks blue→green, green→red, red→blue in three 255-wide ramps and
// bands each channel to a multiple of 10.
func spectrum(n int) color.RGBA {
	hue := mod(n, SpectrumPeriod)
	r, g, b := 1, 1, 1
	switch {
	case hue <= 255:
		b = 255 - hue
		g = hue
	case hue <= 510:
		g = 510 - hue
		r = hue - 255
	default:
		r = 764 - hue
		b = hue - 510
	}
	return rgb(band(r), band(g), band(b))
}

func burning(n int) color.RGBA {
	v := mod(n, 255)
	return rgb((v-200)*3, v, 100-v*v)
}

// band rounds a non-negative channel to the nearest multiple of 10, halves up.
func band(v int) int {
	return (v + 5) / 10 * 10
}

func rgb(r, g, b int) color.RGBA {
	return color.RGBA{Clamp(r), Clamp(g), Clamp(b), 255}
}

// Clamp saturates v into a color channel.
func Clamp(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}

// mod is a modulus that stays non-negative for negative n.
func mod(n, m int) int {
	r := n % m
	if r < 0 {
		r += m
	}
	return r
}
