package mandel

import (
	"fmt"
	"image"
	"strconv"
	"time"

	"github.com/marben/escapetime/palette"
)

// Renderer turns a viewport into a fully written pixel buffer.
type Renderer interface {
	Render(s Surface, v Viewport, p Params, scheme palette.Scheme) (*image.RGBA, Stats)
}

// FrameProvider hands out the last finished frame of a surface.
type FrameProvider interface {
	Frame(id SurfaceID) (*image.RGBA, bool)
}

// SurfaceID names one of the interactive surfaces of a session.
type SurfaceID string

const (
	PrimarySurface SurfaceID = "primary"
	JuliaSurface   SurfaceID = "julia"
)

// Stats summarizes one render pass.
type Stats struct {
	Iterations int64 // escape iterations summed over all pixels
	Elapsed    time.Duration
}

// String formats the stats as "1,234,567 iterations in 0.12 seconds".
func (s Stats) String() string {
	return fmt.Sprintf("%s iterations in %.2f seconds", groupThousands(s.Iterations), s.Elapsed.Seconds())
}

func groupThousands(n int64) string {
	digits := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, digits = "-", digits[1:]
	}
	out := make([]byte, 0, len(digits)+len(digits)/3)
	for i, nI := 0, len(digits); i < nI; i++ {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, digits[i])
	}
	return sign + string(out)
}
