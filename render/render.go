// Package render sweeps a surface through the iterator and the palette into
// an RGBA pixel buffer.
package render

import (
	"image"
	"image/color"
	"sync"
	"sync/atomic"
	"time"

	mandel "github.com/marben/escapetime"
	"github.com/marben/escapetime/iterate"
	"github.com/marben/escapetime/palette"
)

// DefaultTileSize is the edge of the square tiles handed to workers.
const DefaultTileSize = 64

// Render is the sequential reference sweep: every pixel, row-major, one
// after another. The returned buffer is fully written.
func Render(s mandel.Surface, v mandel.Viewport, p mandel.Params, scheme palette.Scheme) (*image.RGBA, mandel.Stats) {
	start := time.Now()
	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	iterations := RenderTile(img, img.Rect, s, v, p, scheme)
	return img, mandel.Stats{Iterations: iterations, Elapsed: time.Since(start)}
}

// RenderTile renders the pixels of tile into img, which spans the whole
// surface, and returns the iterations it performed.
func RenderTile(img *image.RGBA, tile image.Rectangle, s mandel.Surface, v mandel.Viewport, p mandel.Params, scheme palette.Scheme) int64 {
	escape := iterate.For(p)
	paint := palette.Func(scheme)

	// per-pixel steps, hoisted out of the loop
	reStep := (v.ReMax - v.ReMin) / float64(s.Width)
	imStep := (v.ImMin - v.ImMax) / float64(s.Height)

	var total int64
	for py := tile.Min.Y; py < tile.Max.Y; py++ {
		im := float64(py)*imStep + v.ImMax
		off := img.PixOffset(tile.Min.X, py)
		for px := tile.Min.X; px < tile.Max.X; px++ {
			re := float64(px)*reStep + v.ReMin

			n := escape(re, im)
			total += int64(iterate.Performed(n, p.MaxIterations))

			putRGBA(img.Pix[off:off+4], paint(n))
			off += 4
		}
	}
	return total
}

func putRGBA(dst []byte, c color.RGBA) {
	dst[0] = c.R
	dst[1] = c.G
	dst[2] = c.B
	dst[3] = c.A
}

// Renderer renders whole frames, optionally splitting them into tiles
// rendered by several goroutines. The buffer is identical to Render's.
type Renderer struct {
	Workers      int // <= 1 renders sequentially
	TileSize     int // 0 means DefaultTileSize
	OnTileRender func(tile image.Rectangle)
}

var _ mandel.Renderer = Renderer{}

// Render implements mandel.Renderer.
func (r Renderer) Render(s mandel.Surface, v mandel.Viewport, p mandel.Params, scheme palette.Scheme) (*image.RGBA, mandel.Stats) {
	if r.Workers <= 1 && r.OnTileRender == nil {
		return Render(s, v, p, scheme)
	}

	start := time.Now()
	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))

	size := r.TileSize
	if size <= 0 {
		size = DefaultTileSize
	}
	queue := newTileQueue(SplitRect(img.Rect, size, size))

	workers := max(r.Workers, 1)
	var (
		total atomic.Int64
		wg    sync.WaitGroup
	)
	for i, n := 0, workers; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				tile, ok := queue.pop()
				if !ok {
					return
				}
				if r.OnTileRender != nil {
					r.OnTileRender(tile)
				}
				// tiles never overlap, so workers write disjoint parts of Pix
				total.Add(RenderTile(img, tile, s, v, p, scheme))
			}
		}()
	}
	wg.Wait()

	return img, mandel.Stats{Iterations: total.Load(), Elapsed: time.Since(start)}
}
