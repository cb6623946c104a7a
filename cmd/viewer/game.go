package main

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	mandel "github.com/marben/escapetime"
	"github.com/marben/escapetime/interact"
	"github.com/marben/escapetime/internal/logger"
	"github.com/marben/escapetime/internal/viewer"
)

const help = "drag: zoom  click: seed  R/J reset  C scheme  F fractal  Up/Down iter  Left/Right width  P landmark  S save"

var (
	surfaces    = []mandel.SurfaceID{mandel.PrimarySurface, mandel.JuliaSurface}
	overlayFill = color.RGBA{0x40, 0x40, 0x40, 0x40}
)

// game is the ebiten.Game of the viewer. Update is the session's input
// goroutine.
type game struct {
	ctx  context.Context
	sess *interact.Session
	sink *viewer.Sink
	log  *logger.Logger
	keys map[ebiten.Key]viewer.Action

	images map[mandel.SurfaceID]*surfaceImage

	gesture mandel.SurfaceID // surface the button went down on, "" when idle
	lastPos image.Point
	message string
}

type surfaceImage struct {
	img     *ebiten.Image
	version uint64
}

func newGame(ctx context.Context, sess *interact.Session, sink *viewer.Sink, outDir string, log *logger.Logger) *game {
	return &game{
		ctx:  ctx,
		sess: sess,
		sink: sink,
		log:  log,
		keys: map[ebiten.Key]viewer.Action{
			ebiten.KeyR:          viewer.Reset(mandel.PrimarySurface),
			ebiten.KeyJ:          viewer.Reset(mandel.JuliaSurface),
			ebiten.KeyC:          viewer.CycleScheme,
			ebiten.KeyF:          viewer.CycleVariant,
			ebiten.KeyArrowUp:    viewer.Iterations(+1),
			ebiten.KeyArrowDown:  viewer.Iterations(-1),
			ebiten.KeyArrowRight: viewer.Width(+1),
			ebiten.KeyArrowLeft:  viewer.Width(-1),
			ebiten.KeyP:          viewer.NextPreset(),
			ebiten.KeyS:          viewer.Save(outDir),
		},
		images:  map[mandel.SurfaceID]*surfaceImage{},
		message: help,
	}
}

func (g *game) layout() viewer.Layout {
	return viewer.Layout{Surface: g.sess.Surface()}
}

func (g *game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}

	g.pointer()

	if g.gesture != "" && inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		if err := g.sess.PointerCancel(g.gesture); err != nil {
			g.fail(err)
		}
		g.gesture = ""
	}
	for key, action := range g.keys {
		if inpututil.IsKeyJustPressed(key) {
			g.run(action)
		}
	}
	return nil
}

func (g *game) pointer() {
	x, y := ebiten.CursorPosition()
	p := image.Pt(x, y)
	l := g.layout()

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		id, local, ok := l.Hit(p)
		if !ok {
			return
		}
		if err := g.sess.PointerDown(id, local); err != nil {
			g.fail(err)
			return
		}
		g.gesture, g.lastPos = id, p

	case g.gesture == "":
		return

	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		id := g.gesture
		g.gesture = ""
		out, err := g.sess.PointerUp(id, l.Local(id, p))
		if err != nil {
			g.fail(err)
			return
		}
		switch out.Kind {
		case interact.Seed:
			g.message = "julia seed " + out.Seed.String()
		case interact.Zoom, interact.FixedZoom:
			g.message = fmt.Sprintf("%s %s", id, out.Viewport)
		}

	case p != g.lastPos:
		g.lastPos = p
		if err := g.sess.PointerMove(g.gesture, l.Local(g.gesture, p)); err != nil {
			g.fail(err)
		}
	}
}

func (g *game) run(action viewer.Action) {
	msg, err := action(g.sess)
	if err != nil {
		g.fail(err)
		return
	}
	g.message = msg
	g.log.Debug("%s", msg)

	// the surface width may have changed
	ebiten.SetWindowSize(g.layout().Size())
}

func (g *game) fail(err error) {
	g.message = "error: " + err.Error()
	g.log.Warn("%v", err)
}

func (g *game) Draw(screen *ebiten.Image) {
	l := g.layout()
	textY := l.Surface.Height + 4

	for _, id := range surfaces {
		v := g.sink.View(id)
		o := l.Origin(id)

		if img := g.upload(id, v); img != nil {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(float64(o.X), float64(o.Y))
			screen.DrawImage(img, op)
		}

		if v.Boxed {
			x := float32(o.X) + float32(v.Overlay.X)
			y := float32(o.Y) + float32(v.Overlay.Y)
			w, h := float32(v.Overlay.W), float32(v.Overlay.H)
			vector.DrawFilledRect(screen, x, y, w, h, overlayFill, false)
			vector.StrokeRect(screen, x, y, w, h, 1, color.White, false)
		}

		line := v.Status
		if v.Frame != nil {
			line += "  " + v.Stats.String()
		}
		ebitenutil.DebugPrintAt(screen, line, o.X+4, textY)
	}

	p := g.sess.Params()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s  %s  %d iterations  seed %s  %.0f FPS",
		p.Variant, g.sess.Scheme(), p.MaxIterations, p.Seed, ebiten.ActualFPS()), 4, textY+16)
	ebitenutil.DebugPrintAt(screen, g.message, 4, textY+32)
}

// upload copies a new frame into the GPU image of surface id.
func (g *game) upload(id mandel.SurfaceID, v viewer.View) *ebiten.Image {
	if v.Frame == nil {
		return nil
	}
	si := g.images[id]
	w, h := v.Frame.Rect.Dx(), v.Frame.Rect.Dy()
	if si == nil || si.img.Bounds().Dx() != w || si.img.Bounds().Dy() != h {
		if si != nil {
			si.img.Deallocate()
		}
		si = &surfaceImage{img: ebiten.NewImage(w, h)}
		g.images[id] = si
	}
	if si.version != v.Version {
		si.img.WritePixels(v.Frame.Pix)
		si.version = v.Version
	}
	return si.img
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.layout().Size()
}
