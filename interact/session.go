package interact

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"

	mandel "github.com/marben/escapetime"
	"github.com/marben/escapetime/coords"
	"github.com/marben/escapetime/export"
	"github.com/marben/escapetime/internal/logger"
	"github.com/marben/escapetime/palette"
	"github.com/marben/escapetime/render"
)

const (
	StatusReady       = "Click or click and drag to zoom"
	StatusCalculating = "Calculating..."
)

// ErrUnknownSurface is returned for a SurfaceID the session does not have.
var ErrUnknownSurface = errors.New("unknown surface")


// Sink receives what a display needs to show. Status may be called from
// the input goroutine and from the render goroutine; Frame only from the
// latter; Overlay only from the former.
type Sink interface {
	Status(id mandel.SurfaceID, message string)
	Overlay(id mandel.SurfaceID, box coords.Box, visible bool)
	Frame(id mandel.SurfaceID, frame *image.RGBA, stats mandel.Stats)
}

type nopSink struct{}

func (nopSink) Status(mandel.SurfaceID, string)                   {}
func (nopSink) Overlay(mandel.SurfaceID, coords.Box, bool)        {}
func (nopSink) Frame(mandel.SurfaceID, *image.RGBA, mandel.Stats) {}

// Options configure a Session. A zero Width, Params, Renderer or Logger
// picks the default.
type Options struct {
	Width       int
	Params      mandel.Params
	Scheme      palette.Scheme
	ClickPolicy ClickPolicy // primary surface only; the Julia surface ignores clicks
	ZoomFactor  float64
	Renderer    mandel.Renderer
	Logger      *logger.Logger
}

type surface struct {
	id       mandel.SurfaceID
	ctrl     *Controller
	viewport mandel.Viewport

	// guarded by Session.m
	frame  *image.RGBA
	stats  mandel.Stats
	status string
}

// Session holds a primary surface (Mandelbrot or Burning Ship, or Julia)
// and a Julia surface whose seed is picked on the primary.
//
// All methods except Frame, Stats and Status must be called from a single
// input goroutine. Renders are deferred to the Scheduler, which must be
// running for frames to appear.
type Session struct {
	sched    *Scheduler
	sink     Sink
	renderer mandel.Renderer
	log      *logger.Logger

	surf    mandel.Surface
	params  mandel.Params
	scheme  palette.Scheme
	primary *surface
	julia   *surface

	m sync.Mutex
}

var _ mandel.FrameProvider = (*Session)(nil)

// NewSession creates a session with both surfaces at their home viewports.
// Nothing is rendered until Start.
func NewSession(opts Options, sched *Scheduler, sink Sink) (*Session, error) {
	if opts.Width == 0 {
		opts.Width = mandel.DefaultWidth
	}
	if !mandel.IsSurfaceWidth(opts.Width) {
		return nil, fmt.Errorf("%w: width %d", mandel.ErrInvalidSurface, opts.Width)
	}
	if opts.Params == (mandel.Params{}) {
		opts.Params = mandel.DefaultParams(mandel.Mandelbrot)
	}
	if err := opts.Params.Validate(); err != nil {
		return nil, err
	}
	if opts.Renderer == nil {
		opts.Renderer = render.Renderer{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if sink == nil {
		sink = nopSink{}
	}

	surf := mandel.SurfaceForWidth(opts.Width)
	s := &Session{
		sched:    sched,
		sink:     sink,
		renderer: opts.Renderer,
		log:      opts.Logger.WithComponent("session"),
		surf:     surf,
		params:   opts.Params,
		scheme:   opts.Scheme,
		primary: &surface{
			id:     mandel.PrimarySurface,
			ctrl:   NewController(surf, opts.ClickPolicy, opts.ZoomFactor),
			status: StatusReady,
		},
		julia: &surface{
			id:     mandel.JuliaSurface,
			ctrl:   NewController(surf, ClickIgnore, opts.ZoomFactor),
			status: StatusReady,
		},
	}
	s.primary.viewport = s.home(s.primary)
	s.julia.viewport = s.home(s.julia)
	return s, nil
}

// Start schedules the first render of both surfaces.
func (s *Session) Start() error {
	return errors.Join(s.render(s.primary), s.render(s.julia))
}

func (s *Session) surface(id mandel.SurfaceID) (*surface, error) {
	switch id {
	case mandel.PrimarySurface:
		return s.primary, nil
	case mandel.JuliaSurface:
		return s.julia, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSurface, id)
}

// variant is what a surface shows under the current params.
func (s *Session) variant(st *surface) mandel.Variant {
	if st == s.julia {
		return mandel.Julia
	}
	return s.params.Variant
}

// home is the balanced startup viewport of a surface's variant.
func (s *Session) home(st *surface) mandel.Viewport {
	return s.balance(st, mandel.Home(s.variant(st)))
}

// balance fits v to the surface aspect ratio, warning when its ReMax had to
// change.
func (s *Session) balance(st *surface, v mandel.Viewport) mandel.Viewport {
	balanced, adjusted := coords.Balance(v, s.surf)
	if adjusted {
		s.log.WarnWithFields("viewport ReMax disagrees with surface, using derived value", []logger.Field{
			logger.F("surface", st.id),
			logger.F("given", v.ReMax),
			logger.F("derived", balanced.ReMax),
		})
	}
	return balanced
}

// render publishes the calculating status and queues a render of st with
// the current state captured by value.
func (s *Session) render(st *surface) error {
	var (
		surf   = s.surf
		v      = st.viewport
		p      = s.params.WithVariant(s.variant(st))
		scheme = s.scheme
		r      = s.renderer
	)

	s.setStatus(st, StatusCalculating)
	return s.sched.Schedule(func() {
		img, stats := r.Render(surf, v, p, scheme)

		s.m.Lock()
		st.frame = img
		st.stats = stats
		s.m.Unlock()

		s.log.InfoWithFields("rendered", []logger.Field{
			logger.F("surface", st.id),
			logger.F("variant", p.Variant),
			logger.F("viewport", v),
			logger.F("iterations", stats.Iterations),
			logger.Duration(stats.Elapsed),
		})
		s.sink.Frame(st.id, img, stats)
		s.setStatus(st, StatusReady)
	})
}

func (s *Session) setStatus(st *surface, msg string) {
	s.m.Lock()
	st.status = msg
	s.m.Unlock()
	s.sink.Status(st.id, msg)
}

// PointerDown starts a gesture on surface id.
func (s *Session) PointerDown(id mandel.SurfaceID, pos image.Point) error {
	st, err := s.surface(id)
	if err != nil {
		return err
	}
	st.ctrl.PointerDown(pos)
	return nil
}

// PointerMove updates the zoom box overlay while dragging.
func (s *Session) PointerMove(id mandel.SurfaceID, pos image.Point) error {
	st, err := s.surface(id)
	if err != nil {
		return err
	}
	if box, ok := st.ctrl.PointerMove(pos); ok {
		s.sink.Overlay(id, box, true)
	}
	return nil
}

// PointerUp finishes a gesture and schedules whatever render it implies.
func (s *Session) PointerUp(id mandel.SurfaceID, pos image.Point) (Outcome, error) {
	st, err := s.surface(id)
	if err != nil {
		return Outcome{}, err
	}
	if !st.ctrl.Dragging() {
		return Outcome{Kind: None}, nil
	}
	s.sink.Overlay(id, coords.Box{}, false)

	out := st.ctrl.PointerUp(pos, st.viewport)
	switch out.Kind {
	case Zoom, FixedZoom:
		if err := out.Viewport.Validate(); err != nil {
			return Outcome{Kind: None}, fmt.Errorf("%s %s: %w", id, out.Kind, err)
		}
		s.log.Debug("%s %s: %s", id, out.Kind, out.Viewport)
		st.viewport = out.Viewport
		return out, s.render(st)
	case Seed:
		if s.params.Variant == mandel.Julia {
			// a Julia primary has no seed to pick
			return Outcome{Kind: None}, nil
		}
		s.log.Debug("julia seed %s", out.Seed)
		s.params = s.params.WithSeed(out.Seed)
		return out, s.render(s.julia)
	}
	return out, nil
}

// PointerCancel abandons a gesture, e.g. when the pointer leaves the surface.
func (s *Session) PointerCancel(id mandel.SurfaceID) error {
	st, err := s.surface(id)
	if err != nil {
		return err
	}
	if st.ctrl.Dragging() {
		st.ctrl.Cancel()
		s.sink.Overlay(id, coords.Box{}, false)
	}
	return nil
}

// Reset returns surface id to its home viewport.
func (s *Session) Reset(id mandel.SurfaceID) error {
	st, err := s.surface(id)
	if err != nil {
		return err
	}
	st.viewport = s.home(st)
	return s.render(st)
}

func (s *Session) resetAll() error {
	s.primary.viewport = s.home(s.primary)
	s.julia.viewport = s.home(s.julia)
	return errors.Join(s.render(s.primary), s.render(s.julia))
}

// CycleScheme advances to the next palette scheme. It takes effect with the
// next render of each surface.
func (s *Session) CycleScheme() palette.Scheme {
	s.scheme = s.scheme.Next()
	return s.scheme
}

// SetScheme selects a palette scheme for the next renders.
func (s *Session) SetScheme(scheme palette.Scheme) error {
	if _, err := palette.Parse(scheme.String()); err != nil {
		return err
	}
	s.scheme = scheme
	return nil
}

// CycleVariant switches the primary surface to the next variant and resets
// it to that variant's home.
func (s *Session) CycleVariant() (mandel.Variant, error) {
	v := s.params.Variant.Next()
	return v, s.SetVariant(v)
}

// SetVariant switches the primary surface to v and resets it.
func (s *Session) SetVariant(v mandel.Variant) error {
	p := s.params.WithVariant(v)
	if err := p.Validate(); err != nil {
		return err
	}
	s.params = p
	return s.Reset(mandel.PrimarySurface)
}

// SetMaxIterations changes the iteration cap and resets both surfaces.
func (s *Session) SetMaxIterations(n int) error {
	if !mandel.IsIterationChoice(n) {
		return fmt.Errorf("%w: max iterations %d not one of %v", mandel.ErrInvalidParams, n, mandel.IterationChoices)
	}
	s.params = s.params.WithMaxIterations(n)
	return s.resetAll()
}

// SetWidth resizes both surfaces and resets them.
func (s *Session) SetWidth(width int) error {
	if !mandel.IsSurfaceWidth(width) {
		return fmt.Errorf("%w: width %d not one of %v", mandel.ErrInvalidSurface, width, mandel.SurfaceWidths)
	}
	s.surf = mandel.SurfaceForWidth(width)
	s.primary.ctrl.SetSurface(s.surf)
	s.julia.ctrl.SetSurface(s.surf)
	return s.resetAll()
}

// GoTo shows a named landmark on the primary surface, switching it to
// Mandelbrot first.
func (s *Session) GoTo(name string) error {
	preset, ok := mandel.PresetByName(name)
	if !ok {
		return fmt.Errorf("%w: unknown preset %q", mandel.ErrInvalidViewport, name)
	}
	if err := preset.Viewport.Validate(); err != nil {
		return fmt.Errorf("preset %q: %w", name, err)
	}
	s.params = s.params.WithVariant(mandel.Mandelbrot)
	s.primary.viewport = s.balance(s.primary, preset.Viewport)
	return s.render(s.primary)
}

// Frame implements mandel.FrameProvider.
func (s *Session) Frame(id mandel.SurfaceID) (*image.RGBA, bool) {
	st, err := s.surface(id)
	if err != nil {
		return nil, false
	}
	s.m.Lock()
	defer s.m.Unlock()
	return st.frame, st.frame != nil
}

// Stats of the last finished render of surface id.
func (s *Session) Stats(id mandel.SurfaceID) (mandel.Stats, bool) {
	st, err := s.surface(id)
	if err != nil {
		return mandel.Stats{}, false
	}
	s.m.Lock()
	defer s.m.Unlock()
	return st.stats, st.frame != nil
}

// Status is the message currently shown for surface id.
func (s *Session) Status(id mandel.SurfaceID) string {
	st, err := s.surface(id)
	if err != nil {
		return ""
	}
	s.m.Lock()
	defer s.m.Unlock()
	return st.status
}

// Export writes the last frame of surface id as PNG.
func (s *Session) Export(id mandel.SurfaceID, w io.Writer) error {
	return export.Frame(w, s, id)
}

// ExportFilename is the file name to save surface id under; name may be
// blank.
func (s *Session) ExportFilename(id mandel.SurfaceID, name string) string {
	v := s.params.Variant
	if id == mandel.JuliaSurface {
		v = mandel.Julia
	}
	return export.Filename(name, v)
}

func (s *Session) Params() mandel.Params { return s.params }

func (s *Session) Scheme() palette.Scheme { return s.scheme }

func (s *Session) Surface() mandel.Surface { return s.surf }

// Viewport is the viewport surface id currently shows or is about to.
func (s *Session) Viewport(id mandel.SurfaceID) (mandel.Viewport, error) {
	st, err := s.surface(id)
	if err != nil {
		return mandel.Viewport{}, err
	}
	return st.viewport, nil
}
