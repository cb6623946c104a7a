package viewer

import (
	"image"
	"sync"

	mandel "github.com/marben/escapetime"
	"github.com/marben/escapetime/coords"
	"github.com/marben/escapetime/interact"
)

// View is what the display shows for one surface.
type View struct {
	Status  string
	Frame   *image.RGBA
	Stats   mandel.Stats
	Overlay coords.Box
	Boxed   bool // Overlay is visible

	// Version increases with every frame, so the display uploads pixels
	// only when they changed.
	Version uint64
}

// Sink collects the session's output for the draw loop, which runs on a
// different goroutine than the renders.
type Sink struct {
	m     sync.Mutex
	views map[mandel.SurfaceID]*View
}

var _ interact.Sink = (*Sink)(nil)

func NewSink() *Sink {
	return &Sink{views: map[mandel.SurfaceID]*View{
		mandel.PrimarySurface: {Status: interact.StatusReady},
		mandel.JuliaSurface:   {Status: interact.StatusReady},
	}}
}

func (s *Sink) Status(id mandel.SurfaceID, message string) {
	s.update(id, func(v *View) { v.Status = message })
}

func (s *Sink) Overlay(id mandel.SurfaceID, box coords.Box, visible bool) {
	s.update(id, func(v *View) {
		v.Overlay = box
		v.Boxed = visible
	})
}

func (s *Sink) Frame(id mandel.SurfaceID, frame *image.RGBA, stats mandel.Stats) {
	s.update(id, func(v *View) {
		v.Frame = frame
		v.Stats = stats
		v.Version++
	})
}

func (s *Sink) update(id mandel.SurfaceID, f func(*View)) {
	s.m.Lock()
	defer s.m.Unlock()
	if v, ok := s.views[id]; ok {
		f(v)
	}
}

// View returns a copy of the current view of surface id.
func (s *Sink) View(id mandel.SurfaceID) View {
	s.m.Lock()
	defer s.m.Unlock()
	if v, ok := s.views[id]; ok {
		return *v
	}
	return View{}
}
