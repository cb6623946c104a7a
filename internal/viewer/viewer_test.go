package viewer

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mandel "github.com/marben/escapetime"
	"github.com/marben/escapetime/coords"
	"github.com/marben/escapetime/export"
	"github.com/marben/escapetime/interact"
)

func newSession(t *testing.T) (*interact.Session, *interact.Scheduler, *Sink) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	sched := interact.NewScheduler()
	go func() {
		_ = sched.Run(ctx)
	}()

	sink := NewSink()
	sess, err := interact.NewSession(interact.Options{
		Width:  320,
		Params: mandel.DefaultParams(mandel.Mandelbrot).WithMaxIterations(50),
	}, sched, sink)
	require.NoError(t, err)
	require.NoError(t, sess.Start())
	sched.Wait()
	return sess, sched, sink
}

func TestLayout(t *testing.T) {
	l := Layout{Surface: mandel.SurfaceForWidth(320)}

	w, h := l.Size()
	assert.Equal(t, 2*320+Gap, w)
	assert.Equal(t, 180+StatusHeight, h)

	id, local, ok := l.Hit(image.Pt(10, 20))
	require.True(t, ok)
	assert.Equal(t, mandel.PrimarySurface, id)
	assert.Equal(t, image.Pt(10, 20), local)

	id, local, ok = l.Hit(image.Pt(320+Gap+5, 7))
	require.True(t, ok)
	assert.Equal(t, mandel.JuliaSurface, id)
	assert.Equal(t, image.Pt(5, 7), local)

	_, _, ok = l.Hit(image.Pt(320+1, 7))
	assert.False(t, ok, "gap")
	_, _, ok = l.Hit(image.Pt(10, 190))
	assert.False(t, ok, "status area")

	assert.Equal(t, image.Pt(320, 0), l.Local(mandel.PrimarySurface, image.Pt(400, -3)))
	assert.Equal(t, image.Pt(0, 180), l.Local(mandel.JuliaSurface, image.Pt(2, 500)))
}

func TestStep(t *testing.T) {
	choices := []int{5, 10, 25}

	tests := []struct {
		current, dir int
		want         int
		ok           bool
	}{
		{5, +1, 10, true},
		{10, -1, 5, true},
		{25, +1, 25, false},
		{5, -1, 5, false},
		{7, +1, 10, true},
		{7, -1, 5, true},
		{30, -1, 25, true},
	}
	for _, tt := range tests {
		got, ok := Step(choices, tt.current, tt.dir)
		assert.Equal(t, tt.want, got, "%d%+d", tt.current, tt.dir)
		assert.Equal(t, tt.ok, ok, "%d%+d", tt.current, tt.dir)
	}
}

func TestSinkViews(t *testing.T) {
	s := NewSink()
	assert.Equal(t, interact.StatusReady, s.View(mandel.JuliaSurface).Status)

	s.Status(mandel.PrimarySurface, interact.StatusCalculating)
	s.Overlay(mandel.PrimarySurface, coords.Box{X: 1, Y: 2, W: 16, H: 9}, true)
	frame := image.NewRGBA(image.Rect(0, 0, 4, 4))
	s.Frame(mandel.PrimarySurface, frame, mandel.Stats{Iterations: 42})
	s.Frame(mandel.PrimarySurface, frame, mandel.Stats{Iterations: 43})

	v := s.View(mandel.PrimarySurface)
	assert.Equal(t, interact.StatusCalculating, v.Status)
	assert.True(t, v.Boxed)
	assert.Equal(t, 16.0, v.Overlay.W)
	assert.Same(t, frame, v.Frame)
	assert.Equal(t, int64(43), v.Stats.Iterations)
	assert.Equal(t, uint64(2), v.Version)

	assert.Nil(t, s.View(mandel.JuliaSurface).Frame)
	assert.Equal(t, View{}, s.View("sideways"))
}

func TestSinkFollowsSession(t *testing.T) {
	sess, sched, sink := newSession(t)

	for _, id := range []mandel.SurfaceID{mandel.PrimarySurface, mandel.JuliaSurface} {
		v := sink.View(id)
		assert.Equal(t, interact.StatusReady, v.Status)
		assert.Equal(t, uint64(1), v.Version)
		require.NotNil(t, v.Frame)
	}

	require.NoError(t, sess.PointerDown(mandel.PrimarySurface, image.Pt(10, 10)))
	require.NoError(t, sess.PointerMove(mandel.PrimarySurface, image.Pt(50, 40)))
	assert.True(t, sink.View(mandel.PrimarySurface).Boxed)

	_, err := sess.PointerUp(mandel.PrimarySurface, image.Pt(50, 40))
	require.NoError(t, err)
	sched.Wait()

	v := sink.View(mandel.PrimarySurface)
	assert.False(t, v.Boxed)
	assert.Equal(t, uint64(2), v.Version)
}

func TestActions(t *testing.T) {
	sess, sched, _ := newSession(t)

	msg, err := Iterations(+1)(sess)
	require.NoError(t, err)
	assert.Equal(t, "100 iterations", msg)
	assert.Equal(t, 100, sess.Params().MaxIterations)

	msg, err = Width(-1)(sess)
	require.NoError(t, err)
	assert.Equal(t, "width stays at 320", msg)

	_, err = Width(+1)(sess)
	require.NoError(t, err)
	assert.Equal(t, 640, sess.Surface().Width)

	msg, err = CycleVariant(sess)
	require.NoError(t, err)
	assert.Equal(t, "variant burning-ship", msg)

	msg, err = NextPreset()(sess)
	require.NoError(t, err)
	assert.Equal(t, mandel.Presets[0].Name, msg)
	assert.Equal(t, mandel.Mandelbrot, sess.Params().Variant)

	_, err = Reset(mandel.JuliaSurface)(sess)
	require.NoError(t, err)

	_, err = CycleScheme(sess)
	require.NoError(t, err)
	sched.Wait()
}

func TestSave(t *testing.T) {
	sess, _, _ := newSession(t)
	dir := t.TempDir()

	msg, err := Save(dir)(sess)
	require.NoError(t, err)
	assert.Contains(t, msg, "Mandelbrot.png")
	assert.FileExists(t, filepath.Join(dir, "Mandelbrot.png"))
	assert.FileExists(t, filepath.Join(dir, "Julia.png"))
}

func TestSaveJuliaPrimary(t *testing.T) {
	sess, sched, _ := newSession(t)
	require.NoError(t, sess.SetVariant(mandel.Julia))
	sched.Wait()
	dir := t.TempDir()

	_, err := Save(dir)(sess)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"Julia.png", "Julia-seed.png"}, names)
}

func TestSaveWithoutFrames(t *testing.T) {
	sched := interact.NewScheduler() // never runs
	sess, err := interact.NewSession(interact.Options{Width: 320}, sched, nil)
	require.NoError(t, err)

	_, err = Save(t.TempDir())(sess)
	assert.ErrorIs(t, err, export.ErrNoFrame)
}
