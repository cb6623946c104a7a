package interact

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s := NewScheduler()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return s
}

func TestSchedulerRunsInOrder(t *testing.T) {
	s := runScheduler(t)

	var (
		mu  sync.Mutex
		got []int
	)
	for i := 0; i < 20; i++ {
		i := i // per-iteration copy (Go 1.22 loopvar semantics)
		require.NoError(t, s.Schedule(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}))
	}
	s.Wait()

	want := make([]int, 20)
	for i := range want {
		want[i] = i
	}
	assert.Equal(t, want, got)
}

func TestScheduleDoesNotWait(t *testing.T) {
	s := runScheduler(t)

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, s.Schedule(func() {
		close(started)
		<-release
	}))
	<-started

	ran := false
	require.NoError(t, s.Schedule(func() { ran = true }))
	assert.Equal(t, 1, s.Len(), "second task waits behind the running one")

	close(release)
	s.Wait()
	assert.True(t, ran)
	assert.Zero(t, s.Len())
}

func TestSchedulerClosed(t *testing.T) {
	s := NewScheduler()
	ctx, cancel := context.WithCancel(context.Background())

	release := make(chan struct{})
	require.NoError(t, s.Schedule(func() { <-release }))
	require.NoError(t, s.Schedule(func() { t.Error("dropped task ran") }))

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return s.Len() == 1 }, time.Second, time.Millisecond)
	cancel()
	close(release)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}

	s.Wait()
	assert.ErrorIs(t, s.Schedule(func() {}), ErrSchedulerClosed)
}

func TestSchedulerPanicReleasesWait(t *testing.T) {
	s := NewScheduler()
	require.NoError(t, s.Schedule(func() { panic("render failed") }))
	require.NoError(t, s.Schedule(func() { t.Error("task after the panic ran") }))

	recovered := make(chan any, 1)
	go func() {
		defer func() { recovered <- recover() }()
		_ = s.Run(context.Background())
	}()

	select {
	case r := <-recovered:
		assert.Equal(t, "render failed", r)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not unwind")
	}

	waited := make(chan struct{})
	go func() {
		s.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(5 * time.Second):
		t.Fatal("Wait blocked after a panicking task")
	}
	assert.ErrorIs(t, s.Schedule(func() {}), ErrSchedulerClosed)
}
