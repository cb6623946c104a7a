package interact

import (
	"context"
	"errors"
	"sync"
)

// ErrSchedulerClosed is returned by Schedule once Run has returned.
var ErrSchedulerClosed = errors.New("scheduler closed")

// Task is one deferred unit of work, typically a render.
type Task func()

// Scheduler runs tasks one at a time on a single goroutine, in submission
// order. A started task always runs to completion.
type Scheduler struct {
	m      sync.Mutex
	queue  []Task
	closed bool
	wake   chan struct{}

	pending sync.WaitGroup
}

func NewScheduler() *Scheduler {
	return &Scheduler{wake: make(chan struct{}, 1)}
}

// Schedule queues t and returns without waiting for it.
func (s *Scheduler) Schedule(t Task) error {
	s.m.Lock()
	defer s.m.Unlock()

	if s.closed {
		return ErrSchedulerClosed
	}
	s.pending.Add(1)
	s.queue = append(s.queue, t)

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return nil
}

// Len is the number of tasks waiting to start.
func (s *Scheduler) Len() int {
	s.m.Lock()
	defer s.m.Unlock()
	return len(s.queue)
}

// Wait blocks until every scheduled task has finished or been dropped.
func (s *Scheduler) Wait() {
	s.pending.Wait()
}

// Run executes queued tasks until ctx is done. Tasks still queued at that
// point are dropped; the one in progress finishes first.
func (s *Scheduler) Run(ctx context.Context) error {
	defer s.close()

	for {
		t, ok := s.pop()
		if !ok {
			select {
			case <-ctx.Done():
				return context.Cause(ctx)
			case <-s.wake:
				continue
			}
		}

		if ctx.Err() != nil {
			// put it back so close() accounts for it
			s.m.Lock()
			s.queue = append([]Task{t}, s.queue...)
			s.m.Unlock()
			return context.Cause(ctx)
		}

		s.run(t)
	}
}

// run executes t, releasing Wait even if t panics.
func (s *Scheduler) run(t Task) {
	defer s.pending.Done()
	t()
}

func (s *Scheduler) pop() (Task, bool) {
	s.m.Lock()
	defer s.m.Unlock()

	if len(s.queue) == 0 {
		return nil, false
	}
	t := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	return t, true
}

func (s *Scheduler) close() {
	s.m.Lock()
	defer s.m.Unlock()

	s.closed = true
	for range s.queue {
		s.pending.Done()
	}
	s.queue = nil
}
