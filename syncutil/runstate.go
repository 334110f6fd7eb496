package syncutil

import (
	"context"
	"sync/atomic"
)

// RunState is a one-way run/stop flag for application loops. It starts in the
// running state and can only be stopped. Derive watchers for the parts of the
// program that should observe shutdown without being able to trigger it.
type RunState struct {
	stopped atomic.Bool
	signal  Signal
}

// NewRunState creates a state in the running position.
func NewRunState() *RunState {
	return &RunState{}
}

// Stop flips the state to stopped and wakes every watcher. Subsequent calls
// are no-ops.
func (s *RunState) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		s.signal.Ping()
	}
}

// Running reports whether the state is still in the running position.
func (s *RunState) Running() bool {
	return !s.stopped.Load()
}

// Watcher derives a read-only view of the state.
func (s *RunState) Watcher() RunStateWatcher {
	return RunStateWatcher{state: s}
}

// RunStateWatcher is a read-only view of a RunState. Freely copyable.
type RunStateWatcher struct {
	state *RunState
}

// Running reports whether the observed state still runs.
func (w RunStateWatcher) Running() bool {
	return w.state.Running()
}

// Wait blocks until the observed state is stopped, or returns ctx.Err() when
// the context ends first.
func (w RunStateWatcher) Wait(ctx context.Context) error {
	for {
		ch := w.state.signal.Changed()

		if !w.state.Running() {
			return nil
		}

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
