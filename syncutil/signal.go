package syncutil

import "sync"

// Signal is a payload-less change broadcast. Ping wakes every goroutine
// currently waiting on the channel returned by Changed; later waiters get a
// fresh channel and wait for the next ping.
//
// Waiters must grab the channel BEFORE checking the condition they wait for,
// then re-check after the channel fires:
//
//	for {
//		ch := s.Changed()
//		if done() {
//			return
//		}
//		select {
//		case <-ch:
//		case <-ctx.Done():
//			return
//		}
//	}
//
// That ordering makes a ping between the check and the wait impossible to
// miss. The zero value is ready to use.
type Signal struct {
	mu sync.Mutex
	ch chan struct{}
}

// Changed returns a channel that is closed by the next Ping.
func (s *Signal) Changed() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ch == nil {
		s.ch = make(chan struct{})
	}

	return s.ch
}

// Ping wakes all current waiters.
func (s *Signal) Ping() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ch != nil {
		close(s.ch)
	}
	s.ch = make(chan struct{})
}
