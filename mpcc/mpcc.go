package mpcc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/bytifex/bytifex-utils/internal/deque"
	"github.com/bytifex/bytifex-utils/syncutil"
)

var (
	// ErrEmpty is returned when the queue holds no message right now but
	// senders are still alive.
	ErrEmpty = errors.New("mpcc: no message available")
	// ErrDisconnected is returned by Send when no receiver exists, and by
	// receives when the queue is empty and no sender exists.
	ErrDisconnected = errors.New("mpcc: channel disconnected")
)

type shared[T any] struct {
	mu    sync.Mutex
	queue deque.Deque[T]

	senders   atomic.Int64
	receivers atomic.Int64

	signal syncutil.Signal
	logger *slog.Logger
}

// Option configures a channel at construction.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger sets the logger for debug-level channel events. The default
// discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a channel with one sender and one receiver endpoint. Further
// endpoints are derived with Clone; every endpoint must be closed.
func New[T any](opts ...Option) (*Sender[T], *Receiver[T]) {
	cfg := config{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}

	sh := &shared[T]{logger: cfg.logger}
	sh.senders.Store(1)
	sh.receivers.Store(1)

	return &Sender[T]{shared: sh}, &Receiver[T]{shared: sh}
}

// Sender is a producing endpoint. Safe for concurrent use.
type Sender[T any] struct {
	shared *shared[T]
	once   sync.Once
}

// Send queues msg for delivery to exactly one receiver and wakes the waiters.
// It fails with ErrDisconnected when no receiver currently exists.
func (s *Sender[T]) Send(msg T) error {
	sh := s.shared

	if sh.receivers.Load() == 0 {
		return ErrDisconnected
	}

	sh.mu.Lock()
	sh.queue.PushBack(msg)
	sh.mu.Unlock()

	sh.signal.Ping()

	return nil
}

// Clone registers another producing endpoint on the same channel.
func (s *Sender[T]) Clone() *Sender[T] {
	s.shared.senders.Add(1)

	return &Sender[T]{shared: s.shared}
}

// Close drops this sender and pings the signal so blocked receivers re-check
// and can observe disconnection. Close is idempotent.
func (s *Sender[T]) Close() {
	s.once.Do(func() {
		if s.shared.senders.Add(-1) == 0 {
			s.shared.logger.Debug("mpcc all senders closed")
		}
		s.shared.signal.Ping()
	})
}

// Receiver is a consuming endpoint competing with all other receivers over
// the shared queue. Safe for concurrent use.
type Receiver[T any] struct {
	shared *shared[T]
	once   sync.Once
}

// TryRecv pops the head of the queue. With an empty queue it returns
// ErrDisconnected once no sender is left, otherwise ErrEmpty.
func (r *Receiver[T]) TryRecv() (T, error) {
	sh := r.shared

	sh.mu.Lock()
	if v, ok := sh.queue.PopFront(); ok {
		sh.mu.Unlock()
		// Other receivers may be waiting for the queue to change.
		sh.signal.Ping()
		return v, nil
	}
	sh.mu.Unlock()

	var zero T
	if sh.senders.Load() == 0 {
		return zero, ErrDisconnected
	}

	return zero, ErrEmpty
}

// Recv waits on the channel's signal until a message can be popped or the
// channel is confirmed disconnected. It never polls outside signal wakeups
// and returns ctx.Err() when the context ends first.
func (r *Receiver[T]) Recv(ctx context.Context) (T, error) {
	for {
		ch := r.shared.signal.Changed()

		v, err := r.TryRecv()
		if err == nil || errors.Is(err, ErrDisconnected) {
			return v, err
		}

		select {
		case <-ch:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// Clone registers another competing endpoint on the same channel.
func (r *Receiver[T]) Clone() *Receiver[T] {
	r.shared.receivers.Add(1)

	return &Receiver[T]{shared: r.shared}
}

// Close drops this receiver. Closing the last receiver clears the buffered
// messages — no one could ever observe them — and pings the signal. Close is
// idempotent.
func (r *Receiver[T]) Close() {
	r.once.Do(func() {
		sh := r.shared
		if sh.receivers.Add(-1) > 0 {
			return
		}

		sh.mu.Lock()
		dropped := sh.queue.Len()
		if dropped > 0 {
			sh.queue.Clear()
		}
		sh.mu.Unlock()

		if dropped > 0 {
			sh.logger.Debug("mpcc queue cleared on last receiver close", "dropped", dropped)
			sh.signal.Ping()
		}
	})
}
