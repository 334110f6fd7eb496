package fanout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/bytifex/bytifex-utils/arena"
	"github.com/bytifex/bytifex-utils/internal/deque"
	"github.com/bytifex/bytifex-utils/syncutil"
	"github.com/bytifex/bytifex-utils/usage"
)

var (
	// ErrEmpty is returned when a receiver's queue holds no message right now
	// but senders are still alive.
	ErrEmpty = errors.New("fanout: no message available")
	// ErrDisconnected is returned when the queue is empty and every sender
	// has been closed; no further message can arrive.
	ErrDisconnected = errors.New("fanout: all senders closed")
)

// receiverQueue is one receiver's private buffer plus its suppression flag
// and wake signal.
type receiverQueue[T any] struct {
	mu      sync.Mutex
	items   deque.Deque[T]
	stopped bool
	signal  syncutil.Signal
}

func (q *receiverQueue[T]) push(msg T) {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.items.PushBack(msg)
	q.mu.Unlock()

	q.signal.Ping()
}

func (q *receiverQueue[T]) pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.items.PopFront()
}

// queueSet is the channel state shared by all senders and receivers: the
// arena of receiver queues and the pending-removal list drained by Send.
type queueSet[T any] struct {
	mu     sync.Mutex
	queues arena.Arena[*receiverQueue[T]]

	pendingMu sync.Mutex
	pending   []arena.Index

	logger *slog.Logger
}

func (s *queueSet[T]) register() (*receiverQueue[T], arena.Index) {
	q := &receiverQueue[T]{}

	s.mu.Lock()
	ix := s.queues.Alloc(q)
	s.mu.Unlock()

	s.logger.Debug("fanout receiver registered", "slot", ix.Slot())

	return q, ix
}

func (s *queueSet[T]) enqueueRemoval(ix arena.Index) {
	s.pendingMu.Lock()
	s.pending = append(s.pending, ix)
	s.pendingMu.Unlock()
}

// drainPending releases every queue whose receiver has closed since the last
// send. Queue-set lock first, pending-list lock second; Close only ever takes
// the pending-list lock, so a close racing an in-progress send stays safe.
func (s *queueSet[T]) drainPending() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()

	if len(s.pending) == 0 {
		return
	}

	for _, ix := range s.pending {
		if _, ok := s.queues.Release(ix); ok {
			s.logger.Debug("fanout receiver removed", "slot", ix.Slot())
		}
	}
	s.pending = s.pending[:0]
}

// Sender is the producing half of the channel. Clones share the receiver set;
// each clone must be closed. Safe for concurrent use.
type Sender[T any] struct {
	set  *queueSet[T]
	live usage.Counter
	once sync.Once
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

// New creates a broadcast channel and returns its first sender.
func New[T any](opts ...Option) *Sender[T] {
	cfg := config{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Sender[T]{
		set:  &queueSet[T]{logger: cfg.logger},
		live: usage.New(),
	}
}

// Send copies msg into the queue of every registered, non-stopped receiver,
// after draining the pending-removal list.
func (s *Sender[T]) Send(msg T) {
	s.set.drainPending()

	s.set.mu.Lock()
	defer s.set.mu.Unlock()

	s.set.queues.Range(func(_ arena.Index, q **receiverQueue[T]) bool {
		(*q).push(msg)
		return true
	})
}

// SendTo delivers msg to exactly one receiver, still honoring its stopped
// flag.
func (s *Sender[T]) SendTo(msg T, r *Receiver[T]) {
	r.queue.push(msg)
}

// NewReceiver registers a fresh queue and returns its receiver. The receiver
// observes only messages sent from now on.
func (s *Sender[T]) NewReceiver() *Receiver[T] {
	q, ix := s.set.register()

	return &Receiver[T]{
		set:     s.set,
		queue:   q,
		index:   ix,
		senders: s.live.Watcher(),
	}
}

// Clone returns a sender sharing the receiver set and counting as one more
// live sender.
func (s *Sender[T]) Clone() *Sender[T] {
	return &Sender[T]{
		set:  s.set,
		live: s.live.Clone(),
	}
}

// ReceiverCount returns the number of registered receiver queues. Queues of
// closed receivers are still counted until the next Send drains them.
func (s *Sender[T]) ReceiverCount() int {
	s.set.mu.Lock()
	defer s.set.mu.Unlock()

	return s.set.queues.Len()
}

// Close drops this sender. When the last sender closes, every receiver is
// woken so blocked Pop calls can observe the disconnect. Close is idempotent.
func (s *Sender[T]) Close() {
	s.once.Do(func() {
		if s.live.Release() > 0 {
			return
		}

		s.set.logger.Debug("fanout channel disconnected")

		s.set.mu.Lock()
		defer s.set.mu.Unlock()

		s.set.queues.Range(func(_ arena.Index, q **receiverQueue[T]) bool {
			(*q).signal.Ping()
			return true
		})
	})
}

// Receiver is one consuming endpoint with its own queue. Safe for concurrent
// use, though competing Pop calls on one receiver split its stream.
type Receiver[T any] struct {
	set     *queueSet[T]
	queue   *receiverQueue[T]
	index   arena.Index
	senders usage.Watcher
	once    sync.Once
}

// Stop suppresses delivery to this receiver. Messages sent while stopped are
// discarded for it, not buffered.
func (r *Receiver[T]) Stop() {
	r.queue.mu.Lock()
	r.queue.stopped = true
	r.queue.mu.Unlock()
}

// Resume re-enables delivery of messages sent from now on.
func (r *Receiver[T]) Resume() {
	r.queue.mu.Lock()
	r.queue.stopped = false
	r.queue.mu.Unlock()
}

// TryPop returns the oldest pending message. With an empty queue it returns
// ErrDisconnected once no sender is left, otherwise ErrEmpty.
func (r *Receiver[T]) TryPop() (T, error) {
	if v, ok := r.queue.pop(); ok {
		return v, nil
	}

	var zero T
	if r.senders.Dropped() {
		return zero, ErrDisconnected
	}

	return zero, ErrEmpty
}

// Pop waits on the queue's signal until a message arrives or the channel is
// confirmed disconnected. It returns ctx.Err() when the context ends first.
func (r *Receiver[T]) Pop(ctx context.Context) (T, error) {
	for {
		ch := r.queue.signal.Changed()

		v, err := r.TryPop()
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

// NewReceiver registers an independent new queue on the same channel. The new
// receiver shares no history with this one.
func (r *Receiver[T]) NewReceiver() *Receiver[T] {
	q, ix := r.set.register()

	return &Receiver[T]{
		set:     r.set,
		queue:   q,
		index:   ix,
		senders: r.senders,
	}
}

// Close unregisters the receiver. The queue's slot is only marked for
// removal; the next Send performs the actual cleanup, which keeps Close safe
// to call while a send is iterating the receiver set. Close is idempotent.
func (r *Receiver[T]) Close() {
	r.once.Do(func() {
		r.set.enqueueRemoval(r.index.Invalidate())
	})
}
