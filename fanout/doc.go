// Package fanout implements a broadcast channel: every message sent is copied
// into the queue of every currently registered, non-stopped receiver, and each
// receiver drains its own queue in send order. Nothing is implied about
// ordering across receivers.
//
// Receivers register a queue in a shared arena. Closing a receiver never
// touches the arena directly — a close may run on any goroutine, possibly
// while a send is iterating the receiver set — so it only records the queue's
// index on a pending-removal list, which the next Send drains before fanning
// out. Sender liveness is tracked with a usage counter: receivers hold a
// non-owning watcher and report ErrDisconnected once their queue is empty and
// the watcher sees zero live senders.
package fanout
