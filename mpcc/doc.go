// Package mpcc implements a multi-producer, collective-consumer channel: all
// receivers compete over one shared FIFO queue and every message is consumed
// by exactly one of them. This is the counterpart to package fanout, where
// every receiver gets its own copy.
//
// Liveness is tracked with two atomic endpoint counts instead of a close
// handshake. Send fails with ErrDisconnected once no receiver exists; an
// empty-queue receive fails with ErrDisconnected once no sender exists.
// Closing the last receiver clears the queue, since nobody could ever observe
// those messages again. Every state change pings a shared change signal so
// blocked receivers re-check instead of polling.
package mpcc
