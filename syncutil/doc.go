// Package syncutil provides the small synchronization pieces shared by the
// channel and observer packages: a payload-less change broadcast (Signal), an
// awaitable single-value slot (Item), and a run/stop flag for application
// loops (RunState).
//
// Blocking operations take a context.Context; a caller abandons a wait by
// letting the context end. Nothing leaks from an abandoned wait because the
// underlying signal persists independently of any particular waiter.
package syncutil
