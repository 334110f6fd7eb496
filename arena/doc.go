// Package arena provides a stable-index slot allocator with generation-checked
// handles, plus a keyed variant with a secondary key lookup.
//
// # Concurrency Model
//
// Arena and KeyedArena are NOT goroutine-safe. Callers that share an arena
// across goroutines guard it with their own mutex; the channel and observer
// packages in this module do exactly that. Keeping the lock outside the arena
// lets those callers update dependent structures (pending-removal lists, key
// maps) under the same critical section as the arena itself.
//
// # Handle Safety
//
// Every slot carries a generation counter that starts at 1 and is bumped on
// every release and every reuse. An Index is only honored while its generation
// matches the slot's current generation, so a handle into a released or reused
// slot reads as "not found" instead of aliasing the new occupant. Released
// slots are reused lowest-position-first, which makes reuse deterministic.
package arena
