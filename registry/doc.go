// Package registry stores at most one value per Go type and hands values back
// through checked downcasts. It is the module's type-erased singleton store:
// heterogeneous values live behind one map keyed by reflect.Type, and a
// concretely-typed value is recovered by comparing type identities before the
// assertion, so a lookup for the wrong type reports "not found" instead of
// panicking.
//
// Two variants share one operation set through the Store interface:
//
//   - Registry, for single-owner use, is unsynchronized.
//   - SyncRegistry is safe for concurrent use and guarantees that GetOrInsert
//     runs its constructor at most once per type, without serializing
//     constructors for unrelated types.
//
// The operations themselves (Insert, Get, GetOrInsert, Remove) are generic
// package-level functions because Go methods cannot carry type parameters.
package registry
