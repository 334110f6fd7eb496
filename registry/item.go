package registry

import "reflect"

// typeOf resolves the registry identity of T. Going through a pointer makes
// it work for interface types as well as concrete ones.
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Item is a type-erased registry entry: the stored value together with the
// type identity it was registered under.
type Item struct {
	typ   reflect.Type
	value any
}

// Type returns the identity the item was registered under.
func (it Item) Type() reflect.Type { return it.typ }

// Value returns the stored value without a type check.
func (it Item) Value() any { return it.value }

// As recovers the item's value as T. The identities are compared first; a
// mismatch returns false rather than panicking.
func As[T any](it Item) (T, bool) {
	var zero T

	if it.typ == nil || it.typ != typeOf[T]() {
		return zero, false
	}

	v, ok := it.value.(T)
	if !ok {
		// The identity matched, so the assertion cannot fail for any item
		// produced by this package.
		panic("registry: item value does not match its recorded type")
	}

	return v, ok
}

// mustAs is for paths where the identity is known to match, e.g. reading back
// an entry this package just wrote under typeOf[T]().
func mustAs[T any](it Item) T {
	v, ok := As[T](it)
	if !ok {
		panic("registry: type identity mismatch on a just-written entry")
	}

	return v
}
