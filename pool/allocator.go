package pool

// Allocator is the vtable a caller supplies describing how to construct,
// tear down, reset, and validate an individual pooled object. Optional
// hooks may be left nil; the pool substitutes a no-op default for each.
//
// Unlike the C library this package is modeled on, Construct and Destruct
// are not responsible for the object's memory: the pool allocates and
// frees the header-plus-payload block itself (see DESIGN.md). Construct
// instead produces the object's initial value, and Destruct releases any
// external resource the object may be holding (a file descriptor, a
// pinned buffer from another pool) before the slot is discarded.
type Allocator[T any] struct {
	// Construct returns the initial value for a newly created object.
	// Required.
	Construct func() T

	// Destruct releases any external resource held by obj. Called once
	// before an object's slot is discarded by Shrink or Destroy. Optional.
	Destruct func(obj *T)

	// Reset returns obj to its canonical, default state. Called on every
	// transition into the free state and on every transition into the
	// used state through Acquire; an object handed straight to a
	// backpressure callback by Release is not reset a second time.
	// Optional; defaults to zeroing *obj.
	Reset func(obj *T)

	// Validate performs a cheap integrity check on obj, e.g. a magic
	// number. Optional; defaults to always-true.
	Validate func(obj *T) bool

	// OnCreate fires once, immediately after an object is constructed
	// (on pool creation or on Grow). Optional.
	OnCreate func(obj *T)

	// OnDestroy fires once, immediately before Destruct and the object's
	// slot is discarded. Optional.
	OnDestroy func(obj *T)

	// OnReuse fires every time an object transitions into the used
	// state, after Reset. Optional.
	OnReuse func(obj *T)
}

// withDefaults returns a copy of a with every optional hook filled in by
// a no-op, so callers elsewhere never need a nil check.
func (a Allocator[T]) withDefaults() Allocator[T] {
	if a.Destruct == nil {
		a.Destruct = func(*T) {}
	}
	if a.Reset == nil {
		// Mirrors the exact idiom confirmed (by experiment) to compile
		// down to a direct zeroing store with no temporary allocation.
		a.Reset = func(obj *T) { *obj = *new(T) }
	}
	if a.Validate == nil {
		a.Validate = func(*T) bool { return true }
	}
	if a.OnCreate == nil {
		a.OnCreate = func(*T) {}
	}
	if a.OnDestroy == nil {
		a.OnDestroy = func(*T) {}
	}
	if a.OnReuse == nil {
		a.OnReuse = func(*T) {}
	}
	return a
}
