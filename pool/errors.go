package pool

import "errors"

// ErrorKind classifies a diagnostic reported by the pool. It mirrors the
// error taxonomy every operation is documented to raise.
type ErrorKind int

const (
	// ErrorNone is never reported; it exists so the zero value of
	// ErrorKind is distinguishable from a real error.
	ErrorNone ErrorKind = iota
	// ErrorInvalidPool is reported for a nil or destroyed pool passed to
	// Acquire or Release, or a nil object passed to Release.
	ErrorInvalidPool
	// ErrorInvalidObject is reported when a pointer is not in the pool,
	// its metadata is inconsistent, validation fails, or it is released
	// twice.
	ErrorInvalidObject
	// ErrorExhausted is reported when Acquire with no callback finds no
	// free slot in any shard.
	ErrorExhausted
	// ErrorQueueFull is reported when Acquire with a callback can
	// neither enqueue nor grow the backpressure queue.
	ErrorQueueFull
	// ErrorInvalidSize is reported for a zero or out-of-range argument
	// to New/Grow/Shrink/GrowQueue, and by New when the allocator has no
	// Construct hook.
	ErrorInvalidSize
	// ErrorInsufficientUnused is reported when Shrink is asked to remove
	// more objects than are currently free at a shard's tail.
	ErrorInsufficientUnused
	// ErrorAllocationFailed classifies a failure constructing a new
	// object's initial value. Construct's signature (func() T, no error
	// return) means this pool's Go adaptation cannot itself raise it:
	// unlike the allocator this package is modeled on, where allocation is
	// a fallible syscall-backed step, Construct here only ever produces a
	// value, with memory for the header+payload block owned and supplied
	// by the pool. The kind and its sentinel are kept in the taxonomy for
	// API symmetry with the rest of ErrorKind and for callers who supply a
	// Construct that itself wraps a fallible resource (e.g. dialing a
	// connection) and want a dedicated kind to report through their own
	// ErrorSink or logging, even though the pool never raises it directly.
	ErrorAllocationFailed
)

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	switch k {
	case ErrorNone:
		return "none"
	case ErrorInvalidPool:
		return "invalid_pool"
	case ErrorInvalidObject:
		return "invalid_object"
	case ErrorExhausted:
		return "exhausted"
	case ErrorQueueFull:
		return "queue_full"
	case ErrorInvalidSize:
		return "invalid_size"
	case ErrorInsufficientUnused:
		return "insufficient_unused"
	case ErrorAllocationFailed:
		return "allocation_failed"
	default:
		return "unknown"
	}
}

// Sentinel errors returned alongside the ErrorKind values above, so
// callers can use errors.Is instead of switching on ErrorKind.
// ErrNoAllocator has no ErrorKind and is never returned: its text is the
// message New reports when Construct is nil, and New returns
// ErrInvalidSize in that case.
var (
	ErrInvalidPool        = errors.New("pool: invalid pool or object")
	ErrInvalidObject      = errors.New("pool: invalid object")
	ErrExhausted          = errors.New("pool: exhausted, no free slot")
	ErrQueueFull          = errors.New("pool: backpressure queue full")
	ErrInvalidSize        = errors.New("pool: invalid size argument")
	ErrInsufficientUnused = errors.New("pool: insufficient unused objects to shrink")
	ErrAllocationFailed   = errors.New("pool: allocation failed")
	ErrNoAllocator        = errors.New("pool: no allocator configured")
)

// errFor maps an ErrorKind to its sentinel error.
func errFor(kind ErrorKind) error {
	switch kind {
	case ErrorInvalidPool:
		return ErrInvalidPool
	case ErrorInvalidObject:
		return ErrInvalidObject
	case ErrorExhausted:
		return ErrExhausted
	case ErrorQueueFull:
		return ErrQueueFull
	case ErrorInvalidSize:
		return ErrInvalidSize
	case ErrorInsufficientUnused:
		return ErrInsufficientUnused
	case ErrorAllocationFailed:
		return ErrAllocationFailed
	default:
		return nil
	}
}

// ErrorSink receives a typed diagnostic whenever a pool operation fails.
// kind classifies the failure and msg is a human-readable description.
// The pool always passes a nil ctx; Config has no field for supplying a
// sink context. A nil ErrorSink makes the pool fall back to logging a structured
// line via its configured *zap.Logger (see Config.Logger).
type ErrorSink func(kind ErrorKind, msg string, ctx any)
