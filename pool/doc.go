// Package pool implements a sharded, thread-safe pool of pre-allocated,
// fixed-shape objects. It amortizes allocation cost and bounds the peak
// working set for workloads that repeatedly acquire and release
// short-lived objects (messages, buffers, request contexts).
//
// Callers supply an [Allocator] describing how to construct, reset,
// validate, and tear down an individual object. The pool owns sharding,
// the acquire/release protocol, a FIFO backpressure queue for callers
// that want to wait for an object instead of failing immediately, and
// dynamic grow/shrink of the slot table and growth of the backpressure
// queue (the queue never shrinks).
//
// # Concurrency
//
// Every shard owns its own mutex; the backpressure queue owns a separate
// mutex. When both are held the shard lock is always acquired first.
// Global counters (grow/shrink counts, high-water marks) are updated with
// atomics outside the shard locks and are therefore diagnostics, not
// correctness-critical state. The pool does not suspend on I/O and offers
// no cancellation: a caller that enqueues a backpressure callback waits
// until a matching release fires it, or forever.
//
// # Metadata header
//
// Every pooled object is backed by a small core-managed block: a 16-byte
// header (shard id, slot index) immediately followed by the payload. The
// header is never exposed to callers; [Pool.Release] recovers it from the
// payload pointer in O(1) via pointer arithmetic, the same technique the
// C library this package supersedes used, adapted to Go's garbage
// collector (see pool/alternative for the literal unsafe-pointer-prefix
// variant, and DESIGN.md for why the default implementation manages the
// block itself instead of asking the allocator to).
package pool
