package pool

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"go.uber.org/zap"
)

const (
	// DefaultCapacity is the object count NewDefault uses.
	DefaultCapacity = 16
	// DefaultShardCount is the shard count NewDefault uses.
	DefaultShardCount = 4
	// defaultQueueCapacity is the backpressure queue's starting size.
	defaultQueueCapacity = 32
)

// Config holds the configuration for a new Pool.
type Config[T any] struct {
	// Capacity is the total number of objects the pool starts with.
	// Must be > 0.
	Capacity int

	// ShardCount is the number of shards to distribute Capacity across.
	// Must be > 0 and < 2^16 (at most maxShardCount).
	ShardCount int

	// QueueCapacity is the backpressure queue's starting capacity. Zero
	// selects defaultQueueCapacity.
	QueueCapacity int

	// Allocator describes how to construct, reset, validate, and tear
	// down pooled objects. Required.
	Allocator Allocator[T]

	// ErrorSink receives every diagnostic the pool raises. If nil, the
	// pool logs a structured line through Logger instead.
	ErrorSink ErrorSink

	// Logger is used for the default ErrorSink (when ErrorSink is nil)
	// and for a handful of operational events (grow, shrink, queue
	// growth). If nil, zap.NewNop() is used: the pool stays silent.
	Logger *zap.Logger
}

// DefaultConfig returns a Config with DefaultCapacity objects spread
// across DefaultShardCount shards, the given allocator, and no error
// sink or logger configured.
func DefaultConfig[T any](allocator Allocator[T]) Config[T] {
	return Config[T]{
		Capacity:   DefaultCapacity,
		ShardCount: DefaultShardCount,
		Allocator:  allocator,
	}
}

// Pool is a sharded, thread-safe pool of pre-allocated objects of type T.
// Construct one with New or NewDefault; always pair it with a call to
// Destroy, which must not race with any other operation.
type Pool[T any] struct {
	shards []*shard[T]

	alloc     Allocator[T]
	errorSink ErrorSink
	logger    *zap.Logger

	queue *queue[T]

	totalAllocated atomic.Uint64
	growCount      atomic.Uint64
	shrinkCount    atomic.Uint64
	globalMaxUsed  atomic.Uint64
}

// New creates a pool per cfg. Capacity is distributed across shards as
// ceil(capacity/shardCount) for the first (capacity mod shardCount)
// shards and floor(·) for the rest, so every shard gets at least one
// slot whenever capacity >= shardCount. A capacity smaller than shardCount
// gives every shard exactly one slot, so the pool starts with shardCount
// objects rather than capacity (see DESIGN.md's Open Question decision).
func New[T any](cfg Config[T]) (*Pool[T], error) {
	if cfg.Capacity <= 0 || cfg.ShardCount <= 0 || cfg.ShardCount > maxShardCount {
		return nil, report(cfg.ErrorSink, cfg.Logger, ErrorInvalidSize,
			"capacity and shard count must be positive, and shard count must fit in 16 bits")
	}
	if cfg.Allocator.Construct == nil {
		return nil, report(cfg.ErrorSink, cfg.Logger, ErrorInvalidSize, ErrNoAllocator.Error())
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	queueCap := cfg.QueueCapacity
	if queueCap <= 0 {
		queueCap = defaultQueueCapacity
	}

	alloc := cfg.Allocator.withDefaults()

	p := &Pool[T]{
		alloc:     alloc,
		errorSink: cfg.ErrorSink,
		logger:    logger,
		queue:     newQueue[T](queueCap),
	}

	base := cfg.Capacity / cfg.ShardCount
	remainder := cfg.Capacity % cfg.ShardCount
	p.shards = make([]*shard[T], cfg.ShardCount)
	total := 0
	for i := 0; i < cfg.ShardCount; i++ {
		size := base
		if i < remainder {
			size++
		}
		if size == 0 {
			size = 1 // every shard gets at least one slot
		}
		if size > maxSlotIndex {
			// Tear down everything built so far before failing.
			for j := 0; j < i; j++ {
				p.shards[j].destroyAll(alloc)
			}
			return nil, report(cfg.ErrorSink, logger, ErrorInvalidSize, "shard size exceeds 2^48")
		}
		p.shards[i] = newShard(uint16(i), size, alloc)
		total += size
	}

	p.totalAllocated.Store(uint64(total))
	logger.Debug("pool created", zap.Int("capacity", cfg.Capacity), zap.Int("shards", cfg.ShardCount))
	return p, nil
}

// NewDefault creates a pool with DefaultCapacity objects across
// DefaultShardCount shards, using allocator and no error sink or logger.
func NewDefault[T any](allocator Allocator[T]) (*Pool[T], error) {
	return New(DefaultConfig(allocator))
}

// NewDefaultSized creates a pool sized from unsafe.Sizeof(T) rather than a
// fixed object count: larger payload types get proportionally fewer
// objects, smaller ones more, while the total bytes reserved for objects
// stays roughly constant across types. Capacity is never allowed below
// DefaultShardCount, so every shard still gets at least one slot.
func NewDefaultSized[T any](allocator Allocator[T]) (*Pool[T], error) {
	const targetBytes = 64 * 1024
	var zero T
	size := unsafe.Sizeof(zero)
	capacity := DefaultCapacity
	if size > 0 {
		capacity = int(targetBytes / uint64(size))
	}
	if capacity < DefaultShardCount {
		capacity = DefaultShardCount
	}
	cfg := DefaultConfig(allocator)
	cfg.Capacity = capacity
	return New(cfg)
}

// Destroy tears down every live object (OnDestroy then Destruct) and
// releases the pool's storage. Destroy on a nil or already-destroyed pool
// is a no-op. Not safe to race with any other operation on p.
func (p *Pool[T]) Destroy() {
	if p == nil {
		return
	}
	for _, s := range p.shards {
		s.destroyAll(p.alloc)
	}
	p.shards = nil
}

// Capacity returns the sum of every shard's size.
func (p *Pool[T]) Capacity() int {
	total := 0
	for _, s := range p.shards {
		s.withLock(func() { total += len(s.slots) })
	}
	return total
}

// UsedCount returns the sum of every shard's used-object count.
func (p *Pool[T]) UsedCount() int {
	total := 0
	for _, s := range p.shards {
		s.withLock(func() { total += s.usedCount })
	}
	return total
}

// ShardAcquireCounts returns a snapshot of each shard's acquire count, in
// shard order.
func (p *Pool[T]) ShardAcquireCounts() []uint64 {
	counts := make([]uint64, len(p.shards))
	for i, s := range p.shards {
		s.withLock(func() { counts[i] = s.acquireCount })
	}
	return counts
}

// Acquire tries every shard, starting from a pseudo-random index, for a
// free and valid slot. On success it returns the object immediately. On
// failure: if callback is nil, it reports ErrExhausted; otherwise it
// enqueues (callback, ctx) on the backpressure queue (growing the queue
// once, doubling its capacity, if it was full) and returns (nil, nil) —
// deferred success is signaled later by callback firing from a future
// Release.
func (p *Pool[T]) Acquire(callback func(obj *T, ctx any), ctx any) (*T, error) {
	if p == nil {
		return nil, report(nil, nil, ErrorInvalidPool, "nil pool")
	}
	if len(p.shards) == 0 {
		return nil, report(p.errorSink, p.logger, ErrorInvalidPool, "pool is destroyed or zero-valued")
	}

	shardCount := len(p.shards)
	start := nextShardStart(shardCount)
	sinkFn := func(kind ErrorKind, msg string) { p.reportErr(kind, msg) }

	for attempt := 0; attempt < shardCount; attempt++ {
		idx := (start + attempt) % shardCount
		s := p.shards[idx]

		var obj *T
		var ok bool
		s.withLock(func() { obj, ok = s.tryAcquire(uint16(idx), p.alloc, sinkFn) })
		if ok {
			p.bumpGlobalMaxUsed()
			return obj, nil
		}
	}

	if callback == nil {
		return nil, report(p.errorSink, p.logger, ErrorExhausted, "pool exhausted, no free slot")
	}

	req := request[T]{callback: acquireCallback[T](callback), ctx: ctx}
	if p.queue.push(req) {
		return nil, nil
	}

	_, capacity, _, _ := p.queue.snapshot()
	p.queue.grow(capacity)
	p.logger.Debug("backpressure queue grown", zap.Int("new_capacity", capacity*2))
	if p.queue.push(req) {
		return nil, nil
	}

	return nil, report(p.errorSink, p.logger, ErrorQueueFull, "backpressure queue full")
}

// Release returns obj to the pool. If a backpressure request is waiting,
// it is popped and the slot re-marked used while the shard lock is still
// held, so obj is never observable to two holders at once; the waiting
// callback itself is invoked only after the lock has been released, so it
// may safely call Release again (including on the same shard) without
// deadlocking.
func (p *Pool[T]) Release(obj *T) error {
	if p == nil {
		return report(nil, nil, ErrorInvalidPool, "nil pool")
	}
	if len(p.shards) == 0 || obj == nil {
		return report(p.errorSink, p.logger, ErrorInvalidPool, "invalid pool or nil object")
	}

	e := entryFromPayload(obj)
	shardID := e.hdr.shardID()
	slotIndex := e.hdr.slotIndex()
	if int(shardID) >= len(p.shards) {
		return report(p.errorSink, p.logger, ErrorInvalidObject, "object metadata names an out-of-range shard")
	}
	s := p.shards[shardID]

	if !p.alloc.Validate(obj) {
		return report(p.errorSink, p.logger, ErrorInvalidObject, "object failed validation on release")
	}

	var resultErr error
	var dispatch request[T]
	var dispatchObj *T
	s.withLock(func() {
		if slotIndex >= uint64(len(s.slots)) || s.slots[slotIndex] != e {
			resultErr = report(p.errorSink, p.logger, ErrorInvalidObject, "object metadata does not match its slot")
			return
		}

		if _, ok := s.release(slotIndex, p.alloc); !ok {
			resultErr = report(p.errorSink, p.logger, ErrorInvalidObject, "double release or invalid object")
			return
		}

		if req, popped := p.queue.pop(); popped {
			reacquired := s.reacquire(slotIndex, p.alloc)
			dispatch = req
			dispatchObj = reacquired.payloadPtr()
		}
	})
	if resultErr != nil {
		return resultErr
	}
	// dispatch fires here, after s.mu has been released by withLock above.
	// Only the bookkeeping (popping the request, re-marking the slot used)
	// happens under the lock; the callback itself runs outside it, so a
	// callback that turns around and calls Release synchronously never
	// re-enters the same shard's still-held mutex.
	if dispatchObj != nil {
		dispatch.callback(dispatchObj, dispatch.ctx)
	}
	p.bumpGlobalMaxUsed()
	return nil
}

// Grow adds n objects to the pool, distributed across shards the same
// way Capacity is initially distributed.
func (p *Pool[T]) Grow(n int) error {
	if n <= 0 {
		return report(p.errorSink, p.logger, ErrorInvalidSize, "grow amount must be positive")
	}
	shardCount := len(p.shards)
	base := n / shardCount
	remainder := n % shardCount
	for i := 0; i < shardCount; i++ {
		add := base
		if i < remainder {
			add++
		}
		if add == 0 {
			continue
		}
		s := p.shards[i]
		s.withLock(func() { s.growBy(uint16(i), add, p.alloc) })
	}
	p.totalAllocated.Add(uint64(n))
	p.growCount.Add(1)
	p.logger.Debug("pool grown", zap.Int("by", n))
	return nil
}

// Shrink removes n unused objects from the tail of each shard,
// distributed the same way Grow adds them. It fails with
// ErrInsufficientUnused, leaving the pool untouched, if any shard cannot
// find enough contiguous unused slots at its tail.
func (p *Pool[T]) Shrink(n int) error {
	capacity := p.Capacity()
	if n <= 0 || n > capacity {
		return report(p.errorSink, p.logger, ErrorInvalidSize, "shrink amount must be positive and <= capacity")
	}
	shardCount := len(p.shards)
	base := n / shardCount
	remainder := n % shardCount

	for i := 0; i < shardCount; i++ {
		reduce := base
		if i < remainder {
			reduce++
		}
		if reduce == 0 {
			continue
		}
		s := p.shards[i]
		var ok bool
		s.withLock(func() { ok = s.shrinkBy(reduce, p.alloc) })
		if !ok {
			return report(p.errorSink, p.logger, ErrorInsufficientUnused,
				fmt.Sprintf("shard %d has fewer than %d unused objects at its tail", i, reduce))
		}
	}
	p.totalAllocated.Add(^uint64(n - 1)) // subtract n
	p.shrinkCount.Add(1)
	p.logger.Debug("pool shrunk", zap.Int("by", n))
	return nil
}

// GrowQueue grows the backpressure queue's capacity by n slots.
func (p *Pool[T]) GrowQueue(n int) error {
	if n <= 0 {
		return report(p.errorSink, p.logger, ErrorInvalidSize, "queue growth amount must be positive")
	}
	p.queue.grow(n)
	return nil
}

func (p *Pool[T]) bumpGlobalMaxUsed() {
	current := uint64(p.UsedCount())
	for {
		old := p.globalMaxUsed.Load()
		if current <= old {
			return
		}
		if p.globalMaxUsed.CompareAndSwap(old, current) {
			return
		}
	}
}

func (p *Pool[T]) reportErr(kind ErrorKind, msg string) {
	report(p.errorSink, p.logger, kind, msg)
}

// report is shared between package-level New (before a Pool exists) and
// Pool methods. It always returns errFor(kind) so callers can
// `return nil, report(...)`.
func report(sink ErrorSink, logger *zap.Logger, kind ErrorKind, msg string) error {
	if sink != nil {
		sink(kind, msg, nil)
	} else if logger != nil {
		logger.Warn(msg, zap.String("error_kind", kind.String()))
	}
	return errFor(kind)
}
