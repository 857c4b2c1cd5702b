// Package alternative is for anybody who wants the object pool's metadata
// header laid out as a literal 16-byte prefix living in the same
// allocation as the payload, addressed with raw unsafe.Pointer arithmetic
// instead of the default package's generics-based entry[T] wrapper. It
// trades type safety (objects are unsafe.Pointer, not *T) for a layout
// that matches a hand-managed C-style buffer exactly — useful when
// interoperating with cgo or with code that already manages raw buffers.
// Feel free to improve it or benchmark it against pool if zero-overhead
// layout matters for your use case.
package alternative

import (
	"sync"
	"unsafe"
)

const headerSize = 16 // bytes: shard id + slot index packed into a uint64, plus 8 bytes reserved

// packHeader/unpackHeader encode (shardID, slotIndex) into the first 8
// bytes of the 16-byte header block; the second 8 bytes are reserved
// padding, same as the default package's header type.
func packHeader(p unsafe.Pointer, shardID uint16, slotIndex uint64) {
	*(*uint64)(p) = uint64(shardID)<<48 | (slotIndex & (1<<48 - 1))
	*(*uint64)(unsafe.Add(p, 8)) = 0
}

func unpackHeader(p unsafe.Pointer) (shardID uint16, slotIndex uint64) {
	packed := *(*uint64)(p)
	return uint16(packed >> 48), packed & (1<<48 - 1)
}

// Allocator is the raw-pointer vtable. Alloc must return a block at least
// headerSize+ObjectSize bytes long; the pool writes the header into the
// first headerSize bytes and returns a pointer to byte headerSize (the
// payload) from Acquire.
type Allocator struct {
	Alloc      func(userData unsafe.Pointer) unsafe.Pointer
	Free       func(block unsafe.Pointer, userData unsafe.Pointer)
	Reset      func(payload unsafe.Pointer, userData unsafe.Pointer)
	Validate   func(payload unsafe.Pointer, userData unsafe.Pointer) bool
	OnCreate   func(payload unsafe.Pointer, userData unsafe.Pointer)
	OnDestroy  func(payload unsafe.Pointer, userData unsafe.Pointer)
	OnReuse    func(payload unsafe.Pointer, userData unsafe.Pointer)
	UserData   unsafe.Pointer
	ObjectSize uintptr // bytes reserved for the payload after the header
}

func (a Allocator) payloadOf(block unsafe.Pointer) unsafe.Pointer {
	return unsafe.Add(block, headerSize)
}

func (a Allocator) blockOf(payload unsafe.Pointer) unsafe.Pointer {
	return unsafe.Add(payload, -headerSize)
}

type subPool struct {
	mu sync.Mutex

	blocks []unsafe.Pointer // each points at the start of a header+payload block
	used   []bool

	usedCount    int
	acquireCount uint64
}

// Pool mirrors pool.Pool but operates on unsafe.Pointer payloads with a
// real memory prefix instead of a generic wrapper struct.
type Pool struct {
	subPools []*subPool
	alloc    Allocator
}

// New creates a pool with capacity objects spread across subPoolCount
// sub-pools, same distribution rule as the default package.
func New(capacity, subPoolCount int, alloc Allocator) *Pool {
	p := &Pool{alloc: alloc, subPools: make([]*subPool, subPoolCount)}
	base := capacity / subPoolCount
	remainder := capacity % subPoolCount
	for i := 0; i < subPoolCount; i++ {
		size := base
		if i < remainder {
			size++
		}
		if size == 0 {
			size = 1
		}
		p.subPools[i] = newSubPool(uint16(i), size, alloc)
	}
	return p
}

func newSubPool(id uint16, size int, alloc Allocator) *subPool {
	sp := &subPool{blocks: make([]unsafe.Pointer, size), used: make([]bool, size)}
	for i := range sp.blocks {
		block := alloc.Alloc(alloc.UserData)
		packHeader(block, id, uint64(i))
		payload := alloc.payloadOf(block)
		alloc.Reset(payload, alloc.UserData)
		alloc.OnCreate(payload, alloc.UserData)
		sp.blocks[i] = block
	}
	return sp
}

// Acquire scans sub-pools starting at start, returning the first free,
// valid payload pointer found.
func (p *Pool) Acquire(start int) unsafe.Pointer {
	n := len(p.subPools)
	for attempt := 0; attempt < n; attempt++ {
		sp := p.subPools[(start+attempt)%n]
		if obj := sp.tryAcquire(p.alloc); obj != nil {
			return obj
		}
	}
	return nil
}

func (sp *subPool) tryAcquire(alloc Allocator) unsafe.Pointer {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	if sp.usedCount >= len(sp.blocks) {
		return nil
	}
	for i, block := range sp.blocks {
		if sp.used[i] {
			continue
		}
		payload := alloc.payloadOf(block)
		if !alloc.Validate(payload, alloc.UserData) {
			continue
		}
		sp.used[i] = true
		sp.usedCount++
		sp.acquireCount++
		alloc.Reset(payload, alloc.UserData)
		alloc.OnReuse(payload, alloc.UserData)
		return payload
	}
	return nil
}

// Release returns payload to its owning sub-pool using the header
// embedded immediately before it. The shard id and slot index decoded
// from that header are bounds-checked before being trusted.
func (p *Pool) Release(payload unsafe.Pointer) bool {
	block := p.alloc.blockOf(payload)
	shardID, slotIndex := unpackHeader(block)
	if int(shardID) >= len(p.subPools) {
		return false
	}
	sp := p.subPools[shardID]

	sp.mu.Lock()
	defer sp.mu.Unlock()
	if slotIndex >= uint64(len(sp.blocks)) || sp.blocks[slotIndex] != block {
		return false
	}
	if !sp.used[slotIndex] {
		return false
	}
	sp.used[slotIndex] = false
	sp.usedCount--
	p.alloc.Reset(payload, p.alloc.UserData)
	return true
}

// UsedCount returns the number of currently acquired objects.
func (p *Pool) UsedCount() int {
	total := 0
	for _, sp := range p.subPools {
		sp.mu.Lock()
		total += sp.usedCount
		sp.mu.Unlock()
	}
	return total
}

// Destroy runs OnDestroy then Free over every block in the pool.
func (p *Pool) Destroy() {
	for _, sp := range p.subPools {
		sp.mu.Lock()
		for _, block := range sp.blocks {
			payload := p.alloc.payloadOf(block)
			p.alloc.OnDestroy(payload, p.alloc.UserData)
			p.alloc.Free(block, p.alloc.UserData)
		}
		sp.blocks = nil
		sp.mu.Unlock()
	}
}

