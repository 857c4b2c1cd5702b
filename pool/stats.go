package pool

// Stats is a point-in-time snapshot of pool usage, aggregated across
// shards without a global lock — concurrent mutation may produce a
// slightly inconsistent snapshot, which is acceptable since these are
// diagnostics, not correctness-critical state.
type Stats struct {
	MaxUsed               int
	AcquireCount          uint64
	ReleaseCount          uint64
	ContentionAttempts    uint64
	TotalContentionTimeNs uint64
	TotalObjectsAllocated uint64
	GrowCount             uint64
	ShrinkCount           uint64
	QueueMaxSize          int
	QueueGrowCount        int
}

// Stats aggregates per-shard acquire/release/contention counters plus
// pool-level grow/shrink counts, the global high-water mark, and
// backpressure queue statistics.
func (p *Pool[T]) Stats() Stats {
	var s Stats
	for _, shrd := range p.shards {
		shrd.withLock(func() {
			s.AcquireCount += shrd.acquireCount
			s.ReleaseCount += shrd.releaseCount
			s.ContentionAttempts += shrd.contentionAttempts
			s.TotalContentionTimeNs += shrd.totalContentionNs
		})
	}
	s.MaxUsed = int(p.globalMaxUsed.Load())
	s.TotalObjectsAllocated = p.totalAllocated.Load()
	s.GrowCount = p.growCount.Load()
	s.ShrinkCount = p.shrinkCount.Load()
	_, _, queueMax, queueGrows := p.queue.snapshot()
	s.QueueMaxSize = queueMax
	s.QueueGrowCount = queueGrows
	return s
}
