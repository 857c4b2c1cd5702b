package pool

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector adapts a Pool's Stats and ShardAcquireCounts into a
// prometheus.Collector, the same domain dependency used for metrics
// export across the wider retrieved pack (e.g. Voskan-arena-cache,
// rezakhademix-zorm). Register one per pool:
//
//	c := pool.NewCollector(p, "mypool")
//	prometheus.MustRegister(c)
type Collector[T any] struct {
	pool *Pool[T]

	maxUsed               *prometheus.Desc
	acquireCount          *prometheus.Desc
	releaseCount          *prometheus.Desc
	contentionAttempts    *prometheus.Desc
	totalContentionTimeNs *prometheus.Desc
	totalObjectsAllocated *prometheus.Desc
	growCount             *prometheus.Desc
	shrinkCount           *prometheus.Desc
	queueMaxSize          *prometheus.Desc
	queueGrowCount        *prometheus.Desc
	shardAcquireCount     *prometheus.Desc
}

// NewCollector builds a Collector for p. name is used as the metric name
// prefix, e.g. "mypool" produces "mypool_max_used".
func NewCollector[T any](p *Pool[T], name string) *Collector[T] {
	labels := []string{}
	return &Collector[T]{
		pool:                  p,
		maxUsed:               prometheus.NewDesc(name+"_max_used", "Maximum concurrent objects used.", labels, nil),
		acquireCount:          prometheus.NewDesc(name+"_acquire_count", "Total acquire operations.", labels, nil),
		releaseCount:          prometheus.NewDesc(name+"_release_count", "Total release operations.", labels, nil),
		contentionAttempts:    prometheus.NewDesc(name+"_contention_attempts", "Total mutex lock attempts.", labels, nil),
		totalContentionTimeNs: prometheus.NewDesc(name+"_contention_time_ns_total", "Total time from mutex lock attempt to unlock, in nanoseconds.", labels, nil),
		totalObjectsAllocated: prometheus.NewDesc(name+"_objects_allocated", "Total objects currently allocated.", labels, nil),
		growCount:             prometheus.NewDesc(name+"_grow_count", "Number of grow operations.", labels, nil),
		shrinkCount:           prometheus.NewDesc(name+"_shrink_count", "Number of shrink operations.", labels, nil),
		queueMaxSize:          prometheus.NewDesc(name+"_queue_max_size", "Historical high-water mark of the backpressure queue.", labels, nil),
		queueGrowCount:        prometheus.NewDesc(name+"_queue_grow_count", "Number of backpressure queue growth operations.", labels, nil),
		shardAcquireCount:     prometheus.NewDesc(name+"_shard_acquire_count", "Acquire count per shard.", []string{"shard"}, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector[T]) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.maxUsed
	ch <- c.acquireCount
	ch <- c.releaseCount
	ch <- c.contentionAttempts
	ch <- c.totalContentionTimeNs
	ch <- c.totalObjectsAllocated
	ch <- c.growCount
	ch <- c.shrinkCount
	ch <- c.queueMaxSize
	ch <- c.queueGrowCount
	ch <- c.shardAcquireCount
}

// Collect implements prometheus.Collector.
func (c *Collector[T]) Collect(ch chan<- prometheus.Metric) {
	s := c.pool.Stats()
	ch <- prometheus.MustNewConstMetric(c.maxUsed, prometheus.GaugeValue, float64(s.MaxUsed))
	ch <- prometheus.MustNewConstMetric(c.acquireCount, prometheus.CounterValue, float64(s.AcquireCount))
	ch <- prometheus.MustNewConstMetric(c.releaseCount, prometheus.CounterValue, float64(s.ReleaseCount))
	ch <- prometheus.MustNewConstMetric(c.contentionAttempts, prometheus.CounterValue, float64(s.ContentionAttempts))
	ch <- prometheus.MustNewConstMetric(c.totalContentionTimeNs, prometheus.CounterValue, float64(s.TotalContentionTimeNs))
	ch <- prometheus.MustNewConstMetric(c.totalObjectsAllocated, prometheus.GaugeValue, float64(s.TotalObjectsAllocated))
	ch <- prometheus.MustNewConstMetric(c.growCount, prometheus.CounterValue, float64(s.GrowCount))
	ch <- prometheus.MustNewConstMetric(c.shrinkCount, prometheus.CounterValue, float64(s.ShrinkCount))
	ch <- prometheus.MustNewConstMetric(c.queueMaxSize, prometheus.GaugeValue, float64(s.QueueMaxSize))
	ch <- prometheus.MustNewConstMetric(c.queueGrowCount, prometheus.CounterValue, float64(s.QueueGrowCount))

	for i, count := range c.pool.ShardAcquireCounts() {
		ch <- prometheus.MustNewConstMetric(c.shardAcquireCount, prometheus.GaugeValue, float64(count), strconv.Itoa(i))
	}
}
