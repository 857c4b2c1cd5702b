// Command example demonstrates basic use of the objpool package: building
// a pool of connection-like objects, acquiring and releasing them under
// concurrent load, and reading back usage statistics.
package main

import (
	"sync"

	"go.uber.org/zap"

	"github.com/AlexsanderHamir/objpool/pool"
)

type connection struct {
	ID       int
	Buffer   []byte
	inFlight bool
}

func connectionAllocator() pool.Allocator[connection] {
	return pool.Allocator[connection]{
		Construct: func() connection {
			return connection{Buffer: make([]byte, 0, 4096)}
		},
		Reset: func(c *connection) {
			c.Buffer = c.Buffer[:0]
			c.inFlight = false
		},
	}
}

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("starting up", zap.Int("capacity", 64), zap.Int("shards", 8))

	p, err := pool.New(pool.Config[connection]{
		Capacity:   64,
		ShardCount: 8,
		Allocator:  connectionAllocator(),
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("failed to create pool", zap.Error(err))
	}
	defer p.Destroy()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			conn, err := p.Acquire(nil, nil)
			if err != nil {
				return
			}
			conn.ID = id
			conn.inFlight = true
			conn.Buffer = append(conn.Buffer, byte(id))
			_ = p.Release(conn)
		}(i)
	}
	wg.Wait()

	stats := p.Stats()
	logger.Info("shutting down",
		zap.Uint64("acquires", stats.AcquireCount),
		zap.Uint64("releases", stats.ReleaseCount),
		zap.Int("max_used", stats.MaxUsed),
	)
}
