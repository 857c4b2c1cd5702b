package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// testObject is the payload type used across this package's tests.
type testObject struct {
	ID    int
	Value string
}

func testAllocator() Allocator[testObject] {
	return Allocator[testObject]{
		Construct: func() testObject { return testObject{ID: 1, Value: "test"} },
	}
}

func TestNewRejectsInvalidSizes(t *testing.T) {
	tests := []struct {
		name       string
		capacity   int
		shardCount int
	}{
		{"zero capacity", 0, 4},
		{"zero shards", 4, 0},
		{"too many shards", 4, maxShardCount + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config[testObject]{
				Capacity:   tt.capacity,
				ShardCount: tt.shardCount,
				Allocator:  testAllocator(),
			}
			p, err := New(cfg)
			require.Nil(t, p)
			require.ErrorIs(t, err, ErrInvalidSize)
		})
	}
}

func TestNewRejectsMissingAllocator(t *testing.T) {
	cfg := Config[testObject]{Capacity: 4, ShardCount: 2}
	p, err := New(cfg)
	require.Nil(t, p)
	require.ErrorIs(t, err, ErrInvalidSize)
}

func TestNewDistributesCapacityAcrossShards(t *testing.T) {
	p, err := New(Config[testObject]{Capacity: 10, ShardCount: 4, Allocator: testAllocator()})
	require.NoError(t, err)
	defer p.Destroy()

	require.Equal(t, 10, p.Capacity())
	sizes := make([]int, len(p.shards))
	for i, s := range p.shards {
		sizes[i] = len(s.slots)
	}
	// ceil(10/4)=3 for the first 10%4=2 shards, floor=2 for the rest.
	require.ElementsMatch(t, []int{3, 3, 2, 2}, sizes)
}

func TestNewGivesEveryShardAtLeastOneSlot(t *testing.T) {
	p, err := New(Config[testObject]{Capacity: 2, ShardCount: 4, Allocator: testAllocator()})
	require.NoError(t, err)
	defer p.Destroy()

	require.Equal(t, 4, p.Capacity())
	for _, s := range p.shards {
		require.GreaterOrEqual(t, len(s.slots), 1)
	}
}

func TestAcquireReleaseRoundTrip(t *testing.T) {
	p, err := New(Config[testObject]{Capacity: 4, ShardCount: 2, Allocator: testAllocator()})
	require.NoError(t, err)
	defer p.Destroy()

	obj, err := p.Acquire(nil, nil)
	require.NoError(t, err)
	require.NotNil(t, obj)
	require.Equal(t, 1, p.UsedCount())

	obj.ID = 42
	require.NoError(t, p.Release(obj))
	require.Equal(t, 0, p.UsedCount())
}

func TestReleaseResetsPayload(t *testing.T) {
	p, err := New(Config[testObject]{Capacity: 2, ShardCount: 1, Allocator: testAllocator()})
	require.NoError(t, err)
	defer p.Destroy()

	obj, err := p.Acquire(nil, nil)
	require.NoError(t, err)
	obj.ID = 999
	obj.Value = "mutated"
	require.NoError(t, p.Release(obj))

	again, err := p.Acquire(nil, nil)
	require.NoError(t, err)
	require.Equal(t, testObject{}, *again)
}

func TestAcquireExhaustedWithoutCallback(t *testing.T) {
	p, err := New(Config[testObject]{Capacity: 2, ShardCount: 1, Allocator: testAllocator()})
	require.NoError(t, err)
	defer p.Destroy()

	_, err = p.Acquire(nil, nil)
	require.NoError(t, err)
	_, err = p.Acquire(nil, nil)
	require.NoError(t, err)

	obj, err := p.Acquire(nil, nil)
	require.Nil(t, obj)
	require.ErrorIs(t, err, ErrExhausted)
}

func TestReleaseInvalidObject(t *testing.T) {
	p, err := New(Config[testObject]{Capacity: 2, ShardCount: 1, Allocator: testAllocator()})
	require.NoError(t, err)
	defer p.Destroy()

	foreign := &testObject{}
	err = p.Release(foreign)
	require.ErrorIs(t, err, ErrInvalidObject)
}

func TestReleaseNilObject(t *testing.T) {
	p, err := New(Config[testObject]{Capacity: 2, ShardCount: 1, Allocator: testAllocator()})
	require.NoError(t, err)
	defer p.Destroy()

	require.ErrorIs(t, p.Release(nil), ErrInvalidPool)
}

func TestDoubleReleaseIsInvalidObject(t *testing.T) {
	p, err := New(Config[testObject]{Capacity: 2, ShardCount: 1, Allocator: testAllocator()})
	require.NoError(t, err)
	defer p.Destroy()

	obj, err := p.Acquire(nil, nil)
	require.NoError(t, err)
	require.NoError(t, p.Release(obj))
	require.ErrorIs(t, p.Release(obj), ErrInvalidObject)
}

func TestGrowIncreasesCapacity(t *testing.T) {
	p, err := New(Config[testObject]{Capacity: 6, ShardCount: 2, Allocator: testAllocator()})
	require.NoError(t, err)
	defer p.Destroy()

	require.NoError(t, p.Grow(4))
	require.Equal(t, 10, p.Capacity())
}

func TestShrinkDecreasesCapacity(t *testing.T) {
	p, err := New(Config[testObject]{Capacity: 6, ShardCount: 2, Allocator: testAllocator()})
	require.NoError(t, err)
	defer p.Destroy()

	require.NoError(t, p.Shrink(2))
	require.Equal(t, 4, p.Capacity())
}

func TestShrinkFailsWhenInsufficientUnused(t *testing.T) {
	p, err := New(Config[testObject]{Capacity: 6, ShardCount: 2, Allocator: testAllocator()})
	require.NoError(t, err)
	defer p.Destroy()

	held := make([]*testObject, 5)
	for i := range held {
		obj, err := p.Acquire(nil, nil)
		require.NoError(t, err)
		held[i] = obj
	}

	err = p.Shrink(3)
	require.ErrorIs(t, err, ErrInsufficientUnused)
	require.Equal(t, 6, p.Capacity())
}

func TestShrunkObjectsStillHeldRemainValid(t *testing.T) {
	p, err := New(Config[testObject]{Capacity: 6, ShardCount: 2, Allocator: testAllocator()})
	require.NoError(t, err)
	defer p.Destroy()

	held := make([]*testObject, 2)
	for i := range held {
		obj, err := p.Acquire(nil, nil)
		require.NoError(t, err)
		obj.ID = 100 + i
		held[i] = obj
	}

	require.NoError(t, p.Shrink(2))
	require.Equal(t, 4, p.Capacity())

	for i, obj := range held {
		require.Equal(t, 100+i, obj.ID)
	}

	for i := 0; i < 2; i++ {
		obj, err := p.Acquire(nil, nil)
		require.NoError(t, err)
		require.Equal(t, testObject{}, *obj)
	}
}

func TestDestroyIsIdempotentOnNil(t *testing.T) {
	var p *Pool[testObject]
	require.NotPanics(t, func() { p.Destroy() })
}

func TestValidateRejectsSlotButAcquiresNextOne(t *testing.T) {
	var rejected []ErrorKind
	alloc := Allocator[testObject]{
		Construct: func() testObject { return testObject{} },
		Validate:  func(obj *testObject) bool { return obj.ID != -1 },
	}
	cfg := Config[testObject]{
		Capacity:   2,
		ShardCount: 1,
		Allocator:  alloc,
		ErrorSink:  func(kind ErrorKind, msg string, ctx any) { rejected = append(rejected, kind) },
	}
	p, err := New(cfg)
	require.NoError(t, err)
	defer p.Destroy()

	p.shards[0].slots[0].payload.ID = -1

	obj, err := p.Acquire(nil, nil)
	require.NoError(t, err)
	require.NotNil(t, obj)
	require.NotEqual(t, -1, obj.ID)
	require.Contains(t, rejected, ErrorInvalidObject)
}
