package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueuePushPopFIFO(t *testing.T) {
	q := newQueue[testObject](2)

	var delivered []int
	for i := 0; i < 2; i++ {
		id := i
		ok := q.push(request[testObject]{
			callback: func(obj *testObject, ctx any) { delivered = append(delivered, ctx.(int)) },
			ctx:      id,
		})
		require.Truef(t, ok, "push %d: want ok", i)
	}

	require.Equal(t, 2, q.len())

	first, ok := q.pop()
	require.True(t, ok)
	first.callback(nil, first.ctx)

	second, ok := q.pop()
	require.True(t, ok)
	second.callback(nil, second.ctx)

	require.Equal(t, []int{0, 1}, delivered)
}

func TestQueuePopEmptyReturnsFalse(t *testing.T) {
	q := newQueue[testObject](1)
	_, ok := q.pop()
	require.False(t, ok)
}

func TestQueuePushFailsWhenFull(t *testing.T) {
	q := newQueue[testObject](1)
	require.True(t, q.push(request[testObject]{}))
	require.False(t, q.push(request[testObject]{}))
}

func TestQueueGrowIncreasesCapacityAndPreservesItems(t *testing.T) {
	q := newQueue[testObject](1)
	q.push(request[testObject]{ctx: 1})
	q.grow(3)

	_, capacity, _, growCount := q.snapshot()
	require.Equal(t, 4, capacity)
	require.Equal(t, 1, growCount)

	req, ok := q.pop()
	require.True(t, ok)
	require.Equal(t, 1, req.ctx)
}

func TestQueueSnapshotTracksMaxSize(t *testing.T) {
	q := newQueue[testObject](2)
	q.push(request[testObject]{})
	q.push(request[testObject]{})
	q.pop()

	_, _, maxSize, _ := q.snapshot()
	require.Equal(t, 2, maxSize)
	require.Equal(t, 1, q.len())
}
