package aqs

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqInstallsSentinelLazily(t *testing.T) {
	s := New(binaryHooks{})
	assert.False(t, s.HasContended())
	assert.Nil(t, s.head.Load())
	assert.Nil(t, s.tail.Load())

	n := newNode(Exclusive, newWaiter())
	pred := s.enq(n)

	h := s.head.Load()
	require.NotNil(t, h)
	assert.Same(t, h, pred, "first waiter links behind the sentinel")
	assert.Same(t, n, s.tail.Load())
	assert.Same(t, h, n.prev.Load())
	assert.Same(t, n, h.next.Load())
	assert.Nil(t, h.holder.Load(), "sentinel has no holder")
	assert.True(t, s.HasContended())
	assert.True(t, s.HasQueuedWaiters())
}

func TestAddWaiterConcurrent(t *testing.T) {
	s := New(binaryHooks{})
	const numGoroutines = 64
	var wg sync.WaitGroup

	ready := make(chan struct{})
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			<-ready
			s.addWaiter(Exclusive, newWaiter())
		}()
	}
	close(ready)
	wg.Wait()

	// Walking prev from tail visits every node exactly once and ends at the
	// sentinel, and next mirrors prev once everything is quiescent.
	h := s.head.Load()
	require.NotNil(t, h)
	count := 0
	for p := s.tail.Load(); p != h; p = p.prev.Load() {
		require.NotNil(t, p)
		prev := p.prev.Load()
		require.NotNil(t, prev)
		assert.Same(t, p, prev.next.Load())
		count++
	}
	assert.Equal(t, numGoroutines, count)
	assert.Equal(t, numGoroutines, s.QueueLength())
	assert.Equal(t, uint64(numGoroutines), s.Stats().Enqueued)
}

func TestQueuedIDsOrder(t *testing.T) {
	s := New(binaryHooks{})
	var want []uint64
	for i := 0; i < 5; i++ {
		w := newWaiter()
		mode := Exclusive
		if i%2 == 1 {
			mode = Shared
		}
		s.addWaiter(mode, w)
		if mode == Exclusive {
			want = append(want, w.id)
		}
	}

	assert.Equal(t, want, s.QueuedIDs(Exclusive))
	assert.Len(t, s.QueuedIDs(Shared), 2)

	first, ok := s.FirstQueued()
	require.True(t, ok)
	assert.Equal(t, want[0], first)
}

func TestFirstQueuedEmpty(t *testing.T) {
	s := New(binaryHooks{})
	_, ok := s.FirstQueued()
	assert.False(t, ok)
	assert.Zero(t, s.QueueLength())
	assert.Empty(t, s.QueuedIDs(Exclusive))
}

func TestSetHeadClearsPlaceholder(t *testing.T) {
	s := New(binaryHooks{})
	n := s.addWaiter(Exclusive, newWaiter())

	s.setHead(n)
	assert.Same(t, n, s.head.Load())
	assert.Nil(t, n.holder.Load())
	assert.Nil(t, n.prev.Load())
	assert.False(t, s.HasQueuedWaiters())
}

func TestPredecessorPanicsWithoutPrev(t *testing.T) {
	n := newNode(Exclusive, newWaiter())
	assert.PanicsWithValue(t, ErrNoPredecessor, func() { n.predecessor() })
}
