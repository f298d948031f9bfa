package aqs

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

// binaryHooks is a non-reentrant exclusive lock: 0 is free, 1 is held.
type binaryHooks struct{ Unsupported }

func (binaryHooks) TryAcquire(s *State, _ int32) bool { return s.CompareAndSwap(0, 1) }

func (binaryHooks) TryRelease(s *State, _ int32) bool {
	s.Store(0)
	return true
}

// gateHooks is a one-shot shared gate: closed while the state is 0.
type gateHooks struct{ Unsupported }

func (gateHooks) TryAcquireShared(s *State, _ int32) int32 {
	if s.Load() != 0 {
		return 1
	}
	return -1
}

func (gateHooks) TryReleaseShared(s *State, _ int32) bool {
	s.Store(1)
	return true
}

// armedHooks is binaryHooks whose TryAcquire panics once armed.
type armedHooks struct {
	binaryHooks
	armed *atomic.Bool
}

func (h armedHooks) TryAcquire(s *State, arg int32) bool {
	if h.armed.Load() {
		panic("hook failure")
	}
	return h.binaryHooks.TryAcquire(s, arg)
}

// rwHooks is a read/write gate: -1 is held by a writer, n >= 0 counts readers.
type rwHooks struct{}

func (rwHooks) TryAcquire(s *State, _ int32) bool { return s.CompareAndSwap(0, -1) }

func (rwHooks) TryRelease(s *State, _ int32) bool {
	s.Store(0)
	return true
}

func (rwHooks) TryAcquireShared(s *State, _ int32) int32 {
	for {
		c := s.Load()
		if c < 0 {
			return -1
		}
		if s.CompareAndSwap(c, c+1) {
			return 1
		}
	}
}

func (rwHooks) TryReleaseShared(s *State, _ int32) bool {
	for {
		c := s.Load()
		if s.CompareAndSwap(c, c-1) {
			return c == 1
		}
	}
}

// unlinkingHooks never grants the lock and, on its second TryAcquire, cuts
// the tail node off from its predecessor.
type unlinkingHooks struct {
	Unsupported
	owner *Synchronizer
	calls atomic.Int32
}

func (h *unlinkingHooks) TryAcquire(*State, int32) bool {
	if h.calls.Inc() == 2 {
		h.owner.tail.Load().prev.Store(nil)
	}
	return false
}

func waitForQueueLength(t *testing.T, s *Synchronizer, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return s.QueueLength() == n },
		5*time.Second, time.Millisecond, "queue length never reached %d", n)
}

func waitGroupWithTimeout(t *testing.T, wg *sync.WaitGroup, d time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatalf("goroutines still blocked after %v", d)
	}
}

// requireQueueWellFormed checks the queue invariants once every acquirer has
// returned: head and tail are both set or both nil, the head is a
// placeholder, and the prev chain from tail reaches head through nodes with
// no live holder.
func requireQueueWellFormed(t *testing.T, s *Synchronizer) {
	t.Helper()
	h, tl := s.head.Load(), s.tail.Load()
	if h == nil {
		require.Nil(t, tl, "tail set without head")
		return
	}
	require.NotNil(t, tl, "head set without tail")
	require.Nil(t, h.holder.Load(), "head must not hold a waiter")
	for p := tl; p != h; p = p.prev.Load() {
		require.NotNil(t, p, "prev chain from tail does not reach head")
		require.Nil(t, p.holder.Load(), "waiter left queued")
		require.Greater(t, p.status.Load(), int32(0), "live node left behind head")
	}
}
