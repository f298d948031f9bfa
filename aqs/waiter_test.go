package aqs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWaiterUnparkBeforePark(t *testing.T) {
	w := newWaiter()
	w.unpark()
	w.unpark() // Coalesces with the first.

	assert.Equal(t, woken, w.park(nil, 0))
	assert.Equal(t, expired, w.park(nil, 5*time.Millisecond), "second unpark must not leave a permit")
}

func TestWaiterParkTimeout(t *testing.T) {
	w := newWaiter()
	start := time.Now()
	assert.Equal(t, expired, w.park(nil, 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestWaiterParkCancelled(t *testing.T) {
	w := newWaiter()
	done := make(chan struct{})
	close(done)
	assert.Equal(t, cancelled, w.park(done, time.Hour))
}

func TestWaiterUnparkWakesParked(t *testing.T) {
	w := newWaiter()
	res := make(chan wakeReason, 1)
	go func() { res <- w.park(make(chan struct{}), 0) }()

	time.Sleep(5 * time.Millisecond)
	w.unpark()
	select {
	case r := <-res:
		assert.Equal(t, woken, r)
	case <-time.After(5 * time.Second):
		t.Fatal("parked goroutine was not woken")
	}
}

func TestWaiterIDsUnique(t *testing.T) {
	a, b := newWaiter(), newWaiter()
	assert.NotEqual(t, a.id, b.id)
}
