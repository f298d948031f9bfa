package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"
	"v.io/x/lib/vlog"

	"github.com/ahrav/go-aqs/latch"
	"github.com/ahrav/go-aqs/mutex"
)

// waitForQueue polls until n goroutines are queued on the mutex.
func waitForQueue(mu *mutex.Mutex, n int) error {
	deadline := time.Now().Add(5 * time.Second)
	for mu.QueueLength() != n {
		if time.Now().After(deadline) {
			return fmt.Errorf("queue length stuck at %d, want %d", mu.QueueLength(), n)
		}
		time.Sleep(time.Millisecond)
	}
	return nil
}

// runHandoff has C0 take the mutex, C1 and C2 queue behind it, and each
// release hand the mutex to the next in line.
func runHandoff(config) error {
	mu := mutex.New()
	mu.Lock()
	vlog.Infof("C0 acquired: %v", mu)

	order := make(chan int, 2)
	release := make(chan struct{})
	for id := 1; id <= 2; id++ {
		id := id
		go func() {
			mu.Lock()
			order <- id
			<-release
			mu.Unlock()
		}()
		if err := waitForQueue(mu, id); err != nil {
			return err
		}
		vlog.Infof("C%d queued: %v", id, mu)
	}

	mu.Unlock()
	vlog.Infof("C0 released")
	for want := 1; want <= 2; want++ {
		if got := <-order; got != want {
			return fmt.Errorf("C%d acquired, want C%d", got, want)
		}
		vlog.Infof("C%d acquired: %v", want, mu)
		release <- struct{}{}
	}

	deadline := time.Now().Add(5 * time.Second)
	for mu.IsLocked() {
		if time.Now().After(deadline) {
			return fmt.Errorf("mutex still held: %v", mu)
		}
		time.Sleep(time.Millisecond)
	}
	vlog.Infof("final: %v", mu)
	return nil
}

// runTimeout attempts a timed acquire against a mutex that is never released.
func runTimeout(cfg config) error {
	mu := mutex.New()
	mu.Lock()
	defer mu.Unlock()

	before := mu.QueueLength()
	start := time.Now()
	ok, err := mu.TryLockTimeout(context.Background(), cfg.timeout)
	elapsed := time.Since(start)
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("acquired a mutex that is held")
	}
	vlog.Infof("timed out after %v (budget %v)", elapsed.Round(time.Microsecond), cfg.timeout)
	if after := mu.QueueLength(); after != before {
		return fmt.Errorf("queue length %d after timeout, want %d", after, before)
	}
	vlog.Infof("queue restored: %v", mu)
	return nil
}

// runCascade parks goroutines on a latch and opens it with one CountDown.
func runCascade(cfg config) error {
	l := latch.New(1)
	var wg sync.WaitGroup
	wg.Add(cfg.goroutines)
	for i := 0; i < cfg.goroutines; i++ {
		go func() {
			defer wg.Done()
			l.Wait()
		}()
	}
	time.Sleep(10 * time.Millisecond)

	l.CountDown()
	wg.Wait()
	st := l.Stats()
	vlog.Infof("%d waiters released: shared releases=%d propagations=%d unparks=%d",
		cfg.goroutines, st.SharedReleases, st.Propagations, st.Unparks)
	if st.SharedReleases != 1 {
		return fmt.Errorf("expected a single shared release, got %d", st.SharedReleases)
	}
	return nil
}

// runContention hammers a mutex and checks mutual exclusion.
func runContention(cfg config) error {
	mu := mutex.New()
	var holders atomic.Int32
	var violations atomic.Int64
	counter := 0

	var wg sync.WaitGroup
	wg.Add(cfg.goroutines)
	start := time.Now()
	for i := 0; i < cfg.goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < cfg.iterations; j++ {
				mu.Lock()
				if holders.Inc() != 1 {
					violations.Inc()
				}
				counter++
				holders.Dec()
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	st := mu.Stats()
	vlog.Infof("%d ops in %v: enqueued=%d parks=%d unparks=%d",
		counter, elapsed.Round(time.Microsecond), st.Enqueued, st.Parks, st.Unparks)
	if v := violations.Load(); v != 0 {
		return fmt.Errorf("%d mutual exclusion violations", v)
	}
	if want := cfg.goroutines * cfg.iterations; counter != want {
		return fmt.Errorf("counter = %d, want %d", counter, want)
	}
	return nil
}
