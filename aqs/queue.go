package aqs

// enq appends n at the tail, installing the sentinel head first if the queue
// has never been used. It returns n's predecessor.
func (s *Synchronizer) enq(n *node) *node {
	for {
		t := s.tail.Load()
		if t == nil {
			// Several goroutines may race to install the sentinel; one wins
			// and the rest retry against the new tail.
			h := &node{}
			if s.head.CompareAndSwap(nil, h) {
				s.tail.Store(h)
			}
			continue
		}
		n.prev.Store(t)
		if s.tail.CompareAndSwap(t, n) {
			t.next.Store(n)
			return t
		}
	}
}

// addWaiter creates a node for w in the given mode and enqueues it.
func (s *Synchronizer) addWaiter(mode Mode, w *waiter) *node {
	n := newNode(mode, w)
	s.stats.enqueued.Inc()

	// Fast path: one CAS against an existing tail.
	if pred := s.tail.Load(); pred != nil {
		n.prev.Store(pred)
		if s.tail.CompareAndSwap(pred, n) {
			pred.next.Store(n)
			return n
		}
	}
	s.enq(n)
	return n
}

// setHead dequeues n by making it the head. Only the goroutine that just
// acquired through n calls it. Clearing holder and prev marks n as a
// placeholder and drops references into the old queue prefix.
func (s *Synchronizer) setHead(n *node) {
	s.head.Store(n)
	n.holder.Store(nil)
	n.prev.Store(nil)
}

// HasQueuedWaiters reports whether any goroutine may be waiting to acquire.
// A cancellation can make a true result stale at any moment.
func (s *Synchronizer) HasQueuedWaiters() bool {
	return s.head.Load() != s.tail.Load()
}

// HasContended reports whether any goroutine has ever had to queue.
func (s *Synchronizer) HasContended() bool {
	return s.head.Load() != nil
}

// QueueLength estimates the number of goroutines waiting to acquire.
func (s *Synchronizer) QueueLength() int {
	n := 0
	for p := s.tail.Load(); p != nil; p = p.prev.Load() {
		if p.holder.Load() != nil {
			n++
		}
	}
	return n
}

// FirstQueued returns the id of the longest-waiting goroutine, if any.
func (s *Synchronizer) FirstQueued() (uint64, bool) {
	h := s.head.Load()
	if h == s.tail.Load() {
		return 0, false
	}
	// Usually head.next is accurate; fall back to walking back from tail when
	// it is missing or was dequeued under us.
	if nx := h.next.Load(); nx != nil && nx.prev.Load() == h {
		if w := nx.holder.Load(); w != nil {
			return w.id, true
		}
	}
	var first *waiter
	for t := s.tail.Load(); t != nil && t != s.head.Load(); t = t.prev.Load() {
		if w := t.holder.Load(); w != nil {
			first = w
		}
	}
	if first == nil {
		return 0, false
	}
	return first.id, true
}

// QueuedIDs returns the ids of goroutines waiting in the given mode, longest
// waiting first.
func (s *Synchronizer) QueuedIDs(mode Mode) []uint64 {
	var ids []uint64
	for p := s.tail.Load(); p != nil; p = p.prev.Load() {
		if p.mode != mode {
			continue
		}
		if w := p.holder.Load(); w != nil {
			ids = append(ids, w.id)
		}
	}
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids
}
