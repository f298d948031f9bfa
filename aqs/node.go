package aqs

import (
	"go.uber.org/atomic"
	"v.io/x/lib/vlog"
)

// Mode says whether a queued waiter wants exclusive or shared ownership.
type Mode uint8

const (
	// Exclusive admits a single holder at a time.
	Exclusive Mode = iota
	// Shared may admit many holders at once, as decided by TryAcquireShared.
	Shared
)

func (m Mode) String() string {
	if m == Shared {
		return "shared"
	}
	return "exclusive"
}

// Node status values. Only statusCancelled is positive, so "> 0" reads as
// "cancelled" and "<= 0" as "live" throughout the package.
const (
	statusInitial   int32 = 0
	statusCancelled int32 = 1
	// statusSignal means the successor is (or is about to be) parked and must
	// be unparked when this node releases or cancels.
	statusSignal int32 = -1
	// statusCondition is reserved for condition queues, which this package
	// does not implement.
	statusCondition int32 = -2
	// statusPropagate records on the head that a shared release happened and
	// should keep cascading.
	statusPropagate int32 = -3
)

// node is one entry in the wait queue.
//
// prev is set before the node is published as tail and is the authoritative
// backward chain. next is best effort: it may be nil while a successor exists
// and must be reconstructed from tail when it cannot be trusted. A cancelled
// node points next at itself.
type node struct {
	status atomic.Int32
	prev   atomic.Pointer[node]
	next   atomic.Pointer[node]
	holder atomic.Pointer[waiter] // nil once the node is head or cancelled
	mode   Mode
}

func newNode(mode Mode, w *waiter) *node {
	n := &node{mode: mode}
	n.holder.Store(w)
	return n
}

func (n *node) isShared() bool { return n.mode == Shared }

// predecessor returns n.prev. A linked node without a predecessor means the
// queue is corrupt, so it panics rather than returning nil.
func (n *node) predecessor() *node {
	p := n.prev.Load()
	if p == nil {
		vlog.Errorf("aqs: %s node reached the acquire loop with no predecessor", n.mode)
		panic(ErrNoPredecessor)
	}
	return p
}
