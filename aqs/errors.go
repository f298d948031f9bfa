package aqs

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInterrupted is returned by the interruptible and timed acquire
	// variants when the caller's context is done before the acquire succeeds.
	// The returned error also wraps context.Cause of that context.
	ErrInterrupted = errors.New("aqs: acquire interrupted")

	// ErrUnsupported is the panic value (wrapped) of a hook that the
	// synchronizer does not implement. See Unsupported.
	ErrUnsupported = errors.New("aqs: operation not supported")

	// ErrNoPredecessor is the panic value when a queued node has lost its
	// predecessor. It indicates a bug in this package or a hook that broke
	// its contract; it is never recovered internally.
	ErrNoPredecessor = errors.New("aqs: queued node has no predecessor")
)

func interruptedError(ctx context.Context) error {
	return fmt.Errorf("%w: %w", ErrInterrupted, context.Cause(ctx))
}

func unsupported(op string) error {
	return fmt.Errorf("%w: %s", ErrUnsupported, op)
}
