// Package admission bounds the number of concurrent outbound fetches with a
// fixed-capacity counting semaphore, independent of batch size.
package admission

import (
	"context"
	"fmt"
)

// Gate is a counting semaphore gating network concurrency. Acquisition blocks
// until a slot frees; the gate itself never times out, timeouts belong to the
// stages it protects.
type Gate struct {
	slots chan struct{}
}

// New creates a Gate with the given capacity.
func New(capacity int) *Gate {
	if capacity <= 0 {
		capacity = 1
	}
	return &Gate{slots: make(chan struct{}, capacity)}
}

// Acquire blocks until a slot is available or the context ends.
func (g *Gate) Acquire(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("admission wait canceled: %w", ctx.Err())
	case g.slots <- struct{}{}:
		return nil
	}
}

// Release frees a slot. Each successful Acquire must be matched by exactly
// one Release.
func (g *Gate) Release() {
	select {
	case <-g.slots:
	default:
		panic("admission: release without acquire")
	}
}

// Capacity returns the configured slot count.
func (g *Gate) Capacity() int {
	return cap(g.slots)
}
