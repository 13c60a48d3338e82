// Package schedule rate-limits host events: a per-frame coalescer for scroll
// and pointer work, and a time debouncer for viewport re-measurement.
package schedule

import (
	"sync"
	"sync/atomic"
)

// FrameRequester runs fn once before the host's next display refresh.
// Implementations must accept calls from any goroutine.
type FrameRequester interface {
	RequestFrame(fn func())
}

// Coalescer keeps at most one callback scheduled per display refresh.
// Scheduling while a callback is pending replaces it: only the latest work
// runs, stale work is dropped and counted.
type Coalescer struct {
	req FrameRequester

	mu      sync.Mutex
	pending func()
	armed   bool

	drops atomic.Uint64
	runs  atomic.Uint64
}

func NewCoalescer(req FrameRequester) *Coalescer {
	return &Coalescer{req: req}
}

func (c *Coalescer) Schedule(fn func()) {
	c.mu.Lock()
	if c.pending != nil {
		c.drops.Add(1)
	}
	c.pending = fn
	if c.armed {
		c.mu.Unlock()
		return
	}
	c.armed = true
	c.mu.Unlock()

	c.req.RequestFrame(c.run)
}

func (c *Coalescer) run() {
	c.mu.Lock()
	fn := c.pending
	c.pending = nil
	c.armed = false
	c.mu.Unlock()

	if fn != nil {
		c.runs.Add(1)
		fn()
	}
}

// Cancel drops any pending callback. A frame already requested from the host
// still fires but finds nothing to run.
func (c *Coalescer) Cancel() {
	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()
}

type CoalescerStats struct {
	Runs  uint64
	Drops uint64
}

func (c *Coalescer) Stats() CoalescerStats {
	return CoalescerStats{Runs: c.runs.Load(), Drops: c.drops.Load()}
}
