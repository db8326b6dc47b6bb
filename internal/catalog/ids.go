package catalog

import (
	"sync"
	"time"
)

// IDSource hands out candidate ids for new books.
type IDSource interface {
	NextID() int64
}

// IDFunc adapts a plain function to IDSource.
type IDFunc func() int64

// NextID calls f.
func (f IDFunc) NextID() int64 { return f() }

// ClockIDs issues wall-clock millisecond ids that never repeat within the
// process: when the clock has not moved on since the last id, the last id plus one is used.
type ClockIDs struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewClockIDs returns a ClockIDs reading the system clock.
func NewClockIDs() *ClockIDs {
	return &ClockIDs{now: time.Now}
}

// NextID returns the next id.
func (c *ClockIDs) NextID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.now().UnixMilli()
	if id <= c.last {
		id = c.last + 1
	}
	c.last = id
	return id
}
