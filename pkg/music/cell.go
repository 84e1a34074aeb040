package music

import "sync/atomic"

// Cell is a single-slot, most-recent-wins cache for feature snapshots.
//
// The producer (analyzer goroutine) swaps in whole Snapshot values; readers
// get a consistent pointer without locking. Readings dropped between two
// reads are not an error: the contract is "most recent successful reading",
// nothing stronger.
type Cell struct {
	slot atomic.Pointer[Snapshot]
}

// NewCell returns an empty cell.
func NewCell() *Cell {
	return &Cell{}
}

// Publish stores a new snapshot, replacing any previous one.
// The snapshot is copied; the caller may reuse the value.
func (c *Cell) Publish(s Snapshot) {
	c.slot.Store(&s)
}

// Latest returns the most recent snapshot, or ok=false if nothing has
// been published yet. Never blocks.
func (c *Cell) Latest() (*Snapshot, bool) {
	s := c.slot.Load()
	return s, s != nil
}
