package catalog

import (
	"fmt"
	"sort"
	"time"
)

// Catalog is an immutable table of playable actions, indexed by seq and label.
type Catalog struct {
	actions []*ActionRecord
	byLabel map[string]*ActionRecord
	bySeq   map[uint8]*ActionRecord
}

// New builds a catalog from programmatic records, enforcing the same
// invariants as Load: positive durations, unique seq and label.
func New(records []*ActionRecord) (*Catalog, error) {
	seenSeq := make(map[uint8]bool, len(records))
	seenLabel := make(map[string]bool, len(records))
	for _, r := range records {
		if r.Duration <= 0 {
			return nil, fmt.Errorf("%w: non-positive duration for %q", ErrLoad, r.Label)
		}
		if seenSeq[r.Seq] {
			return nil, fmt.Errorf("%w: duplicate seq %d", ErrLoad, r.Seq)
		}
		if seenLabel[r.Label] {
			return nil, fmt.Errorf("%w: duplicate label %q", ErrLoad, r.Label)
		}
		seenSeq[r.Seq] = true
		seenLabel[r.Label] = true
	}
	return newCatalog(records), nil
}

// newCatalog builds the indexes over validated records.
// Records must already have unique seq and label and positive durations.
func newCatalog(records []*ActionRecord) *Catalog {
	c := &Catalog{
		actions: records,
		byLabel: make(map[string]*ActionRecord, len(records)),
		bySeq:   make(map[uint8]*ActionRecord, len(records)),
	}
	for _, r := range records {
		c.byLabel[r.Label] = r
		c.bySeq[r.Seq] = r
	}
	sort.Slice(c.actions, func(i, j int) bool {
		return c.actions[i].Seq < c.actions[j].Seq
	})
	return c
}

// ByLabel returns the action with the given voice label.
func (c *Catalog) ByLabel(label string) (*ActionRecord, error) {
	r, ok := c.byLabel[label]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, label)
	}
	return r, nil
}

// Candidates returns all actions whose seq is not in the exclude set,
// ordered by ascending seq.
func (c *Catalog) Candidates(exclude map[uint8]bool) []*ActionRecord {
	out := make([]*ActionRecord, 0, len(c.actions))
	for _, r := range c.actions {
		if exclude[r.Seq] {
			continue
		}
		out = append(out, r)
	}
	return out
}

// DurationOf returns the playback duration for a seq.
func (c *Catalog) DurationOf(seq uint8) (time.Duration, bool) {
	r, ok := c.bySeq[seq]
	if !ok {
		return 0, false
	}
	return r.Duration, true
}

// Actions returns all records ordered by ascending seq.
// The returned slice must not be modified.
func (c *Catalog) Actions() []*ActionRecord {
	return c.actions
}

// Len returns the number of loaded actions.
func (c *Catalog) Len() int {
	return len(c.actions)
}
