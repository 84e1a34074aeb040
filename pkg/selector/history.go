package selector

// History is a fixed-capacity ring of recently played seqs. Pushing beyond
// capacity evicts the oldest entry.
type History struct {
	seqs []uint8
	cap  int
}

// NewHistory creates a history holding at most k seqs (minimum 1).
func NewHistory(k int) *History {
	if k < 1 {
		k = 1
	}
	return &History{cap: k}
}

// Push records a played seq, evicting the oldest beyond capacity.
func (h *History) Push(seq uint8) {
	h.seqs = append(h.seqs, seq)
	if len(h.seqs) > h.cap {
		h.seqs = h.seqs[1:]
	}
}

// Contains reports whether seq is among the recent picks.
func (h *History) Contains(seq uint8) bool {
	for _, s := range h.seqs {
		if s == seq {
			return true
		}
	}
	return false
}

// Exclude returns the recent seqs as a set for candidate filtering.
func (h *History) Exclude() map[uint8]bool {
	out := make(map[uint8]bool, len(h.seqs))
	for _, s := range h.seqs {
		out[s] = true
	}
	return out
}

// Seqs returns the recent picks, oldest first.
func (h *History) Seqs() []uint8 {
	out := make([]uint8, len(h.seqs))
	copy(out, h.seqs)
	return out
}

// Len returns the number of recorded picks.
func (h *History) Len() int {
	return len(h.seqs)
}
