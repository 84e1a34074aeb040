package selector

import (
	"testing"
	"time"

	"github.com/teslashibe/go-dancebot/pkg/catalog"
	"github.com/teslashibe/go-dancebot/pkg/coherence"
	"github.com/teslashibe/go-dancebot/pkg/music"
)

func testCatalog(t *testing.T, records ...*catalog.ActionRecord) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(records)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return cat
}

func action(seq uint8, label string, cat catalog.Category) *catalog.ActionRecord {
	return &catalog.ActionRecord{
		Seq:      seq,
		Title:    label,
		Label:    label,
		Duration: time.Second,
		Category: cat,
	}
}

func TestSelectEmptyCatalog(t *testing.T) {
	sel := New(coherence.Uniform(), DefaultWeights())
	cat := testCatalog(t)

	if _, err := sel.Select(cat, nil, NewHistory(3), nil); err != ErrNoCandidate {
		t.Fatalf("expected ErrNoCandidate, got %v", err)
	}
}

func TestSelectTieBreakLowestSeq(t *testing.T) {
	// Identical categories and profiles: every score ties.
	cat := testCatalog(t,
		action(7, "b", catalog.CategoryGeneral),
		action(3, "a", catalog.CategoryGeneral),
	)
	sel := New(coherence.Uniform(), DefaultWeights())

	for i := 0; i < 50; i++ {
		pick, err := sel.Select(cat, nil, NewHistory(3), nil)
		if err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		if pick.Seq != 3 {
			t.Fatalf("run %d: tie broken to seq %d, want 3", i, pick.Seq)
		}
	}
}

func TestSelectNeverRepeatsWithinHistoryWindow(t *testing.T) {
	cat := testCatalog(t,
		action(0, "a", catalog.CategoryGeneral),
		action(1, "b", catalog.CategoryGeneral),
		action(2, "c", catalog.CategoryGeneral),
		action(3, "d", catalog.CategoryGeneral),
		action(4, "e", catalog.CategoryGeneral),
	)
	sel := New(coherence.Uniform(), DefaultWeights())
	hist := NewHistory(3)

	for i := 0; i < 30; i++ {
		pick, err := sel.Select(cat, nil, hist, nil)
		if err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		if hist.Contains(pick.Seq) {
			t.Fatalf("pick %d repeated seq %d within window %v", i, pick.Seq, hist.Seqs())
		}
		hist.Push(pick.Seq)
	}
}

func TestSelectRelaxesWhenHistoryCoversCatalog(t *testing.T) {
	cat := testCatalog(t,
		action(0, "a", catalog.CategoryGeneral),
		action(1, "b", catalog.CategoryGeneral),
	)
	sel := New(coherence.Uniform(), DefaultWeights())

	hist := NewHistory(3)
	hist.Push(0)
	hist.Push(1)

	// Everything is excluded; selection must still produce an action.
	pick, err := sel.Select(cat, nil, hist, nil)
	if err != nil {
		t.Fatalf("expected relaxation, got error: %v", err)
	}
	if pick.Seq != 0 {
		t.Errorf("relaxed tie should break to lowest seq, got %d", pick.Seq)
	}
}

func TestSelectMusicPreference(t *testing.T) {
	fast := action(5, "fast", catalog.CategoryForward)
	fast.Profile = catalog.FeatureProfile{
		TempoMin: 130, TempoMax: 190, EnergyMin: 0.6, EnergyMax: 1, Mood: music.MoodEnergetic,
	}
	slow := action(1, "slow", catalog.CategoryStand)
	slow.Profile = catalog.FeatureProfile{
		TempoMin: 50, TempoMax: 90, EnergyMin: 0, EnergyMax: 0.3, Mood: music.MoodCalm,
	}
	cat := testCatalog(t, fast, slow)
	sel := New(coherence.Uniform(), DefaultWeights())

	snap := &music.Snapshot{TempoBPM: 160, Energy: 0.8, Mood: music.MoodEnergetic}
	pick, err := sel.Select(cat, snap, NewHistory(3), nil)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if pick.Label != "fast" {
		t.Errorf("energetic music should pick the fast action, got %q", pick.Label)
	}

	snap = &music.Snapshot{TempoBPM: 70, Energy: 0.1, Mood: music.MoodCalm}
	pick, err = sel.Select(cat, snap, NewHistory(3), nil)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if pick.Label != "slow" {
		t.Errorf("calm music should pick the slow action, got %q", pick.Label)
	}
}

func TestSelectCoherencePreference(t *testing.T) {
	cat := testCatalog(t,
		action(0, "stand", catalog.CategoryStand),
		action(1, "forward", catalog.CategoryForward),
	)
	// No snapshot: only coherence differentiates.
	sel := New(coherence.Default(), DefaultWeights())

	last := catalog.CategoryStand
	pick, err := sel.Select(cat, nil, NewHistory(3), &last)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if pick.Label != "forward" {
		t.Errorf("stand should flow into forward, got %q", pick.Label)
	}
}

func TestRangeScore(t *testing.T) {
	tests := []struct {
		name            string
		v, lo, hi, fall float64
		want            float64
	}{
		{"inside", 100, 80, 120, 30, 1.0},
		{"at edge", 120, 80, 120, 30, 1.0},
		{"just above", 135, 80, 120, 30, 0.5},
		{"far above", 160, 80, 120, 30, 0.0},
		{"just below", 65, 80, 120, 30, 0.5},
		{"unconstrained", 500, 0, 0, 30, 1.0},
	}
	for _, tt := range tests {
		if got := rangeScore(tt.v, tt.lo, tt.hi, tt.fall); !approxEqual(got, tt.want) {
			t.Errorf("%s: rangeScore = %f, want %f", tt.name, got, tt.want)
		}
	}
}

func approxEqual(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}

func TestHistoryEviction(t *testing.T) {
	h := NewHistory(3)
	for seq := uint8(0); seq < 5; seq++ {
		h.Push(seq)
	}

	if h.Len() != 3 {
		t.Fatalf("expected capacity 3, got %d", h.Len())
	}
	want := []uint8{2, 3, 4}
	got := h.Seqs()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("history = %v, want %v", got, want)
		}
	}
	if h.Contains(1) {
		t.Error("evicted seq still reported")
	}
	if !h.Contains(4) {
		t.Error("recent seq missing")
	}
}
