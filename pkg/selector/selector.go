// Package selector picks the next dance action by fusing a music-match
// score with a category-coherence score.
//
// Selection is deterministic: for a given catalog, snapshot, matrix and
// history the same action is always chosen, with ties broken by lowest seq.
package selector

import (
	"errors"

	"github.com/teslashibe/go-dancebot/pkg/catalog"
	"github.com/teslashibe/go-dancebot/pkg/coherence"
	"github.com/teslashibe/go-dancebot/pkg/music"
)

// ErrNoCandidate is returned when the catalog has no actions at all.
var ErrNoCandidate = errors.New("selector: no candidate actions")

// Weights controls the fusion of the two scores. They need not sum to 1;
// only their ratio matters for ranking.
type Weights struct {
	Music     float64
	Coherence float64
}

// DefaultWeights favors the music signal over coherence.
func DefaultWeights() Weights {
	return Weights{Music: 0.7, Coherence: 0.3}
}

// Selector fuses catalog candidates, the latest feature snapshot and the
// coherence matrix into one pick per tick.
type Selector struct {
	matrix  *coherence.Matrix
	weights Weights
}

// New creates a selector over the given coherence matrix.
func New(matrix *coherence.Matrix, weights Weights) *Selector {
	return &Selector{matrix: matrix, weights: weights}
}

// Select returns the best next action.
//
// Candidates exclude seqs present in history; when that would leave nothing
// the constraint is relaxed so selection never starves. A nil snapshot means
// music has no opinion and every candidate gets a full music score.
func (s *Selector) Select(cat *catalog.Catalog, snap *music.Snapshot, hist *History, last *catalog.Category) (*catalog.ActionRecord, error) {
	if cat.Len() == 0 {
		return nil, ErrNoCandidate
	}

	candidates := cat.Candidates(hist.Exclude())
	if len(candidates) == 0 {
		candidates = cat.Candidates(nil)
	}

	var best *catalog.ActionRecord
	var bestScore float64
	for _, cand := range candidates {
		score := s.weights.Music*musicScore(cand, snap) +
			s.weights.Coherence*s.matrix.Score(last, cand.Category)

		// Candidates arrive in ascending seq order, so strict > keeps
		// the lowest seq on ties.
		if best == nil || score > bestScore {
			best = cand
			bestScore = score
		}
	}
	return best, nil
}

// musicScore rates how well a candidate's profile matches the snapshot.
// Tempo containment, energy containment and mood match contribute equally.
func musicScore(a *catalog.ActionRecord, snap *music.Snapshot) float64 {
	if snap == nil {
		return 1.0
	}
	tempo := rangeScore(snap.TempoBPM, a.Profile.TempoMin, a.Profile.TempoMax, 30)
	energy := rangeScore(snap.Energy, a.Profile.EnergyMin, a.Profile.EnergyMax, 0.2)
	mood := moodScore(a.Profile.Mood, snap.Mood)
	return (tempo + energy + mood) / 3
}

// rangeScore is 1 inside [lo,hi] and falls off linearly to 0 over `falloff`
// outside it.
func rangeScore(v, lo, hi, falloff float64) float64 {
	if lo >= hi {
		return 1.0 // unconstrained profile
	}
	switch {
	case v >= lo && v <= hi:
		return 1.0
	case v < lo:
		d := lo - v
		if d >= falloff {
			return 0
		}
		return 1 - d/falloff
	default:
		d := v - hi
		if d >= falloff {
			return 0
		}
		return 1 - d/falloff
	}
}

func moodScore(want, have music.Mood) float64 {
	switch {
	case want == music.MoodAny:
		return 0.8
	case want == have:
		return 1.0
	case want == music.MoodNeutral:
		return 0.8
	default:
		return 0.4
	}
}
