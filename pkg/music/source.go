package music

import (
	"context"
	"math"
	"time"
)

// Source is a background pipeline producing feature snapshots into a Cell.
type Source interface {
	// Start launches the pipeline. It returns once the pipeline is running
	// and stops when ctx is cancelled.
	Start(ctx context.Context) error

	// Cell returns the cell this source publishes into.
	Cell() *Cell
}

// SimSource synthesizes a plausible song progression when no real analyzer
// is attached: tempo drifts around a base, energy follows the structural
// section, and sections advance intro -> verse -> chorus -> bridge -> outro.
type SimSource struct {
	cell     *Cell
	interval time.Duration
	baseBPM  float64
}

// NewSimSource creates a simulated feature source publishing at the given
// interval (default 500ms when zero).
func NewSimSource(interval time.Duration) *SimSource {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &SimSource{
		cell:     NewCell(),
		interval: interval,
		baseBPM:  120,
	}
}

// Cell returns the cell this source publishes into.
func (s *SimSource) Cell() *Cell {
	return s.cell
}

// Start runs the publishing loop until ctx is cancelled.
func (s *SimSource) Start(ctx context.Context) error {
	go s.run(ctx)
	return nil
}

var simProgression = []Segment{
	SegmentIntro, SegmentVerse, SegmentChorus, SegmentVerse,
	SegmentChorus, SegmentBridge, SegmentChorus, SegmentOutro,
}

func (s *SimSource) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	start := time.Now()
	var segmentID uint64
	lastSegment := SegmentUnknown

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			t := now.Sub(start).Seconds()

			// 8s per structural section
			segment := simProgression[int(t/8)%len(simProgression)]
			if segment != lastSegment {
				segmentID++
				lastSegment = segment
			}

			energy := segmentEnergy(segment) + 0.1*math.Sin(t*0.7)
			energy = math.Max(0, math.Min(1, energy))

			mood := MoodNeutral
			switch {
			case energy > 0.6:
				mood = MoodEnergetic
			case energy < 0.25:
				mood = MoodCalm
			}

			s.cell.Publish(Snapshot{
				TempoBPM:  s.baseBPM + 15*math.Sin(t*0.2),
				Energy:    energy,
				Mood:      mood,
				Segment:   segment,
				SegmentID: segmentID,
				Time:      now,
			})
		}
	}
}

func segmentEnergy(seg Segment) float64 {
	switch seg {
	case SegmentIntro, SegmentOutro:
		return 0.2
	case SegmentVerse:
		return 0.45
	case SegmentBridge:
		return 0.55
	case SegmentChorus:
		return 0.75
	default:
		return 0.4
	}
}
