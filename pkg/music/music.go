// Package music defines the feature snapshot contract between the audio
// analysis pipeline and the dance selection engine.
//
// The analyzer side produces periodic Snapshot values at its own cadence.
// The selection engine only ever reads the most recent one: readers never
// block, never see a torn value, and tolerate the cell being empty before
// the first reading arrives.
package music

import "time"

// Mood is a discrete music mood classification.
type Mood int

const (
	MoodAny Mood = iota
	MoodCalm
	MoodNeutral
	MoodEnergetic
)

// String returns a human-readable mood name.
func (m Mood) String() string {
	switch m {
	case MoodCalm:
		return "calm"
	case MoodNeutral:
		return "neutral"
	case MoodEnergetic:
		return "energetic"
	default:
		return "any"
	}
}

// ParseMood converts a descriptor string to a Mood.
// Unrecognized values map to MoodAny.
func ParseMood(s string) Mood {
	switch s {
	case "calm":
		return MoodCalm
	case "neutral":
		return MoodNeutral
	case "energetic":
		return MoodEnergetic
	default:
		return MoodAny
	}
}

// Segment identifies the structural section of the current song.
type Segment int

const (
	SegmentUnknown Segment = iota
	SegmentIntro
	SegmentVerse
	SegmentChorus
	SegmentBridge
	SegmentOutro
)

// String returns a human-readable segment name.
func (s Segment) String() string {
	switch s {
	case SegmentIntro:
		return "intro"
	case SegmentVerse:
		return "verse"
	case SegmentChorus:
		return "chorus"
	case SegmentBridge:
		return "bridge"
	case SegmentOutro:
		return "outro"
	default:
		return "unknown"
	}
}

// Snapshot is one periodic summary of the music being heard.
type Snapshot struct {
	// TempoBPM is the detected beat rate.
	TempoBPM float64

	// Energy is the normalized audio energy in [0,1].
	Energy float64

	// Mood is the discrete mood classification.
	Mood Mood

	// Segment is the detected structural section.
	Segment Segment

	// SegmentID increases monotonically; it changes when the analyzer
	// detects a structural boundary.
	SegmentID uint64

	// Time is when this reading was taken.
	Time time.Time
}
