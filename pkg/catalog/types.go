// Package catalog manages the table of pre-recorded servo actions.
//
// Actions are loaded once from a CSV mapping table (seq, title, label,
// duration) plus an optional YAML descriptor carrying the category and
// music-matching profile for each label. The loaded catalog is immutable;
// hot reload swaps the whole table atomically through a Store.
package catalog

import (
	"time"

	"github.com/teslashibe/go-dancebot/pkg/music"
)

// Category is the closed movement classification used by the coherence
// model and by music matching.
type Category int

const (
	CategoryGeneral Category = iota
	CategoryStand
	CategoryForward
	CategoryTurn
	CategorySide
	CategoryGesture
	CategoryCombo
)

// CategoryCount is the number of movement categories.
const CategoryCount = 7

// String returns a human-readable category name.
func (c Category) String() string {
	switch c {
	case CategoryStand:
		return "stand"
	case CategoryForward:
		return "forward"
	case CategoryTurn:
		return "turn"
	case CategorySide:
		return "side"
	case CategoryGesture:
		return "gesture"
	case CategoryCombo:
		return "combo"
	default:
		return "general"
	}
}

// ParseCategory converts a descriptor string to a Category.
// Unrecognized values map to CategoryGeneral.
func ParseCategory(s string) Category {
	switch s {
	case "stand":
		return CategoryStand
	case "forward":
		return CategoryForward
	case "turn":
		return CategoryTurn
	case "side":
		return CategorySide
	case "gesture":
		return CategoryGesture
	case "combo":
		return CategoryCombo
	default:
		return CategoryGeneral
	}
}

// FeatureProfile describes what kind of music an action suits.
type FeatureProfile struct {
	// TempoMin/TempoMax bound the BPM range this action matches.
	TempoMin float64
	TempoMax float64

	// EnergyMin/EnergyMax bound the normalized energy range.
	EnergyMin float64
	EnergyMax float64

	// Mood is the preferred mood; MoodAny matches everything.
	Mood music.Mood

	// Segment is the preferred song section; SegmentUnknown means no preference.
	Segment music.Segment
}

// ActionRecord is one playable pre-recorded action.
// Records are constructed at load time and immutable thereafter.
type ActionRecord struct {
	// Seq is the hardware-side action identifier sent over the wire.
	Seq uint8

	// Title is the display name.
	Title string

	// Label is the unique voice-recognition key.
	Label string

	// Duration is how long the hardware takes to play the action.
	Duration time.Duration

	// Category classifies the movement for coherence scoring.
	Category Category

	// Profile describes the music this action suits.
	Profile FeatureProfile
}
