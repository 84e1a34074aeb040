package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/teslashibe/go-dancebot/internal/log"
	"github.com/teslashibe/go-dancebot/pkg/music"
)

// descriptorFile is the YAML companion carrying category and music profile
// per label. Everything is optional; absent entries fall back to defaults
// derived from the action's duration.
type descriptorFile struct {
	Profiles map[string]descriptorEntry `yaml:"profiles"`
}

type descriptorEntry struct {
	Category string     `yaml:"category"`
	Tempo    [2]float64 `yaml:"tempo"`
	Energy   [2]float64 `yaml:"energy"`
	Mood     string     `yaml:"mood"`
	Segment  string     `yaml:"segment"`
}

// Load reads the CSV mapping table and the optional YAML profile descriptor.
//
// CSV rows are `seq,title,label,time` with time in milliseconds; labels may
// be any UTF-8 text. A row failing a single-field constraint is skipped with
// a warning. Duplicate seq or label values, or a table yielding no usable
// rows, are fatal.
func Load(csvPath, profilesPath string) (*Catalog, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // row length validated per row

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty table %s", ErrLoad, csvPath)
	}

	// Skip a header row if present.
	if isHeader(rows[0]) {
		rows = rows[1:]
	}

	descriptors := loadDescriptors(profilesPath)

	var records []*ActionRecord
	seenSeq := make(map[uint8]string)
	seenLabel := make(map[string]bool)

	for i, row := range rows {
		rec, err := parseRow(row)
		if err != nil {
			log.Warn("catalog: skipping row", "row", i+1, "error", err)
			continue
		}
		if prev, dup := seenSeq[rec.Seq]; dup {
			return nil, fmt.Errorf("%w: duplicate seq %d (%q and %q)", ErrLoad, rec.Seq, prev, rec.Label)
		}
		if seenLabel[rec.Label] {
			return nil, fmt.Errorf("%w: duplicate label %q", ErrLoad, rec.Label)
		}
		seenSeq[rec.Seq] = rec.Label
		seenLabel[rec.Label] = true

		applyDescriptor(rec, descriptors)
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, csvPath)
	}

	log.Info("catalog loaded", "actions", len(records), "file", csvPath)
	return newCatalog(records), nil
}

func isHeader(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(row[0]))
	return first == "seq"
}

func parseRow(row []string) (*ActionRecord, error) {
	if len(row) < 4 {
		return nil, fmt.Errorf("want 4 fields, got %d", len(row))
	}

	seqField := strings.TrimSpace(row[0])
	seq, err := strconv.Atoi(seqField)
	if err != nil {
		return nil, fmt.Errorf("bad seq %q: %v", seqField, err)
	}
	if seq < 0 || seq > 255 {
		return nil, fmt.Errorf("seq %d out of range", seq)
	}

	title := strings.TrimSpace(row[1])
	label := strings.TrimSpace(row[2])
	if label == "" {
		return nil, fmt.Errorf("empty label")
	}

	msField := strings.TrimSpace(row[3])
	ms, err := strconv.Atoi(msField)
	if err != nil {
		return nil, fmt.Errorf("bad duration %q: %v", msField, err)
	}
	if ms <= 0 {
		return nil, fmt.Errorf("non-positive duration %dms", ms)
	}

	return &ActionRecord{
		Seq:      uint8(seq),
		Title:    title,
		Label:    label,
		Duration: time.Duration(ms) * time.Millisecond,
	}, nil
}

func loadDescriptors(path string) map[string]descriptorEntry {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("catalog: profile descriptor unavailable, deriving defaults", "file", path, "error", err)
		return nil
	}
	var df descriptorFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		log.Warn("catalog: malformed profile descriptor, deriving defaults", "file", path, "error", err)
		return nil
	}
	return df.Profiles
}

func applyDescriptor(rec *ActionRecord, descriptors map[string]descriptorEntry) {
	d, ok := descriptors[rec.Label]
	if !ok {
		rec.Category = CategoryGeneral
		rec.Profile = deriveProfile(rec.Duration)
		return
	}

	rec.Category = ParseCategory(d.Category)
	rec.Profile = FeatureProfile{
		TempoMin:  d.Tempo[0],
		TempoMax:  d.Tempo[1],
		EnergyMin: d.Energy[0],
		EnergyMax: d.Energy[1],
		Mood:      music.ParseMood(d.Mood),
		Segment:   parseSegment(d.Segment),
	}
	if rec.Profile.TempoMax <= rec.Profile.TempoMin {
		rec.Profile.TempoMin, rec.Profile.TempoMax = 0, 300
	}
	if rec.Profile.EnergyMax <= rec.Profile.EnergyMin {
		rec.Profile.EnergyMin, rec.Profile.EnergyMax = 0, 1
	}
}

// deriveProfile estimates a music profile from playback duration alone.
// Long routines suit high-energy passages, very short ones calm passages.
func deriveProfile(d time.Duration) FeatureProfile {
	switch {
	case d > 10*time.Second:
		return FeatureProfile{TempoMin: 110, TempoMax: 200, EnergyMin: 0.5, EnergyMax: 1, Mood: music.MoodEnergetic}
	case d < 3*time.Second:
		return FeatureProfile{TempoMin: 40, TempoMax: 110, EnergyMin: 0, EnergyMax: 0.4, Mood: music.MoodCalm}
	default:
		return FeatureProfile{TempoMin: 70, TempoMax: 150, EnergyMin: 0.15, EnergyMax: 0.8, Mood: music.MoodAny}
	}
}

func parseSegment(s string) music.Segment {
	switch s {
	case "intro":
		return music.SegmentIntro
	case "verse":
		return music.SegmentVerse
	case "chorus":
		return music.SegmentChorus
	case "bridge":
		return music.SegmentBridge
	case "outro":
		return music.SegmentOutro
	default:
		return music.SegmentUnknown
	}
}
