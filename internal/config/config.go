// Package config provides environment-based configuration for go-dancebot commands.
package config

import (
	"os"
	"strconv"
	"time"
)

// Defaults for the servo controller link and the selection engine.
const (
	DefaultSerialPort      = "/dev/ttyUSB0"
	DefaultBaudRate        = 115200
	DefaultHTTPPort        = "8090"
	DefaultCatalogPath     = "actions.csv"
	DefaultProfilesPath    = "profiles.yaml"
	DefaultHistorySize     = 3
	DefaultMusicWeight     = 0.7
	DefaultCoherenceWeight = 0.3
	DefaultDispatchTimeout = 2 * time.Second
)

// Config holds all tunable parameters for the dancebot daemon.
type Config struct {
	// Hardware link
	SerialPort      string
	BaudRate        int
	DispatchTimeout time.Duration

	// Catalog files
	CatalogPath  string
	ProfilesPath string
	MatrixPath   string // empty = built-in transition matrix
	WatchCatalog bool

	// Selection
	HistorySize     int
	MusicWeight     float64
	CoherenceWeight float64

	// Music source
	MusicDisabled bool

	// Surfaces
	HTTPPort string
	LogLevel string
}

// FromEnv builds a Config from DANCEBOT_* environment variables,
// falling back to defaults for anything unset.
func FromEnv() Config {
	return Config{
		SerialPort:      getString("DANCEBOT_SERIAL_PORT", DefaultSerialPort),
		BaudRate:        getInt("DANCEBOT_BAUD", DefaultBaudRate),
		DispatchTimeout: getDuration("DANCEBOT_DISPATCH_TIMEOUT", DefaultDispatchTimeout),
		CatalogPath:     getString("DANCEBOT_CATALOG", DefaultCatalogPath),
		ProfilesPath:    getString("DANCEBOT_PROFILES", DefaultProfilesPath),
		MatrixPath:      getString("DANCEBOT_MATRIX", ""),
		WatchCatalog:    getBool("DANCEBOT_WATCH_CATALOG", false),
		HistorySize:     getInt("DANCEBOT_HISTORY", DefaultHistorySize),
		MusicWeight:     getFloat("DANCEBOT_MUSIC_WEIGHT", DefaultMusicWeight),
		CoherenceWeight: getFloat("DANCEBOT_COHERENCE_WEIGHT", DefaultCoherenceWeight),
		MusicDisabled:   getBool("DANCEBOT_NO_MUSIC", false),
		HTTPPort:        getString("DANCEBOT_HTTP_PORT", DefaultHTTPPort),
		LogLevel:        getString("LOG_LEVEL", "info"),
	}
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
