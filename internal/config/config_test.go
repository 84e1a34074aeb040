package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()
	if cfg.SerialPort != DefaultSerialPort {
		t.Errorf("SerialPort = %q, want %q", cfg.SerialPort, DefaultSerialPort)
	}
	if cfg.BaudRate != DefaultBaudRate {
		t.Errorf("BaudRate = %d, want %d", cfg.BaudRate, DefaultBaudRate)
	}
	if cfg.HistorySize != DefaultHistorySize {
		t.Errorf("HistorySize = %d, want %d", cfg.HistorySize, DefaultHistorySize)
	}
	if cfg.MusicWeight != DefaultMusicWeight || cfg.CoherenceWeight != DefaultCoherenceWeight {
		t.Errorf("weights = %v/%v, want %v/%v",
			cfg.MusicWeight, cfg.CoherenceWeight, DefaultMusicWeight, DefaultCoherenceWeight)
	}
	if cfg.WatchCatalog || cfg.MusicDisabled {
		t.Error("watch and no-music must default to off")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DANCEBOT_SERIAL_PORT", "/dev/ttyACM1")
	t.Setenv("DANCEBOT_BAUD", "9600")
	t.Setenv("DANCEBOT_HISTORY", "5")
	t.Setenv("DANCEBOT_MUSIC_WEIGHT", "0.5")
	t.Setenv("DANCEBOT_WATCH_CATALOG", "true")
	t.Setenv("DANCEBOT_DISPATCH_TIMEOUT", "500ms")

	cfg := FromEnv()
	if cfg.SerialPort != "/dev/ttyACM1" {
		t.Errorf("SerialPort = %q", cfg.SerialPort)
	}
	if cfg.BaudRate != 9600 {
		t.Errorf("BaudRate = %d", cfg.BaudRate)
	}
	if cfg.HistorySize != 5 {
		t.Errorf("HistorySize = %d", cfg.HistorySize)
	}
	if cfg.MusicWeight != 0.5 {
		t.Errorf("MusicWeight = %v", cfg.MusicWeight)
	}
	if !cfg.WatchCatalog {
		t.Error("WatchCatalog not picked up")
	}
	if cfg.DispatchTimeout != 500*time.Millisecond {
		t.Errorf("DispatchTimeout = %v", cfg.DispatchTimeout)
	}
}

func TestFromEnvMalformedFallsBack(t *testing.T) {
	t.Setenv("DANCEBOT_BAUD", "fast")
	t.Setenv("DANCEBOT_MUSIC_WEIGHT", "most")
	t.Setenv("DANCEBOT_DISPATCH_TIMEOUT", "soon")

	cfg := FromEnv()
	if cfg.BaudRate != DefaultBaudRate {
		t.Errorf("BaudRate = %d, want default %d", cfg.BaudRate, DefaultBaudRate)
	}
	if cfg.MusicWeight != DefaultMusicWeight {
		t.Errorf("MusicWeight = %v, want default %v", cfg.MusicWeight, DefaultMusicWeight)
	}
	if cfg.DispatchTimeout != DefaultDispatchTimeout {
		t.Errorf("DispatchTimeout = %v, want default %v", cfg.DispatchTimeout, DefaultDispatchTimeout)
	}
}
