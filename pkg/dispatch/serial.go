package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/teslashibe/go-dancebot/internal/log"
	"github.com/teslashibe/go-dancebot/pkg/catalog"
)

// SerialConfig configures the real hardware adapter.
type SerialConfig struct {
	// Port is the serial device path (default /dev/ttyUSB0).
	Port string

	// BaudRate is the link speed (default 115200).
	BaudRate int

	// WriteTimeout bounds a single frame transmission (default 2s).
	WriteTimeout time.Duration
}

// DefaultSerialConfig returns the servo controller defaults.
func DefaultSerialConfig() SerialConfig {
	return SerialConfig{
		Port:         "/dev/ttyUSB0",
		BaudRate:     115200,
		WriteTimeout: 2 * time.Second,
	}
}

// openPort is swappable in tests.
var openPort = func(name string, mode *serial.Mode) (serial.Port, error) {
	return serial.Open(name, mode)
}

// Serial is the real dispatch adapter. The connection is opened lazily on
// the first dispatch and kept open for the process lifetime; on a write
// failure one reconnect is attempted before the hardware is declared
// unavailable.
type Serial struct {
	cfg SerialConfig

	mu     sync.Mutex
	port   serial.Port
	closed bool
}

// NewSerial creates a serial adapter. The port itself is not touched until
// the first Dispatch.
func NewSerial(cfg SerialConfig) *Serial {
	if cfg.Port == "" {
		cfg.Port = DefaultSerialConfig().Port
	}
	if cfg.BaudRate <= 0 {
		cfg.BaudRate = DefaultSerialConfig().BaudRate
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultSerialConfig().WriteTimeout
	}
	return &Serial{cfg: cfg}
}

// Dispatch encodes the action's seq and writes one frame to the link.
// A partial write never counts as sent.
func (s *Serial) Dispatch(ctx context.Context, action *catalog.ActionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	frame := EncodeFrame(action.Seq)

	if err := s.writeFrame(ctx, frame); err != nil {
		// One explicit reconnect before giving up.
		log.Warn("serial write failed, reconnecting", "port", s.cfg.Port, "error", err)
		s.dropPort()
		if err := s.writeFrame(ctx, frame); err != nil {
			s.dropPort()
			return fmt.Errorf("%w: %v", ErrHardwareUnavailable, err)
		}
	}

	log.Debug("servo frame sent",
		"seq", action.Seq, "label", action.Label, "bytes", fmt.Sprintf("% X", frame))
	return nil
}

// writeFrame ensures the port is open and transmits one frame within the
// configured timeout.
func (s *Serial) writeFrame(ctx context.Context, frame []byte) error {
	if s.port == nil {
		mode := &serial.Mode{BaudRate: s.cfg.BaudRate}
		port, err := openPort(s.cfg.Port, mode)
		if err != nil {
			return fmt.Errorf("open %s: %w", s.cfg.Port, err)
		}
		s.port = port
		log.Info("serial link opened", "port", s.cfg.Port, "baud", s.cfg.BaudRate)
	}

	timeout := s.cfg.WriteTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if until := time.Until(deadline); until < timeout {
			timeout = until
		}
	}

	// The serial stack has no native write deadline; bound it ourselves.
	done := make(chan error, 1)
	port := s.port
	go func() {
		n, err := port.Write(frame)
		if err == nil && n != len(frame) {
			err = fmt.Errorf("%w: %d of %d bytes", ErrShortWrite, n, len(frame))
		}
		done <- err
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		return fmt.Errorf("write timeout after %v", timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Serial) dropPort() {
	if s.port != nil {
		_ = s.port.Close()
		s.port = nil
	}
}

// Close shuts the link; further dispatches fail with ErrClosed.
func (s *Serial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.dropPort()
	return nil
}
