// Sendframe - servo controller hardware check
//
// Encodes one command frame for a given seq and writes it to the serial
// port, printing the exact bytes sent. Useful for verifying the link
// before trusting a real-mode session to it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/teslashibe/go-dancebot/internal/config"
	"github.com/teslashibe/go-dancebot/internal/log"
	"github.com/teslashibe/go-dancebot/pkg/catalog"
	"github.com/teslashibe/go-dancebot/pkg/dispatch"
)

func main() {
	seq := flag.Int("seq", 0, "hardware action seq (0-255)")
	dryRun := flag.Bool("n", false, "print the frame without opening the port")
	flag.Parse()

	cfg := config.FromEnv()
	log.Init(cfg.LogLevel)

	if *seq < 0 || *seq > 255 {
		fmt.Fprintln(os.Stderr, "seq must be 0-255")
		os.Exit(2)
	}

	frame := dispatch.EncodeFrame(uint8(*seq))
	fmt.Printf("frame for seq %d: % X\n", *seq, frame)

	if *dryRun {
		return
	}

	adapter := dispatch.NewSerial(dispatch.SerialConfig{
		Port:         cfg.SerialPort,
		BaudRate:     cfg.BaudRate,
		WriteTimeout: cfg.DispatchTimeout,
	})
	defer adapter.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	action := &catalog.ActionRecord{Seq: uint8(*seq), Label: "sendframe", Duration: time.Second}
	if err := adapter.Dispatch(ctx, action); err != nil {
		fmt.Fprintf(os.Stderr, "dispatch failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("sent on %s @ %d\n", cfg.SerialPort, cfg.BaudRate)
}
