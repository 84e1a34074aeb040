// Dancebot - music-aware dance controller daemon
//
// Loads the servo action catalog and coherence matrix, starts the music
// feature source and session scheduler, and serves the command/status API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/teslashibe/go-dancebot/internal/config"
	"github.com/teslashibe/go-dancebot/internal/log"
	"github.com/teslashibe/go-dancebot/pkg/catalog"
	"github.com/teslashibe/go-dancebot/pkg/coherence"
	"github.com/teslashibe/go-dancebot/pkg/dispatch"
	"github.com/teslashibe/go-dancebot/pkg/music"
	"github.com/teslashibe/go-dancebot/pkg/selector"
	"github.com/teslashibe/go-dancebot/pkg/session"
	"github.com/teslashibe/go-dancebot/pkg/web"
)

func main() {
	cfg := config.FromEnv()
	log.Init(cfg.LogLevel)

	cat, err := catalog.Load(cfg.CatalogPath, cfg.ProfilesPath)
	if err != nil {
		log.Error("catalog load failed", "error", err)
		os.Exit(1)
	}
	store := catalog.NewStore(cat, cfg.CatalogPath, cfg.ProfilesPath)

	matrix := coherence.Default()
	if cfg.MatrixPath != "" {
		matrix, err = coherence.LoadYAML(cfg.MatrixPath)
		if err != nil {
			log.Error("transition matrix load failed", "error", err)
			os.Exit(1)
		}
	}

	sel := selector.New(matrix, selector.Weights{
		Music:     cfg.MusicWeight,
		Coherence: cfg.CoherenceWeight,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cell *music.Cell
	if !cfg.MusicDisabled {
		source := music.NewSimSource(0)
		if err := source.Start(ctx); err != nil {
			log.Error("music source failed", "error", err)
			os.Exit(1)
		}
		cell = source.Cell()
	}

	real := dispatch.NewSerial(dispatch.SerialConfig{
		Port:         cfg.SerialPort,
		BaudRate:     cfg.BaudRate,
		WriteTimeout: cfg.DispatchTimeout,
	})
	defer real.Close()
	sim := dispatch.NewTrace(nil)

	scheduler := session.NewScheduler(store, sel, cell, real, sim, session.Config{
		HistorySize: cfg.HistorySize,
	})

	server := web.NewServer(cfg.HTTPPort, scheduler, store)
	scheduler.SetListener(server.EventListener())

	g, ctx := errgroup.WithContext(ctx)

	g.Go(server.Start)

	if cfg.WatchCatalog {
		g.Go(func() error {
			err := store.Watch(ctx)
			if err == context.Canceled {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		scheduler.Stop()
		return server.Shutdown()
	})

	log.Info("dancebot ready",
		"actions", cat.Len(), "serial", cfg.SerialPort, "http", cfg.HTTPPort)

	if err := g.Wait(); err != nil {
		log.Error("dancebot exited", "error", err)
		os.Exit(1)
	}
}
