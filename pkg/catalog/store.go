package catalog

import (
	"context"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/teslashibe/go-dancebot/internal/log"
)

// Store holds the current catalog and supports atomic hot reload. Readers
// get a consistent table even while a reload replaces it.
type Store struct {
	current      atomic.Pointer[Catalog]
	csvPath      string
	profilesPath string
}

// NewStore wraps an initial catalog with its source paths.
func NewStore(initial *Catalog, csvPath, profilesPath string) *Store {
	s := &Store{
		csvPath:      csvPath,
		profilesPath: profilesPath,
	}
	s.current.Store(initial)
	return s
}

// Current returns the active catalog.
func (s *Store) Current() *Catalog {
	return s.current.Load()
}

// Reload re-reads the mapping table. On failure the previous table stays
// active and the error is returned.
func (s *Store) Reload() error {
	c, err := Load(s.csvPath, s.profilesPath)
	if err != nil {
		return err
	}
	s.current.Store(c)
	log.Info("catalog reloaded", "actions", c.Len())
	return nil
}

// Watch reloads the catalog whenever the mapping table file changes.
// Blocks until ctx is cancelled.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory: editors replace files rather than write in place.
	if err := watcher.Add(filepath.Dir(s.csvPath)); err != nil {
		return err
	}

	target := filepath.Clean(s.csvPath)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			if err := s.Reload(); err != nil {
				log.Warn("catalog reload failed, keeping previous table", "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("catalog watcher error", "error", err)
		}
	}
}
