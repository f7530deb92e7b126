package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a config file when it changes on disk.
// Reloaded configs are delivered on Updates; a config that fails to load or
// validate is logged and skipped.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	profile  string
	debounce time.Duration
	updates  chan *Config
	doneCh   chan struct{}
}

// NewWatcher creates a watcher for the config file at path.
// The parent directory is watched so editors that save by rename are seen.
func NewWatcher(path, profile string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		watcher:  w,
		path:     abs,
		profile:  profile,
		debounce: debounce,
		updates:  make(chan *Config, 1),
		doneCh:   make(chan struct{}),
	}, nil
}

// Updates returns the channel of reloaded configs. Only the newest pending
// config is kept.
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

// Run processes file events until ctx is cancelled, then closes the
// underlying watcher.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.doneCh)
	defer w.watcher.Close()

	ticker := time.NewTicker(w.debounce / 3)
	defer ticker.Stop()

	var pending time.Time
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.Now()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("config watcher error", "error", err)

		case now := <-ticker.C:
			if pending.IsZero() || now.Sub(pending) < w.debounce {
				continue
			}
			pending = time.Time{}
			w.reload()
		}
	}
}

// Done is closed once Run has returned.
func (w *Watcher) Done() <-chan struct{} {
	return w.doneCh
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path, w.profile)
	if err != nil {
		slog.Warn("config reload rejected", "path", w.path, "error", err)
		return
	}
	// Drop a stale update nobody consumed yet.
	select {
	case <-w.updates:
	default:
	}
	w.updates <- cfg
	slog.Info("config reloaded", "path", w.path)
}
