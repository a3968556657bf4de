package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-floor/internal/logger"
)

// DefaultWatchDebounce coalesces bursts of editor writes.
const DefaultWatchDebounce = 250 * time.Millisecond

// Watcher reloads the config file when it changes and publishes each
// valid result on Updates. Invalid reloads are logged and dropped.
type Watcher struct {
	path     string
	debounce time.Duration
	log      *zap.Logger
	watcher  *fsnotify.Watcher
	updates  chan *Config
}

// NewWatcher creates a watcher for the config file at path.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("watch config: no config file to watch")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		path:     abs,
		debounce: debounce,
		log:      logger.Named("config"),
		watcher:  fw,
		updates:  make(chan *Config, 1),
	}, nil
}

// Updates delivers reloaded configs. Only the latest pending config is kept.
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

// Start watches the file's directory until ctx is done. The directory is
// watched so files replaced by rename are still seen.
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.log.Info("watching config file", zap.String("path", w.path))

	debounceTimer := time.NewTimer(0)
	<-debounceTimer.C // drain the timer

	go func() {
		defer debounceTimer.Stop()
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if w.shouldProcessEvent(event) {
					w.log.Debug("config change detected",
						zap.String("file", event.Name),
						zap.String("op", event.Op.String()))
					debounceTimer.Reset(w.debounce)
				}

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.log.Error("watcher error", zap.Error(err))

			case <-debounceTimer.C:
				w.reload()

			case <-ctx.Done():
				w.log.Debug("stopping config watcher")
				return
			}
		}
	}()

	return nil
}

// Close stops the underlying file watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return name == w.path
}

func (w *Watcher) reload() {
	cfg, err := LoadFrom(w.path)
	if err != nil {
		w.log.Warn("config reload rejected", zap.Error(err))
		return
	}

	// Replace a pending config nobody has picked up yet.
	select {
	case <-w.updates:
	default:
	}
	w.updates <- cfg
	w.log.Info("config reloaded", zap.String("path", w.path))
}
