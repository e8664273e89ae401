package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"blogfeed/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a config file when it changes on disk.
// The parent directory is watched rather than the file, since editors
// commonly save by writing a temp file and renaming it over the original.
type Watcher struct {
	path     string
	fsw      *fsnotify.Watcher
	debounce time.Duration
	once     sync.Once
}

// NewWatcher starts watching path's directory. The directory must exist.
func NewWatcher(path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		_ = fsw.Close()
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		path:     abs,
		fsw:      fsw,
		debounce: 150 * time.Millisecond, // Coalesce rapid saves
	}, nil
}

// Run delivers a freshly loaded config (or the load error) to onChange after
// each burst of changes. It blocks until ctx is cancelled and then closes
// the watcher.
func (w *Watcher) Run(ctx context.Context, onChange func(*Config, error)) {
	defer w.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logging.Get(logging.CategoryConfig).Debug("config %s: %s", event.Op, event.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.ConfigError("watcher error: %v", err)

		case <-fire:
			fire = nil
			cfg, err := Load(w.path)
			if err == nil {
				err = cfg.Validate()
			}
			if err != nil {
				logging.ConfigWarn("reload of %s rejected: %v", w.path, err)
				onChange(nil, err)
				continue
			}
			logging.Config("reloaded %s", w.path)
			onChange(cfg, nil)
		}
	}
}

// Close stops the underlying fsnotify watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() { err = w.fsw.Close() })
	return err
}
