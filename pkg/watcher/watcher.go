// Package watcher re-runs work when a specification document changes on
// disk, coalescing the event bursts editors emit for a single save.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lerenn/spec-sync/pkg/logger"
)

// debounceDelay is how long the file must stay quiet before a change
// counts as settled.
const debounceDelay = 350 * time.Millisecond

// Watcher invokes a callback each time a watched file settles after a
// change.
type Watcher struct {
	watcher  *fsnotify.Watcher
	file     string
	onChange func(string)
	logger   logger.Logger
	debounce time.Duration
}

// New creates a watcher for the given file. The file's directory is
// registered rather than the file itself: editors replace files on save,
// which silently drops a file-level watch.
func New(file string, onChange func(string), log logger.Logger) (*Watcher, error) {
	if log == nil {
		log = logger.NewNoopLogger()
	}

	absPath, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve watch path: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := fsWatcher.Add(filepath.Dir(absPath)); err != nil {
		_ = fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(absPath), err)
	}

	return &Watcher{
		watcher:  fsWatcher,
		file:     absPath,
		onChange: onChange,
		logger:   log,
		debounce: debounceDelay,
	}, nil
}

// Watch processes events until ctx is cancelled, invoking the callback
// once per settled change of the watched file. The underlying watcher is
// closed when Watch returns.
func (w *Watcher) Watch(ctx context.Context) error {
	defer func() { _ = w.watcher.Close() }()

	debounceTimer := time.NewTimer(w.debounce)
	if !debounceTimer.Stop() {
		<-debounceTimer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.matches(event) {
				continue
			}
			pending = true
			debounceTimer.Reset(w.debounce)

		case <-debounceTimer.C:
			if pending {
				pending = false
				w.onChange(w.file)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Logf("Watch error on %s: %v", w.file, err)
		}
	}
}

// matches reports whether the event is a write or create of the watched
// file.
func (w *Watcher) matches(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return name == w.file
}
