// Package filewatcher provides file system monitoring adapters.
package filewatcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/0xcro3dile/medquery-go/internal/domain/ports"
)

// FSNotifyWatcher implements ports.FileWatcher using fsnotify.
// It watches the file's directory so that editors replacing the file
// atomically are still observed.
type FSNotifyWatcher struct {
	watcher *fsnotify.Watcher
	logger  *slog.Logger
}

// NewFSNotifyWatcher creates a new file watcher.
func NewFSNotifyWatcher(logger *slog.Logger) (*FSNotifyWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FSNotifyWatcher{
		watcher: w,
		logger:  logger.With("component", "filewatcher"),
	}, nil
}

// Watch starts monitoring path and emits events for it only.
func (w *FSNotifyWatcher) Watch(ctx context.Context, path string) (<-chan ports.FileEvent, error) {
	target, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	if err := w.watcher.Add(filepath.Dir(target)); err != nil {
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}

	events := make(chan ports.FileEvent, 16)

	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}

				var op ports.FileOperation
				switch {
				case event.Has(fsnotify.Create):
					op = ports.FileCreated
				case event.Has(fsnotify.Write):
					op = ports.FileModified
				case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
					op = ports.FileDeleted
				default:
					continue
				}

				select {
				case events <- ports.FileEvent{Path: event.Name, Operation: op}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warn("watch error", "path", target, "error", err)
			}
		}
	}()

	return events, nil
}

// Stop stops the watcher.
func (w *FSNotifyWatcher) Stop() error {
	return w.watcher.Close()
}
