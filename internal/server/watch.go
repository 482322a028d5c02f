package server

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gsivak487/emrgent-labs/internal/logging"
)

// ReloadDebounce is how long the watcher waits after the last change before
// reloading.
const ReloadDebounce = 500 * time.Millisecond

// Watch calls reload whenever a file under any of dirs changes, until ctx is
// done. Bursts of events within the debounce window trigger a single reload.
// Directories that do not exist are skipped.
func Watch(ctx context.Context, dirs []string, debounce time.Duration, reload func() error, logger *slog.Logger) error {
	logger = logging.OrDiscard(logger)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	for _, root := range dirs {
		if root == "" {
			continue
		}
		if _, err := os.Stat(root); os.IsNotExist(err) {
			logger.Warn("directory not found, not watching", "dir", root)
			continue
		}
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Warn("error walking directory", "path", path, "error", err)
				return nil
			}
			if d.IsDir() {
				if err := watcher.Add(path); err != nil {
					logger.Warn("failed to watch directory", "path", path, "error", err)
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to walk %s: %w", root, err)
		}
		logger.Info("watching for changes", "dir", root)
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := watcher.Add(event.Name); err != nil {
					logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
				}
			}
			timer.Reset(debounce)
		case <-timer.C:
			if err := reload(); err != nil {
				logger.Error("reload failed", "error", err)
			} else {
				logger.Info("layouts reloaded")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
