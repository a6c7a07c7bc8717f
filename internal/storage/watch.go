package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"syncbreath/internal/ui/preferences"
)

const watchDebounce = 200 * time.Millisecond

// WatchSettingsFile calls onChange with freshly loaded settings whenever
// configPath is written. The directory is watched rather than the file so
// editors that replace the file on save are still seen. Bursts of events
// are coalesced. Watching stops when ctx is done.
func WatchSettingsFile(ctx context.Context, configPath string, logger *zap.Logger, onChange func(preferences.Settings)) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create settings watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	go func() {
		defer watcher.Close()
		var debounce <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(configPath) {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
					debounce = time.After(watchDebounce)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("settings watcher error", zap.Error(err))
			case <-debounce:
				debounce = nil
				settings, err := LoadSettingsFile(configPath)
				if err != nil {
					logger.Warn("reload settings failed", zap.String("path", configPath), zap.Error(err))
					continue
				}
				logger.Info("settings reloaded", zap.String("path", configPath))
				onChange(settings)
			}
		}
	}()
	return nil
}
