package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of events editors produce for one save.
const watchDebounce = 100 * time.Millisecond

// Watch reloads path whenever it changes and calls fn with the result. fn receives either a valid
// Config and nil, or the load error; a failed reload never replaces anything by itself. Watch blocks
// until ctx is cancelled.
//
// The parent directory is watched rather than the file so that editors that save by renaming a
// temporary file over the original are still seen.
//
// Parameters:
//   - ctx: cancels the watch
//   - path: the TOML file to watch
//   - fn: called on the watching goroutine after every change
//
// Returns:
//   - error: a watcher setup error, or nil after ctx is cancelled
func Watch(ctx context.Context, path string, fn func(Config, error)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("config: watch %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("config: watch %s: %w", filepath.Dir(abs), err)
	}

	debounce := time.NewTimer(watchDebounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			debounce.Reset(watchDebounce)
		case <-debounce.C:
			fn(Load(abs))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fn(Config{}, fmt.Errorf("config: watch %s: %w", abs, err))
		}
	}
}
