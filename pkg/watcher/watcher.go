// Package watcher reports changes to a single file on disk.
package watcher

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches one file at a time and calls back, debounced, after it
// is written or replaced. The parent directory is watched so that editors
// which save through a rename are still noticed.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration

	mu       sync.Mutex
	file     string
	dir      string
	callback func(string)
	timer    *time.Timer
	done     chan struct{}
}

// NewFileWatcher creates a new file watcher
func NewFileWatcher(debounce time.Duration, logger *slog.Logger) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &FileWatcher{
		watcher:  w,
		logger:   logger,
		debounce: debounce,
		done:     make(chan struct{}),
	}, nil
}

// Watch replaces the watched file. callback receives the absolute path.
func (fw *FileWatcher) Watch(file string, callback func(string)) error {
	absPath, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", file, err)
	}
	dir := filepath.Dir(absPath)

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.dir != "" && fw.dir != dir {
		if err := fw.watcher.Remove(fw.dir); err != nil {
			fw.logger.Debug("failed to stop watching directory", "dir", fw.dir, "error", err)
		}
	}
	if fw.dir != dir {
		if err := fw.watcher.Add(dir); err != nil {
			fw.dir = ""
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	fw.stopTimer()
	fw.file = absPath
	fw.dir = dir
	fw.callback = callback
	return nil
}

// Start begins delivering change events
func (fw *FileWatcher) Start() {
	go func() {
		for {
			select {
			case event, ok := <-fw.watcher.Events:
				if !ok {
					return
				}
				// Only trigger on write or create events
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					fw.handleFileChange(event.Name)
				}

			case err, ok := <-fw.watcher.Errors:
				if !ok {
					return
				}
				fw.logger.Warn("watcher error", "error", err)

			case <-fw.done:
				return
			}
		}
	}()
}

// handleFileChange handles a file change event with debouncing
func (fw *FileWatcher) handleFileChange(name string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if filepath.Clean(name) != fw.file || fw.callback == nil {
		return
	}

	fw.stopTimer()
	file, callback := fw.file, fw.callback
	fw.timer = time.AfterFunc(fw.debounce, func() {
		callback(file)
	})
}

// stopTimer cancels a pending callback. Caller holds mu.
func (fw *FileWatcher) stopTimer() {
	if fw.timer != nil {
		fw.timer.Stop()
		fw.timer = nil
	}
}

// Unwatch stops reporting changes
func (fw *FileWatcher) Unwatch() {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	fw.stopTimer()
	if fw.dir != "" {
		_ = fw.watcher.Remove(fw.dir)
	}
	fw.file, fw.dir, fw.callback = "", "", nil
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	fw.Unwatch()
	close(fw.done)
	return fw.watcher.Close()
}
