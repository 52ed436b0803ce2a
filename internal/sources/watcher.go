// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package sources

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// NOTES WATCHER
// =============================================================================

// NotesWatcher watches the local notes directory for the files connector.
// Change bursts (editors write, rename, and chmod in quick succession)
// are debounced so one save produces one notification.
type NotesWatcher struct {
	root     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func(path string)

	mu      sync.Mutex
	pending map[string]time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// NewNotesWatcher creates a watcher over the notes directory. onChange
// receives each changed note path after the debounce window.
func NewNotesWatcher(root string, debounce time.Duration, onChange func(path string)) (*NotesWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &NotesWatcher{
		root:     root,
		watcher:  watcher,
		debounce: debounce,
		onChange: onChange,
		pending:  make(map[string]time.Time),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Watch starts watching. It returns after registering the directory
// tree; events flow on background goroutines until Close.
func (w *NotesWatcher) Watch() error {
	if err := w.addRecursive(w.root); err != nil {
		return err
	}
	go w.processEvents()
	go w.processPending()
	return nil
}

// Close stops watching and releases resources.
func (w *NotesWatcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}

// addRecursive adds a directory and all its subdirectories.
func (w *NotesWatcher) addRecursive(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}
		if !info.IsDir() {
			return nil
		}
		if strings.HasPrefix(filepath.Base(path), ".") && path != dir {
			return filepath.SkipDir
		}
		// Non-fatal: a subdirectory that cannot be watched is skipped.
		_ = w.watcher.Add(path)
		return nil
	})
}

// processEvents forwards filesystem events into the pending set.
func (w *NotesWatcher) processEvents() {
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.handleChange(event.Name)
			}
			// New directories join the watch set.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(event.Name)
				}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// handleChange records a note change for debounced delivery.
func (w *NotesWatcher) handleChange(path string) {
	if !isNoteFile(path) {
		return
	}
	w.mu.Lock()
	w.pending[path] = time.Now()
	w.mu.Unlock()
}

// processPending flushes pending changes whose debounce window elapsed.
func (w *NotesWatcher) processPending() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			now := time.Now()

			w.mu.Lock()
			var ready []string
			for path, changed := range w.pending {
				if now.Sub(changed) >= w.debounce {
					ready = append(ready, path)
					delete(w.pending, path)
				}
			}
			w.mu.Unlock()

			for _, path := range ready {
				if w.onChange != nil {
					w.onChange(path)
				}
			}
		}
	}
}

// isNoteFile reports whether a path is a note the files connector cares
// about.
func isNoteFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".txt":
		return true
	}
	return false
}
