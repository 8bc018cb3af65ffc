package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/louisbranch/notebook/internal/platform/fileext"
	"github.com/louisbranch/notebook/internal/platform/timeouts"
)

// Invalidator drops cached content.
type Invalidator interface {
	Invalidate()
}

// Watcher invalidates the store when MDX files under a content root change.
type Watcher struct {
	watcher  *fsnotify.Watcher
	target   Invalidator
	debounce time.Duration
}

// NewWatcher watches root and every directory below it.
func NewWatcher(root string, target Invalidator) (*Watcher, error) {
	if target == nil {
		return nil, errors.New("invalidation target is required")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{watcher: watcher, target: target, debounce: timeouts.WatchDebounce}
	if err := w.addTree(root); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}

// Run handles file events until ctx is done, then closes the watcher.
// Bursts of events within the debounce window cause one invalidation.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if err := w.addTree(event.Name); err != nil && !errors.Is(err, fs.ErrNotExist) {
					log.Printf("storage watcher: %v", err)
				}
			}
			if !w.relevant(event) {
				continue
			}
			pending = time.After(w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("storage watcher: %v", err)
		case <-pending:
			pending = nil
			w.target.Invalidate()
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}
	return fileext.OnlyMDX(filepath.Base(event.Name)) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
