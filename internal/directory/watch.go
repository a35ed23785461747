package directory

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rehman-1/git-asana-backend/internal/contract"
)

// DefaultDebounce is the delay between the last file event and the reload.
const DefaultDebounce = 200 * time.Millisecond

// Watch reloads the directory whenever its backing file changes.
// It blocks until ctx is cancelled. The parent folder is watched so that
// editors replacing the file through a rename are picked up too.
func (d *Directory) Watch(ctx context.Context, debounce time.Duration) error {
	if d.path == "" {
		return fmt.Errorf("directory has no backing file")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	log := contract.ComponentLogger("directory")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	target := filepath.Clean(d.path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", target, err)
	}
	log.WithField("path", target).Info("watching developer directory")

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	reload := func() {
		if err := d.Reload(); err != nil {
			log.WithError(err).Warn("developer directory reload failed, keeping previous mapping")
			return
		}
		log.WithField("developers", d.Len()).Info("developer directory reloaded")
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, reload)
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			log.WithError(err).Warn("developer directory watcher error")
		}
	}
}
