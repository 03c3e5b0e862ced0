package product

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DebounceDelay is the quiet period before a changed directory is reloaded.
const DebounceDelay = 200 * time.Millisecond

// Watch reloads dir into the catalog whenever a definition file changes.
// A directory that fails to parse or validate is logged and the previous definitions stay.
// Watch returns when ctx is done.
func (c *Catalog) Watch(ctx context.Context, dir string, log *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()

		var (
			mu     sync.Mutex
			timer  *time.Timer
			closed bool
		)
		defer func() {
			mu.Lock()
			closed = true
			if timer != nil {
				timer.Stop()
			}
			mu.Unlock()
		}()

		reload := func() {
			mu.Lock()
			defer mu.Unlock()
			if closed {
				return
			}

			defs, err := ReadDir(dir)
			if err == nil {
				err = c.Replace(defs)
			}
			if err != nil {
				log.Warn("product reload failed", "dir", dir, "err", err)
				return
			}
			log.Info("products reloaded", "dir", dir, "count", len(defs))
		}

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isDefinitionFile(event.Name) || event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
					continue
				}

				log.Debug("product file changed", "file", event.Name, "op", event.Op.String())
				mu.Lock()
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(DebounceDelay, reload)
				mu.Unlock()

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("product watcher error", "err", err)
			}
		}
	}()

	return nil
}
