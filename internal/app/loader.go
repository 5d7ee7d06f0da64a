package app

import (
	"context"
	"time"

	"github.com/philipparndt/stlvol/internal/batch"
	"github.com/philipparndt/stlvol/pkg/watcher"
)

// WatchDebounce collapses the burst of events editors emit on save
const WatchDebounce = 300 * time.Millisecond

// Watch reloads the current batch whenever one of its files changes on
// disk. It blocks until ctx is cancelled.
func (a *App) Watch(ctx context.Context) error {
	paths := a.Files.paths
	if len(paths) == 0 {
		<-ctx.Done()
		return nil
	}

	w, err := watcher.New(WatchDebounce, a.logger)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(paths...); err != nil {
		return err
	}

	w.Run(ctx, func(path string) {
		a.logger.Printf("reloading after change to %s", path)
		a.dispatcher.Dispatch(a.Reload)
	})
	return nil
}

// Reload resubmits the last batch of paths
func (a *App) Reload() {
	if len(a.Files.paths) == 0 {
		return
	}
	if err := a.batch.Submit(batch.FileSources(a.Files.paths...)); err != nil {
		a.logger.Printf("reload: %v", err)
	}
}
