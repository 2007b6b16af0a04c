package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 500 * time.Millisecond

// Reloader is anything whose cached state can be dropped on demand.
type Reloader interface {
	Reload()
}

// TemplateWatcher reloads templates when the watched file changes on disk.
type TemplateWatcher struct {
	reloader Reloader
	logger   *zap.Logger
	debounce time.Duration
}

func NewTemplateWatcher(reloader Reloader, logger *zap.Logger, debounce time.Duration) *TemplateWatcher {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemplateWatcher{reloader: reloader, logger: logger, debounce: debounce}
}

// Watch blocks until ctx is done, calling Reload once per burst of changes
// to path. The parent directory is watched too so editors that replace the
// file on save are followed.
func (w *TemplateWatcher) Watch(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	w.logger.Info("watching template", zap.String("template_path", abs))

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || event.Op&relevant == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				w.reloader.Reload()
				w.logger.Info("template changed, cache cleared", zap.String("template_path", abs))
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("template watch error", zap.Error(err))
		}
	}
}
