package main

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce is the quiet period after a change before the export runs.
const debounce = 200 * time.Millisecond

// watch runs fn once, and again after each change of the given files,
// until ctx is done. Errors of fn are logged and do not stop the watch.
// Parent directories are watched so files replaced by editors are seen.
func watch(ctx context.Context, logger *slog.Logger, files []string, fn func(context.Context) error) error {
	if len(files) == 0 {
		return errors.New("watch: no files to watch; use a config file or a snapshot")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	watched := make(map[string]struct{}, len(files))
	dirs := make(map[string]struct{})
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		watched[abs] = struct{}{}
		dir := filepath.Dir(abs)
		if _, ok := dirs[dir]; ok {
			continue
		}
		if err := w.Add(dir); err != nil {
			return err
		}
		dirs[dir] = struct{}{}
	}
	if err := fn(ctx); err != nil {
		logger.ErrorContext(ctx, "export failed", "error", err)
	}
	fire := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if _, ok := watched[filepath.Clean(ev.Name)]; !ok || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.DebugContext(ctx, "change detected", "file", ev.Name, "op", ev.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.WarnContext(ctx, "watch error", "error", err)
		case <-fire:
			logger.InfoContext(ctx, "exporting after change")
			if err := fn(ctx); err != nil {
				logger.ErrorContext(ctx, "export failed", "error", err)
			}
		}
	}
}
