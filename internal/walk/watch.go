package treescan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the watch loop waits after the last
// filesystem event before rescanning.
const DefaultDebounce = 500 * time.Millisecond

// WatchOptions configures a watch-and-rescan loop.
type WatchOptions struct {
	// Debounce is the quiet period after the last event before a rescan.
	// Zero or negative uses DefaultDebounce.
	Debounce time.Duration

	// Timeout ends the watch after the given duration (0 means no timeout).
	Timeout time.Duration

	Logger *zap.Logger
}

// WatchHandler receives refreshed totals after each rescan. A non-nil
// error stops the watch.
type WatchHandler func(ctx context.Context, stats Stats) error

// Watch monitors root and its subdirectories, recomputing totals whenever
// the tree changes. An initial scan fires before the first event. The
// watch runs until the handler fails, the context is done, or the
// configured timeout elapses; a timeout is a normal end, not an error.
func Watch(ctx context.Context, root string, opts WatchOptions, handler WatchHandler) error {
	if handler == nil {
		handler = func(_ context.Context, stats Stats) error {
			fmt.Printf("dirs=%d files=%d links=%d size=%d blocks=%d\n",
				stats.Dirs, stats.Files, stats.Links, stats.Size, stats.Blocks)
			return nil
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Register the root and every subdirectory; fsnotify watches are not
	// recursive. Directories created later are added as events arrive.
	addTree := func(dir string) {
		walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Debug("watch registration skipped", zap.String("path", path), zap.Error(err))
				return nil
			}
			if !d.IsDir() {
				return nil
			}
			if err := watcher.Add(path); err != nil {
				logger.Warn("cannot watch directory", zap.String("path", path), zap.Error(err))
			}
			return nil
		})
		if walkErr != nil {
			logger.Warn("watch registration incomplete", zap.String("dir", dir), zap.Error(walkErr))
		}
	}
	addTree(root)

	stats, err := QuickStats(ctx, root)
	if err != nil {
		return fmt.Errorf("initial scan of %q: %w", root, err)
	}
	if err := handler(ctx, stats); err != nil {
		return err
	}

	timer := time.NewTimer(opts.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil
			}
			return ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			logger.Debug("filesystem event",
				zap.String("op", ev.Op.String()),
				zap.String("path", ev.Name))
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Lstat(ev.Name); err == nil && info.IsDir() {
					addTree(ev.Name)
				}
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(opts.Debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))

		case <-timer.C:
			stats, err := QuickStats(ctx, root)
			if err != nil {
				logger.Warn("rescan failed", zap.String("root", root), zap.Error(err))
				continue
			}
			if err := handler(ctx, stats); err != nil {
				return err
			}
		}
	}
}
