// Package watch re-runs a build whenever Markdown sources below a set of
// roots change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/mdlite/internal/logging"
)

// DefaultDebounce is the quiet period used when Options.Debounce is zero.
const DefaultDebounce = 300 * time.Millisecond

// Options configures a watch.
type Options struct {
	// Roots are the files and directories to watch. Directories are
	// watched recursively; hidden directories are skipped.
	Roots []string

	// Extensions selects the files whose changes trigger a build, with
	// leading dot. Empty means any file.
	Extensions []string

	// Skip lists directories that are never watched, typically the output
	// directory of the build.
	Skip []string

	// Debounce is how long the tree must stay quiet before a build runs.
	Debounce time.Duration
}

// BuildFunc runs one build. Its error is logged and the watch goes on.
type BuildFunc func(ctx context.Context) error

// Run watches opts.Roots and calls build after each burst of changes
// until ctx is done. Builds run one at a time on the calling goroutine.
// It returns nil when ctx is cancelled.
func Run(ctx context.Context, opts Options, build BuildFunc) error {
	if len(opts.Roots) == 0 {
		return errors.New("watch: no paths")
	}

	w, err := newWatcher(opts)
	if err != nil {
		return err
	}
	defer func() { _ = w.fs.Close() }()

	if err := w.start(ctx); err != nil {
		return err
	}

	logger := logging.FromContext(ctx)
	logger.Info("watching for changes", logging.FieldDirs, len(w.fs.WatchList()))

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("watch stopped")
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.handle(ctx, ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", logging.FieldError, err)

		case <-fire:
			fire = nil
			logger.Info("change detected, rebuilding", logging.FieldDelay, debounce)
			if err := build(ctx); err != nil && ctx.Err() == nil {
				logger.Error("rebuild failed", logging.FieldError, err)
			}
		}
	}
}

type watcher struct {
	fs *fsnotify.Watcher

	// trees are watched recursively.
	trees []string
	// files are single-file roots, watched through their directories.
	files      map[string]bool
	extensions []string
	skip       []string
}

func newWatcher(opts Options) (*watcher, error) {
	w := &watcher{files: make(map[string]bool), extensions: opts.Extensions}

	for _, dir := range opts.Skip {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", dir, err)
		}
		w.skip = append(w.skip, abs)
	}

	for _, root := range opts.Roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", root, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("watch %s: %w", root, err)
		}
		if info.IsDir() {
			w.trees = append(w.trees, abs)
		} else {
			w.files[abs] = true
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	w.fs = fsw
	return w, nil
}

// start registers every tree and the directory of every file root that
// no tree covers.
func (w *watcher) start(ctx context.Context) error {
	for _, tree := range w.trees {
		if err := w.addTree(ctx, tree); err != nil {
			return err
		}
	}
	for file := range w.files {
		// Editors replace files on save, so the directory is watched.
		dir := filepath.Dir(file)
		if w.covered(dir) {
			continue
		}
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return nil
}

// addTree watches root and every non-hidden directory below it.
func (w *watcher) addTree(ctx context.Context, root string) error {
	logger := logging.FromContext(ctx)
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("watch %s: %w", root, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (strings.HasPrefix(d.Name(), ".") || w.skipped(path)) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			logger.Warn("watch add failed", logging.FieldPath, path, logging.FieldError, err)
		}
		return nil
	})
}

// handle reacts to one event and reports whether it should trigger a
// build.
func (w *watcher) handle(ctx context.Context, ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	if Ignored(ev.Name) || w.skipped(ev.Name) {
		return false
	}

	if ev.Has(fsnotify.Create) && w.covered(ev.Name) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			_ = w.addTree(ctx, ev.Name)
			return true
		}
	}

	if !w.relevant(ev.Name) {
		return false
	}
	logging.FromContext(ctx).Debug("source changed",
		logging.FieldPath, ev.Name, logging.FieldOp, ev.Op.String())
	return true
}

func (w *watcher) relevant(path string) bool {
	if w.files[path] {
		return true
	}
	if !w.covered(path) {
		return false
	}
	if len(w.extensions) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	return slices.ContainsFunc(w.extensions, func(want string) bool {
		return strings.EqualFold(ext, want)
	})
}

// covered reports whether path lies in one of the watched trees.
func (w *watcher) covered(path string) bool {
	return slices.ContainsFunc(w.trees, func(tree string) bool { return within(path, tree) })
}

func (w *watcher) skipped(path string) bool {
	return slices.ContainsFunc(w.skip, func(dir string) bool { return within(path, dir) })
}

func within(path, dir string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}

// Ignored reports whether path names a hidden file or an editor's swap,
// backup or lock file.
func Ignored(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"):
		return true
	case strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	}
	return base == "Thumbs.db"
}
