// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("watcher is already running")

// Watcher fires Config.OnChange after matching files change.
type Watcher struct {
	fsw      *fsnotify.Watcher
	onChange func(ctx context.Context, changed []string) error
	patterns []string
	ignores  []string
	debounce time.Duration
	baseDir  string
	started  atomic.Bool
}

// New validates cfg and registers every non-ignored directory below
// BaseDir. Directories created later are added as they appear.
func New(cfg Config) (*Watcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseDir := cfg.BaseDir
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", err)
		}
		baseDir = wd
	}
	baseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", cfg.BaseDir, err)
	}

	w := &Watcher{
		onChange: cfg.OnChange,
		patterns: cfg.Patterns,
		ignores:  append(DefaultIgnores(), cfg.Ignore...),
		debounce: cfg.Debounce,
		baseDir:  baseDir,
	}
	if len(w.patterns) == 0 {
		w.patterns = DefaultPatterns()
	}
	if w.debounce == 0 {
		w.debounce = DefaultDebounce
	}

	w.fsw, err = fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := w.addTree(baseDir); err != nil {
		_ = w.fsw.Close()
		return nil, err
	}
	return w, nil
}

// BaseDir returns the absolute watched root.
func (w *Watcher) BaseDir() string { return w.baseDir }

// Run processes events until ctx is done. A clean cancellation returns nil;
// exhausted watch resources are returned as an error. Errors returned by
// OnChange are logged and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer func() {
		if err := w.fsw.Close(); err != nil {
			slog.Debug("closing file watcher", "error", err)
		}
	}()

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		busy    atomic.Bool
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !busy.CompareAndSwap(false, true) {
			// Retry once the running callback had time to finish.
			slog.Debug("previous run still in progress, postponing")
			mu.Lock()
			timer.Reset(w.debounce)
			mu.Unlock()
			return
		}
		defer busy.Store(false)

		mu.Lock()
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()
		if len(changed) == 0 || w.onChange == nil {
			return
		}

		if err := w.onChange(ctx, changed); err != nil {
			slog.Warn("re-run failed", "error", err)
		}
	}

	defer func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("file watcher event channel closed")
			}
			rel, err := filepath.Rel(w.baseDir, evt.Name)
			if err != nil {
				continue
			}
			if evt.Has(fsnotify.Create) {
				w.addNewDir(evt.Name, rel)
			}
			if !w.relevant(rel) {
				continue
			}

			mu.Lock()
			pending[filepath.ToSlash(rel)] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("file watcher error channel closed")
			}
			if resourceExhausted(err) {
				return fmt.Errorf("file watcher stopped: %w", err)
			}
			slog.Warn("file watcher error", "error", err)
		}
	}
}

// addTree adds root and every non-ignored directory below it. Unreadable
// directories are skipped.
func (w *Watcher) addTree(root string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Debug("not watching inaccessible path", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(w.baseDir, path)
		if err != nil {
			return nil
		}
		if rel != "." && w.ignoredDir(rel) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}
	return nil
}

func (w *Watcher) addNewDir(path, rel string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || w.ignoredDir(rel) {
		return
	}
	if err := w.addTree(path); err != nil {
		slog.Warn("cannot watch new directory", "path", path, "error", err)
	}
}

// relevant reports whether rel matches a watch pattern and no ignore pattern.
func (w *Watcher) relevant(rel string) bool {
	rel = filepath.ToSlash(rel)
	return matchAny(w.patterns, rel) && !matchAny(w.ignores, rel)
}

// ignoredDir matches a directory against patterns written for its contents
// ("**/.git/**" ignores ".git").
func (w *Watcher) ignoredDir(rel string) bool {
	rel = filepath.ToSlash(rel)
	return matchAny(w.ignores, rel) || matchAny(w.ignores, rel+"/")
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}
