// Package watcher refreshes the package index when package directories
// change on disk
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/modkeeper/modkeeper/pkg/logger"
	"github.com/modkeeper/modkeeper/pkg/utils"
)

// DefaultSettle is the quiet period after the last event before a refresh
const DefaultSettle = 500 * time.Millisecond

// RefreshFunc is called once per settled batch of changes
type RefreshFunc func(ctx context.Context) error

// Watcher watches package directories recursively using fsnotify. Bursts of
// events (an extraction, a manual copy) collapse into a single refresh.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   logger.Logger
	exclude  *utils.ExclusionMatcher
	refresh  RefreshFunc
	settling time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending int
	started bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a watcher that calls refresh after changes settle
func New(refresh RefreshFunc, log logger.Logger) (*Watcher, error) {
	if log == nil {
		log = logger.Discard()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	exclude, err := utils.NewExclusionMatcher(utils.DefaultWatchExclusions())
	if err != nil {
		_ = fw.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		watcher:  fw,
		logger:   log,
		exclude:  exclude,
		refresh:  refresh,
		settling: DefaultSettle,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// SetSettlingDelay sets the quiet period; non-positive values are ignored
func (w *Watcher) SetSettlingDelay(delay time.Duration) {
	if delay <= 0 {
		return
	}
	w.mu.Lock()
	w.settling = delay
	w.mu.Unlock()
}

// SetExclusions replaces the default exclusion patterns
func (w *Watcher) SetExclusions(patterns []string) error {
	exclude, err := utils.NewExclusionMatcher(patterns)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.exclude = exclude
	w.mu.Unlock()
	return nil
}

// Watch adds roots and their subdirectories. Missing roots are skipped.
func (w *Watcher) Watch(roots ...string) error {
	watched := 0
	for _, root := range roots {
		if !utils.DirectoryExists(root) {
			w.logger.Debug("Skipping missing watch root", logger.WithField("path", root))
			continue
		}
		if err := w.addDirectory(root); err != nil {
			return fmt.Errorf("failed to watch %s: %w", root, err)
		}
		watched++
	}
	if watched == 0 {
		return fmt.Errorf("no directory to watch")
	}

	w.mu.Lock()
	if !w.started {
		w.started = true
		w.wg.Add(1)
		go w.processEvents()
	}
	w.mu.Unlock()

	w.logger.Info("Watching package directories", logger.WithField("roots", roots))
	return nil
}

// List returns all watched paths
func (w *Watcher) List() []string {
	return w.watcher.WatchList()
}

// Close stops the watcher. A pending refresh is dropped.
func (w *Watcher) Close() error {
	w.cancel()
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) addDirectory(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			w.logger.Warn("Failed to read directory", logger.WithField("path", path), logger.WithError(err))
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.isExcluded(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory", logger.WithField("path", path), logger.WithError(err))
		}
		return nil
	})
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.isExcluded(event.Name) || event.Op == fsnotify.Chmod {
				continue
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addDirectory(event.Name); err != nil {
						w.logger.Warn("Failed to watch new directory", logger.WithField("path", event.Name), logger.WithError(err))
					}
				}
			}

			w.schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", logger.WithError(err))
		}
	}
}

// schedule restarts the settle timer
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending++
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.settling, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	events := w.pending
	w.pending = 0
	w.timer = nil
	w.mu.Unlock()

	if events == 0 || w.ctx.Err() != nil {
		return
	}

	w.logger.Debug("Package directories changed", logger.WithField("events", events))
	if err := w.refresh(w.ctx); err != nil {
		w.logger.Error("Refresh after change failed", logger.WithError(err))
	}
}

func (w *Watcher) isExcluded(path string) bool {
	w.mu.Lock()
	exclude := w.exclude
	w.mu.Unlock()
	return exclude.IsExcluded(path)
}
