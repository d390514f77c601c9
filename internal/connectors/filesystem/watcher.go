package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
	"github.com/custodia-labs/recall/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.ChangeWatcher = (*Watcher)(nil)

// ErrWatcherClosed is returned by Watch after Close.
var ErrWatcherClosed = errors.New("watcher closed")

// Watcher reports transcript changes under a root directory.
// It watches the root and every project directory, starts watching project
// directories as they appear, and coalesces bursts of events per path.
type Watcher struct {
	root      string
	extension string
	debounce  time.Duration

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	closed  bool
	wg      sync.WaitGroup
	stopped chan struct{}
}

// NewWatcher creates a watcher for the store's root and extension.
// A debounce of zero uses domain.DefaultWatchWindow.
func NewWatcher(store *Store, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = domain.DefaultWatchWindow
	}
	return &Watcher{
		root:      store.Root(),
		extension: store.Extension(),
		debounce:  debounce,
		stopped:   make(chan struct{}),
	}
}

// Watch starts watching. The returned channel is closed when ctx is
// cancelled or Close is called.
func (w *Watcher) Watch(ctx context.Context) (<-chan domain.ChangeEvent, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, ErrWatcherClosed
	}
	if w.fsw != nil {
		return nil, errors.New("watcher already started")
	}

	info, err := os.Stat(w.root)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path error: %s is not a directory", w.root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(w.root); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", w.root, err)
	}

	entries, err := os.ReadDir(w.root)
	if err == nil {
		for _, e := range entries {
			if !e.IsDir() || isHidden(e.Name()) {
				continue
			}
			w.addDir(fsw, filepath.Join(w.root, e.Name()))
		}
	}

	w.fsw = fsw
	out := make(chan domain.ChangeEvent, 64)

	w.wg.Add(1)
	go w.loop(ctx, fsw, out)

	logger.Debug("watching %s (%d entries)", w.root, len(fsw.WatchList()))
	return out, nil
}

// Close stops watching. Close is idempotent.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.stopped)
	fsw := w.fsw
	w.mu.Unlock()

	w.wg.Wait()
	if fsw != nil {
		return fsw.Close()
	}
	return nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, out chan<- domain.ChangeEvent) {
	defer w.wg.Done()
	defer close(out)

	pending := make(map[string]domain.ChangeEvent)
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopped:
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			change, ok := w.translate(fsw, event)
			if !ok {
				continue
			}
			pending[change.Path] = merge(pending[change.Path], change)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error: %v", err)

		case <-fire:
			fire = nil
			if !w.flush(ctx, pending, out) {
				return
			}
			pending = make(map[string]domain.ChangeEvent)
		}
	}
}

// flush emits pending events in path order. Returns false if the watcher
// stopped while sending.
func (w *Watcher) flush(ctx context.Context, pending map[string]domain.ChangeEvent, out chan<- domain.ChangeEvent) bool {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		select {
		case out <- pending[p]:
		case <-ctx.Done():
			return false
		case <-w.stopped:
			return false
		}
	}
	return true
}

// translate maps an fsnotify event onto a change event. Dotfiles, files
// with other extensions and events deeper than one project level are dropped.
func (w *Watcher) translate(fsw *fsnotify.Watcher, event fsnotify.Event) (domain.ChangeEvent, bool) {
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil || rel == "." || isHidden(rel) {
		return domain.ChangeEvent{}, false
	}
	depth := len(strings.Split(filepath.ToSlash(rel), "/"))
	if depth > 2 || strings.HasPrefix(rel, "..") {
		return domain.ChangeEvent{}, false
	}

	var op domain.ChangeOp
	switch {
	case event.Has(fsnotify.Create):
		op = domain.ChangeCreated
	case event.Has(fsnotify.Write):
		op = domain.ChangeModified
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		op = domain.ChangeRemoved
	default:
		return domain.ChangeEvent{}, false
	}

	if depth == 1 {
		// Entries directly under the root are project directories.
		if op == domain.ChangeCreated {
			info, err := os.Stat(event.Name)
			if err != nil || !info.IsDir() {
				return domain.ChangeEvent{}, false
			}
			w.addDir(fsw, event.Name)
		}
		if op == domain.ChangeModified {
			return domain.ChangeEvent{}, false
		}
		return domain.ChangeEvent{Path: event.Name, Op: op, Directory: true}, true
	}

	if filepath.Ext(event.Name) != w.extension {
		return domain.ChangeEvent{}, false
	}
	return domain.ChangeEvent{Path: event.Name, Op: op}, true
}

func (w *Watcher) addDir(fsw *fsnotify.Watcher, dir string) {
	if err := fsw.Add(dir); err != nil {
		logger.Warn("cannot watch %s: %v", dir, err)
	}
}

// merge combines two events for the same path within one debounce window.
// A create followed by writes stays a create; a removal always wins.
func merge(prev, next domain.ChangeEvent) domain.ChangeEvent {
	if prev.Path == "" {
		return next
	}
	if next.Op == domain.ChangeRemoved {
		return next
	}
	if prev.Op == domain.ChangeCreated {
		return prev
	}
	if prev.Op == domain.ChangeRemoved && next.Op == domain.ChangeCreated {
		next.Op = domain.ChangeModified
	}
	return next
}
