// Package watch reports changes to store files made by other processes or
// by the store itself, for tools that display live data.
package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/kairosolo/kprefs/internal/store"
)

// Target classifies the file a Change refers to.
type Target int

const (
	TargetGlobal Target = iota
	TargetRegistry
	TargetProfile
)

func (t Target) String() string {
	switch t {
	case TargetGlobal:
		return "global"
	case TargetRegistry:
		return "registry"
	default:
		return "profile"
	}
}

// Change is one settled modification of a store file.
type Change struct {
	Target  Target
	Profile string // set for TargetProfile
	Path    string
	Removed bool
}

// DefaultDebounce is how long a file must stay quiet before its change is
// reported.
const DefaultDebounce = 250 * time.Millisecond

type pending struct {
	at      time.Time
	removed bool
}

// Watcher watches a data directory and its profiles subdirectory.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	layout   store.Layout
	onChange func(Change)
	log      *zap.Logger
	debounce time.Duration
	pending  map[string]pending
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// New creates a Watcher for the store rooted at dir. onChange runs on the
// watcher goroutine.
func New(dir string, debounce time.Duration, onChange func(Change), log *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		watcher:  fw,
		layout:   store.Layout{Dir: dir},
		onChange: onChange,
		log:      log,
		debounce: debounce,
		pending:  make(map[string]pending),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. It does not block. The profiles directory is
// created if it does not exist yet so that new profile files are seen.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	if err := os.MkdirAll(w.layout.ProfilesDir(), 0o700); err != nil {
		return err
	}
	for _, dir := range []string{w.layout.Dir, w.layout.ProfilesDir()} {
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
		w.log.Debug("watching directory", zap.String("dir", dir))
	}

	w.running = true
	go w.run(ctx)
	return nil
}

// Stop ends watching and waits for the watcher goroutine to exit. Changes
// still inside the debounce window are dropped.
func (w *Watcher) Stop() {
	w.mu.Lock()
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if wasRunning {
		close(w.stopCh)
		<-w.doneCh
	}
	if err := w.watcher.Close(); err != nil {
		w.log.Warn("error closing watcher", zap.Error(err))
	}
}

// Done is closed when the watcher goroutine exits, either through Stop or
// because the context passed to Start was cancelled.
func (w *Watcher) Done() <-chan struct{} { return w.doneCh }

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := time.NewTicker(w.debounce / 4)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if !errors.Is(err, fsnotify.ErrEventOverflow) {
				w.log.Error("watch error", zap.Error(err))
			}
		case <-tick.C:
			w.flush(time.Now())
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if _, ok := w.classify(ev.Name); !ok {
		return
	}
	var removed bool
	switch {
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		removed = true
	default:
		return
	}

	w.mu.Lock()
	w.pending[ev.Name] = pending{at: time.Now(), removed: removed}
	w.mu.Unlock()
}

func (w *Watcher) flush(now time.Time) {
	w.mu.Lock()
	var ready []string
	settled := make(map[string]pending)
	for path, p := range w.pending {
		if now.Sub(p.at) >= w.debounce {
			ready = append(ready, path)
			settled[path] = p
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	sort.Strings(ready)
	for _, path := range ready {
		c, _ := w.classify(path)
		c.Removed = settled[path].removed
		if c.Removed {
			if _, err := os.Stat(path); err == nil {
				c.Removed = false
			}
		}
		w.onChange(c)
	}
}

// classify maps a path to the store file it belongs to.
func (w *Watcher) classify(path string) (Change, bool) {
	if name, ok := w.layout.ProfileNameOf(path); ok {
		return Change{Target: TargetProfile, Profile: name, Path: path}, true
	}
	if filepath.Clean(filepath.Dir(path)) != filepath.Clean(w.layout.Dir) {
		return Change{}, false
	}
	switch filepath.Base(path) {
	case store.GlobalFilename:
		return Change{Target: TargetGlobal, Path: path}, true
	case store.RegistryFilename:
		return Change{Target: TargetRegistry, Path: path}, true
	}
	return Change{}, false
}
