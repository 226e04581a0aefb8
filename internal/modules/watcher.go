package modules

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// OverlayChangedEvent is published with (module, file) when an overlay
// definition is created or rewritten.
const OverlayChangedEvent = "modules.overlay_changed"

// DefaultSettle is how long a definition file must stay quiet before it is
// reported.
const DefaultSettle = 250 * time.Millisecond

// Publisher is the part of the event bus the watcher needs.
type Publisher interface {
	Publish(event string, args ...any)
}

// Watcher reports new and changed overlay definitions under a modules
// root. Events for the same file are coalesced until the file has been
// quiet for the settle time.
type Watcher struct {
	root   string
	bus    Publisher
	settle time.Duration

	fs   *fsnotify.Watcher
	done chan struct{}

	mu      sync.Mutex
	pending map[string]*time.Timer
	stopped bool
}

// NewWatcher creates a watcher; a non-positive settle uses DefaultSettle.
func NewWatcher(root string, bus Publisher, settle time.Duration) *Watcher {
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Watcher{
		root:    root,
		bus:     bus,
		settle:  settle,
		pending: make(map[string]*time.Timer),
	}
}

// Start watches the root and every existing overlays directory.
func (w *Watcher) Start() error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(w.root); err != nil {
		fw.Close()
		return fmt.Errorf("watch %s: %w", w.root, err)
	}
	w.fs = fw
	w.done = make(chan struct{})

	entries, _ := os.ReadDir(w.root)
	for _, e := range entries {
		if e.IsDir() {
			w.watchModule(e.Name(), false)
		}
	}

	go w.run()
	slog.Info("watching modules", "root", w.root)
	return nil
}

// Stop ends watching and drops pending reports.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped || w.fs == nil {
		w.stopped = true
		w.mu.Unlock()
		return
	}
	w.stopped = true
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	w.fs.Close()
	<-w.done
}

// watchModule adds the module itself, to see its overlays directory
// appear, and the overlays directory if it exists. With report set, files
// already in the overlays directory are reported.
func (w *Watcher) watchModule(module string, report bool) {
	dir := filepath.Join(w.root, module)
	if err := w.fs.Add(dir); err != nil {
		slog.Debug("cannot watch module", "module", module, "error", err)
		return
	}
	w.watchOverlays(module, report)
}

func (w *Watcher) watchOverlays(module string, report bool) {
	dir := filepath.Join(w.root, module, "overlays")
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return
	}
	if err := w.fs.Add(dir); err != nil {
		slog.Debug("cannot watch overlays", "module", module, "error", err)
		return
	}
	if !report {
		return
	}
	// Files written before the watch was in place.
	files, _ := definitionFiles(dir)
	for _, f := range files {
		w.schedule(module, f)
	}
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			slog.Warn("module watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return
	}
	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil {
		return
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")

	switch {
	case len(parts) == 1 && ev.Has(fsnotify.Create):
		if isDir(ev.Name) {
			w.watchModule(parts[0], true)
		}
	case len(parts) == 2 && parts[1] == "overlays" && ev.Has(fsnotify.Create):
		w.watchOverlays(parts[0], true)
	case len(parts) == 3 && parts[1] == "overlays" && IsDefinitionFile(parts[2]):
		w.schedule(parts[0], parts[2])
	}
}

func (w *Watcher) schedule(module, file string) {
	key := module + "/" + file
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if t, ok := w.pending[key]; ok {
		t.Reset(w.settle)
		return
	}
	w.pending[key] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, key)
		stopped := w.stopped
		w.mu.Unlock()
		if stopped {
			return
		}
		slog.Debug("overlay definition changed", "module", module, "file", file)
		w.bus.Publish(OverlayChangedEvent, module, file)
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
