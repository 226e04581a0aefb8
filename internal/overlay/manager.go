package overlay

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"github.com/bep/debounce"
	"github.com/samber/lo"

	"dockhud/internal/bridge"
)

// Default bus events the manager reacts to.
const (
	DefaultToggleShowEvent = "shortcut.f9"
	DefaultToggleEditEvent = "shortcut.f10"
)

// ErrInvalidName is returned for custom overlay names that cannot be stored.
var ErrInvalidName = errors.New("invalid overlay name")

// Options configures a Manager.
type Options struct {
	Store    *Store
	Surfaces SurfaceFactory
	Loader   Loader
	Bus      EventBus

	// Dispatcher runs debounced saves on the GUI goroutine. Without one,
	// saves are written through on every change.
	Dispatcher bridge.Dispatcher
	// SaveDebounce coalesces saves during drags. Zero writes through.
	SaveDebounce time.Duration

	ToggleShowEvent string
	ToggleEditEvent string
}

// Entry describes one overlay for listings.
type Entry struct {
	Name    string
	Module  string
	Custom  bool
	Visible bool
	Params  Params
}

// Manager owns every overlay window, the global show and edit mode flags,
// and persistence of overlay state. Apart from construction, every method
// must be called on the GUI goroutine.
type Manager struct {
	store    *Store
	surfaces SurfaceFactory
	loader   Loader

	windows    map[string]*Window
	globalShow bool
	editMode   bool
	stopped    bool

	subs     []*bridge.Subscription
	onChange []func()

	dispatcher bridge.Dispatcher
	debounced  func(func())
	dirty      bool
}

// NewManager creates a manager and subscribes it to the toggle events.
func NewManager(opts Options) *Manager {
	m := &Manager{
		store:      opts.Store,
		surfaces:   opts.Surfaces,
		loader:     opts.Loader,
		windows:    make(map[string]*Window),
		globalShow: true,
		dispatcher: opts.Dispatcher,
	}
	if m.store == nil {
		m.store = NewStore("modules")
	}
	if opts.SaveDebounce > 0 && opts.Dispatcher != nil {
		m.debounced = debounce.New(opts.SaveDebounce)
	}

	if opts.Bus != nil {
		showEvent := lo.Ternary(opts.ToggleShowEvent != "", opts.ToggleShowEvent, DefaultToggleShowEvent)
		editEvent := lo.Ternary(opts.ToggleEditEvent != "", opts.ToggleEditEvent, DefaultToggleEditEvent)
		m.subs = append(m.subs,
			opts.Bus.Subscribe(showEvent, func(...any) { m.ToggleGlobalShow() }),
			opts.Bus.Subscribe(editEvent, func(...any) { m.ToggleEditMode() }),
		)
	}
	return m
}

// Store returns the persistence store.
func (m *Manager) Store() *Store { return m.store }

// OnChange registers fn to run after the overlay set or a global flag
// changes.
func (m *Manager) OnChange(fn func()) {
	m.onChange = append(m.onChange, fn)
}

func (m *Manager) changed() {
	for _, fn := range m.onChange {
		fn()
	}
}

// GlobalShow returns the global show flag.
func (m *Manager) GlobalShow() bool { return m.globalShow }

// EditMode returns the global edit mode flag.
func (m *Manager) EditMode() bool { return m.editMode }

// Window returns the overlay registered under name.
func (m *Manager) Window(name string) (*Window, bool) {
	w, ok := m.windows[name]
	return w, ok
}

// Names returns the registered qualified names, sorted.
func (m *Manager) Names() []string {
	names := lo.Keys(m.windows)
	slices.Sort(names)
	return names
}

// Snapshot lists every overlay, sorted by name.
func (m *Manager) Snapshot() []Entry {
	return lo.Map(m.Names(), func(name string, _ int) Entry {
		w := m.windows[name]
		return Entry{
			Name:    name,
			Module:  w.module,
			Custom:  w.Custom(),
			Visible: w.Visible(),
			Params:  w.Params(),
		}
	})
}

// AddOverlay wraps content in a new overlay window registered under the
// qualified name. An existing overlay with the same name is closed and
// replaced.
func (m *Manager) AddOverlay(content fyne.CanvasObject, name string, params Params, module string) *Window {
	if old, ok := m.windows[name]; ok {
		slog.Warn("overlay name collision, replacing", "overlay", name)
		old.Close()
		delete(m.windows, name)
	}

	params = params.Normalized()
	params.Module = module
	w := newWindow(m, m.surfaces, content, name, module, params)
	m.windows[name] = w

	if m.editMode {
		w.SetEditMode(true)
		w.overlayVisible = m.globalShow && w.params.UserVisible
		w.SetVisible(true)
	} else {
		w.SetOverlayVisible(m.globalShow)
	}

	slog.Info("overlay added", "overlay", name, "module", module)
	m.changed()
	return w
}

// RemoveOverlay closes and forgets an overlay. Unknown names are ignored.
func (m *Manager) RemoveOverlay(name string) {
	w, ok := m.windows[name]
	if !ok {
		return
	}
	w.Close()
	delete(m.windows, name)
	slog.Info("overlay removed", "overlay", name)

	m.saveNow()
	m.changed()
}

// SetGlobalShow sets the global show flag on every window. While edit mode
// is active every window stays visible.
func (m *Manager) SetGlobalShow(show bool) {
	m.globalShow = show
	for _, w := range m.windows {
		w.SetOverlayVisible(show)
		if m.editMode {
			w.SetVisible(true)
		}
	}
	slog.Debug("global show", "show", show)
	m.changed()
}

// ToggleGlobalShow flips the global show flag.
func (m *Manager) ToggleGlobalShow() {
	m.SetGlobalShow(!m.globalShow)
}

// SetEditMode enters or leaves edit mode. Entering shows every window;
// leaving restores each window's effective visibility.
func (m *Manager) SetEditMode(state bool) {
	m.editMode = state
	for _, w := range m.windows {
		w.SetEditMode(state)
		w.SetVisible(w.OverlayVisible() || state)
	}
	if !state {
		m.flushSave()
	}
	slog.Debug("edit mode", "active", state)
	m.changed()
}

// ToggleEditMode flips edit mode.
func (m *Manager) ToggleEditMode() {
	m.SetEditMode(!m.editMode)
}

// SetUserVisible changes one overlay's own visibility preference and
// persists it.
func (m *Manager) SetUserVisible(name string, visible bool) {
	w, ok := m.windows[name]
	if !ok {
		return
	}
	w.params.UserVisible = visible
	w.SetOverlayVisible(m.globalShow)
	if m.editMode {
		w.SetVisible(true)
	}
	m.saveNow()
	m.changed()
}

// SetBackground changes one overlay's background and persists it.
func (m *Manager) SetBackground(name, spec string) {
	w, ok := m.windows[name]
	if !ok {
		return
	}
	w.SetBackground(spec)
	m.saveNow()
}

// requestSave records that state changed. With a debounce the save runs
// once the drag pauses; otherwise it runs immediately.
func (m *Manager) requestSave() {
	if m.debounced == nil {
		m.saveNow()
		return
	}
	m.dirty = true
	m.debounced(func() {
		m.dispatcher.Do(func() {
			if m.dirty && !m.stopped {
				m.saveNow()
			}
		})
	})
}

// flushSave writes a pending debounced save.
func (m *Manager) flushSave() {
	if m.dirty {
		m.saveNow()
	}
}

func (m *Manager) saveNow() {
	if err := m.SaveOverlayPositions(); err != nil {
		slog.Warn("failed to save overlay positions", "error", err)
	}
}

// SaveOverlayPositions writes the state of every window into its module's
// documents. File overlays go to the file-overlay document and custom
// overlays only update entries already present in the custom document.
func (m *Manager) SaveOverlayPositions() error {
	m.dirty = false

	files := make(map[string]map[string]Params)
	customs := make(map[string]map[string]Params)
	for _, w := range m.windows {
		if w.module == "" {
			continue
		}
		target := lo.Ternary(w.Custom(), customs, files)
		if target[w.module] == nil {
			target[w.module] = make(map[string]Params)
		}
		target[w.module][w.local] = w.Params()
	}

	var errs []error
	for module, entries := range files {
		if err := m.store.MergeFileOverlays(module, entries); err != nil {
			errs = append(errs, fmt.Errorf("module %s: %w", module, err))
		}
	}
	for module, entries := range customs {
		if err := m.store.MergeCustomGeometry(module, entries); err != nil {
			errs = append(errs, fmt.Errorf("module %s: %w", module, err))
		}
	}
	return errors.Join(errs...)
}

// LoadOverlayPosition returns the saved params of a file overlay or the
// given defaults.
func (m *Manager) LoadOverlayPosition(module, overlayName string, defaults Params) Params {
	return m.store.LoadFileOverlay(module, overlayName, defaults)
}

// LoadAllOverlays creates an overlay for every definition in every module
// that has an overlays directory. Definitions whose factory fails are
// skipped. It returns the number of overlays added.
func (m *Manager) LoadAllOverlays() (int, error) {
	if m.loader == nil {
		return 0, nil
	}
	entries, err := os.ReadDir(m.store.Root())
	if err != nil {
		return 0, fmt.Errorf("read modules dir: %w", err)
	}

	added := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		module := entry.Name()
		dir := filepath.Join(m.store.Root(), module, "overlays")
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}

		defs, err := m.loader.OverlayDefinitions(dir)
		if err != nil {
			slog.Warn("failed to list overlays", "module", module, "error", err)
			continue
		}
		for _, def := range defs {
			if m.addDefinition(module, def) {
				added++
			}
		}
	}
	return added, nil
}

// LoadOverlayFile creates the overlay defined by one file in a module's
// overlays directory.
func (m *Manager) LoadOverlayFile(module, file string) error {
	if m.loader == nil {
		return errors.New("no loader configured")
	}
	path := filepath.Join(m.store.Root(), module, "overlays", file)
	def, err := m.loader.OverlayDefinition(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	if !m.addDefinition(module, def) {
		return fmt.Errorf("create overlay %s", QualifiedName(module, def.Name))
	}
	return nil
}

func (m *Manager) addDefinition(module string, def OverlayDefinition) bool {
	name := QualifiedName(module, def.Name)
	params := m.LoadOverlayPosition(module, def.Name, DefaultParams())

	content, err := createOverlay(def.Factory, params)
	if err != nil {
		slog.Warn("skipping overlay", "overlay", name, "error", err)
		return false
	}
	m.AddOverlay(content, name, params, module)
	return true
}

// CreateCustomOverlay stores a new custom overlay for module and opens it.
func (m *Manager) CreateCustomOverlay(module, name string, c CustomParams) (*Window, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, ".:") || module == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	c.Params = c.Params.Normalized()
	if c.WidgetBackgrounds == nil {
		c.WidgetBackgrounds = map[string]string{}
	}
	if err := m.store.PutCustomOverlay(module, name, c); err != nil {
		return nil, fmt.Errorf("save custom overlay: %w", err)
	}
	return m.openCustom(module, name, c), nil
}

// LoadCustomOverlays opens every saved custom overlay of every module and
// returns how many were opened.
func (m *Manager) LoadCustomOverlays() (int, error) {
	entries, err := os.ReadDir(m.store.Root())
	if err != nil {
		return 0, fmt.Errorf("read modules dir: %w", err)
	}
	opened := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		module := entry.Name()
		customs := m.store.LoadCustomOverlays(module)
		names := lo.Keys(customs)
		slices.Sort(names)
		for _, name := range names {
			m.openCustom(module, name, customs[name])
			opened++
		}
	}
	return opened, nil
}

// DeleteCustomOverlay closes a custom overlay and removes it from disk.
func (m *Manager) DeleteCustomOverlay(module, name string) error {
	qualified := QualifiedName(module, name)
	if w, ok := m.windows[qualified]; ok {
		w.Close()
		delete(m.windows, qualified)
	}
	if _, err := m.store.DeleteCustomOverlay(module, name); err != nil {
		return fmt.Errorf("delete custom overlay: %w", err)
	}
	slog.Info("custom overlay deleted", "overlay", qualified)
	m.changed()
	return nil
}

// openCustom builds the stacked content of a custom overlay. Widgets that
// cannot be created are left out.
func (m *Manager) openCustom(module, name string, c CustomParams) *Window {
	parts := make([]Part, 0, len(c.Widgets))
	widgetsDir := filepath.Join(m.store.Root(), module, "widgets")
	for _, widgetName := range c.Widgets {
		if m.loader == nil {
			break
		}
		factory, err := m.loader.Widget(widgetsDir, widgetName)
		if err != nil {
			slog.Warn("skipping custom overlay widget", "overlay", name, "widget", widgetName, "error", err)
			continue
		}
		content, err := createWidget(factory, module)
		if err != nil {
			slog.Warn("skipping custom overlay widget", "overlay", name, "widget", widgetName, "error", err)
			continue
		}
		parts = append(parts, Part{Content: content, Background: c.WidgetBackground(widgetName)})
	}
	return m.AddOverlay(m.surfaces.Compose(parts), QualifiedName(module, name), c.Params, module)
}

// Stop saves every window, closes them and unsubscribes from the bus.
// Calling it again does nothing.
func (m *Manager) Stop() {
	if m.stopped {
		return
	}
	m.stopped = true

	for _, sub := range m.subs {
		sub.Unsubscribe()
	}
	m.subs = nil

	m.saveNow()
	for _, w := range m.windows {
		w.Close()
	}
	clear(m.windows)
	slog.Info("overlay manager stopped")
	m.changed()
}
