package overlay

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

type fakeSurface struct {
	title       string
	content     fyne.CanvasObject
	input       Interaction
	geom        Rect
	bg          string
	visible     bool
	transparent bool
	badge       bool
	closed      bool
	calls       []string
}

func (s *fakeSurface) SetGeometry(r Rect) { s.geom = r }
func (s *fakeSurface) Geometry() Rect     { return s.geom }
func (s *fakeSurface) SetBackground(spec string) {
	s.bg = spec
}

func (s *fakeSurface) SetVisible(v bool) {
	s.visible = v
	s.calls = append(s.calls, fmt.Sprintf("visible:%t", v))
}

func (s *fakeSurface) Visible() bool { return s.visible }

func (s *fakeSurface) SetInputTransparent(t bool) {
	s.transparent = t
	s.calls = append(s.calls, fmt.Sprintf("transparent:%t", t))
}

func (s *fakeSurface) RaiseOnTop() { s.calls = append(s.calls, "raise") }

func (s *fakeSurface) SetEditBadge(shown bool) {
	s.badge = shown
	s.calls = append(s.calls, fmt.Sprintf("badge:%t", shown))
}

func (s *fakeSurface) Close() { s.closed = true }

func (s *fakeSurface) resetCalls() { s.calls = nil }

type fakeSurfaces struct {
	all []*fakeSurface
}

func (f *fakeSurfaces) NewSurface(title string, content fyne.CanvasObject, _ Params, input Interaction) Surface {
	s := &fakeSurface{title: title, content: content, input: input}
	f.all = append(f.all, s)
	return s
}

func (f *fakeSurfaces) Compose(parts []Part) fyne.CanvasObject {
	objs := make([]fyne.CanvasObject, 0, len(parts))
	for _, p := range parts {
		objs = append(objs, p.Content)
	}
	return container.NewVBox(objs...)
}

// last returns the most recent surface created for title.
func (f *fakeSurfaces) last(title string) *fakeSurface {
	for i := len(f.all) - 1; i >= 0; i-- {
		if f.all[i].title == title {
			return f.all[i]
		}
	}
	return nil
}

type fakeHost struct {
	saves   int
	flushes int
	removed []string
}

func (h *fakeHost) requestSave()              { h.saves++ }
func (h *fakeHost) flushSave()                { h.flushes++ }
func (h *fakeHost) RemoveOverlay(name string) { h.removed = append(h.removed, name) }

// fakeLoader serves overlay definitions by file name. Factories named in
// fail return an error, those in panics panic.
type fakeLoader struct {
	fail    map[string]bool
	panics  map[string]bool
	widgets map[string]bool
}

func (l *fakeLoader) factory(name string) OverlayFactory {
	return OverlayFactoryFunc(func(Params) (fyne.CanvasObject, error) {
		switch {
		case l.fail[name]:
			return nil, errors.New("broken overlay")
		case l.panics[name]:
			panic("overlay exploded")
		}
		return widget.NewLabel(name), nil
	})
}

func (l *fakeLoader) OverlayDefinitions(dir string) ([]OverlayDefinition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var defs []OverlayDefinition
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".yaml") {
			defs = append(defs, OverlayDefinition{Name: e.Name(), Factory: l.factory(e.Name())})
		}
	}
	return defs, nil
}

func (l *fakeLoader) OverlayDefinition(path string) (OverlayDefinition, error) {
	if _, err := os.Stat(path); err != nil {
		return OverlayDefinition{}, err
	}
	name := filepath.Base(path)
	return OverlayDefinition{Name: name, Factory: l.factory(name)}, nil
}

func (l *fakeLoader) Widget(_ string, name string) (WidgetFactory, error) {
	if !l.widgets[name] {
		return nil, fmt.Errorf("%w: %s", ErrUnknownWidget, name)
	}
	return WidgetFactoryFunc(func(module string) (fyne.CanvasObject, error) {
		return widget.NewLabel(module + "/" + name), nil
	}), nil
}

// writeModuleFiles creates empty overlay definition files under root.
func writeModuleFiles(root, module string, files ...string) error {
	dir := filepath.Join(root, module, "overlays")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("widget: note\n"), 0o644); err != nil {
			return err
		}
	}
	return nil
}
