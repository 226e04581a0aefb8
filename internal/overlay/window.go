package overlay

import (
	"log/slog"

	"fyne.io/fyne/v2"
)

// host is the manager as seen from one of its windows.
type host interface {
	requestSave()
	flushSave()
	RemoveOverlay(name string)
}

// Window is one overlay: a surface hosting a single module widget. It is
// owned by the Manager and only touched on the GUI goroutine.
type Window struct {
	name    string
	module  string
	local   string
	host    host
	content fyne.CanvasObject
	surface Surface

	params         Params
	overlayVisible bool
	editMode       bool

	// Pointer interaction state, valid between PointerDown and PointerUp.
	dragging   bool
	resizing   bool
	dragAnchor Point
	resizeFrom Point
	startRect  Rect
}

func newWindow(h host, surfaces SurfaceFactory, content fyne.CanvasObject, name, module string, params Params) *Window {
	_, local := SplitName(name)
	params.Module = module
	w := &Window{
		name:           name,
		module:         module,
		local:          local,
		host:           h,
		content:        content,
		params:         params,
		overlayVisible: true,
	}
	w.surface = surfaces.NewSurface(name, content, params, w)
	w.surface.SetGeometry(params.Rect())
	w.surface.SetBackground(params.Background)
	w.surface.SetInputTransparent(true)
	w.surface.RaiseOnTop()
	return w
}

// Name returns the qualified name.
func (w *Window) Name() string { return w.name }

// Module returns the owning module.
func (w *Window) Module() string { return w.module }

// Custom reports whether the window is a custom overlay.
func (w *Window) Custom() bool { return !isFileOverlay(w.local) }

// Content returns the hosted widget.
func (w *Window) Content() fyne.CanvasObject { return w.content }

// Params returns the window's current state with its live geometry.
func (w *Window) Params() Params {
	return w.params.WithRect(w.surface.Geometry())
}

// UserVisible returns the persisted user preference.
func (w *Window) UserVisible() bool { return w.params.UserVisible }

// OverlayVisible returns the effective visibility last computed by
// SetOverlayVisible.
func (w *Window) OverlayVisible() bool { return w.overlayVisible }

// Visible reports whether the surface is currently shown.
func (w *Window) Visible() bool { return w.surface.Visible() }

// EditMode reports whether the window is in edit mode.
func (w *Window) EditMode() bool { return w.editMode }

// SetOverlayVisible applies the global show flag: the window is shown only
// if show and its own user preference are both set.
func (w *Window) SetOverlayVisible(show bool) {
	w.overlayVisible = show && w.params.UserVisible
	w.surface.SetVisible(w.overlayVisible)
}

// SetVisible shows or hides the surface without touching the effective
// visibility.
func (w *Window) SetVisible(visible bool) {
	w.surface.SetVisible(visible)
}

// SetBackground changes the background spec.
func (w *Window) SetBackground(spec string) {
	if spec == "" {
		spec = DefaultBackground
	}
	w.params.Background = spec
	w.surface.SetBackground(spec)
}

// SetEditMode switches input handling. Outside edit mode the surface is
// input transparent. The surface is hidden while the flags change since
// some platforms only apply them to unmapped windows, and always-on-top is
// re-applied afterwards.
func (w *Window) SetEditMode(state bool) {
	w.editMode = state
	if !state {
		w.endInteraction()
	}

	shown := w.surface.Visible()
	w.surface.SetVisible(false)
	w.surface.SetEditBadge(state)
	w.surface.SetInputTransparent(!state)
	w.surface.RaiseOnTop()
	if shown {
		w.surface.SetVisible(true)
	}
}

// PointerDown starts a drag with the primary button or a resize with the
// secondary one.
func (w *Window) PointerDown(button Button, pos Point) {
	if !w.editMode {
		return
	}
	g := w.surface.Geometry()
	switch button {
	case ButtonPrimary:
		w.dragging = true
		w.dragAnchor = Point{X: pos.X - g.X, Y: pos.Y - g.Y}
	case ButtonSecondary:
		w.resizing = true
		w.resizeFrom = pos
		w.startRect = g
	}
}

// PointerMove moves or resizes the window and asks the manager to persist.
func (w *Window) PointerMove(pos Point) {
	if !w.editMode || (!w.dragging && !w.resizing) {
		return
	}
	g := w.surface.Geometry()
	if w.dragging {
		g.X = pos.X - w.dragAnchor.X
		g.Y = pos.Y - w.dragAnchor.Y
	}
	if w.resizing {
		g.W = max(MinWidth, w.startRect.W+pos.X-w.resizeFrom.X)
		g.H = max(MinHeight, w.startRect.H+pos.Y-w.resizeFrom.Y)
	}
	w.surface.SetGeometry(g)
	w.host.requestSave()
}

// PointerUp ends the interaction and flushes any pending save.
func (w *Window) PointerUp() {
	active := w.dragging || w.resizing
	w.endInteraction()
	if active {
		w.host.flushSave()
	}
}

// KeyDown removes the overlay when Delete is pressed in edit mode.
func (w *Window) KeyDown(key fyne.KeyName) {
	if !w.editMode || key != fyne.KeyDelete {
		return
	}
	slog.Info("overlay deleted by key", "overlay", w.name)
	w.host.RemoveOverlay(w.name)
}

func (w *Window) endInteraction() {
	w.dragging = false
	w.resizing = false
}

// Close destroys the surface.
func (w *Window) Close() {
	w.endInteraction()
	w.surface.Close()
}
