package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"dockhud/internal/overlay"
)

// inputLayer covers an overlay in edit mode and forwards pointer input to
// the overlay's interaction handler in screen coordinates.
type inputLayer struct {
	widget.BaseWidget
	surface *fyneSurface
}

var (
	_ desktop.Mouseable = (*inputLayer)(nil)
	_ desktop.Hoverable = (*inputLayer)(nil)
	_ fyne.Draggable    = (*inputLayer)(nil)
)

func newInputLayer(s *fyneSurface) *inputLayer {
	l := &inputLayer{surface: s}
	l.ExtendBaseWidget(l)
	return l
}

func (l *inputLayer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(canvas.NewRectangle(color.Transparent))
}

func (l *inputLayer) handler() overlay.Interaction {
	if l.surface == nil {
		return nil
	}
	return l.surface.input
}

func (l *inputLayer) MouseDown(ev *desktop.MouseEvent) {
	h := l.handler()
	if h == nil {
		return
	}
	switch ev.Button {
	case desktop.MouseButtonPrimary:
		h.PointerDown(overlay.ButtonPrimary, l.surface.globalPoint(ev.AbsolutePosition))
	case desktop.MouseButtonSecondary:
		h.PointerDown(overlay.ButtonSecondary, l.surface.globalPoint(ev.AbsolutePosition))
	}
}

func (l *inputLayer) MouseUp(*desktop.MouseEvent) {
	if h := l.handler(); h != nil {
		h.PointerUp()
	}
}

// Dragged is delivered while the primary button is held.
func (l *inputLayer) Dragged(ev *fyne.DragEvent) {
	if h := l.handler(); h != nil {
		h.PointerMove(l.surface.globalPoint(ev.AbsolutePosition))
	}
}

func (l *inputLayer) DragEnd() {
	if h := l.handler(); h != nil {
		h.PointerUp()
	}
}

// MouseMoved is delivered for secondary-button drags; the window ignores
// moves when no interaction is active.
func (l *inputLayer) MouseMoved(ev *desktop.MouseEvent) {
	if h := l.handler(); h != nil {
		h.PointerMove(l.surface.globalPoint(ev.AbsolutePosition))
	}
}

func (l *inputLayer) MouseIn(*desktop.MouseEvent) {}

func (l *inputLayer) MouseOut() {}

// Cursor shows a move cursor over overlays in edit mode.
func (l *inputLayer) Cursor() desktop.Cursor {
	return desktop.CrosshairCursor
}
