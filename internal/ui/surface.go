package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"

	"dockhud/internal/overlay"
	"dockhud/internal/platform"
)

const editBadgeText = "EDIT MODE ACTIVE"

// Surfaces creates fyne-backed overlay surfaces.
type Surfaces struct {
	app      fyne.App
	platform platform.Features
}

// NewSurfaces returns a surface factory for app. Native window attributes
// are applied through features.
func NewSurfaces(app fyne.App, features platform.Features) *Surfaces {
	if features == nil {
		features = platform.Nop{}
	}
	return &Surfaces{app: app, platform: features}
}

// NewSurface creates a borderless window hosting content. The window is not
// shown until SetVisible(true).
func (s *Surfaces) NewSurface(title string, content fyne.CanvasObject, params overlay.Params, input overlay.Interaction) overlay.Surface {
	var win fyne.Window
	if drv, ok := s.app.Driver().(desktop.Driver); ok {
		win = drv.CreateSplashWindow()
		win.SetTitle(title)
	} else {
		win = s.app.NewWindow(title)
	}
	win.SetPadded(false)

	f := &fyneSurface{
		title:  title,
		window: win,
		input:  input,
		bg:     canvas.NewRectangle(backgroundColor(params.Background)),
		native: newNativeOps(s.platform, title),
	}

	badgeText := canvas.NewText(editBadgeText, colorBadgeText)
	badgeText.TextSize = 18
	badgeText.TextStyle = fyne.TextStyle{Bold: true}
	badgeText.Alignment = fyne.TextAlignCenter
	f.badge = container.NewStack(canvas.NewRectangle(colorBadgeBg), container.NewCenter(badgeText))
	f.badge.Hide()

	f.layer = newInputLayer(f)
	f.layer.Hide()

	win.SetContent(container.NewStack(
		f.bg,
		content,
		container.NewBorder(nil, f.badge, nil, nil),
		f.layer,
	))
	win.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if f.input != nil && !f.transparent {
			f.input.KeyDown(ev.Name)
		}
	})
	win.SetCloseIntercept(func() {
		// Overlays are closed by the manager only.
	})

	f.transparent = true
	return f
}

// Compose stacks the widgets of a custom overlay, each on its own
// background.
func (s *Surfaces) Compose(parts []overlay.Part) fyne.CanvasObject {
	objs := make([]fyne.CanvasObject, 0, len(parts))
	for _, p := range parts {
		bg := canvas.NewRectangle(backgroundColor(p.Background))
		objs = append(objs, container.NewStack(bg, p.Content))
	}
	return container.NewVBox(objs...)
}

// fyneSurface implements overlay.Surface on a fyne window. Geometry is kept
// here because fyne cannot position windows; placement is applied natively.
type fyneSurface struct {
	title  string
	window fyne.Window
	input  overlay.Interaction

	bg    *canvas.Rectangle
	badge *fyne.Container
	layer *inputLayer

	geom        overlay.Rect
	visible     bool
	transparent bool
	closed      bool

	native *nativeOps
}

func (f *fyneSurface) scale() float32 {
	if s := f.window.Canvas().Scale(); s > 0 {
		return s
	}
	return 1
}

func (f *fyneSurface) SetGeometry(r overlay.Rect) {
	f.geom = r
	scale := f.scale()
	f.window.Resize(fyne.NewSize(float32(r.W)/scale, float32(r.H)/scale))
	f.native.setGeometry(r)
}

// Geometry prefers the rect the window system reports, which differs from
// the requested one when the window manager moved or clamped the window.
func (f *fyneSurface) Geometry() overlay.Rect {
	if r, ok := f.native.liveGeometry(); ok {
		return r
	}
	return f.geom
}

func (f *fyneSurface) SetBackground(spec string) {
	f.bg.FillColor = backgroundColor(spec)
	f.bg.Refresh()
}

func (f *fyneSurface) SetVisible(visible bool) {
	if f.closed || visible == f.visible {
		return
	}
	f.visible = visible
	if visible {
		f.window.Show()
	} else {
		f.window.Hide()
	}
	f.native.setVisible(visible)
}

func (f *fyneSurface) Visible() bool {
	return f.visible
}

func (f *fyneSurface) SetInputTransparent(transparent bool) {
	f.transparent = transparent
	if transparent {
		f.layer.Hide()
	} else {
		f.layer.Show()
	}
	f.native.setClickThrough(transparent)
}

func (f *fyneSurface) RaiseOnTop() {
	f.native.raise()
}

func (f *fyneSurface) SetEditBadge(shown bool) {
	if shown {
		f.badge.Show()
	} else {
		f.badge.Hide()
	}
}

func (f *fyneSurface) Close() {
	if f.closed {
		return
	}
	f.closed = true
	f.visible = false
	f.native.stop()
	f.window.Close()
}

// globalPoint converts a canvas position into screen coordinates.
func (f *fyneSurface) globalPoint(pos fyne.Position) overlay.Point {
	scale := f.scale()
	g := f.Geometry()
	return overlay.Point{
		X: g.X + int(pos.X*scale),
		Y: g.Y + int(pos.Y*scale),
	}
}

var (
	colorBadgeText = color.NRGBA{R: 255, G: 255, A: 255}
	colorBadgeBg   = color.NRGBA{A: 120}
)
