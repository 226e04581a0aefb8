package overlay

import (
	"errors"
	"fmt"

	"fyne.io/fyne/v2"

	"dockhud/internal/bridge"
)

// Surface is the platform side of an overlay window: a borderless,
// always-on-top top-level surface. All methods are called on the GUI
// goroutine.
type Surface interface {
	SetGeometry(r Rect)
	Geometry() Rect
	SetBackground(spec string)
	SetVisible(visible bool)
	Visible() bool
	// SetInputTransparent makes the surface ignore pointer and key input so
	// clicks fall through to the application underneath.
	SetInputTransparent(transparent bool)
	// RaiseOnTop re-applies the always-on-top flag.
	RaiseOnTop()
	SetEditBadge(shown bool)
	Close()
}

// Button identifies the pointer button of an interaction.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

// Interaction receives pointer and key input from a surface. Positions are
// in screen coordinates.
type Interaction interface {
	PointerDown(button Button, pos Point)
	PointerMove(pos Point)
	PointerUp()
	KeyDown(key fyne.KeyName)
}

// Part is one widget of a custom overlay with its own background.
type Part struct {
	Content    fyne.CanvasObject
	Background string
}

// SurfaceFactory creates surfaces for the manager.
type SurfaceFactory interface {
	NewSurface(title string, content fyne.CanvasObject, params Params, input Interaction) Surface
	// Compose stacks the parts of a custom overlay vertically.
	Compose(parts []Part) fyne.CanvasObject
}

// EventBus is the part of the bridge the manager subscribes to.
type EventBus interface {
	Subscribe(event string, cb bridge.Callback) *bridge.Subscription
}

// ErrUnknownWidget is returned by a loader asked for a widget it cannot find.
var ErrUnknownWidget = errors.New("unknown widget")

// OverlayFactory builds the content of a file-defined overlay.
type OverlayFactory interface {
	CreateOverlay(params Params) (fyne.CanvasObject, error)
}

// OverlayFactoryFunc adapts a function to OverlayFactory.
type OverlayFactoryFunc func(params Params) (fyne.CanvasObject, error)

func (f OverlayFactoryFunc) CreateOverlay(params Params) (fyne.CanvasObject, error) {
	return f(params)
}

// WidgetFactory builds a module widget.
type WidgetFactory interface {
	CreateWidget(module string) (fyne.CanvasObject, error)
}

// WidgetFactoryFunc adapts a function to WidgetFactory.
type WidgetFactoryFunc func(module string) (fyne.CanvasObject, error)

func (f WidgetFactoryFunc) CreateWidget(module string) (fyne.CanvasObject, error) {
	return f(module)
}

// OverlayDefinition is one overlay found in a module's overlays directory.
// Name is the definition's file name, extension included.
type OverlayDefinition struct {
	Name    string
	Factory OverlayFactory
}

// Loader locates overlay definitions and widgets inside modules.
type Loader interface {
	// OverlayDefinitions lists the definitions in an overlays directory.
	OverlayDefinitions(overlaysDir string) ([]OverlayDefinition, error)
	// OverlayDefinition loads a single definition file.
	OverlayDefinition(path string) (OverlayDefinition, error)
	// Widget returns the factory for a named widget of a module's widgets
	// directory.
	Widget(widgetsDir, name string) (WidgetFactory, error)
}

// createOverlay runs a factory and turns a panic into an error.
func createOverlay(f OverlayFactory, params Params) (content fyne.CanvasObject, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("overlay factory panicked: %v", r)
		}
	}()
	content, err = f.CreateOverlay(params)
	if err == nil && content == nil {
		err = errors.New("overlay factory returned no content")
	}
	return content, err
}

func createWidget(f WidgetFactory, module string) (content fyne.CanvasObject, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("widget factory panicked: %v", r)
		}
	}()
	content, err = f.CreateWidget(module)
	if err == nil && content == nil {
		err = errors.New("widget factory returned no content")
	}
	return content, err
}
