package ui

import (
	"errors"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"dockhud/internal/overlay"
)

// OverlayController is the part of the overlay manager the control window
// drives.
type OverlayController interface {
	Snapshot() []overlay.Entry
	GlobalShow() bool
	SetGlobalShow(show bool)
	EditMode() bool
	SetEditMode(state bool)
	SetUserVisible(name string, visible bool)
	CreateCustomOverlay(module, name string, c overlay.CustomParams) (*overlay.Window, error)
	DeleteCustomOverlay(module, name string) error
}

// WidgetCatalog lists the widgets custom overlays can be built from.
type WidgetCatalog interface {
	Modules() []string
	Widgets(module string) []string
}

// ControlWindow lists every overlay with its visibility and creates custom
// overlays.
type ControlWindow struct {
	app     fyne.App
	ctrl    OverlayController
	catalog WidgetCatalog

	window     fyne.Window
	list       *fyne.Container
	showCheck  *widget.Check
	editCheck  *widget.Check
	refreshing bool

	moduleSelect *widget.Select
	nameEntry    *widget.Entry
	widgetGroup  *widget.CheckGroup
	bgEntry      *widget.Entry
}

// NewControlWindow creates the control window; it is built on first Show.
func NewControlWindow(app fyne.App, ctrl OverlayController, catalog WidgetCatalog) *ControlWindow {
	return &ControlWindow{app: app, ctrl: ctrl, catalog: catalog}
}

// Show displays the control window
func (c *ControlWindow) Show() {
	if c.window != nil {
		c.Refresh()
		c.window.Show()
		c.window.RequestFocus()
		return
	}

	window := c.app.NewWindow("dockhud")
	window.Resize(fyne.NewSize(420, 520))
	window.SetOnClosed(func() { c.window = nil })
	c.window = window

	// --- Global toggles ---
	c.showCheck = widget.NewCheck("Show overlays", func(checked bool) {
		if !c.refreshing {
			c.ctrl.SetGlobalShow(checked)
		}
	})
	c.editCheck = widget.NewCheck("Edit mode", func(checked bool) {
		if !c.refreshing {
			c.ctrl.SetEditMode(checked)
		}
	})
	toggles := container.NewHBox(c.showCheck, c.editCheck)

	// --- Overlay list ---
	c.list = container.NewVBox()
	listSection := container.NewVBox(sectionLabel("Overlays"), c.list)

	// --- Custom overlay creator ---
	creator := c.buildCreator(window)

	content := container.NewVBox(
		toggles,
		widget.NewSeparator(),
		listSection,
		widget.NewSeparator(),
		creator,
	)

	c.Refresh()
	window.SetContent(container.NewPadded(container.NewVScroll(content)))
	window.Show()
}

// Refresh rebuilds the list and toggles from the controller.
func (c *ControlWindow) Refresh() {
	if c.window == nil {
		return
	}
	c.refreshing = true
	defer func() { c.refreshing = false }()

	c.showCheck.SetChecked(c.ctrl.GlobalShow())
	c.editCheck.SetChecked(c.ctrl.EditMode())

	entries := c.ctrl.Snapshot()
	rows := make([]fyne.CanvasObject, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, c.row(e))
	}
	if len(rows) == 0 {
		rows = append(rows, widget.NewLabel("No overlays loaded"))
	}
	c.list.Objects = rows
	c.list.Refresh()
}

func (c *ControlWindow) row(e overlay.Entry) fyne.CanvasObject {
	name := e.Name
	check := widget.NewCheck(name, func(checked bool) {
		if !c.refreshing {
			c.ctrl.SetUserVisible(name, checked)
		}
	})
	check.SetChecked(e.Params.UserVisible)

	geometry := widget.NewLabel(fmt.Sprintf("%dx%d at %d,%d", e.Params.W, e.Params.H, e.Params.X, e.Params.Y))
	geometry.Importance = widget.LowImportance

	items := []fyne.CanvasObject{check, layout.NewSpacer(), geometry}
	if e.Custom {
		module, local := overlay.SplitName(name)
		del := widget.NewButton("Delete", func() {
			if err := c.ctrl.DeleteCustomOverlay(module, local); err != nil && c.window != nil {
				dialog.ShowError(err, c.window)
			}
		})
		del.Importance = widget.DangerImportance
		items = append(items, del)
	}
	return container.NewHBox(items...)
}

func (c *ControlWindow) buildCreator(window fyne.Window) fyne.CanvasObject {
	c.widgetGroup = widget.NewCheckGroup(nil, nil)
	c.widgetGroup.Horizontal = true

	var modules []string
	if c.catalog != nil {
		modules = c.catalog.Modules()
	}
	c.moduleSelect = widget.NewSelect(modules, func(module string) {
		if c.catalog != nil {
			c.widgetGroup.Options = c.catalog.Widgets(module)
		}
		c.widgetGroup.Selected = nil
		c.widgetGroup.Refresh()
	})
	c.moduleSelect.PlaceHolder = "Module"

	c.nameEntry = widget.NewEntry()
	c.nameEntry.SetPlaceHolder("Overlay name")

	c.bgEntry = widget.NewEntry()
	c.bgEntry.SetPlaceHolder(overlay.DefaultCustomBackground)

	createBtn := widget.NewButton("Create", func() {
		if err := c.createCustom(); err != nil {
			dialog.ShowError(err, window)
			return
		}
		c.nameEntry.SetText("")
		c.widgetGroup.SetSelected(nil)
	})
	createBtn.Importance = widget.HighImportance

	return container.NewVBox(
		sectionLabel("New custom overlay"),
		c.moduleSelect,
		c.nameEntry,
		c.widgetGroup,
		c.bgEntry,
		container.NewHBox(layout.NewSpacer(), createBtn),
	)
}

func (c *ControlWindow) createCustom() error {
	module := c.moduleSelect.Selected
	if module == "" {
		return errors.New("choose a module")
	}
	if len(c.widgetGroup.Selected) == 0 {
		return errors.New("choose at least one widget")
	}

	params := overlay.DefaultCustomParams(append([]string(nil), c.widgetGroup.Selected...)...)
	if bg := strings.TrimSpace(c.bgEntry.Text); bg != "" {
		if _, err := ParseBackground(bg); err != nil {
			return err
		}
		params.Background = bg
	}

	_, err := c.ctrl.CreateCustomOverlay(module, c.nameEntry.Text, params)
	return err
}

func sectionLabel(text string) *widget.Label {
	l := widget.NewLabel(text)
	l.TextStyle = fyne.TextStyle{Bold: true}
	return l
}
