package ui

import (
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"dockhud/internal/assets"
)

// TrayManager handles the system tray icon and menu
type TrayManager struct {
	app  fyne.App
	menu *fyne.Menu

	showItem    *fyne.MenuItem
	editItem    *fyne.MenuItem
	controlItem *fyne.MenuItem
	quitItem    *fyne.MenuItem

	onToggleOverlays func()
	onToggleEdit     func()
	onControl        func()
	onQuit           func()
}

// NewTrayManager creates a new tray manager
func NewTrayManager(app fyne.App) *TrayManager {
	return &TrayManager{app: app}
}

// SetCallbacks sets the callback functions for tray actions
func (t *TrayManager) SetCallbacks(onToggleOverlays, onToggleEdit, onControl, onQuit func()) {
	t.onToggleOverlays = onToggleOverlays
	t.onToggleEdit = onToggleEdit
	t.onControl = onControl
	t.onQuit = onQuit
}

// Setup builds the menu and installs it in the system tray when the driver
// has one.
func (t *TrayManager) Setup() error {
	t.showItem = fyne.NewMenuItem("Hide Overlays", func() { call(t.onToggleOverlays) })
	t.editItem = fyne.NewMenuItem("Edit Mode", func() { call(t.onToggleEdit) })
	t.controlItem = fyne.NewMenuItem("Overlays...", func() { call(t.onControl) })
	t.quitItem = fyne.NewMenuItem("Quit", func() { call(t.onQuit) })
	t.quitItem.IsQuit = true

	t.menu = fyne.NewMenu("dockhud",
		t.showItem,
		t.editItem,
		fyne.NewMenuItemSeparator(),
		t.controlItem,
		fyne.NewMenuItemSeparator(),
		t.quitItem,
	)

	desk, ok := t.app.(desktop.App)
	if !ok {
		return fmt.Errorf("system tray not supported on this platform")
	}
	desk.SetSystemTrayMenu(t.menu)
	desk.SetSystemTrayIcon(assets.TrayIcon())
	slog.Info("system tray initialized")
	return nil
}

// Refresh updates the menu to reflect the manager's flags.
func (t *TrayManager) Refresh(globalShow, editMode bool) {
	if t.menu == nil {
		return
	}
	if globalShow {
		t.showItem.Label = "Hide Overlays"
	} else {
		t.showItem.Label = "Show Overlays"
	}
	t.editItem.Checked = editMode
	t.menu.Refresh()
}

// Menu returns the tray menu, nil before Setup.
func (t *TrayManager) Menu() *fyne.Menu {
	return t.menu
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
