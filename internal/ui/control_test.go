package ui

import (
	"errors"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dockhud/internal/overlay"
)

type fakeController struct {
	entries    []overlay.Entry
	show, edit bool
	userVis    map[string]bool
	created    []overlay.CustomParams
	createdAs  []string
	deleted    []string
	createErr  error
}

func (f *fakeController) Snapshot() []overlay.Entry { return f.entries }
func (f *fakeController) GlobalShow() bool          { return f.show }
func (f *fakeController) SetGlobalShow(show bool)   { f.show = show }
func (f *fakeController) EditMode() bool            { return f.edit }
func (f *fakeController) SetEditMode(state bool)    { f.edit = state }

func (f *fakeController) SetUserVisible(name string, visible bool) {
	if f.userVis == nil {
		f.userVis = map[string]bool{}
	}
	f.userVis[name] = visible
}

func (f *fakeController) CreateCustomOverlay(module, name string, c overlay.CustomParams) (*overlay.Window, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createdAs = append(f.createdAs, module+":"+name)
	f.created = append(f.created, c)
	return nil, nil
}

func (f *fakeController) DeleteCustomOverlay(module, name string) error {
	f.deleted = append(f.deleted, module+":"+name)
	return nil
}

type fakeCatalog map[string][]string

func (c fakeCatalog) Modules() []string {
	var out []string
	for m := range c {
		out = append(out, m)
	}
	return out
}

func (c fakeCatalog) Widgets(module string) []string { return c[module] }

func newTestControl(t *testing.T, ctrl *fakeController) *ControlWindow {
	t.Helper()
	test.NewTempApp(t)
	c := NewControlWindow(fyne.CurrentApp(), ctrl, fakeCatalog{"mod": {"clock", "note"}})
	c.Show()
	t.Cleanup(func() {
		if c.window != nil {
			c.window.Close()
		}
	})
	return c
}

func TestControlWindowListsOverlays(t *testing.T) {
	ctrl := &fakeController{
		show: true,
		entries: []overlay.Entry{
			{Name: "mod:a.yaml", Module: "mod", Params: overlay.Params{W: 300, H: 100, UserVisible: true}},
			{Name: "mod:stats", Module: "mod", Custom: true, Params: overlay.Params{W: 400, H: 200}},
		},
	}
	c := newTestControl(t, ctrl)

	require.Len(t, c.list.Objects, 2)
	assert.True(t, c.showCheck.Checked)
	assert.False(t, c.editCheck.Checked)

	row := c.list.Objects[1].(*fyne.Container)
	check := row.Objects[0].(*widget.Check)
	assert.Equal(t, "mod:stats", check.Text)
	assert.False(t, check.Checked)

	test.Tap(check)
	assert.Equal(t, map[string]bool{"mod:stats": true}, ctrl.userVis)

	del := row.Objects[len(row.Objects)-1].(*widget.Button)
	test.Tap(del)
	assert.Equal(t, []string{"mod:stats"}, ctrl.deleted)
}

func TestControlWindowToggles(t *testing.T) {
	ctrl := &fakeController{show: true}
	c := newTestControl(t, ctrl)

	test.Tap(c.showCheck)
	assert.False(t, ctrl.show)
	test.Tap(c.editCheck)
	assert.True(t, ctrl.edit)

	// Refreshing from the controller does not echo back into it.
	ctrl.show = true
	ctrl.edit = false
	c.Refresh()
	assert.True(t, c.showCheck.Checked)
	assert.False(t, c.editCheck.Checked)
	assert.True(t, ctrl.show)
}

func TestControlWindowEmptyList(t *testing.T) {
	c := newTestControl(t, &fakeController{})

	require.Len(t, c.list.Objects, 1)
	assert.Equal(t, "No overlays loaded", c.list.Objects[0].(*widget.Label).Text)
}

func TestControlWindowCreatesCustomOverlay(t *testing.T) {
	ctrl := &fakeController{}
	c := newTestControl(t, ctrl)

	c.moduleSelect.SetSelected("mod")
	assert.Equal(t, []string{"clock", "note"}, c.widgetGroup.Options)
	c.widgetGroup.SetSelected([]string{"note"})
	c.nameEntry.SetText("stats")
	c.bgEntry.SetText("#102030")

	require.NoError(t, c.createCustom())
	require.Equal(t, []string{"mod:stats"}, ctrl.createdAs)
	assert.Equal(t, []string{"note"}, ctrl.created[0].Widgets)
	assert.Equal(t, "#102030", ctrl.created[0].Background)
}

func TestControlWindowCreateValidation(t *testing.T) {
	ctrl := &fakeController{}
	c := newTestControl(t, ctrl)

	assert.Error(t, c.createCustom(), "module required")

	c.moduleSelect.SetSelected("mod")
	assert.Error(t, c.createCustom(), "widgets required")

	c.widgetGroup.SetSelected([]string{"clock"})
	c.bgEntry.SetText("sparkly")
	assert.Error(t, c.createCustom(), "background must parse")

	c.bgEntry.SetText("")
	ctrl.createErr = errors.New("bad name")
	assert.Error(t, c.createCustom())
	assert.Empty(t, ctrl.created)
}

func TestTrayRefresh(t *testing.T) {
	test.NewTempApp(t)
	tray := NewTrayManager(fyne.CurrentApp())
	toggled := 0
	tray.SetCallbacks(func() { toggled++ }, nil, nil, nil)
	_ = tray.Setup()

	menu := tray.Menu()
	require.NotNil(t, menu)

	tray.Refresh(false, true)
	assert.Equal(t, "Show Overlays", menu.Items[0].Label)
	assert.True(t, menu.Items[1].Checked)

	tray.Refresh(true, false)
	assert.Equal(t, "Hide Overlays", menu.Items[0].Label)
	assert.False(t, menu.Items[1].Checked)

	menu.Items[0].Action()
	menu.Items[1].Action()
	assert.Equal(t, 1, toggled)
}
