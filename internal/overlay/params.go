// Package overlay manages free-floating, always-on-top HUD windows: their
// geometry, visibility, edit mode and on-disk persistence.
package overlay

import (
	"path/filepath"
	"strings"
)

// Size floor enforced on every resize.
const (
	MinWidth  = 100
	MinHeight = 50
)

const (
	// DefaultBackground is used when an overlay has no background spec.
	DefaultBackground = "rgba(0,0,0,0)"
	// DefaultCustomBackground is the background of a new custom overlay.
	DefaultCustomBackground = "rgba(0,0,0,127)"
)

// Params is the persisted state of one overlay.
type Params struct {
	X           int    `json:"x"`
	Y           int    `json:"y"`
	W           int    `json:"w"`
	H           int    `json:"h"`
	Background  string `json:"bg"`
	UserVisible bool   `json:"user_visible"`

	// Module is the owning module. It is implied by the file the entry is
	// stored in and is never written.
	Module string `json:"-"`
}

// DefaultParams returns the geometry given to an overlay with no saved state.
func DefaultParams() Params {
	return Params{
		X:           100,
		Y:           100,
		W:           400,
		H:           200,
		Background:  DefaultBackground,
		UserVisible: true,
	}
}

// Rect returns the geometry part of p.
func (p Params) Rect() Rect {
	return Rect{X: p.X, Y: p.Y, W: p.W, H: p.H}
}

// WithRect returns p with its geometry replaced by r.
func (p Params) WithRect(r Rect) Params {
	p.X, p.Y, p.W, p.H = r.X, r.Y, r.W, r.H
	return p
}

// Normalized clamps the size to the floor and fills in a missing background.
func (p Params) Normalized() Params {
	p.W = max(MinWidth, p.W)
	p.H = max(MinHeight, p.H)
	if strings.TrimSpace(p.Background) == "" {
		p.Background = DefaultBackground
	}
	return p
}

// CustomParams describes a user-composed overlay: a vertical stack of
// widgets, each on its own background.
type CustomParams struct {
	Params
	Widgets           []string          `json:"widgets"`
	WidgetBackgrounds map[string]string `json:"widget_bgs"`
}

// DefaultCustomParams returns the starting state of a new custom overlay.
func DefaultCustomParams(widgets ...string) CustomParams {
	p := DefaultParams()
	p.Background = DefaultCustomBackground
	return CustomParams{
		Params:            p,
		Widgets:           widgets,
		WidgetBackgrounds: map[string]string{},
	}
}

// WidgetBackground returns the background for one widget of the stack.
func (c CustomParams) WidgetBackground(widget string) string {
	if bg, ok := c.WidgetBackgrounds[widget]; ok && strings.TrimSpace(bg) != "" {
		return bg
	}
	return DefaultBackground
}

// Rect is a window geometry in screen coordinates.
type Rect struct {
	X, Y, W, H int
}

// Point is a screen position.
type Point struct {
	X, Y int
}

// QualifiedName joins a module and an overlay's local name.
func QualifiedName(module, local string) string {
	return module + ":" + local
}

// SplitName splits a qualified name. Names without a module prefix return
// an empty module.
func SplitName(name string) (module, local string) {
	module, local, ok := strings.Cut(name, ":")
	if !ok {
		return "", name
	}
	return module, local
}

// isFileOverlay reports whether a local name refers to an overlay definition
// file (it still carries the file extension) rather than a custom overlay.
func isFileOverlay(local string) bool {
	return filepath.Ext(local) != ""
}
