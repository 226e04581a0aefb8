// Package platform applies native window attributes fyne does not expose:
// always-on-top, click-through and absolute placement.
package platform

import "errors"

// WindowHandle represents a platform-specific window handle
type WindowHandle uintptr

// ErrUnsupported is returned for operations the platform cannot perform.
var ErrUnsupported = errors.New("not supported on this platform")

// Features defines the native window operations overlays need.
// Each platform (Windows, Linux, macOS) implements it.
type Features interface {
	// FindWindow locates a top-level window of this process by its title.
	FindWindow(title string) (WindowHandle, error)

	SetAlwaysOnTop(handle WindowHandle, onTop bool) error
	SetClickThrough(handle WindowHandle, clickThrough bool) error
	MoveAndResizeWindow(handle WindowHandle, x, y, width, height int) error
	GetWindowRect(handle WindowHandle) (x, y, width, height int, err error)
}

// Nop is a Features that does nothing. It is used when running without a
// native window system and in tests.
type Nop struct{}

func (Nop) FindWindow(string) (WindowHandle, error) { return 0, ErrUnsupported }
func (Nop) SetAlwaysOnTop(WindowHandle, bool) error { return nil }
func (Nop) SetClickThrough(WindowHandle, bool) error { return nil }
func (Nop) MoveAndResizeWindow(WindowHandle, int, int, int, int) error { return nil }
func (Nop) GetWindowRect(WindowHandle) (int, int, int, int, error) {
	return 0, 0, 0, 0, ErrUnsupported
}
