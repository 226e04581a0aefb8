//go:build windows

package platform

import (
	"fmt"
	"syscall"
	"unsafe"
)

var (
	user32                   = syscall.NewLazyDLL("user32.dll")
	procSetWindowPos         = user32.NewProc("SetWindowPos")
	procMoveWindow           = user32.NewProc("MoveWindow")
	procGetWindowRect        = user32.NewProc("GetWindowRect")
	procGetWindowLong        = user32.NewProc("GetWindowLongW")
	procSetWindowLong        = user32.NewProc("SetWindowLongW")
	procSetLayeredWindowAttr = user32.NewProc("SetLayeredWindowAttributes")
	procFindWindow           = user32.NewProc("FindWindowW")
)

// Windows constants
const (
	HWND_TOPMOST     = ^uintptr(0) // -1
	HWND_NOTOPMOST   = ^uintptr(1) // -2
	SWP_NOMOVE       = 0x0002
	SWP_NOSIZE       = 0x0001
	SWP_NOACTIVATE   = 0x0010
	SWP_FRAMECHANGED = 0x0020

	WS_EX_LAYERED     = 0x00080000
	WS_EX_TRANSPARENT = 0x00000020
	WS_EX_TOOLWINDOW  = 0x00000080
	WS_EX_NOACTIVATE  = 0x08000000

	LWA_ALPHA = 0x00000002
)

// gwlExStyle is GWL_EXSTYLE (-20) as uintptr, computed at runtime to avoid overflow
var gwlExStyle = negativeToUintptr(-20)

func negativeToUintptr(v int32) uintptr {
	return uintptr(uint32(v))
}

// RECT structure for Windows API
type RECT struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

// WindowsFeatures implements Features with user32 calls.
type WindowsFeatures struct{}

// New returns the features of the running platform.
func New() Features {
	return &WindowsFeatures{}
}

// FindWindow extracts the native window handle by title
func (w *WindowsFeatures) FindWindow(title string) (WindowHandle, error) {
	titlePtr, err := syscall.UTF16PtrFromString(title)
	if err != nil {
		return 0, fmt.Errorf("invalid title %q: %w", title, err)
	}

	hwnd, _, callErr := procFindWindow.Call(
		0,
		uintptr(unsafe.Pointer(titlePtr)),
	)
	if hwnd == 0 {
		return 0, fmt.Errorf("FindWindow failed: %w", callErr)
	}

	// Overlays are tool windows: no taskbar button, no focus stealing.
	exStyle, _, _ := procGetWindowLong.Call(hwnd, gwlExStyle)
	procSetWindowLong.Call(hwnd, gwlExStyle, exStyle|WS_EX_TOOLWINDOW|WS_EX_NOACTIVATE)

	return WindowHandle(hwnd), nil
}

// SetAlwaysOnTop sets the window to always be on top
func (w *WindowsFeatures) SetAlwaysOnTop(handle WindowHandle, onTop bool) error {
	insertAfter := HWND_NOTOPMOST
	if onTop {
		insertAfter = HWND_TOPMOST
	}

	ret, _, err := procSetWindowPos.Call(
		uintptr(handle),
		insertAfter,
		0, 0, 0, 0,
		SWP_NOMOVE|SWP_NOSIZE|SWP_NOACTIVATE|SWP_FRAMECHANGED,
	)
	if ret == 0 {
		return fmt.Errorf("SetWindowPos failed: %w", err)
	}
	return nil
}

// SetClickThrough makes the window ignore mouse clicks
func (w *WindowsFeatures) SetClickThrough(handle WindowHandle, clickThrough bool) error {
	exStyle, _, _ := procGetWindowLong.Call(uintptr(handle), gwlExStyle)

	var newStyle uintptr
	if clickThrough {
		newStyle = exStyle | WS_EX_TRANSPARENT | WS_EX_LAYERED
	} else {
		newStyle = exStyle &^ WS_EX_TRANSPARENT
	}

	ret, _, err := procSetWindowLong.Call(uintptr(handle), gwlExStyle, newStyle)
	if ret == 0 && err != syscall.Errno(0) {
		return fmt.Errorf("SetWindowLong failed: %w", err)
	}

	// A layered window without attributes is never drawn.
	if newStyle&WS_EX_LAYERED != 0 {
		procSetLayeredWindowAttr.Call(uintptr(handle), 0, 255, LWA_ALPHA)
	}
	return nil
}

// MoveAndResizeWindow moves and resizes a window
func (w *WindowsFeatures) MoveAndResizeWindow(handle WindowHandle, x, y, width, height int) error {
	ret, _, err := procMoveWindow.Call(
		uintptr(handle),
		uintptr(x),
		uintptr(y),
		uintptr(width),
		uintptr(height),
		1,
	)
	if ret == 0 {
		return fmt.Errorf("MoveWindow failed: %w", err)
	}
	return nil
}

// GetWindowRect returns the actual window position and size (including frame/title bar)
func (w *WindowsFeatures) GetWindowRect(handle WindowHandle) (x, y, width, height int, err error) {
	var rect RECT
	ret, _, callErr := procGetWindowRect.Call(
		uintptr(handle),
		uintptr(unsafe.Pointer(&rect)),
	)
	if ret == 0 {
		return 0, 0, 0, 0, fmt.Errorf("GetWindowRect failed: %w", callErr)
	}
	return int(rect.Left), int(rect.Top),
		int(rect.Right - rect.Left), int(rect.Bottom - rect.Top), nil
}
