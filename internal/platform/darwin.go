//go:build darwin

package platform

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// DarwinFeatures implements Features for macOS. Windows are addressed by
// title through System Events, so handles index a title table.
type DarwinFeatures struct {
	mu     sync.Mutex
	titles []string
}

// New returns the features of the running platform.
func New() Features {
	return &DarwinFeatures{}
}

// FindWindow registers title and returns a handle for it.
func (d *DarwinFeatures) FindWindow(title string) (WindowHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, t := range d.titles {
		if t == title {
			return WindowHandle(i + 1), nil
		}
	}
	d.titles = append(d.titles, title)
	return WindowHandle(len(d.titles)), nil
}

func (d *DarwinFeatures) title(handle WindowHandle) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := int(handle) - 1
	if i < 0 || i >= len(d.titles) {
		return "", fmt.Errorf("unknown window handle %d", handle)
	}
	return d.titles[i], nil
}

// SetAlwaysOnTop needs NSWindow levels, which require CGO.
func (d *DarwinFeatures) SetAlwaysOnTop(handle WindowHandle, onTop bool) error {
	return ErrUnsupported
}

// SetClickThrough needs NSWindow.ignoresMouseEvents, which requires CGO.
func (d *DarwinFeatures) SetClickThrough(handle WindowHandle, clickThrough bool) error {
	return ErrUnsupported
}

// GetWindowRect is not available without CGO.
func (d *DarwinFeatures) GetWindowRect(handle WindowHandle) (x, y, width, height int, err error) {
	return 0, 0, 0, 0, ErrUnsupported
}

// MoveAndResizeWindow moves and resizes using AppleScript
func (d *DarwinFeatures) MoveAndResizeWindow(handle WindowHandle, x, y, width, height int) error {
	title, err := d.title(handle)
	if err != nil {
		return err
	}
	script := fmt.Sprintf(`
		tell application "System Events"
			tell (first process whose unix id is %d)
				set position of window "%s" to {%d, %d}
				set size of window "%s" to {%d, %d}
			end tell
		end tell`, os.Getpid(), escapeAppleScript(title), x, y, escapeAppleScript(title), width, height)
	cmd := exec.Command("osascript", "-e", script)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("AppleScript move/resize failed: %w", err)
	}
	return nil
}

func escapeAppleScript(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
