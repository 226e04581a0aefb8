//go:build linux

package platform

import (
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// LinuxFeatures implements Features for X11 using xdotool and wmctrl.
type LinuxFeatures struct{}

// New returns the features of the running platform.
func New() Features {
	return &LinuxFeatures{}
}

// FindWindow finds a window by exact title using xdotool
func (l *LinuxFeatures) FindWindow(title string) (WindowHandle, error) {
	pattern := "^" + regexp.QuoteMeta(title) + "$"
	out, err := exec.Command("xdotool", "search", "--name", pattern).Output()
	if err != nil {
		return 0, fmt.Errorf("xdotool search failed: %w", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) == 0 || lines[0] == "" {
		return 0, fmt.Errorf("window not found: %s", title)
	}
	id, err := strconv.ParseUint(lines[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid window id: %s", lines[0])
	}
	return WindowHandle(id), nil
}

// SetAlwaysOnTop toggles the _NET_WM_STATE_ABOVE hint with wmctrl
func (l *LinuxFeatures) SetAlwaysOnTop(handle WindowHandle, onTop bool) error {
	action := "add"
	if !onTop {
		action = "remove"
	}
	cmd := exec.Command("wmctrl", "-i", "-r", fmt.Sprintf("0x%x", handle), "-b", action+",above")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("always-on-top not available (install wmctrl): %w", err)
	}
	return nil
}

// SetClickThrough needs an X input shape, which no command line tool sets.
// Overlays stay input transparent at the toolkit level instead.
func (l *LinuxFeatures) SetClickThrough(handle WindowHandle, clickThrough bool) error {
	return ErrUnsupported
}

// GetWindowRect returns the window position and size
func (l *LinuxFeatures) GetWindowRect(handle WindowHandle) (x, y, width, height int, err error) {
	out, cmdErr := exec.Command("xdotool", "getwindowgeometry", "--shell", fmt.Sprintf("%d", handle)).Output()
	if cmdErr != nil {
		return 0, 0, 0, 0, fmt.Errorf("xdotool getwindowgeometry failed: %w", cmdErr)
	}
	for _, line := range strings.Split(string(out), "\n") {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		val, _ := strconv.Atoi(strings.TrimSpace(value))
		switch key {
		case "X":
			x = val
		case "Y":
			y = val
		case "WIDTH":
			width = val
		case "HEIGHT":
			height = val
		}
	}
	return x, y, width, height, nil
}

// MoveAndResizeWindow moves and resizes a window
func (l *LinuxFeatures) MoveAndResizeWindow(handle WindowHandle, x, y, width, height int) error {
	cmd := exec.Command("xdotool", "windowmove",
		fmt.Sprintf("%d", handle), fmt.Sprintf("%d", x), fmt.Sprintf("%d", y))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("xdotool windowmove failed: %w", err)
	}
	cmd = exec.Command("xdotool", "windowsize",
		fmt.Sprintf("%d", handle), fmt.Sprintf("%d", width), fmt.Sprintf("%d", height))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("xdotool windowsize failed: %w", err)
	}
	return nil
}
