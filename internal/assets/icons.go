package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"sync"

	"fyne.io/fyne/v2"
)

// IconSize is the edge length of the rendered icon in pixels.
const IconSize = 64

var (
	iconOnce sync.Once
	iconPNG  []byte
)

// TrayIcon returns the system tray icon resource
func TrayIcon() fyne.Resource {
	return fyne.NewStaticResource("tray.png", iconBytes())
}

// AppIcon returns the application icon resource
func AppIcon() fyne.Resource {
	return fyne.NewStaticResource("app.png", iconBytes())
}

func iconBytes() []byte {
	iconOnce.Do(func() {
		var buf bytes.Buffer
		if err := png.Encode(&buf, RenderIcon()); err == nil {
			iconPNG = buf.Bytes()
		}
	})
	return iconPNG
}

// RenderIcon draws the icon: a dark rounded tile holding a translucent
// panel with a frame, the shape of an overlay floating over a window.
func RenderIcon() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, IconSize, IconSize))

	tile := color.RGBA{32, 33, 35, 255}
	window := color.RGBA{55, 57, 61, 255}
	panel := color.RGBA{88, 140, 236, 255}
	accent := color.RGBA{234, 179, 8, 255}

	fillRounded(img, 2, 2, IconSize-4, IconSize-4, 12, tile)
	// Background application window.
	fillRounded(img, 10, 14, 44, 36, 4, window)
	// Overlay panel on top.
	fillRounded(img, 26, 8, 30, 22, 4, panel)
	// Edit handle in the panel's corner.
	fillRounded(img, 48, 24, 6, 6, 2, accent)
	return img
}

func fillRounded(img *image.RGBA, x, y, w, h int, radius float64, c color.Color) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			px, py := float64(x+dx), float64(y+dy)
			if inRoundedRect(px, py, float64(x), float64(y), float64(w), float64(h), radius) {
				img.Set(x+dx, y+dy, c)
			}
		}
	}
}

func inRoundedRect(px, py, rx, ry, rw, rh, radius float64) bool {
	if px < rx || px >= rx+rw || py < ry || py >= ry+rh {
		return false
	}

	// Distance to the nearest corner centre, only inside corner regions.
	cx := math.Max(rx+radius, math.Min(px, rx+rw-radius))
	cy := math.Max(ry+radius, math.Min(py, ry+rh-radius))
	if (px < rx+radius || px >= rx+rw-radius) && (py < ry+radius || py >= ry+rh-radius) {
		return math.Hypot(px-cx, py-cy) <= radius
	}
	return true
}
