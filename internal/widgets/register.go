// Package widgets holds the built-in widget kinds that overlay and widget
// definitions can name.
package widgets

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"

	"dockhud/internal/modules"
	"dockhud/internal/ui"
)

// Register adds the built-in kinds to r:
//
//	clock      format, size, color
//	note       text, bold
//	countdown  label, minutes
func Register(r *modules.Registry) {
	r.Register("clock", buildClock)
	r.Register("note", buildNote)
	r.Register("countdown", buildCountdown)
}

func buildClock(_ string, opts modules.Options) (fyne.CanvasObject, error) {
	c, err := ui.ParseBackground(opts.String("color", "white"))
	if err != nil {
		return nil, fmt.Errorf("clock color: %w", err)
	}
	return NewClock(opts.String("format", DefaultClockFormat), float32(opts.Float("size", 28)), c), nil
}

func buildNote(module string, opts modules.Options) (fyne.CanvasObject, error) {
	bold, _ := opts["bold"].(bool)
	return NewNote(opts.String("text", module), bold), nil
}

func buildCountdown(_ string, opts modules.Options) (fyne.CanvasObject, error) {
	minutes := opts.Float("minutes", 25)
	if minutes <= 0 {
		return nil, fmt.Errorf("countdown minutes must be positive, got %v", minutes)
	}
	period := time.Duration(minutes * float64(time.Minute))
	return NewCountdown(opts.String("label", "Timer"), time.Now(), period), nil
}
