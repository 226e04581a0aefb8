package widgets

import (
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// DefaultClockFormat is the time layout of a clock without a format option.
const DefaultClockFormat = "15:04:05"

// Clock shows the current time, updated every second while rendered.
type Clock struct {
	widget.BaseWidget
	format string
	text   *canvas.Text
}

// NewClock creates a clock using a Go time layout.
func NewClock(format string, size float32, c color.Color) *Clock {
	if format == "" {
		format = DefaultClockFormat
	}
	if c == nil {
		c = colorWhite
	}
	w := &Clock{format: format, text: canvas.NewText("", c)}
	w.text.TextSize = size
	w.text.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	w.text.Alignment = fyne.TextAlignCenter
	w.Tick(time.Now())
	w.ExtendBaseWidget(w)
	return w
}

// Tick shows now.
func (w *Clock) Tick(now time.Time) {
	w.text.Text = now.Format(w.format)
	w.text.Refresh()
}

// Text returns the displayed time.
func (w *Clock) Text() string {
	return w.text.Text
}

func (w *Clock) CreateRenderer() fyne.WidgetRenderer {
	return &tickingRenderer{
		WidgetRenderer: widget.NewSimpleRenderer(container.NewCenter(w.text)),
		ticker:         startTicker(time.Second, w.Tick),
	}
}
