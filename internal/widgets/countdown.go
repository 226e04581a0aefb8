package widgets

import (
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Countdown is a repeating timer: the bar drains over each period and the
// text shows what is left of it. The bar turns yellow for the last quarter
// of a period and red for the last tenth.
//
//	Focus                     12:30 left
//	[======left======                 ]
type Countdown struct {
	widget.BaseWidget
	start  time.Time
	period time.Duration
	left   float64

	label     *canvas.Text
	remaining *canvas.Text
	track     *canvas.Rectangle
	fill      *canvas.Rectangle
	bar       *fyne.Container
}

const barHeight = 8

// NewCountdown creates a countdown whose first period starts at start.
func NewCountdown(label string, start time.Time, period time.Duration) *Countdown {
	if period <= 0 {
		period = 25 * time.Minute
	}
	w := &Countdown{start: start, period: period}

	w.label = canvas.NewText(label, colorWhite)
	w.label.TextSize = 14
	w.label.TextStyle = fyne.TextStyle{Bold: true}

	w.remaining = canvas.NewText("", colorGray)
	w.remaining.TextSize = 12

	w.track = canvas.NewRectangle(colorTrack)
	w.track.CornerRadius = barHeight / 2
	w.fill = canvas.NewRectangle(colorTimeLeft)
	w.fill.CornerRadius = barHeight / 2
	w.bar = container.New(&drainLayout{w: w}, w.track, w.fill)

	w.Tick(start)
	w.ExtendBaseWidget(w)
	return w
}

// Tick updates the bar and remaining time for now.
func (w *Countdown) Tick(now time.Time) {
	elapsed := now.Sub(w.start) % w.period
	if elapsed < 0 {
		elapsed += w.period
	}
	w.left = 1 - float64(elapsed)/float64(w.period)
	w.fill.FillColor = timeLeftColor(w.left)
	w.bar.Refresh()
	w.remaining.Text = formatRemaining(w.period-elapsed) + " left"
	w.remaining.Refresh()
}

// Remaining returns the remaining-time text.
func (w *Countdown) Remaining() string {
	return w.remaining.Text
}

// Left returns the fraction of the period still to run, from 1 down to 0.
func (w *Countdown) Left() float64 {
	return w.left
}

func (w *Countdown) CreateRenderer() fyne.WidgetRenderer {
	top := container.NewHBox(w.label, layout.NewSpacer(), w.remaining)
	body := container.NewVBox(top, w.bar)
	return &tickingRenderer{
		WidgetRenderer: widget.NewSimpleRenderer(body),
		ticker:         startTicker(time.Second, w.Tick),
	}
}

func formatRemaining(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

func timeLeftColor(left float64) color.Color {
	switch {
	case left <= 0.10:
		return colorTimeOut
	case left <= 0.25:
		return colorTimeLow
	default:
		return colorTimeLeft
	}
}

// drainLayout draws the track across the full width and the fill over the
// part of the period that is left, both vertically centered.
type drainLayout struct {
	w *Countdown
}

func (l *drainLayout) MinSize([]fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(80, barHeight)
}

func (l *drainLayout) Layout(_ []fyne.CanvasObject, size fyne.Size) {
	y := (size.Height - barHeight) / 2
	l.w.track.Resize(fyne.NewSize(size.Width, barHeight))
	l.w.track.Move(fyne.NewPos(0, y))
	l.w.fill.Resize(fyne.NewSize(drainWidth(size.Width, l.w.left), barHeight))
	l.w.fill.Move(fyne.NewPos(0, y))
}

func drainWidth(width float32, left float64) float32 {
	return max(0, min(width, width*float32(left)))
}
