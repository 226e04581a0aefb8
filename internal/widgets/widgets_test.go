package widgets

import (
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dockhud/internal/modules"
)

func TestClockTick(t *testing.T) {
	test.NewTempApp(t)
	c := NewClock("15:04", 20, nil)

	c.Tick(time.Date(2024, 1, 2, 9, 5, 0, 0, time.UTC))
	assert.Equal(t, "09:05", c.Text())
}

func TestCountdownTick(t *testing.T) {
	test.NewTempApp(t)
	start := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	c := NewCountdown("Focus", start, 10*time.Minute)

	assert.Equal(t, "10:00 left", c.Remaining())
	assert.Equal(t, 1.0, c.Left())
	assert.Equal(t, colorTimeLeft, c.fill.FillColor)

	c.Tick(start.Add(7*time.Minute + 30*time.Second))
	assert.Equal(t, "02:30 left", c.Remaining())
	assert.InDelta(t, 0.25, c.Left(), 0.001)
	assert.Equal(t, colorTimeLow, c.fill.FillColor)

	c.Tick(start.Add(9*time.Minute + 30*time.Second))
	assert.Equal(t, "00:30 left", c.Remaining())
	assert.Equal(t, colorTimeOut, c.fill.FillColor)

	// Periods repeat.
	c.Tick(start.Add(21 * time.Minute))
	assert.Equal(t, "09:00 left", c.Remaining())
}

func TestFormatRemaining(t *testing.T) {
	assert.Equal(t, "00:59", formatRemaining(59*time.Second))
	assert.Equal(t, "1:00:05", formatRemaining(time.Hour+5*time.Second))
}

func TestTimeLeftColor(t *testing.T) {
	assert.Equal(t, colorTimeLeft, timeLeftColor(0.9))
	assert.Equal(t, colorTimeLeft, timeLeftColor(0.26))
	assert.Equal(t, colorTimeLow, timeLeftColor(0.25))
	assert.Equal(t, colorTimeOut, timeLeftColor(0.10))
	assert.Equal(t, colorTimeOut, timeLeftColor(0))
}

func TestCountdownBarDrains(t *testing.T) {
	test.NewTempApp(t)
	start := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	c := NewCountdown("Focus", start, 10*time.Minute)
	c.bar.Resize(fyne.NewSize(200, 20))
	assert.Equal(t, fyne.NewSize(200, barHeight), c.fill.Size())
	assert.Equal(t, float32(6), c.fill.Position().Y, "bar is centered")

	c.Tick(start.Add(6 * time.Minute))
	assert.InDelta(t, 80, c.fill.Size().Width, 0.01)
	assert.Equal(t, float32(200), c.track.Size().Width)

	assert.Equal(t, float32(0), drainWidth(100, -0.5))
	assert.Equal(t, float32(100), drainWidth(100, 1.5))
}

func TestRegisteredKinds(t *testing.T) {
	test.NewTempApp(t)
	r := modules.NewRegistry()
	Register(r)
	assert.Equal(t, []string{"clock", "countdown", "note"}, r.Kinds())

	build, err := r.Lookup("note")
	require.NoError(t, err)
	obj, err := build("weather", modules.Options{"bold": true})
	require.NoError(t, err)
	label := obj.(*widget.Label)
	assert.Equal(t, "weather", label.Text, "notes default to the module name")
	assert.True(t, label.TextStyle.Bold)

	build, err = r.Lookup("clock")
	require.NoError(t, err)
	_, err = build("m", modules.Options{"color": "not-a-color"})
	assert.Error(t, err)
	obj, err = build("m", modules.Options{"format": "2006"})
	require.NoError(t, err)
	assert.Len(t, obj.(*Clock).Text(), 4)

	build, err = r.Lookup("countdown")
	require.NoError(t, err)
	_, err = build("m", modules.Options{"minutes": 0})
	assert.Error(t, err)
	obj, err = build("m", modules.Options{"minutes": 1})
	require.NoError(t, err)
	assert.Equal(t, "01:00 left", obj.(*Countdown).Remaining())
}

func TestRenderedClockStopsTicking(t *testing.T) {
	test.NewTempApp(t)
	c := NewClock("", 12, nil)
	w := test.NewWindow(c)
	defer w.Close()

	r := test.WidgetRenderer(c).(*tickingRenderer)
	r.Destroy()
	select {
	case <-r.ticker.stop:
	default:
		t.Fatal("ticker still running after Destroy")
	}
}
