package hotkeys

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	chords []string
}

func (r *recorder) dispatch(chord string) {
	r.chords = append(r.chords, chord)
}

func (r *recorder) count(chord string) int {
	n := 0
	for _, c := range r.chords {
		if c == chord {
			n++
		}
	}
	return n
}

func newTestDetector() (*Detector, *recorder) {
	r := &recorder{}
	return NewDetector(r.dispatch), r
}

var (
	ctrl  = NamedKey("Key.ctrl_l")
	shift = NamedKey("Key.shift")
	f9    = NamedKey("Key.f9")
)

func TestDetectorRepeatIsSuppressed(t *testing.T) {
	d, r := newTestDetector()

	d.Press(ctrl)
	d.Press(f9)
	d.Press(f9) // auto-repeat
	d.Press(f9)

	assert.Equal(t, []string{"ctrl", "ctrl+f9"}, r.chords)
	assert.Equal(t, 1, r.count("ctrl+f9"))
}

func TestDetectorRearmsAfterRelease(t *testing.T) {
	d, r := newTestDetector()

	d.Press(ctrl)
	d.Press(f9)
	d.Release(f9)
	assert.Empty(t, d.LastSent())
	d.Press(f9)

	assert.Equal(t, 2, r.count("ctrl+f9"))
}

func TestDetectorDeadKeyDoesNotBreakChord(t *testing.T) {
	d, r := newTestDetector()

	d.Press(ctrl)
	d.Press(CharKey('´'))
	d.Press(f9)

	assert.Equal(t, []string{"ctrl", "ctrl+f9"}, r.chords)
	assert.Equal(t, []string{"ctrl", "f9"}, d.Pressed())
}

func TestDetectorRequiresModifierUnlessFunctionKey(t *testing.T) {
	d, r := newTestDetector()

	d.Press(CharKey('a'))
	assert.Empty(t, r.chords)
	d.Release(CharKey('a'))

	d.Press(NamedKey("f10"))
	assert.Equal(t, []string{"f10"}, r.chords)
}

func TestDetectorKeepsPressOrder(t *testing.T) {
	d, r := newTestDetector()

	d.Press(ctrl)
	d.Press(shift)
	d.Press(f9)
	d.Release(ctrl)
	d.Release(shift)
	d.Release(f9)

	d.Press(shift)
	d.Press(ctrl)
	d.Press(f9)

	assert.Equal(t, []string{"ctrl", "ctrl+shift", "ctrl+shift+f9", "shift", "shift+ctrl", "shift+ctrl+f9"}, r.chords)
}

func TestDetectorReleaseOfUnrelatedKeyKeepsLastChord(t *testing.T) {
	d, r := newTestDetector()

	d.Press(ctrl)
	d.Press(f9)
	d.Release(shift)

	assert.Equal(t, "ctrl+f9", d.LastSent())
	assert.Equal(t, 1, r.count("ctrl+f9"))
}

func TestDetectorResetIfStale(t *testing.T) {
	d, r := newTestDetector()
	now := time.Unix(1000, 0)
	d.now = func() time.Time { return now }

	d.Press(ctrl)
	d.Press(f9)
	assert.False(t, d.resetIfStale(10*time.Second))

	now = now.Add(11 * time.Second)
	assert.True(t, d.resetIfStale(10*time.Second))
	assert.Empty(t, d.Pressed())
	assert.Empty(t, d.LastSent())

	// nothing held: nothing to reset
	now = now.Add(time.Minute)
	assert.False(t, d.resetIfStale(10*time.Second))

	d.Press(ctrl)
	d.Press(f9)
	assert.Equal(t, []string{"ctrl", "ctrl+f9", "ctrl", "ctrl+f9"}, r.chords)
}

func TestDetectorPurge(t *testing.T) {
	d, _ := newTestDetector()
	d.pressed = []string{"ctrl", "^", "f9", "_"}

	assert.Equal(t, 2, d.purge())
	assert.Equal(t, []string{"ctrl", "f9"}, d.Pressed())
}

func TestParseChord(t *testing.T) {
	assert.Equal(t, "f9", ParseChord("F9"))
	assert.Equal(t, "ctrl+shift+e", ParseChord("Control + Shift_L + E"))
	assert.Equal(t, "alt+f10", ParseChord("alt+alt_r+f10"))
	assert.Equal(t, "ctrl", ParseChord("ctrl+^"))
	assert.Empty(t, ParseChord(""))
}
