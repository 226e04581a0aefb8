package hotkeys

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
)

// ChordSeparator joins key names in a chord string.
const ChordSeparator = "+"

// Detector turns a stream of key presses and releases into chord strings.
//
// Pressed keys are kept in press order and a chord is composed in that same
// order, so "ctrl+shift+f9" and "shift+ctrl+f9" are different chords. A chord
// fires only while a modifier is held or when the new key is a function key,
// and it fires once per physical press: auto-repeat of a held chord is
// suppressed until one of its keys is released.
type Detector struct {
	mu        sync.Mutex
	pressed   []string
	lastSent  string
	lastEvent time.Time

	now      func() time.Time
	dispatch func(chord string)
}

// NewDetector returns a Detector that calls dispatch for every new chord.
// dispatch runs on the caller's goroutine and must not block.
func NewDetector(dispatch func(chord string)) *Detector {
	return &Detector{
		now:       time.Now,
		dispatch:  dispatch,
		lastEvent: time.Now(),
	}
}

// Press records a key-down event.
func (d *Detector) Press(k Key) {
	name, ok := Normalize(k)
	if !ok {
		return
	}

	d.mu.Lock()
	if lo.Contains(d.pressed, name) {
		d.mu.Unlock()
		return
	}
	d.pressed = append(d.pressed, name)
	d.lastEvent = d.now()

	if !IsFunctionKey(name) && !lo.Some(d.pressed, modifiers) {
		d.mu.Unlock()
		return
	}

	chord := composeChord(d.pressed)
	if chord == "" || chord == d.lastSent {
		d.mu.Unlock()
		return
	}
	d.lastSent = chord
	d.mu.Unlock()

	slog.Debug("shortcut detected", "chord", chord)
	if d.dispatch != nil {
		d.dispatch(chord)
	}
}

// Release records a key-up event. Releasing any key of the last chord re-arms it.
func (d *Detector) Release(k Key) {
	name, ok := Normalize(k)
	if !ok {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.pressed = lo.Without(d.pressed, name)
	if d.lastSent != "" && lo.Contains(strings.Split(d.lastSent, ChordSeparator), name) {
		d.lastSent = ""
	}
	d.lastEvent = d.now()
}

// Pressed returns a copy of the currently held keys in press order.
func (d *Detector) Pressed() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.pressed...)
}

// LastSent returns the last dispatched chord, or "" once it has been re-armed.
func (d *Detector) LastSent() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastSent
}

// purge drops dead or invalid keys that slipped into the pressed set.
func (d *Detector) purge() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	before := len(d.pressed)
	d.pressed = lo.Reject(d.pressed, func(k string, _ int) bool {
		return isIgnored(k)
	})
	return before - len(d.pressed)
}

// resetIfStale clears the pressed keys and the last chord when keys are
// held but no event has arrived for longer than timeout. This recovers from
// key-up events the OS dropped, typically after alt-tab or a screen lock.
func (d *Detector) resetIfStale(timeout time.Duration) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.pressed) == 0 || d.now().Sub(d.lastEvent) <= timeout {
		return false
	}
	d.pressed = nil
	d.lastSent = ""
	return true
}

func composeChord(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	return strings.Join(lo.Uniq(keys), ChordSeparator)
}

// ParseChord turns a user-written chord such as "Ctrl+Shift+F9" into the form
// the detector publishes. Keys that normalize to nothing are dropped.
func ParseChord(s string) string {
	var keys []string
	for _, part := range strings.Split(s, ChordSeparator) {
		if name, ok := Normalize(NamedKey(part)); ok {
			keys = append(keys, name)
		}
	}
	return composeChord(keys)
}
