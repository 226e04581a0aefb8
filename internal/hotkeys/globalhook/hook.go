// Package globalhook feeds the shortcut listener from gohook (libuiohook).
package globalhook

import (
	"sync"
	"time"

	hook "github.com/robotn/gohook"

	"dockhud/internal/hotkeys"
)

// Hook is a hotkeys.KeyHook backed by gohook. gohook keeps a single
// process-wide hook, so only one Hook should be running at a time; the
// listener guarantees that by stopping a dead hook before creating the next.
type Hook struct {
	mu      sync.Mutex
	live    *hotkeys.Liveness
	running bool
	done    chan struct{}
}

// New returns an unstarted hook. Its signature matches the factory the
// listener expects.
func New() hotkeys.KeyHook {
	return &Hook{live: hotkeys.NewLiveness(hotkeys.DefaultEnableGrace)}
}

// Start installs the OS hook and pumps its events to handler.
func (h *Hook) Start(handler func(hotkeys.KeyEvent)) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.running {
		return nil
	}
	events := hook.Start()
	if events == nil {
		return hotkeys.ErrHookUnavailable
	}
	h.live.Start(time.Now())
	h.running = true
	h.done = make(chan struct{})
	go h.pump(events, handler, h.done)
	return nil
}

// Alive reports whether libuiohook confirmed the hook and has not since
// disabled it. A hook that never confirms is dead once the grace expires.
func (h *Hook) Alive() bool {
	return h.live.Alive(time.Now())
}

// Stop removes the OS hook and waits for the pump to drain.
func (h *Hook) Stop() {
	h.mu.Lock()
	done, running := h.done, h.running
	h.running = false
	h.mu.Unlock()

	if !running {
		return
	}
	hook.End()
	<-done
}

func (h *Hook) pump(events chan hook.Event, handler func(hotkeys.KeyEvent), done chan struct{}) {
	defer close(done)
	defer h.live.Ended()

	for ev := range events {
		switch ev.Kind {
		case hook.HookEnabled:
			h.live.Enabled()
		case hook.HookDisabled:
			h.live.Ended()
		default:
			if ke, ok := convert(ev); ok {
				handler(ke)
			}
		}
	}
}

// convert maps a hook event to a key event. libuiohook reports a physical
// press as KeyHold (repeated while held) and the typed character separately
// as KeyDown; only KeyHold and KeyUp pair up, and both carry the same
// layout-independent key code.
func convert(ev hook.Event) (hotkeys.KeyEvent, bool) {
	switch ev.Kind {
	case hook.KeyHold:
		return hotkeys.KeyEvent{Kind: hotkeys.KeyPressed, Key: hotkeys.KeyFromCode(ev.Keycode)}, true
	case hook.KeyUp:
		return hotkeys.KeyEvent{Kind: hotkeys.KeyReleased, Key: hotkeys.KeyFromCode(ev.Keycode)}, true
	}
	return hotkeys.KeyEvent{}, false
}
