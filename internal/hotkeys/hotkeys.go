package hotkeys

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ErrHookUnavailable is returned when the OS key hook cannot be started.
var ErrHookUnavailable = errors.New("global key hook unavailable")

// EventPrefix prefixes every chord published on the bus.
const EventPrefix = "shortcut."

// EventName returns the bus event name published for a chord.
func EventName(chord string) string {
	return EventPrefix + chord
}

// Publisher is the part of the event bus the listener needs.
// Publish must only schedule delivery and return immediately.
type Publisher interface {
	Publish(event string, args ...any)
}

// KeyEventKind distinguishes presses from releases.
type KeyEventKind int

const (
	KeyPressed KeyEventKind = iota
	KeyReleased
)

// KeyEvent is a single event from the OS key hook.
type KeyEvent struct {
	Kind KeyEventKind
	Key  Key
}

// KeyHook is an OS-level global keyboard hook.
type KeyHook interface {
	// Start begins delivering events to handler on the hook's own goroutine.
	Start(handler func(KeyEvent)) error
	// Alive reports whether the hook is still delivering events.
	Alive() bool
	// Stop ends the hook and waits for its goroutine to exit.
	Stop()
}

// Options tunes the listener's supervisor.
type Options struct {
	WatchdogInterval time.Duration
	StuckKeyTimeout  time.Duration
	JoinTimeout      time.Duration
}

// DefaultOptions returns the supervisor timings: a 3s tick, stuck keys
// cleared after 10s of silence, and a 1s bound on joining the hook at stop.
func DefaultOptions() Options {
	return Options{
		WatchdogInterval: 3 * time.Second,
		StuckKeyTimeout:  10 * time.Second,
		JoinTimeout:      time.Second,
	}
}

// failureAlarm is the number of consecutive failed restarts after which the
// supervisor logs at error level.
const failureAlarm = 3

// Listener captures global key events on a background hook, turns them into
// chords and publishes each chord on the bus as EventName(chord). A
// supervisor goroutine cleans up stuck keys and restarts a dead hook.
type Listener struct {
	bus      Publisher
	detector *Detector
	newHook  func() KeyHook
	opts     Options

	mu       sync.Mutex
	hook     KeyHook
	running  bool
	stop     chan struct{}
	done     chan struct{}
	failures int

	// generation invalidates handlers bound to a replaced hook.
	generation atomic.Uint64
}

// NewListener creates a listener. newHook is called for the initial hook and
// again whenever the supervisor finds the hook dead.
func NewListener(bus Publisher, newHook func() KeyHook, opts Options) *Listener {
	def := DefaultOptions()
	if opts.WatchdogInterval <= 0 {
		opts.WatchdogInterval = def.WatchdogInterval
	}
	if opts.StuckKeyTimeout <= 0 {
		opts.StuckKeyTimeout = def.StuckKeyTimeout
	}
	if opts.JoinTimeout <= 0 {
		opts.JoinTimeout = def.JoinTimeout
	}

	l := &Listener{
		bus:     bus,
		newHook: newHook,
		opts:    opts,
	}
	l.detector = NewDetector(l.publish)
	return l
}

// Detector exposes the chord state machine, mainly for diagnostics.
func (l *Listener) Detector() *Detector {
	return l.detector
}

// Start starts the hook and its supervisor. If the hook fails to start the
// error is returned, but the supervisor keeps running and retries it on every
// tick.
func (l *Listener) Start() error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return nil
	}
	l.running = true
	l.stop = make(chan struct{})
	l.done = make(chan struct{})
	err := l.startHookLocked()
	l.mu.Unlock()

	go l.supervise(l.stop, l.done)

	if err != nil {
		slog.Warn("key hook failed to start, supervisor will retry", "error", err)
		return err
	}
	slog.Info("shortcut listener started",
		"watchdog", l.opts.WatchdogInterval, "stuck_timeout", l.opts.StuckKeyTimeout)
	return nil
}

// Stop stops the supervisor and the hook. Joining the hook is bounded by
// JoinTimeout; a hook that does not exit in time is abandoned with a warning.
func (l *Listener) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	close(l.stop)
	done := l.done
	hook := l.hook
	l.hook = nil
	l.generation.Add(1)
	l.mu.Unlock()

	<-done

	if hook != nil && !l.join(hook) {
		slog.Warn("key hook did not stop in time, abandoning it", "timeout", l.opts.JoinTimeout)
	}
	slog.Info("shortcut listener stopped")
}

// IsRunning returns whether the listener has been started and not stopped.
func (l *Listener) IsRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// startHookLocked creates a fresh hook bound to a new generation. l.mu must be held.
func (l *Listener) startHookLocked() error {
	gen := l.generation.Add(1)
	hook := l.newHook()
	if hook == nil {
		return ErrHookUnavailable
	}
	if err := hook.Start(func(ev KeyEvent) { l.handle(gen, ev) }); err != nil {
		return err
	}
	l.hook = hook
	return nil
}

// handle runs on the hook goroutine. Events from a replaced hook are dropped
// so a restart never delivers the same key twice.
func (l *Listener) handle(gen uint64, ev KeyEvent) {
	if l.generation.Load() != gen {
		return
	}
	switch ev.Kind {
	case KeyPressed:
		l.detector.Press(ev.Key)
	case KeyReleased:
		l.detector.Release(ev.Key)
	}
}

func (l *Listener) publish(chord string) {
	if l.bus != nil {
		l.bus.Publish(EventName(chord))
	}
}
