package hotkeys

import (
	"sync"
	"time"
)

// DefaultEnableGrace is how long an OS hook may take to confirm it is
// installed before it counts as dead.
const DefaultEnableGrace = 2 * time.Second

// Liveness tracks an OS hook from its own status reports. A hook is alive
// once it confirms it is enabled, and until it reports it was disabled or
// its event stream ends. A hook that never confirms is given the grace
// period after Start, then counts as dead.
type Liveness struct {
	mu      sync.Mutex
	grace   time.Duration
	started time.Time
	enabled bool
	ended   bool
}

// NewLiveness returns a tracker; a non-positive grace uses
// DefaultEnableGrace.
func NewLiveness(grace time.Duration) *Liveness {
	if grace <= 0 {
		grace = DefaultEnableGrace
	}
	return &Liveness{grace: grace}
}

// Start resets the tracker for a hook installed at now.
func (l *Liveness) Start(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.started = now
	l.enabled = false
	l.ended = false
}

// Enabled records the hook's confirmation that it is running.
func (l *Liveness) Enabled() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = true
}

// Ended records that the hook was disabled or its events stopped.
func (l *Liveness) Ended() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ended = true
}

// Alive reports whether the hook is running at now.
func (l *Liveness) Alive(now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch {
	case l.started.IsZero() || l.ended:
		return false
	case l.enabled:
		return true
	default:
		return now.Sub(l.started) < l.grace
	}
}
