package hotkeys

import (
	"log/slog"
	"time"
)

// supervise runs the watchdog until stop is closed.
func (l *Listener) supervise(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(l.opts.WatchdogInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			l.check()
		}
	}
}

// check is one watchdog tick: purge residue, clear stuck keys, revive the hook.
func (l *Listener) check() {
	if n := l.detector.purge(); n > 0 {
		slog.Debug("purged invalid keys", "count", n)
	}
	if l.detector.resetIfStale(l.opts.StuckKeyTimeout) {
		slog.Info("resetting stuck keys", "timeout", l.opts.StuckKeyTimeout)
	}

	l.mu.Lock()
	if !l.running || (l.hook != nil && l.hook.Alive()) {
		l.failures = 0
		l.mu.Unlock()
		return
	}
	dead := l.hook
	l.hook = nil
	l.generation.Add(1)
	l.mu.Unlock()

	slog.Warn("key hook is not running, restarting")
	if dead != nil && !l.join(dead) {
		slog.Warn("dead key hook did not stop in time", "timeout", l.opts.JoinTimeout)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.running {
		return
	}
	if err := l.startHookLocked(); err != nil {
		l.failures++
		if l.failures >= failureAlarm {
			slog.Error("key hook keeps failing to restart, shortcuts are unavailable",
				"attempts", l.failures, "error", err)
		} else {
			slog.Warn("key hook restart failed", "attempt", l.failures, "error", err)
		}
		return
	}
	l.failures = 0
	slog.Info("key hook restarted")
}

// join stops h, waiting at most JoinTimeout. It reports whether h exited.
func (l *Listener) join(h KeyHook) bool {
	joined := make(chan struct{})
	go func() {
		h.Stop()
		close(joined)
	}()
	select {
	case <-joined:
		return true
	case <-time.After(l.opts.JoinTimeout):
		return false
	}
}
