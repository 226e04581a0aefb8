package ui

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"dockhud/internal/overlay"
	"dockhud/internal/platform"
)

// Window handles only exist once the window is mapped, so lookups retry.
const (
	findAttempts = 10
	findDelay    = 50 * time.Millisecond
)

// A shown window's real rect is read back every rectPoll to catch moves made
// by the window manager. Readings are skipped for moveSettle after our own
// move, which some window systems apply late.
const (
	rectPoll   = 2 * time.Second
	moveSettle = 500 * time.Millisecond
)

// nativeOps applies native window attributes on its own goroutine so the
// GUI goroutine never waits on window-system calls. Requests are coalesced:
// only the latest wanted state is applied.
type nativeOps struct {
	features platform.Features
	title    string

	mu           sync.Mutex
	geom         overlay.Rect
	clickThrough bool
	visible      bool
	handle       platform.WindowHandle

	// applied is the rect last sent to the window system. live is the rect
	// it last reported, valid until a new geometry is requested.
	applied overlay.Rect
	live    overlay.Rect
	liveOK  bool
	movedAt time.Time

	poll   time.Duration
	settle time.Duration

	kick chan struct{}
	quit chan struct{}
	done chan struct{}
	once sync.Once
}

func newNativeOps(features platform.Features, title string) *nativeOps {
	return startNativeOps(features, title, rectPoll, moveSettle)
}

func startNativeOps(features platform.Features, title string, poll, settle time.Duration) *nativeOps {
	n := &nativeOps{
		features:     features,
		title:        title,
		clickThrough: true,
		poll:         poll,
		settle:       settle,
		kick:         make(chan struct{}, 1),
		quit:         make(chan struct{}),
		done:         make(chan struct{}),
	}
	go n.run()
	return n
}

func (n *nativeOps) setGeometry(r overlay.Rect) {
	n.mu.Lock()
	n.geom = r
	n.liveOK = false
	n.mu.Unlock()
	n.poke()
}

// liveGeometry returns the rect the window system last reported for the
// current geometry request.
func (n *nativeOps) liveGeometry() (overlay.Rect, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.live, n.liveOK
}

func (n *nativeOps) setClickThrough(on bool) {
	n.mu.Lock()
	n.clickThrough = on
	n.mu.Unlock()
	n.poke()
}

func (n *nativeOps) setVisible(visible bool) {
	n.mu.Lock()
	n.visible = visible
	if !visible {
		// Some window systems recreate the native window on show.
		n.handle = 0
		n.applied = overlay.Rect{}
	}
	n.mu.Unlock()
	n.poke()
}

func (n *nativeOps) raise() {
	n.poke()
}

func (n *nativeOps) poke() {
	select {
	case n.kick <- struct{}{}:
	default:
	}
}

func (n *nativeOps) stop() {
	n.once.Do(func() { close(n.quit) })
	<-n.done
}

func (n *nativeOps) run() {
	defer close(n.done)
	ticker := time.NewTicker(n.poll)
	defer ticker.Stop()
	for {
		select {
		case <-n.quit:
			return
		case <-n.kick:
			n.apply()
		case <-ticker.C:
			n.readBack()
		}
	}
}

func (n *nativeOps) apply() {
	n.mu.Lock()
	geom, clickThrough, visible, handle := n.geom, n.clickThrough, n.visible, n.handle
	n.mu.Unlock()

	if !visible {
		return
	}
	if handle == 0 {
		handle = n.find()
		if handle == 0 {
			return
		}
		n.mu.Lock()
		n.handle = handle
		n.mu.Unlock()
	}

	report := func(op string, err error) {
		if err != nil && !errors.Is(err, platform.ErrUnsupported) {
			slog.Debug("native window op failed", "window", n.title, "op", op, "error", err)
		}
	}
	report("click-through", n.features.SetClickThrough(handle, clickThrough))
	report("always-on-top", n.features.SetAlwaysOnTop(handle, true))
	if geom.W > 0 && geom.H > 0 && geom != n.appliedRect() {
		err := n.features.MoveAndResizeWindow(handle, geom.X, geom.Y, geom.W, geom.H)
		report("move", err)
		if err == nil {
			n.mu.Lock()
			n.applied = geom
			n.movedAt = time.Now()
			n.mu.Unlock()
		}
	}
	n.readBack()
}

func (n *nativeOps) appliedRect() overlay.Rect {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.applied
}

// readBack records where the window really is. Nothing is read while a
// geometry request is still unapplied, and a reading that races a newer
// request is dropped.
func (n *nativeOps) readBack() {
	n.mu.Lock()
	geom, applied, visible, handle, movedAt := n.geom, n.applied, n.visible, n.handle, n.movedAt
	n.mu.Unlock()
	if !visible || handle == 0 || geom != applied || time.Since(movedAt) < n.settle {
		return
	}

	x, y, w, h, err := n.features.GetWindowRect(handle)
	if err != nil {
		if !errors.Is(err, platform.ErrUnsupported) {
			slog.Debug("native window op failed", "window", n.title, "op", "rect", "error", err)
		}
		return
	}
	if w <= 0 || h <= 0 {
		return
	}
	r := overlay.Rect{X: x, Y: y, W: w, H: h}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.geom != geom {
		return
	}
	if r != geom {
		slog.Debug("window moved by the window system", "window", n.title, "want", geom, "got", r)
	}
	// Adopt the real rect so a later show does not undo the move.
	n.geom = r
	n.applied = r
	n.live = r
	n.liveOK = true
}

func (n *nativeOps) find() platform.WindowHandle {
	for i := 0; i < findAttempts; i++ {
		handle, err := n.features.FindWindow(n.title)
		if err == nil && handle != 0 {
			return handle
		}
		if errors.Is(err, platform.ErrUnsupported) {
			return 0
		}
		select {
		case <-n.quit:
			return 0
		case <-time.After(findDelay):
		}
	}
	slog.Debug("native window not found", "window", n.title)
	return 0
}
