package bridge

import (
	"context"
	"sync"

	"fyne.io/fyne/v2"
)

// Dispatcher schedules work on the GUI goroutine. Do must never block the
// caller waiting for fn to run, and must run functions in the order they
// were scheduled.
type Dispatcher interface {
	Do(fn func())
}

// FyneDispatcher schedules work on the fyne main goroutine.
type FyneDispatcher struct{}

// Do queues fn with fyne.Do.
func (FyneDispatcher) Do(fn func()) {
	fyne.Do(fn)
}

// Loop is a Dispatcher backed by a single goroutine running Run. It is used
// for headless runs and tests where no fyne event loop exists. The queue is
// unbounded so Do never blocks.
type Loop struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
}

// NewLoop returns an idle loop. Call Run on the goroutine that should own
// the scheduled work.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Do appends fn to the queue.
func (l *Loop) Do(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run executes queued functions until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.wake:
			l.drain()
		}
	}
}

func (l *Loop) drain() {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		for _, fn := range batch {
			fn()
		}
	}
}
