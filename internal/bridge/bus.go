// Package bridge marshals events published on any goroutine onto the GUI
// goroutine.
package bridge

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Callback receives the arguments given to Publish.
type Callback func(args ...any)

// Subscription is the handle returned by Subscribe. Owners keep it and call
// Unsubscribe when they are torn down.
type Subscription struct {
	bus    *Bus
	event  string
	id     uint64
	cb     Callback
	active atomic.Bool
}

// Unsubscribe removes the callback. Deliveries already scheduled but not yet
// run are skipped. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.bus == nil {
		return
	}
	s.bus.Unsubscribe(s)
}

// Bus is a publish/subscribe hub whose callbacks always run through its
// Dispatcher, so publishers on background goroutines never run GUI code
// themselves.
type Bus struct {
	dispatcher Dispatcher

	mu        sync.RWMutex
	listeners map[string][]*Subscription
	nextID    uint64
}

// New returns a bus delivering on d.
func New(d Dispatcher) *Bus {
	return &Bus{
		dispatcher: d,
		listeners:  make(map[string][]*Subscription),
	}
}

// Subscribe registers cb for event. Callbacks for one event run in
// subscription order.
func (b *Bus) Subscribe(event string, cb Callback) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{bus: b, event: event, id: b.nextID, cb: cb}
	sub.active.Store(true)
	b.listeners[event] = append(b.listeners[event], sub)
	return sub
}

// Unsubscribe removes sub from the bus.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	sub.active.Store(false)

	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.listeners[sub.event]
	for i, s := range subs {
		if s.id == sub.id {
			subs = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(subs) == 0 {
		delete(b.listeners, sub.event)
	} else {
		b.listeners[sub.event] = subs
	}
}

// Publish schedules every callback subscribed to event and returns
// immediately. It may be called from any goroutine.
func (b *Bus) Publish(event string, args ...any) {
	b.mu.RLock()
	subs := append([]*Subscription(nil), b.listeners[event]...)
	b.mu.RUnlock()

	if len(subs) == 0 {
		return
	}

	b.dispatcher.Do(func() {
		for _, sub := range subs {
			if sub.active.Load() {
				invoke(event, sub.cb, args)
			}
		}
	})
}

// Subscribers returns the number of callbacks registered for event.
func (b *Bus) Subscribers(event string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[event])
}

func invoke(event string, cb Callback, args []any) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("bus callback panicked", "event", event, "panic", fmt.Sprint(r))
		}
	}()
	cb(args...)
}
