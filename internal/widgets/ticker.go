package widgets

import (
	"sync"
	"time"

	"fyne.io/fyne/v2"
)

// ticker calls fn on the GUI goroutine at a fixed interval until stopped.
type ticker struct {
	stop chan struct{}
	once sync.Once
}

func startTicker(every time.Duration, fn func(now time.Time)) *ticker {
	t := &ticker{stop: make(chan struct{})}
	go func() {
		tk := time.NewTicker(every)
		defer tk.Stop()
		for {
			select {
			case <-t.stop:
				return
			case now := <-tk.C:
				fyne.Do(func() { fn(now) })
			}
		}
	}()
	return t
}

func (t *ticker) Stop() {
	t.once.Do(func() { close(t.stop) })
}

// tickingRenderer stops the widget's ticker when fyne drops the renderer.
type tickingRenderer struct {
	fyne.WidgetRenderer
	ticker *ticker
}

func (r *tickingRenderer) Destroy() {
	r.ticker.Stop()
	r.WidgetRenderer.Destroy()
}
