// Package watch re-runs SQL analysis when statement files change on disk.
package watch

import (
	"sort"
	"sync"
	"time"
)

// Debouncer collects change events per path and delivers them once the
// files have been quiet for the window. Editors often write a statement
// file several times per save; only the latest event for a path survives.
type Debouncer struct {
	window  time.Duration
	deliver func([]ChangeEvent)

	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]ChangeEvent
}

// NewDebouncer creates a debouncer that hands each quiet batch, sorted by
// path, to deliver.
func NewDebouncer(window time.Duration, deliver func([]ChangeEvent)) *Debouncer {
	return &Debouncer{
		window:  window,
		deliver: deliver,
		pending: make(map[string]ChangeEvent),
	}
}

// Add records ev and restarts the quiet window.
func (d *Debouncer) Add(ev ChangeEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[ev.Path] = ev
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flush)
}

// Stop cancels delivery of anything still pending.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = make(map[string]ChangeEvent)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	batch := make([]ChangeEvent, 0, len(d.pending))
	for _, ev := range d.pending {
		batch = append(batch, ev)
	}
	d.pending = make(map[string]ChangeEvent)
	d.mu.Unlock()

	if len(batch) == 0 || d.deliver == nil {
		return
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].Path < batch[j].Path })
	d.deliver(batch)
}
