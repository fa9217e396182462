package watch

import (
	"sort"
	"sync"
	"time"
)

// debouncer collects events and delivers them as one batch once no new
// event has arrived for delay. Repeated events for the same path collapse
// into the most recent one.
type debouncer struct {
	delay   time.Duration
	deliver func([]Event)

	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]Event
	stopped bool
}

func newDebouncer(delay time.Duration, deliver func([]Event)) *debouncer {
	return &debouncer{
		delay:   delay,
		deliver: deliver,
		pending: make(map[string]Event),
	}
}

// add records ev and restarts the quiet window.
func (d *debouncer) add(ev Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending[ev.Path] = ev

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

// flush hands the pending events, sorted by path, to deliver. The callback
// runs outside the lock so that new events can be recorded meanwhile.
func (d *debouncer) flush() {
	d.mu.Lock()
	if d.stopped || len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	events := make([]Event, 0, len(d.pending))
	for _, ev := range d.pending {
		events = append(events, ev)
	}
	d.pending = make(map[string]Event)
	d.timer = nil
	d.mu.Unlock()

	sort.Slice(events, func(i, j int) bool { return events[i].Path < events[j].Path })
	d.deliver(events)
}

// stop discards pending events and cancels the timer.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = make(map[string]Event)
}
