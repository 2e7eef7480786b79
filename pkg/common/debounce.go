package common

import (
	"sync"
	"time"
)

// Debouncer runs only the most recent function passed to Trigger, once no
// further trigger has arrived for the delay.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	gen     uint64
	pending func()
	fired   chan struct{}
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger cancels any pending call and schedules fn after the delay.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	done := make(chan struct{})
	d.pending = fn
	d.fired = done
	d.timer = time.AfterFunc(d.delay, func() {
		defer close(done)
		d.mu.Lock()
		// a timer that fired while being replaced must not run
		var run func()
		if gen == d.gen {
			run = d.pending
			d.pending = nil
			d.timer = nil
		}
		d.mu.Unlock()
		if run != nil {
			run()
		}
	})
}

// Stop cancels the pending call, if any. It reports whether a call was cancelled.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	cancelled := d.pending != nil
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = nil
	d.pending = nil
	d.fired = nil
	return cancelled
}

// Flush runs the pending call right away and waits for a call that is
// already running to return.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	run, done := d.pending, d.fired
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	d.timer = nil
	d.pending = nil
	d.fired = nil
	d.mu.Unlock()
	if run != nil {
		run()
		return
	}
	if done != nil {
		<-done
	}
}

func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}
