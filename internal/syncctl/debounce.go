package syncctl

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of triggers into a single evaluation once the
// input has been quiescent for the configured interval. Fire cancels any
// pending evaluation; FireNow bypasses the wait.
type Debouncer struct {
	interval time.Duration
	fn       func(string)

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a debouncer invoking fn with the most recent value.
func NewDebouncer(interval time.Duration, fn func(string)) *Debouncer {
	return &Debouncer{
		interval: interval,
		fn:       fn,
	}
}

// Fire schedules an evaluation of value after the quiescence interval,
// cancelling any evaluation still pending.
func (d *Debouncer) Fire(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		d.fn(value)
	})
}

// FireNow cancels any pending evaluation and evaluates value immediately.
func (d *Debouncer) FireNow(value string) {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	d.fn(value)
}

// Stop cancels any pending evaluation.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
