package app

import "time"

// Debouncer coalesces bursts of triggers: Fire reports true once the
// timeout has passed since the last Trigger. It is polled from the main
// loop, so it needs no goroutine or lock.
type Debouncer struct {
	timeout  time.Duration
	pending  bool
	deadline time.Time
}

// NewDebouncer creates a debouncer. A zero timeout fires on the next poll.
func NewDebouncer(timeout time.Duration) *Debouncer {
	return &Debouncer{timeout: max(timeout, 0)}
}

// Trigger (re)starts the wait. The last trigger in a burst wins.
func (d *Debouncer) Trigger(now time.Time) {
	d.pending = true
	d.deadline = now.Add(d.timeout)
}

// Fire reports whether a pending trigger is due, and clears it.
func (d *Debouncer) Fire(now time.Time) bool {
	if !d.pending || now.Before(d.deadline) {
		return false
	}
	d.pending = false
	return true
}

// Pending reports whether a trigger is waiting.
func (d *Debouncer) Pending() bool { return d.pending }

// Cancel drops a pending trigger.
func (d *Debouncer) Cancel() { d.pending = false }

// SetTimeout changes the wait for future triggers.
func (d *Debouncer) SetTimeout(timeout time.Duration) { d.timeout = max(timeout, 0) }
