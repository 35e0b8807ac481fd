package utils

import (
	"sync"
	"time"
)

/**************************************************************************************************
** Debouncer coalesces a burst of Schedule calls into a single callback invocation, fired once
** the burst has been quiet for the configured delay. Each Schedule restarts the timer, so only
** the most recently scheduled callback ever runs. Cancel must be called on teardown; otherwise
** a pending timer could fire against an owner that no longer exists.
**************************************************************************************************/
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

/**************************************************************************************************
** NewDebouncer creates a debouncer with the given quiet-period delay.
**
** @param delay - How long the burst must be quiet before the callback fires
** @return *Debouncer - Ready-to-use debouncer
**************************************************************************************************/
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

/**************************************************************************************************
** Schedule arms the debouncer with fn, replacing any previously scheduled callback. The timer
** restarts from zero on every call.
**
** @param fn - Callback to run once the quiet period elapses
**************************************************************************************************/
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

/**************************************************************************************************
** Cancel drops any pending callback. Safe to call multiple times and after the timer fired.
**************************************************************************************************/
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
