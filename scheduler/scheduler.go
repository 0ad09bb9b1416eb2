// Package scheduler provides cancellable one-shot timer tasks with a
// monotonic generation counter, so a callback armed by a superseded cycle can
// be detected and discarded instead of mutating shared state late.
package scheduler

import (
	"sync"
	"time"
)

// Task owns at most one pending timer. Schedule replaces any pending run;
// Stop cancels it. The generation check closes the race where the underlying
// time.AfterFunc has already fired but the callback has not yet entered:
// such callbacks see a stale generation and return without running fn.
type Task struct {
	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// Schedule arms fn to run once after d, cancelling any previously pending
// run. It returns the generation of the armed run.
func (t *Task) Schedule(d time.Duration, fn func()) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.timer = time.AfterFunc(d, func() {
		if !t.current(gen) {
			return
		}
		fn()
	})
	return gen
}

// Stop cancels any pending run and invalidates callbacks already in flight.
func (t *Task) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
}

// Gen returns the current generation.
func (t *Task) Gen() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen
}

func (t *Task) current(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen == gen
}

// Interval owns a repeating timer. Unlike time.Ticker it is rearmed after
// each callback completes, which keeps one run in flight at most.
type Interval struct {
	task Task
}

// Start runs fn immediately and then every d until Stop is called.
func (i *Interval) Start(d time.Duration, fn func()) {
	var loop func()
	loop = func() {
		fn()
		i.task.Schedule(d, loop)
	}
	loop()
}

// StartAfter is Start without the immediate first run.
func (i *Interval) StartAfter(d time.Duration, fn func()) {
	var loop func()
	loop = func() {
		fn()
		i.task.Schedule(d, loop)
	}
	i.task.Schedule(d, loop)
}

func (i *Interval) Stop() {
	i.task.Stop()
}
