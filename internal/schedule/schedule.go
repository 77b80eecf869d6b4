// Package schedule provides the deferred-callback capability used for
// notification dismissal, delayed navigation and delayed tab switches.
package schedule

import (
	"sort"
	"sync"
	"time"
)

// Scheduler runs f once after d has elapsed. Scheduled callbacks cannot be
// cancelled.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// Timers schedules callbacks on real timers and keeps track of the ones that
// have not fired yet.
type Timers struct {
	wg sync.WaitGroup
}

func New() *Timers {
	return &Timers{}
}

func (t *Timers) AfterFunc(d time.Duration, f func()) {
	t.wg.Add(1)
	time.AfterFunc(d, func() {
		defer t.wg.Done()
		f()
	})
}

// Wait blocks until every callback scheduled so far has run.
func (t *Timers) Wait() {
	t.wg.Wait()
}

type task struct {
	due time.Duration
	seq int
	fn  func()
}

// Virtual is a Scheduler driven by an explicit clock. Nothing fires until
// Advance moves the clock past a callback's due time.
type Virtual struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []task
}

func NewVirtual() *Virtual {
	return &Virtual{}
}

func (v *Virtual) AfterFunc(d time.Duration, f func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.seq++
	v.tasks = append(v.tasks, task{due: v.now + d, seq: v.seq, fn: f})
}

// Advance moves the clock forward by d, running due callbacks in order.
// Callbacks scheduled while advancing run too if they fall inside the window.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	target := v.now + d
	v.mu.Unlock()

	for {
		v.mu.Lock()
		sort.Slice(v.tasks, func(i, j int) bool {
			if v.tasks[i].due == v.tasks[j].due {
				return v.tasks[i].seq < v.tasks[j].seq
			}
			return v.tasks[i].due < v.tasks[j].due
		})

		if len(v.tasks) == 0 || v.tasks[0].due > target {
			v.now = target
			v.mu.Unlock()
			return
		}

		next := v.tasks[0]
		v.tasks = v.tasks[1:]
		v.now = next.due
		v.mu.Unlock()

		next.fn()
	}
}

// Elapsed reports how far the clock has been advanced.
func (v *Virtual) Elapsed() time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// Pending reports the number of callbacks that have not fired yet.
func (v *Virtual) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.tasks)
}
