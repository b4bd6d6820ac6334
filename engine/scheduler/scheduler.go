// Package scheduler is a single-threaded queue of delayed tasks. Tasks run
// only when the owner calls Run with the current time; nothing here starts
// a goroutine or a timer.
package scheduler

import (
	"sort"
	"time"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// FakeClock is a manually advanced clock for tests and scripted runs.
type FakeClock struct {
	T time.Time
}

// Now returns the fake time.
func (c *FakeClock) Now() time.Time { return c.T }

// Advance moves the fake time forward.
func (c *FakeClock) Advance(d time.Duration) { c.T = c.T.Add(d) }

type task struct {
	at   time.Time
	seq  int
	name string
	fn   func()
}

// Scheduler holds pending tasks ordered by due time, then insertion.
type Scheduler struct {
	clock Clock
	tasks []task
	seq   int
}

// New returns a scheduler reading time from clock.
func New(clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Scheduler{clock: clock}
}

// Clock returns the scheduler's clock.
func (s *Scheduler) Clock() Clock { return s.clock }

// After queues fn to run once delay has passed.
func (s *Scheduler) After(delay time.Duration, name string, fn func()) {
	s.seq++
	s.tasks = append(s.tasks, task{at: s.clock.Now().Add(delay), seq: s.seq, name: name, fn: fn})
	sort.SliceStable(s.tasks, func(i, j int) bool {
		if s.tasks[i].at.Equal(s.tasks[j].at) {
			return s.tasks[i].seq < s.tasks[j].seq
		}
		return s.tasks[i].at.Before(s.tasks[j].at)
	})
}

// Run executes every task due at or before now, in order, and returns how
// many ran. Tasks queued by a running task are considered in the same call
// if they are already due.
func (s *Scheduler) Run(now time.Time) int {
	n := 0
	for len(s.tasks) > 0 && !s.tasks[0].at.After(now) {
		t := s.tasks[0]
		s.tasks = s.tasks[1:]
		t.fn()
		n++
	}
	return n
}

// Pending reports whether any task is waiting.
func (s *Scheduler) Pending() bool {
	return len(s.tasks) > 0
}

// PendingNamed reports whether a task with the given name is waiting.
func (s *Scheduler) PendingNamed(name string) bool {
	for _, t := range s.tasks {
		if t.name == name {
			return true
		}
	}
	return false
}

// Next returns the due time of the earliest task.
func (s *Scheduler) Next() (time.Time, bool) {
	if len(s.tasks) == 0 {
		return time.Time{}, false
	}
	return s.tasks[0].at, true
}

// Flush runs every pending task regardless of due time, including tasks
// they queue. Script mode uses it to play without waiting.
func (s *Scheduler) Flush() int {
	n := 0
	for len(s.tasks) > 0 {
		t := s.tasks[0]
		s.tasks = s.tasks[1:]
		t.fn()
		n++
	}
	return n
}

// Clear drops every pending task.
func (s *Scheduler) Clear() {
	s.tasks = nil
}
