// Package script runs authored behavior as cooperative tasks. Each task is
// a goroutine suspended between frames by a channel handshake: the
// scheduler resumes it, the task runs until its next Yield and hands
// control back. A task sees exactly one resume per tick, so frame-counted
// waits are deterministic.
package script

import (
	"errors"

	"github.com/tomz197/barrage/internal/physics"
)

// errCancelled unwinds a cancelled task goroutine. Recovered at the task
// boundary and never observed by callers.
var errCancelled = errors.New("script: task cancelled")

// Fn is the body of a task. It runs on its own goroutine and must call one
// of the Task suspension methods to give the frame back.
type Fn func(t *Task)

// Mover is the part of an entity a task needs to steer it.
type Mover interface {
	Position() (x, y float64)
	SetPosition(x, y float64)
}

// Task is one scheduled unit of behavior. All methods are called either
// from the task's own goroutine or from the scheduler goroutine while the
// task is suspended; the resume handshake makes the two mutually exclusive.
type Task struct {
	name      string
	resume    chan struct{}
	yielded   chan struct{}
	done      bool
	cancelled bool
	running   bool
}

// Name returns the task's debug name.
func (t *Task) Name() string { return t.name }

// Done reports whether the task finished, faulted or was cancelled.
func (t *Task) Done() bool { return t.done }

// Yield suspends the task until the next tick.
func (t *Task) Yield() {
	t.running = false
	t.yielded <- struct{}{}
	<-t.resume
	t.running = true
	if t.cancelled {
		panic(errCancelled)
	}
}

// Wait suspends the task for the given number of ticks.
func (t *Task) Wait(frames int) {
	for i := 0; i < frames; i++ {
		t.Yield()
	}
}

// WaitUntil yields until cond returns true. The condition is evaluated
// once per tick, before the frame's simulation step.
func (t *Task) WaitUntil(cond func() bool) {
	for !cond() {
		t.Yield()
	}
}

// MoveTo eases m from its current position to (x, y) over the given number
// of ticks using a smoothstep curve, arriving exactly on the last tick.
// Each step suspends, so the move consumes exactly frames ticks.
func (t *Task) MoveTo(m Mover, x, y float64, frames int) {
	if frames <= 0 {
		m.SetPosition(x, y)
		return
	}
	sx, sy := m.Position()
	for i := 1; i <= frames; i++ {
		f := physics.Smoothstep(float64(i) / float64(frames))
		m.SetPosition(sx+(x-sx)*f, sy+(y-sy)*f)
		t.Yield()
	}
}

// MoveLinear moves m to (x, y) at constant velocity over the given number
// of ticks, arriving exactly on the last tick. Like MoveTo it suspends
// after every step.
func (t *Task) MoveLinear(m Mover, x, y float64, frames int) {
	if frames <= 0 {
		m.SetPosition(x, y)
		return
	}
	sx, sy := m.Position()
	for i := 1; i <= frames; i++ {
		f := float64(i) / float64(frames)
		m.SetPosition(sx+(x-sx)*f, sy+(y-sy)*f)
		t.Yield()
	}
}

// Cancel forces the task to unwind. The task observes the cancellation at
// its current suspension point and runs its deferred cleanup before Cancel
// returns. Calling Cancel from inside the task itself unwinds immediately.
func (t *Task) Cancel() {
	if t.done {
		return
	}
	t.cancelled = true
	if t.running {
		panic(errCancelled)
	}
	t.resume <- struct{}{}
	<-t.yielded
}
