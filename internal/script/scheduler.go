package script

import (
	"github.com/charmbracelet/log"
)

// Scheduler resumes every live task once per Tick, in the order the tasks
// were spawned. Tasks spawned while a tick is in progress are parked and
// get their first resume on the next tick.
type Scheduler struct {
	logger  *log.Logger
	tasks   []*Task
	spawned []*Task
	ticking bool
}

// NewScheduler returns an empty scheduler. A nil logger falls back to the
// package default.
func NewScheduler(logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{logger: logger}
}

// Len returns the number of live tasks, including ones parked for the next
// tick.
func (s *Scheduler) Len() int {
	return len(s.tasks) + len(s.spawned)
}

// Spawn starts fn as a new task. The body does not run until the task's
// first resume.
func (s *Scheduler) Spawn(name string, fn Fn) *Task {
	t := &Task{
		name:    name,
		resume:  make(chan struct{}),
		yielded: make(chan struct{}),
	}
	go s.run(t, fn)
	if s.ticking {
		s.spawned = append(s.spawned, t)
	} else {
		s.tasks = append(s.tasks, t)
	}
	return t
}

func (s *Scheduler) run(t *Task, fn Fn) {
	defer func() {
		if r := recover(); r != nil && r != errCancelled {
			s.logger.Error("script task panicked", "task", t.name, "panic", r)
		}
		t.done = true
		t.running = false
		t.yielded <- struct{}{}
	}()
	<-t.resume
	t.running = true
	if t.cancelled {
		panic(errCancelled)
	}
	fn(t)
}

// Tick resumes every live task once, in spawn order, then admits tasks
// spawned during the tick. A task that finishes, faults or gets cancelled
// during its resume is dropped.
func (s *Scheduler) Tick() {
	s.ticking = true
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if t.done {
			continue
		}
		t.resume <- struct{}{}
		<-t.yielded
		if !t.done {
			live = append(live, t)
		}
	}
	s.tasks = append(live, s.spawned...)
	s.spawned = s.spawned[:0]
	s.ticking = false
}

// CancelAll unwinds every live task synchronously, in spawn order.
func (s *Scheduler) CancelAll() {
	for _, t := range s.tasks {
		t.Cancel()
	}
	for _, t := range s.spawned {
		t.Cancel()
	}
	s.tasks = s.tasks[:0]
	s.spawned = s.spawned[:0]
}
