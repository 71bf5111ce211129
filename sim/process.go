package sim

import "fmt"

// Process is a cooperative unit of work. It only ever suspends at Timeout or
// Request; between those points its code runs to completion without
// interleaving with any other process.
type Process struct {
	id    uint64
	name  string
	sched *Scheduler
}

// Spawn creates a process whose body starts at the current time, after every
// event already due now.
func (s *Scheduler) Spawn(name string, body func(p *Process)) *Process {
	s.nextPID++
	p := &Process{id: s.nextPID, name: name, sched: s}
	s.ScheduleAfter(0, EventStart, p, func() { body(p) })
	return p
}

// ID returns the scheduler-unique process identifier.
func (p *Process) ID() uint64 { return p.id }

// Name returns the process name.
func (p *Process) Name() string { return p.name }

// Now is shorthand for the owning scheduler's clock.
func (p *Process) Now() float64 { return p.sched.now }

// Scheduler returns the scheduler driving this process.
func (p *Process) Scheduler() *Scheduler { return p.sched }

// Timeout suspends the process for d minutes, then runs next.
func (p *Process) Timeout(d float64, next func()) {
	p.sched.ScheduleAfter(d, EventTimedWait, p, next)
}

// TimeoutUntil suspends the process until the absolute time t, then runs next.
func (p *Process) TimeoutUntil(t float64, next func()) {
	p.sched.ScheduleAt(t, EventTimedWait, p, next)
}

// Request suspends the process until r grants it, then runs next. If r has a
// free slot next runs immediately.
func (p *Process) Request(r *Resource, next func()) {
	r.request(p, next)
}

// Release gives r back; the longest waiter, if any, is granted next.
func (p *Process) Release(r *Resource) {
	r.release(p)
}

func (p *Process) String() string {
	return fmt.Sprintf("%s#%d", p.name, p.id)
}
