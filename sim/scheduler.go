package sim

import (
	"math"

	"github.com/sirupsen/logrus"
)

// Scheduler owns the virtual clock and every pending continuation of one
// replication. It is NOT safe for concurrent use; replications that run in
// parallel each own their own Scheduler.
type Scheduler struct {
	now      float64
	queue    *EventQueue
	nextSeq  uint64
	nextPID  uint64
	executed uint64
}

// NewScheduler creates a scheduler with the clock at zero.
func NewScheduler() *Scheduler {
	return &Scheduler{queue: NewEventQueue()}
}

// Now returns the current virtual time in minutes.
func (s *Scheduler) Now() float64 {
	return s.now
}

// Pending returns the number of scheduled, not yet executed events.
func (s *Scheduler) Pending() int {
	return s.queue.Len()
}

// Executed returns the number of events resumed so far.
func (s *Scheduler) Executed() uint64 {
	return s.executed
}

// ScheduleAfter queues fn to run at now+delay. A negative or non-finite delay
// is a fatal engine error.
func (s *Scheduler) ScheduleAfter(delay float64, kind EventKind, p *Process, fn func()) *Event {
	if delay < 0 || math.IsNaN(delay) || math.IsInf(delay, 0) {
		fail(s.now, ErrInvalidDelay, "delay %v for %s", delay, kind)
	}
	return s.push(s.now+delay, kind, p, fn)
}

// ScheduleAt queues fn to run at the absolute time t, which must not lie in
// the past. It is used where a continuation has to coincide exactly with a
// previously computed instant, free of now+(t-now) rounding.
func (s *Scheduler) ScheduleAt(t float64, kind EventKind, p *Process, fn func()) *Event {
	if t < s.now || math.IsNaN(t) || math.IsInf(t, 0) {
		fail(s.now, ErrInvalidDelay, "absolute time %v for %s", t, kind)
	}
	return s.push(t, kind, p, fn)
}

func (s *Scheduler) push(t float64, kind EventKind, p *Process, fn func()) *Event {
	s.nextSeq++
	ev := &Event{
		Due:    t,
		Seq:    s.nextSeq,
		Kind:   kind,
		Proc:   p,
		resume: fn,
	}
	s.queue.Schedule(ev)
	return ev
}

// Advance pops the earliest event, moves the clock to its due time and
// resumes its continuation. Returns false when nothing is pending.
func (s *Scheduler) Advance() bool {
	ev := s.queue.PopNext()
	if ev == nil {
		return false
	}
	if ev.Due < s.now {
		fail(s.now, ErrClockBackward, "event seq=%d due at %v", ev.Seq, ev.Due)
	}
	s.now = ev.Due
	s.executed++
	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		name := "engine"
		if ev.Proc != nil {
			name = ev.Proc.Name()
		}
		logrus.Tracef("[t=%10.4f] seq=%d %s %s", s.now, ev.Seq, ev.Kind, name)
	}
	ev.resume()
	return true
}

// RunUntil advances while the next event is due strictly before horizon, then
// parks the clock at horizon. Events still queued are abandoned in place.
func (s *Scheduler) RunUntil(horizon float64) {
	if horizon < s.now {
		fail(s.now, ErrClockBackward, "horizon %v before current clock", horizon)
	}
	for {
		next := s.queue.Peek()
		if next == nil || next.Due >= horizon {
			break
		}
		s.Advance()
	}
	s.now = horizon
	logrus.Debugf("[t=%10.4f] horizon reached; %d events executed, %d abandoned", s.now, s.executed, s.queue.Len())
}
