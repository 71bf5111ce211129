package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Resource is a FIFO mutual-exclusion queue. At most Capacity processes hold
// it at once; on release the longest waiter is granted next.
type Resource struct {
	name     string
	capacity int
	sched    *Scheduler
	holders  map[uint64]*Process
	waitQ    WaitQueue

	peakHolders int
	peakQueue   int
	grants      int
	totalWait   float64
}

// NewResource creates a resource with the given capacity. A capacity below one
// is a configuration error.
func NewResource(s *Scheduler, name string, capacity int) (*Resource, error) {
	if capacity < 1 {
		return nil, configErrorf(name+".capacity", "must be at least 1, got %d", capacity)
	}
	return &Resource{
		name:     name,
		capacity: capacity,
		sched:    s,
		holders:  make(map[uint64]*Process, capacity),
	}, nil
}

// Name returns the resource name.
func (r *Resource) Name() string { return r.name }

// Capacity returns the maximum number of concurrent holders.
func (r *Resource) Capacity() int { return r.capacity }

// InUse returns the current number of holders.
func (r *Resource) InUse() int { return len(r.holders) }

// QueueLen returns the number of processes waiting for a slot.
func (r *Resource) QueueLen() int { return r.waitQ.Len() }

// PeakHolders is the highest holder count ever observed.
func (r *Resource) PeakHolders() int { return r.peakHolders }

// PeakQueueLen is the longest the wait queue has ever been.
func (r *Resource) PeakQueueLen() int { return r.peakQueue }

// MeanWait returns the mean time between request and grant over all grants.
func (r *Resource) MeanWait() float64 {
	if r.grants == 0 {
		return 0
	}
	return r.totalWait / float64(r.grants)
}

// HeldBy reports whether p currently holds r.
func (r *Resource) HeldBy(p *Process) bool {
	_, ok := r.holders[p.id]
	return ok
}

func (r *Resource) request(p *Process, next func()) {
	if len(r.holders) < r.capacity {
		r.grant(p, r.sched.now)
		next()
		return
	}
	r.waitQ.Enqueue(waiter{proc: p, since: r.sched.now, next: next})
	if n := r.waitQ.Len(); n > r.peakQueue {
		r.peakQueue = n
	}
	logrus.Tracef("[t=%10.4f] %s queued on %s (queue=%d)", r.sched.now, p, r.name, r.waitQ.Len())
}

func (r *Resource) release(p *Process) {
	if !r.HeldBy(p) {
		fail(r.sched.now, ErrNotHolder, "%s releasing %s", p, r.name)
	}
	delete(r.holders, p.id)
	head, ok := r.waitQ.Dequeue()
	if !ok {
		return
	}
	// The slot is reserved now so no later request can overtake the head;
	// the head itself resumes through the scheduler.
	r.grant(head.proc, head.since)
	r.sched.ScheduleAfter(0, EventResourceGrant, head.proc, head.next)
}

func (r *Resource) grant(p *Process, since float64) {
	r.holders[p.id] = p
	if len(r.holders) > r.capacity {
		fail(r.sched.now, ErrOverCapacity, "%s over capacity: %d holders", r.name, len(r.holders))
	}
	if n := len(r.holders); n > r.peakHolders {
		r.peakHolders = n
	}
	r.grants++
	r.totalWait += r.sched.now - since
}

func (r *Resource) String() string {
	return fmt.Sprintf("%s{cap=%d in_use=%d queue=%s}", r.name, r.capacity, len(r.holders), r.waitQ.String())
}
