package sim

// EventKind tags what a pending continuation is waiting for. It does not
// affect ordering; it exists for tracing and for tests.
type EventKind int

const (
	// EventStart resumes a freshly spawned process.
	EventStart EventKind = iota
	// EventTimedWait resumes a process after Timeout.
	EventTimedWait
	// EventResourceGrant resumes a process whose queued Request was granted.
	EventResourceGrant
	// EventRepairWake resumes a job that stalled on a failed machine.
	EventRepairWake
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "Start"
	case EventTimedWait:
		return "TimedWait"
	case EventResourceGrant:
		return "ResourceGrant"
	case EventRepairWake:
		return "RepairWake"
	default:
		return "Unknown"
	}
}

// Event is a scheduled continuation.
// Ordering: due time, then sequence number.
type Event struct {
	Due  float64   // virtual minutes
	Seq  uint64    // assigned by the scheduler, strictly increasing
	Kind EventKind // what the continuation was suspended on
	Proc *Process  // owning process, may be nil for engine-internal events

	resume func()
}

// before reports whether e must execute ahead of o.
func (e *Event) before(o *Event) bool {
	if e.Due != o.Due {
		return e.Due < o.Due
	}
	return e.Seq < o.Seq
}
