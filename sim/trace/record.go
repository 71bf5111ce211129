// Package trace records line events (arrivals, completions, failures, repairs)
// for post-run analysis of a single replication.
// This package has no dependencies on sim/: it stores pure data types, and
// *SimulationTrace satisfies sim.Observer structurally.
package trace

// EventKind names a recorded line event.
type EventKind string

const (
	KindArrival    EventKind = "arrival"
	KindCompletion EventKind = "completion"
	KindFailure    EventKind = "failure"
	KindRepair     EventKind = "repair"
)

// JobRecord captures a job entering or leaving the line.
type JobRecord struct {
	JobID    int
	Clock    float64
	LeadTime float64 // zero for arrivals
}

// MachineRecord captures a machine breaking down or coming back up.
type MachineRecord struct {
	Machine    string
	Clock      float64
	RepairTime float64 // zero for failures
}

// Record is one entry of the merged, time-ordered event log.
type Record struct {
	Kind    EventKind
	Clock   float64
	JobID   int    // arrivals and completions
	Machine string // failures and repairs
	Value   float64
}
