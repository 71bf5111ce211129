package trace

// TraceLevel controls the verbosity of event tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelEvents captures every arrival, completion, failure and repair.
	TraceLevelEvents TraceLevel = "events"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelEvents: true,
	"":               true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level       TraceLevel
	Replication int
	Seed        int64
}

// SimulationTrace collects event records during one replication.
type SimulationTrace struct {
	Config      TraceConfig
	Arrivals    []JobRecord
	Completions []JobRecord
	Failures    []MachineRecord
	Repairs     []MachineRecord
	log         []Record
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:      config,
		Arrivals:    make([]JobRecord, 0),
		Completions: make([]JobRecord, 0),
		Failures:    make([]MachineRecord, 0),
		Repairs:     make([]MachineRecord, 0),
	}
}

func (st *SimulationTrace) enabled() bool {
	return st.Config.Level == TraceLevelEvents
}

// JobArrived records a job admitted to the line.
func (st *SimulationTrace) JobArrived(clock float64, jobID int) {
	if !st.enabled() {
		return
	}
	st.Arrivals = append(st.Arrivals, JobRecord{JobID: jobID, Clock: clock})
	st.log = append(st.log, Record{Kind: KindArrival, Clock: clock, JobID: jobID})
}

// JobCompleted records a job leaving the last stage.
func (st *SimulationTrace) JobCompleted(clock float64, jobID int, leadTime float64) {
	if !st.enabled() {
		return
	}
	st.Completions = append(st.Completions, JobRecord{JobID: jobID, Clock: clock, LeadTime: leadTime})
	st.log = append(st.log, Record{Kind: KindCompletion, Clock: clock, JobID: jobID, Value: leadTime})
}

// MachineFailed records a breakdown.
func (st *SimulationTrace) MachineFailed(clock float64, machine string) {
	if !st.enabled() {
		return
	}
	st.Failures = append(st.Failures, MachineRecord{Machine: machine, Clock: clock})
	st.log = append(st.log, Record{Kind: KindFailure, Clock: clock, Machine: machine})
}

// MachineRepaired records a machine returning to service after repairTime minutes.
func (st *SimulationTrace) MachineRepaired(clock float64, machine string, repairTime float64) {
	if !st.enabled() {
		return
	}
	st.Repairs = append(st.Repairs, MachineRecord{Machine: machine, Clock: clock, RepairTime: repairTime})
	st.log = append(st.log, Record{Kind: KindRepair, Clock: clock, Machine: machine, Value: repairTime})
}

// Log returns all records in the order they were observed, which is
// simulation time order.
func (st *SimulationTrace) Log() []Record {
	return st.log
}
