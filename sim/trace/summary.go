package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalEvents       int
	Arrivals          int
	Completions       int
	InProgress        int // arrived but not completed by the end of the trace
	MeanLeadTime      float64
	MaxLeadTime       float64
	Failures          int
	MeanRepairTime    float64
	FailuresByMachine map[string]int
	RepairByMachine   map[string]float64 // machine → total minutes of completed repairs
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		FailuresByMachine: make(map[string]int),
		RepairByMachine:   make(map[string]float64),
	}
	if st == nil {
		return summary
	}

	summary.Arrivals = len(st.Arrivals)
	summary.Completions = len(st.Completions)
	summary.Failures = len(st.Failures)
	summary.TotalEvents = summary.Arrivals + summary.Completions + summary.Failures + len(st.Repairs)
	if summary.Arrivals > summary.Completions {
		summary.InProgress = summary.Arrivals - summary.Completions
	}

	if len(st.Completions) > 0 {
		total := 0.0
		for _, c := range st.Completions {
			total += c.LeadTime
			if c.LeadTime > summary.MaxLeadTime {
				summary.MaxLeadTime = c.LeadTime
			}
		}
		summary.MeanLeadTime = total / float64(len(st.Completions))
	}

	for _, f := range st.Failures {
		summary.FailuresByMachine[f.Machine]++
	}
	if len(st.Repairs) > 0 {
		total := 0.0
		for _, r := range st.Repairs {
			summary.RepairByMachine[r.Machine] += r.RepairTime
			total += r.RepairTime
		}
		summary.MeanRepairTime = total / float64(len(st.Repairs))
	}

	return summary
}
