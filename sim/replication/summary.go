package replication

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/i4mm/linesim/sim"
)

// Distribution captures the statistical summary of one KPI across replications.
type Distribution struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	CI95   float64 `json:"ci95_half_width"` // Student-t half width around Mean
	P50    float64 `json:"p50"`
	P95    float64 `json:"p95"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Count  int     `json:"count"`
}

// NewDistribution computes a Distribution from raw values.
// Returns zero-value Distribution for empty input.
func NewDistribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	d := Distribution{
		Mean:  stat.Mean(sorted, nil),
		P50:   stat.Quantile(0.50, stat.LinInterp, sorted, nil),
		P95:   stat.Quantile(0.95, stat.LinInterp, sorted, nil),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		Count: len(sorted),
	}
	if n := len(sorted); n > 1 {
		d.StdDev = stat.StdDev(sorted, nil)
		t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}.Quantile(0.975)
		d.CI95 = t * d.StdDev / math.Sqrt(float64(n))
	}
	return d
}

// MachineSummary summarises one machine across replications.
type MachineSummary struct {
	Name             string       `json:"name"`
	Utilization      Distribution `json:"utilization"`
	DowntimeFraction Distribution `json:"downtime_fraction"`
	Failures         Distribution `json:"failures"`
}

// Summary aggregates the KPIs of a batch of replications of one scenario.
type Summary struct {
	Scenario     string       `json:"scenario"`
	Replications int          `json:"replications"`
	Throughput   Distribution `json:"throughput_per_hour"`
	// LeadTime only includes replications that completed at least one job;
	// NoCompletions counts the others.
	LeadTime      Distribution     `json:"avg_lead_time_minutes"`
	NoCompletions int              `json:"no_completions"`
	Generated     Distribution     `json:"generated"`
	Completed     Distribution     `json:"completed"`
	Machines      []MachineSummary `json:"machines"`
}

// Summarize computes cross-replication distributions. Machines are matched by
// position, which is stable for results of one scenario.
func Summarize(results []sim.ReplicationResult) Summary {
	s := Summary{Replications: len(results)}
	if len(results) == 0 {
		return s
	}
	s.Scenario = results[0].Scenario

	throughput := make([]float64, 0, len(results))
	lead := make([]float64, 0, len(results))
	generated := make([]float64, 0, len(results))
	completed := make([]float64, 0, len(results))
	nMachines := len(results[0].Machines)
	util := make([][]float64, nMachines)
	down := make([][]float64, nMachines)
	failures := make([][]float64, nMachines)

	for _, r := range results {
		throughput = append(throughput, r.ThroughputPerHour)
		if lt, ok := r.AvgLeadTime(); ok {
			lead = append(lead, lt)
		} else {
			s.NoCompletions++
		}
		generated = append(generated, float64(r.GeneratedCount))
		completed = append(completed, float64(r.CompletedCount))
		for i := 0; i < nMachines && i < len(r.Machines); i++ {
			util[i] = append(util[i], r.Machines[i].Utilization)
			down[i] = append(down[i], r.Machines[i].DowntimeFraction)
			failures[i] = append(failures[i], float64(r.Machines[i].Failures))
		}
	}

	s.Throughput = NewDistribution(throughput)
	s.LeadTime = NewDistribution(lead)
	s.Generated = NewDistribution(generated)
	s.Completed = NewDistribution(completed)
	for i := 0; i < nMachines; i++ {
		s.Machines = append(s.Machines, MachineSummary{
			Name:             results[0].Machines[i].Name,
			Utilization:      NewDistribution(util[i]),
			DowntimeFraction: NewDistribution(down[i]),
			Failures:         NewDistribution(failures[i]),
		})
	}
	return s
}
