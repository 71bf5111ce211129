package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/i4mm/linesim/sim"
	"github.com/i4mm/linesim/sim/replication"
	"github.com/i4mm/linesim/sim/trace"
	"github.com/i4mm/linesim/sim/workload"
)

// batchNamespace scopes the name-based batch IDs.
var batchNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/i4mm/linesim/batch"))

// batchConfig carries the resolved run flags. A scenario file's own horizon
// and replication count win unless the flag was given explicitly.
type batchConfig struct {
	Horizon         float64
	HorizonExplicit bool
	Replications    int
	RepsExplicit    bool
	SeedOffset      int64
	Parallelism     int
	Trace           trace.TraceLevel
}

// ScenarioReport is the outcome of all replications of one scenario.
type ScenarioReport struct {
	Scenario       string                  `json:"scenario"`
	Description    string                  `json:"description,omitempty"`
	HorizonMinutes float64                 `json:"horizon_minutes"`
	Summary        replication.Summary     `json:"summary"`
	Replications   []sim.ReplicationResult `json:"replications"`
	Traces         []*trace.TraceSummary   `json:"traces,omitempty"`
}

// BatchReport is everything one `run` invocation produced.
type BatchReport struct {
	BatchID    string           `json:"batch_id"`
	SeedOffset int64            `json:"seed_offset"`
	Scenarios  []ScenarioReport `json:"scenarios"`
}

// resolveScenarios loads presets by name and scenario files by path, in that
// order. With neither given, every preset runs.
func resolveScenarios(names, files []string) ([]*workload.ScenarioSpec, error) {
	if len(names) == 0 && len(files) == 0 {
		names = workload.PresetNames()
	}
	specs := make([]*workload.ScenarioSpec, 0, len(names)+len(files))
	for _, name := range names {
		spec, err := workload.Preset(name)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	for _, path := range files {
		spec, err := workload.LoadScenarioSpec(path)
		if err != nil {
			return nil, err
		}
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// resolveRun returns the horizon and replication count spec runs with.
func resolveRun(spec *workload.ScenarioSpec, cfg batchConfig) (float64, int) {
	horizon := cfg.Horizon
	if !cfg.HorizonExplicit && spec.HorizonMinutes > 0 {
		horizon = spec.HorizonMinutes
	}
	count := cfg.Replications
	if !cfg.RepsExplicit && spec.Replications > 0 {
		count = spec.Replications
	}
	return horizon, count
}

// batchID derives a stable identifier from everything that shapes the
// results, so identical invocations produce identical reports and two
// scenarios sharing a name but not a line get different IDs.
func batchID(specs []*workload.ScenarioSpec, cfg batchConfig) string {
	parts := make([]string, 0, len(specs)+1)
	for _, s := range specs {
		horizon, count := resolveRun(s, cfg)
		parts = append(parts, fmt.Sprintf("%s;rate=%g;capacity=%d;horizon=%g;replications=%d;%s",
			s.Name, s.Rate(), s.Capacity, horizon, count, stagesKey(s.Stages)))
	}
	parts = append(parts, fmt.Sprintf("offset=%d", cfg.SeedOffset))
	return uuid.NewSHA1(batchNamespace, []byte(strings.Join(parts, "|"))).String()
}

func stagesKey(stages []workload.StageSpec) string {
	var b strings.Builder
	for _, st := range stages {
		fmt.Fprintf(&b, "[%s mttf=%g mttr=%g %s", st.Machine, st.MTTF, st.MTTR, st.Processing.Type)
		keys := make([]string, 0, len(st.Processing.Params))
		for k := range st.Processing.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%g", k, st.Processing.Params[k])
		}
		b.WriteString("]")
	}
	return b.String()
}

// runBatch runs every scenario in turn; replications of one scenario run in
// parallel.
func runBatch(ctx context.Context, specs []*workload.ScenarioSpec, cfg batchConfig) (*BatchReport, error) {
	report := &BatchReport{
		BatchID:    batchID(specs, cfg),
		SeedOffset: cfg.SeedOffset,
		Scenarios:  make([]ScenarioReport, 0, len(specs)),
	}
	for _, spec := range specs {
		params, err := spec.Params()
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", spec.Name, err)
		}
		horizon, count := resolveRun(spec, cfg)

		opts := []replication.Option{replication.WithParallelism(cfg.Parallelism)}
		var traces []*trace.SimulationTrace
		if cfg.Trace == trace.TraceLevelEvents && count > 0 {
			// Each replication writes only its own slot.
			traces = make([]*trace.SimulationTrace, count)
			opts = append(opts, replication.WithObservers(func(rep int, seed int64) sim.Observer {
				st := trace.NewSimulationTrace(trace.TraceConfig{Level: cfg.Trace, Replication: rep, Seed: seed})
				traces[rep-1] = st
				return st
			}))
		}

		results, err := replication.RunReplications(ctx, params, horizon, count,
			replication.OffsetSeed(cfg.SeedOffset), opts...)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", spec.Name, err)
		}
		sr := ScenarioReport{
			Scenario:       spec.Name,
			Description:    spec.Description,
			HorizonMinutes: horizon,
			Summary:        replication.Summarize(results),
			Replications:   results,
		}
		for _, st := range traces {
			sr.Traces = append(sr.Traces, trace.Summarize(st))
		}
		logrus.Debugf("scenario %q: mean throughput %.2f/h over %d replications",
			spec.Name, sr.Summary.Throughput.Mean, len(results))
		report.Scenarios = append(report.Scenarios, sr)
	}
	return report, nil
}
