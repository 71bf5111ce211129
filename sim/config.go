package sim

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/distuv"
)

// Sampling floors. A draw at or below zero (or NaN) is clamped up to these
// values; no upper bound is ever applied.
const (
	MinProcessingTime = 0.01
	MinTimeToFailure  = 1e-4
	MinRepairTime     = 1e-4
)

// DefaultCapacity is the number of jobs a machine processes at once.
const DefaultCapacity = 1

// DurationSampler draws a duration in minutes from a caller-owned RNG stream.
// Implementations live in sim/workload.
type DurationSampler interface {
	Sample(rng *rand.Rand) float64
}

// DurationSamplerFunc adapts a plain function to DurationSampler.
type DurationSamplerFunc func(rng *rand.Rand) float64

// Sample calls f(rng).
func (f DurationSamplerFunc) Sample(rng *rand.Rand) float64 { return f(rng) }

// ScenarioParams describes one automation scenario of a linear line.
// MTTF, MTTR and ProcessingTimes are indexed by stage and must all have
// StageCount entries.
type ScenarioParams struct {
	Name            string
	ArrivalRate     float64 // jobs per minute
	StageCount      int
	MachineNames    []string // optional; defaults to M1..Mn
	MTTF            []float64
	MTTR            []float64
	ProcessingTimes []DurationSampler
	Capacity        int // per machine; zero means DefaultCapacity
}

// Validate reports the first configuration error, wrapped as *ConfigError.
func (p ScenarioParams) Validate() error {
	if err := finitePositive("arrival_rate", p.ArrivalRate); err != nil {
		return err
	}
	if p.StageCount < 1 {
		return configErrorf("stage_count", "must be at least 1, got %d", p.StageCount)
	}
	if len(p.MTTF) != p.StageCount {
		return configErrorf("mttf", "has %d entries, want %d", len(p.MTTF), p.StageCount)
	}
	if len(p.MTTR) != p.StageCount {
		return configErrorf("mttr", "has %d entries, want %d", len(p.MTTR), p.StageCount)
	}
	if len(p.ProcessingTimes) != p.StageCount {
		return configErrorf("processing_times", "has %d samplers, want %d", len(p.ProcessingTimes), p.StageCount)
	}
	if p.MachineNames != nil && len(p.MachineNames) != p.StageCount {
		return configErrorf("machine_names", "has %d entries, want %d", len(p.MachineNames), p.StageCount)
	}
	for i := 0; i < p.StageCount; i++ {
		if err := finitePositive(fmt.Sprintf("mttf[%d]", i), p.MTTF[i]); err != nil {
			return err
		}
		if err := finitePositive(fmt.Sprintf("mttr[%d]", i), p.MTTR[i]); err != nil {
			return err
		}
		if p.ProcessingTimes[i] == nil {
			return configErrorf(fmt.Sprintf("processing_times[%d]", i), "sampler is nil")
		}
	}
	if p.Capacity < 0 {
		return configErrorf("capacity", "must not be negative, got %d", p.Capacity)
	}
	return nil
}

// MachineName returns the display name of stage i.
func (p ScenarioParams) MachineName(i int) string {
	if i < len(p.MachineNames) && p.MachineNames[i] != "" {
		return p.MachineNames[i]
	}
	return fmt.Sprintf("M%d", i+1)
}

func (p ScenarioParams) capacity() int {
	if p.Capacity == 0 {
		return DefaultCapacity
	}
	return p.Capacity
}

func finitePositive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return configErrorf(field, "must be a finite number, got %v", v)
	}
	if v <= 0 {
		return configErrorf(field, "must be positive, got %v", v)
	}
	return nil
}

func validateHorizon(horizon float64) error {
	return finitePositive("horizon_minutes", horizon)
}

// drawExp returns an exponential draw with the given mean.
func drawExp(rng *rand.Rand, mean float64) float64 {
	return distuv.Exponential{Rate: 1 / mean, Src: rng}.Rand()
}

// clampFloor recovers degenerate samples locally instead of failing the run.
func clampFloor(what string, v, floor float64) float64 {
	if math.IsNaN(v) || v < floor {
		if v <= 0 || math.IsNaN(v) {
			logrus.Debugf("degenerate %s sample %v clamped to %v", what, v, floor)
		}
		return floor
	}
	return v
}
