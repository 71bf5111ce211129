package sim

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/i4mm/linesim/sim/internal/testutil"
)

// recoverEngineError runs f and returns the *EngineError it panicked with.
func recoverEngineError(t *testing.T, f func()) (ee *EngineError) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected an engine error panic, got none")
		}
		err, ok := r.(error)
		if !ok || !errors.As(err, &ee) {
			t.Fatalf("expected *EngineError, got %v", r)
		}
	}()
	f()
	return nil
}

// neverFails is an MTTF far beyond any test horizon.
const neverFails = 1e12

// constantLine builds params for a line of n stages with fixed processing
// times and no practical failures.
func constantLine(rate float64, processing ...float64) ScenarioParams {
	n := len(processing)
	p := ScenarioParams{
		Name:            "constant",
		ArrivalRate:     rate,
		StageCount:      n,
		MTTF:            make([]float64, n),
		MTTR:            make([]float64, n),
		ProcessingTimes: make([]DurationSampler, n),
	}
	for i, d := range processing {
		p.MTTF[i] = neverFails
		p.MTTR[i] = 1
		p.ProcessingTimes[i] = testutil.Constant(d)
	}
	return p
}

// failingLine is a three-stage line with frequent failures and noisy cycles.
func failingLine() ScenarioParams {
	normal := func(mean, sd float64) DurationSampler {
		return DurationSamplerFunc(func(rng *rand.Rand) float64 { return mean + sd*rng.NormFloat64() })
	}
	return ScenarioParams{
		Name:            "failing",
		ArrivalRate:     1.0 / 12,
		StageCount:      3,
		MachineNames:    []string{"CNC", "Finish", "Assembly"},
		MTTF:            []float64{60, 90, 120},
		MTTR:            []float64{15, 10, 10},
		ProcessingTimes: []DurationSampler{normal(10, 2), normal(8, 1), normal(6, 0.5)},
	}
}
