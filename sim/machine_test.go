package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i4mm/linesim/sim/internal/testutil"
)

func newTestMachine(t *testing.T, s *Scheduler, mttf, mttr float64, seed int64) *Machine {
	t.Helper()
	rng := NewPartitionedRNG(NewSimulationKey(seed)).ForSubsystem(SubsystemFailures(0))
	m, err := NewMachine(s, 0, "M1", mttf, mttr, 1, rng)
	require.NoError(t, err)
	return m
}

func TestMachine_FirstFailureStrictlyAfterCreation(t *testing.T) {
	m := newTestMachine(t, NewScheduler(), 50, 5, 7)
	assert.Greater(t, m.NextFailureTime(), 0.0)
	assert.Equal(t, MachineUp, m.State())
	assert.False(t, m.Failed())
}

func TestMachine_FailureRepairAlternationAndDowntime(t *testing.T) {
	// GIVEN a machine that fails often, observed by a recorder
	s := NewScheduler()
	m := newTestMachine(t, s, 20, 5, 42)
	rec := &testutil.Recorder{}
	m.observer = rec
	m.StartMonitor()

	// WHEN run for a long horizon
	const horizon = 1000.0
	s.RunUntil(horizon)

	// THEN failures and repairs alternate, each repair lasting its drawn time
	require.NotEmpty(t, rec.Events)
	for i, e := range rec.Events {
		if i%2 == 0 {
			assert.Equal(t, "failure", e.Kind, "event %d", i)
			continue
		}
		assert.Equal(t, "repair", e.Kind, "event %d", i)
		assert.InDelta(t, rec.Events[i-1].Clock+e.Value, e.Clock, 1e-9)
		assert.GreaterOrEqual(t, e.Value, MinRepairTime)
	}
	assert.Equal(t, len(rec.Of("failure")), m.Failures)

	// THEN downtime is the sum of repairs, plus the in-horizon part of one in progress
	want := 0.0
	for _, e := range rec.Of("repair") {
		want += e.Value
	}
	testutil.AssertFloat64Equal(t, "completed downtime", want, m.Downtime, 1e-9)
	if m.Failed() {
		last := rec.Events[len(rec.Events)-1]
		want += horizon - last.Clock
	}
	testutil.AssertFloat64Equal(t, "downtime at horizon", want, m.DowntimeAt(horizon), 1e-9)
	assert.LessOrEqual(t, m.DowntimeAt(horizon), horizon)
}

func TestMachine_DowntimeAt_RepairCrossingHorizon(t *testing.T) {
	// GIVEN a machine that failed at t=90 with 5 minutes of earlier downtime
	m := newTestMachine(t, NewScheduler(), 50, 5, 1)
	m.state = MachineFailed
	m.repairStart = 90
	m.Downtime = 5

	// THEN only the part of the repair before the horizon counts
	assert.InDelta(t, 15.0, m.DowntimeAt(100), 1e-12)
	assert.InDelta(t, 5.0, m.DowntimeAt(90), 1e-12)
}

func TestMachine_NextFailureAfterRepairIsInTheFuture(t *testing.T) {
	// GIVEN a machine with a tiny MTTF
	s := NewScheduler()
	m := newTestMachine(t, s, 1e-6, 1e-6, 3)
	m.StartMonitor()

	// WHEN run
	s.RunUntil(0.01)

	// THEN the monitor kept making progress and never scheduled into the past
	assert.Greater(t, m.Failures, 0)
	assert.Greater(t, m.NextFailureTime(), 0.0)
}

func TestNewMachine_ZeroCapacity_ConfigError(t *testing.T) {
	_, err := NewMachine(NewScheduler(), 0, "M1", 10, 1, 0, nil)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestMachineState_String(t *testing.T) {
	assert.Equal(t, "Up", MachineUp.String())
	assert.Equal(t, "Failed", MachineFailed.String())
}
