package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i4mm/linesim/sim/internal/testutil"
)

func TestRunSingle_ConstantSingleStage_MatchesFIFOReplay(t *testing.T) {
	// GIVEN one never-failing stage with 5-minute cycles and one job every 10 minutes
	params := constantLine(0.1, 5)
	rec := &testutil.Recorder{}

	// WHEN run to 100 minutes
	res, err := RunSingle(params, 100, 12345, WithObserver(rec))
	require.NoError(t, err)

	// THEN every arrival whose FIFO completion falls before the horizon completes
	arrivals := rec.Of("arrival")
	require.Equal(t, res.GeneratedCount, len(arrivals))
	expected := 0
	free := 0.0
	for _, a := range arrivals {
		free = max(a.Clock, free) + 5
		if free < 100 {
			expected++
		}
	}
	assert.Equal(t, expected, res.CompletedCount)
	if free < 100 {
		assert.Equal(t, res.GeneratedCount, res.CompletedCount)
	}

	// THEN the run is reproducible bit-for-bit
	again, err := RunSingle(params, 100, 12345)
	require.NoError(t, err)
	assert.Equal(t, res, again)
}

func TestRunSingle_Deterministic(t *testing.T) {
	a, err := RunSingle(failingLine(), 480, 107)
	require.NoError(t, err)
	b, err := RunSingle(failingLine(), 480, 107)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, int64(107), a.Seed)
	assert.Equal(t, "failing", a.Scenario)
}

func TestRunSingle_DifferentSeeds_Differ(t *testing.T) {
	a, err := RunSingle(failingLine(), 480, 107)
	require.NoError(t, err)
	b, err := RunSingle(failingLine(), 480, 207)
	require.NoError(t, err)
	assert.NotEqual(t, a.Machines, b.Machines)
}

func TestRunSingle_Invariants(t *testing.T) {
	// GIVEN a failing three-stage line over many seeds
	const horizon = 480.0
	for seed := int64(1); seed <= 20; seed++ {
		rec := &testutil.Recorder{}
		res, err := RunSingle(failingLine(), horizon, seed, WithObserver(rec))
		require.NoError(t, err)

		// THEN counts are ordered and per-machine time accounting is bounded
		assert.GreaterOrEqual(t, res.CompletedCount, 0)
		assert.LessOrEqual(t, res.CompletedCount, res.GeneratedCount)
		for _, m := range res.Machines {
			assert.GreaterOrEqual(t, m.BusyTime, 0.0)
			assert.LessOrEqual(t, m.BusyTime, horizon)
			assert.LessOrEqual(t, m.BusyTime+m.Downtime, horizon+1e-9, "seed %d machine %s", seed, m.Name)
			assert.InDelta(t, m.BusyTime/horizon, m.Utilization, 1e-12)
		}

		// THEN downtime equals repair intervals clamped to the horizon
		down := map[string]float64{}
		failedAt := map[string]float64{}
		for _, e := range rec.Events {
			switch e.Kind {
			case "failure":
				failedAt[e.Machine] = e.Clock
			case "repair":
				down[e.Machine] += e.Value
				delete(failedAt, e.Machine)
			}
		}
		for name, at := range failedAt {
			down[name] += horizon - at
		}
		for _, m := range res.Machines {
			assert.InDelta(t, down[m.Name], m.Downtime, 1e-6, "seed %d machine %s", seed, m.Name)
		}

		// THEN jobs leave a line of single-slot FIFO stages in arrival order
		last := 0
		for _, e := range rec.Of("completion") {
			assert.Greater(t, e.JobID, last)
			last = e.JobID
		}
	}
}

func TestRunSingle_Saturated_Terminates(t *testing.T) {
	// GIVEN arrivals far faster than the line can process
	params := constantLine(10, 5, 5)

	// WHEN run
	res, err := RunSingle(params, 120, 1)

	// THEN the run ends at the horizon with a long queue rather than deadlocking
	require.NoError(t, err)
	assert.Less(t, res.CompletedCount, res.GeneratedCount)
	assert.Greater(t, res.Machines[0].PeakQueue, 100)
	assert.InDelta(t, 115.0, res.Machines[0].BusyTime, 1e-9)
}

func TestRunSingle_NoCompletions_NilLeadTime(t *testing.T) {
	// GIVEN a horizon shorter than a single cycle
	res, err := RunSingle(constantLine(0.1, 5), 1, 3)
	require.NoError(t, err)

	// THEN there is no lead time rather than a zero
	assert.Equal(t, 0, res.CompletedCount)
	assert.Nil(t, res.AvgLeadTimeMinutes)
	_, ok := res.AvgLeadTime()
	assert.False(t, ok)
	assert.Equal(t, 0.0, res.ThroughputPerHour)
}

func TestRunSingle_MachineNames(t *testing.T) {
	res, err := RunSingle(failingLine(), 60, 1)
	require.NoError(t, err)
	names := []string{res.Machines[0].Name, res.Machines[1].Name, res.Machines[2].Name}
	assert.Equal(t, []string{"CNC", "Finish", "Assembly"}, names)

	res, err = RunSingle(constantLine(0.1, 1, 1), 60, 1)
	require.NoError(t, err)
	assert.Equal(t, "M1", res.Machines[0].Name)
	assert.Equal(t, "M2", res.Machines[1].Name)
}

func TestSimulator_RunTwice_Error(t *testing.T) {
	s, err := NewSimulator(constantLine(0.1, 5), 60, 1)
	require.NoError(t, err)
	_, err = s.Run()
	require.NoError(t, err)
	_, err = s.Run()
	assert.Error(t, err)
}

func TestSimulator_EngineInvariant_ReturnedAsError(t *testing.T) {
	// GIVEN a replication in which a continuation schedules a negative delay
	s, err := NewSimulator(constantLine(0.1, 5), 60, 1)
	require.NoError(t, err)
	s.Sched.ScheduleAfter(1, EventTimedWait, nil, func() {
		s.Sched.ScheduleAfter(-1, EventTimedWait, nil, func() {})
	})

	// WHEN run
	_, err = s.RunToHorizon()

	// THEN the invariant violation surfaces as an *EngineError
	var ee *EngineError
	require.ErrorAs(t, err, &ee)
	assert.ErrorIs(t, err, ErrInvalidDelay)
	assert.Equal(t, 1.0, ee.Clock)
}

func TestSimulator_DegenerateSamples_Clamped(t *testing.T) {
	// GIVEN a sampler that always returns a negative duration
	params := constantLine(0.5, 1)
	params.ProcessingTimes[0] = testutil.Constant(-3)

	// WHEN run
	res, err := RunSingle(params, 60, 5)

	// THEN the run succeeds and each completed stage took the floor
	require.NoError(t, err)
	require.Greater(t, res.CompletedCount, 0)
	assert.InDelta(t, float64(res.CompletedCount)*MinProcessingTime, res.Machines[0].BusyTime, 1e-9)
}

func TestArrivals_SteppedPastHorizon_StopAdmitting(t *testing.T) {
	// GIVEN the arrival generator driven by hand instead of RunUntil
	rec := &testutil.Recorder{}
	s, err := NewSimulator(constantLine(0.5, 1), 50, 21, WithObserver(rec))
	require.NoError(t, err)
	s.startArrivals()

	// WHEN every pending event is executed, even those past the horizon
	steps := 0
	for s.Sched.Advance() {
		steps++
		require.Less(t, steps, 10000, "generator kept running past the horizon")
	}

	// THEN only arrivals before the horizon were admitted and the generator stopped
	assert.GreaterOrEqual(t, s.Sched.Now(), s.Horizon)
	assert.Zero(t, s.Sched.Pending())
	arrivals := rec.Of("arrival")
	require.NotEmpty(t, arrivals)
	for _, a := range arrivals {
		assert.Less(t, a.Clock, s.Horizon)
	}
	assert.Len(t, rec.Of("completion"), len(arrivals))
}
