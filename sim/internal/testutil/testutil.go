// Package testutil provides shared test infrastructure for the line simulator.
// It holds assertion helpers and test doubles used across the sim/ test
// packages. It does not import sim, so sim's internal tests can use it.
package testutil

import (
	"math"
	"math/rand/v2"
	"testing"
)

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// Constant is a duration sampler that always returns its own value.
type Constant float64

func (c Constant) Sample(_ *rand.Rand) float64 { return float64(c) }

// Sequence returns its values in order, then repeats the last one.
type Sequence struct {
	Values []float64
	next   int
}

func (s *Sequence) Sample(_ *rand.Rand) float64 {
	v := s.Values[s.next]
	if s.next < len(s.Values)-1 {
		s.next++
	}
	return v
}

// Event is one notification seen by a Recorder.
type Event struct {
	Kind    string // "arrival", "completion", "failure", "repair"
	Clock   float64
	JobID   int
	Machine string
	Value   float64
}

// Recorder is an observer that stores every notification it receives.
type Recorder struct {
	Events []Event
}

func (r *Recorder) JobArrived(clock float64, jobID int) {
	r.Events = append(r.Events, Event{Kind: "arrival", Clock: clock, JobID: jobID})
}

func (r *Recorder) JobCompleted(clock float64, jobID int, leadTime float64) {
	r.Events = append(r.Events, Event{Kind: "completion", Clock: clock, JobID: jobID, Value: leadTime})
}

func (r *Recorder) MachineFailed(clock float64, machine string) {
	r.Events = append(r.Events, Event{Kind: "failure", Clock: clock, Machine: machine})
}

func (r *Recorder) MachineRepaired(clock float64, machine string, repairTime float64) {
	r.Events = append(r.Events, Event{Kind: "repair", Clock: clock, Machine: machine, Value: repairTime})
}

// Of returns the recorded events of one kind, in order.
func (r *Recorder) Of(kind string) []Event {
	var out []Event
	for _, e := range r.Events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
