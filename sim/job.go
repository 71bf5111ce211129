package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// remainingEpsilon is the processing remainder treated as done.
const remainingEpsilon = 1e-9

// Job is a unit of work that traverses Route in order. It exists only while
// its process runs; once recorded it is dropped.
type Job struct {
	ID          int
	ArrivalTime float64
	Route       []*Machine
	StageTimes  []float64 // drawn on entering each stage; zero until then

	sim *Simulator
}

func (j *Job) String() string {
	return fmt.Sprintf("job_%d", j.ID)
}

// LeadTime returns completion − arrival for a job finished at now.
func (j *Job) LeadTime(now float64) float64 {
	return now - j.ArrivalTime
}

func (j *Job) run(p *Process) {
	j.enterStage(p, 0)
}

func (j *Job) enterStage(p *Process, stage int) {
	if stage == len(j.Route) {
		j.complete(p)
		return
	}
	m := j.Route[stage]
	p.Request(m.Resource, func() {
		d := j.sim.sampleProcessing(stage)
		j.StageTimes[stage] = d
		logrus.Tracef("[t=%10.4f] %s started on %s (%.4f min)", p.Now(), j, m.Name, d)
		j.process(p, stage, d)
	})
}

// process advances the current stage by at most the time left before the
// machine's next failure. While the machine is under repair the job keeps its
// reservation and waits for the repair to finish; stalled time is never
// counted as busy time.
func (j *Job) process(p *Process, stage int, remaining float64) {
	m := j.Route[stage]
	if remaining <= remainingEpsilon {
		j.finishStage(p, stage)
		return
	}
	if m.Failed() {
		m.awaitRepair(p, func() { j.process(p, stage, remaining) })
		return
	}
	untilFailure := m.NextFailureTime() - p.Now()
	if untilFailure <= 0 {
		if untilFailure < 0 || !m.monitored {
			fail(p.Now(), ErrFailureOverdue, "%s on %s: failure due at %v", j, m.Name, m.NextFailureTime())
		}
		// Due at this instant; the monitor's pending event fires first.
		p.Timeout(0, func() { j.process(p, stage, remaining) })
		return
	}
	if remaining <= untilFailure {
		p.Timeout(remaining, func() { j.process(p, stage, 0) })
		return
	}
	start, failAt := p.Now(), m.NextFailureTime()
	p.TimeoutUntil(failAt, func() { j.process(p, stage, remaining-(failAt-start)) })
}

func (j *Job) finishStage(p *Process, stage int) {
	m := j.Route[stage]
	m.BusyTime += j.StageTimes[stage]
	p.Release(m.Resource)
	j.enterStage(p, stage+1)
}

func (j *Job) complete(p *Process) {
	lead := j.LeadTime(p.Now())
	j.sim.Collector.RecordCompletion(p.Now(), lead)
	j.sim.observer.JobCompleted(p.Now(), j.ID, lead)
	logrus.Tracef("[t=%10.4f] %s completed, lead time %.4f", p.Now(), j, lead)
}
