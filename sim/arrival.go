package sim

import (
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/distuv"
)

// startArrivals spawns the generator that admits jobs as a Poisson process
// until the horizon.
func (s *Simulator) startArrivals() *Process {
	rng := s.rng.ForSubsystem(SubsystemArrivals)
	iat := distuv.Exponential{Rate: s.Params.ArrivalRate, Src: rng}
	return s.Sched.Spawn("arrivals", func(p *Process) {
		s.nextArrival(p, iat)
	})
}

func (s *Simulator) nextArrival(p *Process, iat distuv.Exponential) {
	p.Timeout(iat.Rand(), func() {
		// RunUntil abandons this event before it is due; only a caller
		// stepping Advance by hand reaches it past the horizon.
		if p.Now() >= s.Horizon {
			logrus.Debugf("[t=%10.4f] arrivals stopped at horizon", p.Now())
			return
		}
		s.SpawnJob()
		s.nextArrival(p, iat)
	})
}

// SpawnJob admits one job at the current time and starts its process. The
// arrival generator calls it; tests use it to inject deterministic arrivals.
func (s *Simulator) SpawnJob() *Job {
	s.nextJobID++
	job := &Job{
		ID:          s.nextJobID,
		ArrivalTime: s.Sched.Now(),
		Route:       s.Machines,
		StageTimes:  make([]float64, len(s.Machines)),
		sim:         s,
	}
	s.Collector.RecordArrival()
	s.observer.JobArrived(job.ArrivalTime, job.ID)
	s.Sched.Spawn(job.String(), job.run)
	return job
}

func (s *Simulator) sampleProcessing(stage int) float64 {
	rng := s.processingRNG[stage]
	return clampFloor("processing", s.Params.ProcessingTimes[stage].Sample(rng), MinProcessingTime)
}
