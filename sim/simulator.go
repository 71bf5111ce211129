// sim/simulator.go
package sim

import (
	"errors"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

// Option customises a Simulator.
type Option func(*Simulator)

// WithObserver attaches an observer that sees every arrival, completion,
// failure and repair of the replication.
func WithObserver(o Observer) Option {
	return func(s *Simulator) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithReplication stamps the replication index onto the result.
func WithReplication(r int) Option {
	return func(s *Simulator) { s.replication = r }
}

// Simulator holds one replication: clock, machines, collector and RNG streams.
// It is single-use; build a new one for every replication.
type Simulator struct {
	Params    ScenarioParams
	Horizon   float64
	Seed      int64
	Sched     *Scheduler
	Machines  []*Machine
	Collector *Collector

	rng           *PartitionedRNG
	processingRNG []*rand.Rand
	observer      Observer
	replication   int
	nextJobID     int
	ran           bool
}

// NewSimulator validates the scenario and builds a fresh line. Configuration
// errors are returned before anything is scheduled.
func NewSimulator(params ScenarioParams, horizon float64, seed int64, opts ...Option) (*Simulator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := validateHorizon(horizon); err != nil {
		return nil, err
	}
	s := &Simulator{
		Params:    params,
		Horizon:   horizon,
		Seed:      seed,
		Sched:     NewScheduler(),
		Collector: NewCollector(),
		rng:       NewPartitionedRNG(NewSimulationKey(seed)),
		observer:  nopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	for i := 0; i < params.StageCount; i++ {
		m, err := NewMachine(s.Sched, i, params.MachineName(i), params.MTTF[i], params.MTTR[i],
			params.capacity(), s.rng.ForSubsystem(SubsystemFailures(i)))
		if err != nil {
			return nil, err
		}
		m.observer = s.observer
		s.Machines = append(s.Machines, m)
		s.processingRNG = append(s.processingRNG, s.rng.ForSubsystem(SubsystemProcessing(i)))
	}
	return s, nil
}

// StartMachines spawns one failure monitor per machine.
func (s *Simulator) StartMachines() {
	for _, m := range s.Machines {
		m.StartMonitor()
	}
}

// Run starts the monitors and the arrival generator, runs the scheduler to
// the horizon and returns the collected result. An engine invariant violation
// aborts the run and is returned as *EngineError.
func (s *Simulator) Run() (ReplicationResult, error) {
	if s.ran {
		return ReplicationResult{}, errors.New("simulator already run; build a new one per replication")
	}
	s.StartMachines()
	s.startArrivals()
	return s.RunToHorizon()
}

// RunToHorizon drives the scheduler to the horizon without spawning any
// processes itself, then collects. Run calls it after starting the line.
// Without StartMachines, a job that reaches a machine's failure time aborts
// the run with ErrFailureOverdue.
func (s *Simulator) RunToHorizon() (res ReplicationResult, err error) {
	if s.ran {
		return ReplicationResult{}, errors.New("simulator already run; build a new one per replication")
	}
	s.ran = true
	defer func() {
		if r := recover(); r != nil {
			ee, ok := r.(*EngineError)
			if !ok {
				panic(r)
			}
			logrus.Errorf("scenario %q seed %d aborted: %v", s.Params.Name, s.Seed, ee)
			res, err = ReplicationResult{}, ee
		}
	}()

	logrus.Debugf("scenario %q seed %d: running %d stages to %.1f min", s.Params.Name, s.Seed, len(s.Machines), s.Horizon)
	s.Sched.RunUntil(s.Horizon)

	res = s.Collector.Result(s.Horizon, s.Machines)
	res.Scenario = s.Params.Name
	res.Seed = s.Seed
	res.Replication = s.replication
	logrus.Debugf("scenario %q seed %d: generated=%d completed=%d throughput=%.3f/h",
		s.Params.Name, s.Seed, res.GeneratedCount, res.CompletedCount, res.ThroughputPerHour)
	return res, nil
}

// RunSingle runs one replication of params to horizonMinutes with the given seed.
func RunSingle(params ScenarioParams, horizonMinutes float64, seed int64, opts ...Option) (ReplicationResult, error) {
	s, err := NewSimulator(params, horizonMinutes, seed, opts...)
	if err != nil {
		return ReplicationResult{}, err
	}
	return s.Run()
}
