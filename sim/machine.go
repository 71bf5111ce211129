package sim

import (
	"math"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

// MachineState is the failure/repair state of a machine.
type MachineState int

const (
	// MachineUp is the initial state; jobs make progress.
	MachineUp MachineState = iota
	// MachineFailed means the machine is under repair; jobs holding it stall.
	MachineFailed
)

func (s MachineState) String() string {
	if s == MachineFailed {
		return "Failed"
	}
	return "Up"
}

// Machine composes a Resource with a failure/repair lifecycle and the
// accumulators the collector reads at the horizon.
type Machine struct {
	Index    int
	Name     string
	MTTF     float64 // mean minutes to failure
	MTTR     float64 // mean minutes to repair
	Resource *Resource

	BusyTime float64 // credited per finished stage, full stage duration
	Downtime float64 // sum of completed repair durations
	Failures int

	state       MachineState
	monitored   bool
	nextFailure float64
	repairStart float64
	stalled     []waiter

	sched    *Scheduler
	rng      *rand.Rand
	observer Observer
}

// NewMachine creates a machine in the Up state and draws its first failure time.
func NewMachine(s *Scheduler, index int, name string, mttf, mttr float64, capacity int, rng *rand.Rand) (*Machine, error) {
	res, err := NewResource(s, name, capacity)
	if err != nil {
		return nil, err
	}
	m := &Machine{
		Index:    index,
		Name:     name,
		MTTF:     mttf,
		MTTR:     mttr,
		Resource: res,
		sched:    s,
		rng:      rng,
		observer: nopObserver{},
	}
	m.scheduleNextFailure()
	return m, nil
}

// State returns the current machine state.
func (m *Machine) State() MachineState { return m.state }

// Failed reports whether the machine is under repair.
func (m *Machine) Failed() bool { return m.state == MachineFailed }

// NextFailureTime is the absolute time of the next scheduled failure.
func (m *Machine) NextFailureTime() float64 { return m.nextFailure }

// StalledJobs returns the number of jobs waiting for the current repair.
func (m *Machine) StalledJobs() int { return len(m.stalled) }

// DowntimeAt returns downtime as seen at the horizon: completed repairs plus
// the in-horizon portion of a repair still in progress.
func (m *Machine) DowntimeAt(horizon float64) float64 {
	if m.state == MachineFailed && horizon > m.repairStart {
		return m.Downtime + horizon - m.repairStart
	}
	return m.Downtime
}

func (m *Machine) scheduleNextFailure() {
	ttf := clampFloor("time-to-failure", drawExp(m.rng, m.MTTF), MinTimeToFailure)
	m.nextFailure = m.sched.now + ttf
	if m.nextFailure <= m.sched.now {
		// now+ttf rounded back onto now; step to the next representable time.
		m.nextFailure = math.Nextafter(m.sched.now, math.Inf(1))
	}
}

// StartMonitor spawns the failure-monitor process. It loops until the
// scheduler abandons it at the horizon.
func (m *Machine) StartMonitor() *Process {
	m.monitored = true
	return m.sched.Spawn("monitor:"+m.Name, m.awaitFailure)
}

func (m *Machine) awaitFailure(p *Process) {
	p.TimeoutUntil(m.nextFailure, func() { m.fail(p) })
}

func (m *Machine) fail(p *Process) {
	m.state = MachineFailed
	m.Failures++
	m.repairStart = p.Now()
	repair := clampFloor("repair", drawExp(m.rng, m.MTTR), MinRepairTime)
	logrus.Debugf("[t=%10.4f] %s failed; repair %.4f min", p.Now(), m.Name, repair)
	m.observer.MachineFailed(p.Now(), m.Name)
	p.Timeout(repair, func() { m.repair(p, repair) })
}

func (m *Machine) repair(p *Process, repair float64) {
	m.Downtime += repair
	m.state = MachineUp
	logrus.Debugf("[t=%10.4f] %s repaired", p.Now(), m.Name)
	m.observer.MachineRepaired(p.Now(), m.Name, repair)
	for _, w := range m.stalled {
		m.sched.ScheduleAfter(0, EventRepairWake, w.proc, w.next)
	}
	m.stalled = m.stalled[:0]
	m.scheduleNextFailure()
	m.awaitFailure(p)
}

// awaitRepair parks a job until the running repair completes.
func (m *Machine) awaitRepair(p *Process, next func()) {
	m.stalled = append(m.stalled, waiter{proc: p, since: p.Now(), next: next})
}
