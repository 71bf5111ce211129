package sim

// Observer receives lifecycle notifications from a running replication.
// Calls happen synchronously on the replication's goroutine, in event order.
// sim/trace provides the standard implementation.
type Observer interface {
	JobArrived(clock float64, jobID int)
	JobCompleted(clock float64, jobID int, leadTime float64)
	MachineFailed(clock float64, machine string)
	MachineRepaired(clock float64, machine string, repairTime float64)
}

type nopObserver struct{}

func (nopObserver) JobArrived(float64, int)                  {}
func (nopObserver) JobCompleted(float64, int, float64)       {}
func (nopObserver) MachineFailed(float64, string)            {}
func (nopObserver) MachineRepaired(float64, string, float64) {}
