package sim

// Collector accumulates job outcomes for one replication. Machine
// accumulators live on the machines themselves and are read at the horizon.
type Collector struct {
	Generated       int
	LeadTimes       []float64
	CompletionTimes []float64
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// RecordArrival counts an admitted job.
func (c *Collector) RecordArrival() {
	c.Generated++
}

// RecordCompletion stores a finished job's lead time and completion time.
func (c *Collector) RecordCompletion(at, leadTime float64) {
	c.LeadTimes = append(c.LeadTimes, leadTime)
	c.CompletionTimes = append(c.CompletionTimes, at)
}

// Completed returns the number of finished jobs.
func (c *Collector) Completed() int {
	return len(c.LeadTimes)
}

// Result computes the replication KPIs at the horizon.
func (c *Collector) Result(horizon float64, machines []*Machine) ReplicationResult {
	res := ReplicationResult{
		HorizonMinutes:    horizon,
		ThroughputPerHour: float64(c.Completed()) / (horizon / 60.0),
		GeneratedCount:    c.Generated,
		CompletedCount:    c.Completed(),
		Machines:          make([]MachineStats, 0, len(machines)),
	}
	if n := len(c.LeadTimes); n > 0 {
		sum := 0.0
		for _, lt := range c.LeadTimes {
			sum += lt
		}
		avg := sum / float64(n)
		res.AvgLeadTimeMinutes = &avg
	}
	for _, m := range machines {
		down := m.DowntimeAt(horizon)
		res.Machines = append(res.Machines, MachineStats{
			Name:             m.Name,
			BusyTime:         m.BusyTime,
			Downtime:         down,
			Utilization:      m.BusyTime / horizon,
			DowntimeFraction: down / horizon,
			Failures:         m.Failures,
			PeakQueue:        m.Resource.PeakQueueLen(),
			MeanWait:         m.Resource.MeanWait(),
		})
	}
	return res
}
