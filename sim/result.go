package sim

// MachineStats summarises one machine over one replication.
type MachineStats struct {
	Name             string  `json:"name"`
	BusyTime         float64 `json:"busy_time"`
	Downtime         float64 `json:"downtime"`
	Utilization      float64 `json:"utilization"`
	DowntimeFraction float64 `json:"downtime_fraction"`
	Failures         int     `json:"failures"`
	PeakQueue        int     `json:"peak_queue"`
	MeanWait         float64 `json:"mean_wait"`
}

// ReplicationResult is the complete, side-effect-free outcome of one
// replication. AvgLeadTimeMinutes is nil when no job completed.
type ReplicationResult struct {
	Scenario           string         `json:"scenario"`
	Replication        int            `json:"replication"`
	Seed               int64          `json:"seed"`
	HorizonMinutes     float64        `json:"horizon_minutes"`
	ThroughputPerHour  float64        `json:"throughput_per_hour"`
	AvgLeadTimeMinutes *float64       `json:"avg_lead_time_minutes"`
	GeneratedCount     int            `json:"generated"`
	CompletedCount     int            `json:"completed"`
	Machines           []MachineStats `json:"machines"`
}

// AvgLeadTime returns the mean lead time and whether any job completed.
func (r ReplicationResult) AvgLeadTime() (float64, bool) {
	if r.AvgLeadTimeMinutes == nil {
		return 0, false
	}
	return *r.AvgLeadTimeMinutes, true
}
