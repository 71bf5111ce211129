package workload

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/i4mm/linesim/sim"
)

// DurationSampler is the engine's sampler interface, re-exported so scenario
// code does not need to import sim for it.
type DurationSampler = sim.DurationSampler

// ScenarioSpec is the on-disk description of one automation scenario.
// Loaded from YAML via LoadScenarioSpec(path).
type ScenarioSpec struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	// Exactly one of ArrivalRate (jobs per minute) or MeanInterarrival
	// (minutes between jobs) must be set.
	ArrivalRate      float64 `yaml:"arrival_rate,omitempty"`
	MeanInterarrival float64 `yaml:"mean_interarrival,omitempty"`

	Capacity       int         `yaml:"capacity,omitempty"`        // per machine, default 1
	HorizonMinutes float64     `yaml:"horizon_minutes,omitempty"` // 0 = use CLI default
	Replications   int         `yaml:"replications,omitempty"`    // 0 = use CLI default
	Stages         []StageSpec `yaml:"stages"`
}

// StageSpec describes one machine of the line, in routing order.
type StageSpec struct {
	Machine    string   `yaml:"machine"`
	MTTF       float64  `yaml:"mttf"` // mean minutes to failure
	MTTR       float64  `yaml:"mttr"` // mean minutes to repair
	Processing DistSpec `yaml:"processing"`
}

// DistSpec parameterizes a duration distribution.
type DistSpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// Valid value registries.
var validDistTypes = map[string]bool{
	"gaussian": true, "exponential": true, "lognormal": true, "triangular": true,
	"uniform": true, "weibull": true, "constant": true,
}

// LoadScenarioSpec reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadScenarioSpec(path string) (*ScenarioSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario spec: %w", err)
	}
	return ParseScenarioSpec(data)
}

// ParseScenarioSpec parses YAML scenario bytes with strict field checking.
func ParseScenarioSpec(data []byte) (*ScenarioSpec, error) {
	var spec ScenarioSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing scenario spec: %w", err)
	}
	return &spec, nil
}

// Validate checks that all fields of the scenario are valid. Every failure wraps
// sim.ErrConfiguration.
func (s *ScenarioSpec) Validate() error {
	if s.Name == "" {
		return &sim.ConfigError{Field: "name", Reason: "is required"}
	}
	switch {
	case s.ArrivalRate != 0 && s.MeanInterarrival != 0:
		return &sim.ConfigError{Field: "arrival_rate", Reason: "set either arrival_rate or mean_interarrival, not both"}
	case s.ArrivalRate != 0:
		if err := validateFinitePositive("arrival_rate", s.ArrivalRate); err != nil {
			return err
		}
	case s.MeanInterarrival != 0:
		if err := validateFinitePositive("mean_interarrival", s.MeanInterarrival); err != nil {
			return err
		}
	default:
		return &sim.ConfigError{Field: "arrival_rate", Reason: "arrival_rate or mean_interarrival is required"}
	}
	if s.Capacity < 0 {
		return &sim.ConfigError{Field: "capacity", Reason: fmt.Sprintf("must not be negative, got %d", s.Capacity)}
	}
	if s.HorizonMinutes < 0 || math.IsNaN(s.HorizonMinutes) || math.IsInf(s.HorizonMinutes, 0) {
		return &sim.ConfigError{Field: "horizon_minutes", Reason: fmt.Sprintf("must be a finite non-negative number, got %f", s.HorizonMinutes)}
	}
	if s.Replications < 0 {
		return &sim.ConfigError{Field: "replications", Reason: fmt.Sprintf("must not be negative, got %d", s.Replications)}
	}
	if len(s.Stages) == 0 {
		return &sim.ConfigError{Field: "stages", Reason: "at least one stage is required"}
	}
	for i := range s.Stages {
		if err := validateStage(&s.Stages[i], i); err != nil {
			return err
		}
	}
	return nil
}

func validateStage(st *StageSpec, idx int) error {
	prefix := fmt.Sprintf("stages[%d]", idx)
	if err := validateFinitePositive(prefix+".mttf", st.MTTF); err != nil {
		return err
	}
	if err := validateFinitePositive(prefix+".mttr", st.MTTR); err != nil {
		return err
	}
	return validateDistSpec(prefix+".processing", &st.Processing)
}

func validateDistSpec(prefix string, d *DistSpec) error {
	if !validDistTypes[d.Type] {
		return &sim.ConfigError{Field: prefix + ".type", Reason: fmt.Sprintf("unknown distribution type %q; valid: gaussian, exponential, lognormal, triangular, uniform, weibull, constant", d.Type)}
	}
	for name, val := range d.Params {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return &sim.ConfigError{Field: prefix + ".params." + name, Reason: fmt.Sprintf("must be a finite number, got %f", val)}
		}
	}
	if _, err := NewDurationSampler(*d); err != nil {
		return &sim.ConfigError{Field: prefix, Reason: err.Error()}
	}
	if d.Type == "constant" && d.Params["value"] <= 0 {
		return &sim.ConfigError{Field: prefix + ".params.value", Reason: fmt.Sprintf("must be positive, got %f", d.Params["value"])}
	}
	return nil
}

func validateFinitePositive(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return &sim.ConfigError{Field: name, Reason: fmt.Sprintf("must be a finite number, got %f", val)}
	}
	if val <= 0 {
		return &sim.ConfigError{Field: name, Reason: fmt.Sprintf("must be positive, got %f", val)}
	}
	return nil
}

// Rate returns the arrival rate in jobs per minute.
func (s *ScenarioSpec) Rate() float64 {
	if s.MeanInterarrival > 0 {
		return 1 / s.MeanInterarrival
	}
	return s.ArrivalRate
}

// Params validates the scenario and converts it into engine parameters.
func (s *ScenarioSpec) Params() (sim.ScenarioParams, error) {
	if err := s.Validate(); err != nil {
		return sim.ScenarioParams{}, err
	}
	n := len(s.Stages)
	p := sim.ScenarioParams{
		Name:            s.Name,
		ArrivalRate:     s.Rate(),
		StageCount:      n,
		MachineNames:    make([]string, n),
		MTTF:            make([]float64, n),
		MTTR:            make([]float64, n),
		ProcessingTimes: make([]sim.DurationSampler, n),
		Capacity:        s.Capacity,
	}
	for i, st := range s.Stages {
		sampler, err := NewDurationSampler(st.Processing)
		if err != nil {
			return sim.ScenarioParams{}, &sim.ConfigError{Field: fmt.Sprintf("stages[%d].processing", i), Reason: err.Error()}
		}
		p.MachineNames[i] = st.Machine
		p.MTTF[i] = st.MTTF
		p.MTTR[i] = st.MTTR
		p.ProcessingTimes[i] = sampler
		if st.Processing.Type == "exponential" || (st.Processing.Type == "gaussian" && st.Processing.Params["min"] <= 0) {
			logrus.Warnf("scenario %q stage %d: processing draws may fall below %.2f min and will be clamped",
				s.Name, i, sim.MinProcessingTime)
		}
	}
	return p, nil
}
