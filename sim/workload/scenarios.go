package workload

import (
	"fmt"
	"sort"
	"strings"
)

// Built-in scenario presets for the three automation maturity levels.
// Each returns a valid ScenarioSpec ready for Params().

// Machine names of the reference three-stage line.
var referenceMachines = [3]string{"M1 (CNC)", "M2 (Finish)", "Assembly"}

// processingFloor matches the clamp the reference line applies to its
// normally distributed cycle times.
const processingFloor = 0.1

func gaussianStage(machine string, mttf, mttr, mean, stdDev float64) StageSpec {
	return StageSpec{
		Machine: machine, MTTF: mttf, MTTR: mttr,
		Processing: DistSpec{Type: "gaussian", Params: map[string]float64{
			"mean": mean, "std_dev": stdDev, "min": processingFloor,
		}},
	}
}

// ScenarioBaseline is a manual line: frequent, slow-to-repair failures.
func ScenarioBaseline() *ScenarioSpec {
	return &ScenarioSpec{
		Name:             "level1_baseline",
		Description:      "Manual / basic: reactive maintenance, manual handling",
		MeanInterarrival: 20,
		Stages: []StageSpec{
			gaussianStage(referenceMachines[0], 200, 40, 10, 1.5),
			gaussianStage(referenceMachines[1], 300, 30, 8, 1.0),
			gaussianStage(referenceMachines[2], 400, 30, 6, 0.5),
		},
	}
}

// ScenarioConnected is an IoT-connected line with faster diagnosis.
func ScenarioConnected() *ScenarioSpec {
	return &ScenarioSpec{
		Name:             "level3_connected",
		Description:      "Connected operations: machines integrated via IoT, dashboards",
		MeanInterarrival: 18,
		Stages: []StageSpec{
			gaussianStage(referenceMachines[0], 300, 30, 9, 1.2),
			gaussianStage(referenceMachines[1], 450, 20, 7.5, 0.9),
			gaussianStage(referenceMachines[2], 600, 20, 5.5, 0.4),
		},
	}
}

// ScenarioPredictive adds predictive maintenance: rare, short failures.
func ScenarioPredictive() *ScenarioSpec {
	return &ScenarioSpec{
		Name:             "level4_predictive",
		Description:      "Predictive / smart: predictive maintenance, analytics-driven scheduling",
		MeanInterarrival: 16,
		Stages: []StageSpec{
			gaussianStage(referenceMachines[0], 600, 15, 8.5, 1.0),
			gaussianStage(referenceMachines[1], 900, 12, 7.0, 0.8),
			gaussianStage(referenceMachines[2], 1200, 10, 5.0, 0.3),
		},
	}
}

var presets = map[string]func() *ScenarioSpec{
	"level1_baseline":   ScenarioBaseline,
	"level3_connected":  ScenarioConnected,
	"level4_predictive": ScenarioPredictive,
}

// PresetNames returns the built-in scenario names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset returns a fresh copy of the named built-in scenario.
func Preset(name string) (*ScenarioSpec, error) {
	build, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario preset %q; valid: %s", name, strings.Join(PresetNames(), ", "))
	}
	return build(), nil
}
