package workload

import (
	"testing"
)

func TestPresets_AllValidate(t *testing.T) {
	for _, name := range PresetNames() {
		t.Run(name, func(t *testing.T) {
			spec, err := Preset(name)
			if err != nil {
				t.Fatal(err)
			}
			if spec.Name != name {
				t.Errorf("preset %q carries name %q", name, spec.Name)
			}
			p, err := spec.Params()
			if err != nil {
				t.Fatalf("preset %s invalid: %v", name, err)
			}
			if p.StageCount != 3 {
				t.Errorf("expected 3 stages, got %d", p.StageCount)
			}
		})
	}
}

func TestPresetNames_Sorted(t *testing.T) {
	want := []string{"level1_baseline", "level3_connected", "level4_predictive"}
	got := PresetNames()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
		}
	}
}

func TestPreset_Unknown_Error(t *testing.T) {
	if _, err := Preset("level2_digital"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestPreset_ReturnsFreshCopy(t *testing.T) {
	a, _ := Preset("level1_baseline")
	a.Stages[0].MTTF = 1
	b, _ := Preset("level1_baseline")
	if b.Stages[0].MTTF != 200 {
		t.Errorf("preset mutated through a previous copy: MTTF = %f", b.Stages[0].MTTF)
	}
}

func TestPresets_MaturityOrdering(t *testing.T) {
	// Higher maturity levels arrive faster and fail less often.
	base, _ := Preset("level1_baseline")
	conn, _ := Preset("level3_connected")
	pred, _ := Preset("level4_predictive")
	if !(base.Rate() < conn.Rate() && conn.Rate() < pred.Rate()) {
		t.Errorf("arrival rates not increasing: %f %f %f", base.Rate(), conn.Rate(), pred.Rate())
	}
	for i := range base.Stages {
		if !(base.Stages[i].MTTF < conn.Stages[i].MTTF && conn.Stages[i].MTTF < pred.Stages[i].MTTF) {
			t.Errorf("stage %d MTTF not increasing", i)
		}
	}
}
