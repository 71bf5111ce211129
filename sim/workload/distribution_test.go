package workload

import (
	"math"
	"math/rand/v2"
	"testing"
)

func newTestRNG() *rand.Rand {
	return rand.New(rand.NewPCG(42, 54))
}

func sampleMean(t *testing.T, spec DistSpec, n int) (mean, lo, hi float64) {
	t.Helper()
	s, err := NewDurationSampler(spec)
	if err != nil {
		t.Fatal(err)
	}
	rng := newTestRNG()
	lo, hi = math.Inf(1), math.Inf(-1)
	sum := 0.0
	for i := 0; i < n; i++ {
		v := s.Sample(rng)
		sum += v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return sum / float64(n), lo, hi
}

func TestGaussianSampler_MeanMatchesParam(t *testing.T) {
	mean, _, _ := sampleMean(t, DistSpec{Type: "gaussian", Params: map[string]float64{"mean": 10, "std_dev": 1.5, "min": 0.1}}, 20000)
	if math.Abs(mean-10)/10 > 0.02 {
		t.Errorf("gaussian mean = %.3f, want ≈ 10 (within 2%%)", mean)
	}
}

func TestGaussianSampler_ClampedToRange(t *testing.T) {
	_, lo, hi := sampleMean(t, DistSpec{Type: "gaussian", Params: map[string]float64{"mean": 5, "std_dev": 10, "min": 1, "max": 9}}, 10000)
	if lo < 1 || hi > 9 {
		t.Errorf("gaussian draws outside [1, 9]: min %.3f max %.3f", lo, hi)
	}
}

func TestGaussianSampler_NoMax_NoUpperBound(t *testing.T) {
	_, _, hi := sampleMean(t, DistSpec{Type: "gaussian", Params: map[string]float64{"mean": 5, "std_dev": 10, "min": 0.1}}, 10000)
	if hi < 30 {
		t.Errorf("expected unbounded upper tail, max draw %.3f", hi)
	}
}

func TestGaussianSampler_ZeroStdDev_Constant(t *testing.T) {
	_, lo, hi := sampleMean(t, DistSpec{Type: "gaussian", Params: map[string]float64{"mean": 7, "std_dev": 0}}, 100)
	if lo != 7 || hi != 7 {
		t.Errorf("expected constant 7, got range [%f, %f]", lo, hi)
	}
}

func TestSamplers_MeanMatchesDistribution(t *testing.T) {
	tests := []struct {
		name string
		spec DistSpec
		want float64
	}{
		{"exponential", DistSpec{Type: "exponential", Params: map[string]float64{"mean": 30}}, 30},
		{"lognormal", DistSpec{Type: "lognormal", Params: map[string]float64{"mu": 1, "sigma": 0.5}}, math.Exp(1 + 0.125)},
		{"triangular", DistSpec{Type: "triangular", Params: map[string]float64{"min": 2, "mode": 4, "max": 9}}, 5},
		{"uniform", DistSpec{Type: "uniform", Params: map[string]float64{"min": 4, "max": 8}}, 6},
		{"weibull", DistSpec{Type: "weibull", Params: map[string]float64{"shape": 1, "scale": 12}}, 12},
		{"constant", DistSpec{Type: "constant", Params: map[string]float64{"value": 3.5}}, 3.5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mean, lo, _ := sampleMean(t, tc.spec, 40000)
			if math.Abs(mean-tc.want)/tc.want > 0.03 {
				t.Errorf("%s mean = %.3f, want ≈ %.3f", tc.name, mean, tc.want)
			}
			if lo < 0 {
				t.Errorf("%s produced negative draw %f", tc.name, lo)
			}
		})
	}
}

func TestSamplers_SameStreamSameDraws(t *testing.T) {
	s, err := NewDurationSampler(DistSpec{Type: "triangular", Params: map[string]float64{"min": 1, "mode": 2, "max": 5}})
	if err != nil {
		t.Fatal(err)
	}
	a, b := newTestRNG(), newTestRNG()
	for i := 0; i < 50; i++ {
		if x, y := s.Sample(a), s.Sample(b); x != y {
			t.Fatalf("draw %d differs: %f vs %f", i, x, y)
		}
	}
}

func TestNewDurationSampler_InvalidParams(t *testing.T) {
	tests := []struct {
		name string
		spec DistSpec
	}{
		{"unknown type", DistSpec{Type: "pareto"}},
		{"gaussian missing std_dev", DistSpec{Type: "gaussian", Params: map[string]float64{"mean": 1}}},
		{"gaussian negative std_dev", DistSpec{Type: "gaussian", Params: map[string]float64{"mean": 1, "std_dev": -1}}},
		{"gaussian max below min", DistSpec{Type: "gaussian", Params: map[string]float64{"mean": 1, "std_dev": 1, "min": 5, "max": 2}}},
		{"exponential zero mean", DistSpec{Type: "exponential", Params: map[string]float64{"mean": 0}}},
		{"lognormal zero sigma", DistSpec{Type: "lognormal", Params: map[string]float64{"mu": 0, "sigma": 0}}},
		{"triangular mode outside", DistSpec{Type: "triangular", Params: map[string]float64{"min": 1, "mode": 9, "max": 5}}},
		{"uniform empty", DistSpec{Type: "uniform", Params: map[string]float64{"min": 3, "max": 3}}},
		{"weibull zero shape", DistSpec{Type: "weibull", Params: map[string]float64{"shape": 0, "scale": 1}}},
		{"constant missing value", DistSpec{Type: "constant"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewDurationSampler(tc.spec); err == nil {
				t.Errorf("expected error for %+v", tc.spec)
			}
		})
	}
}
