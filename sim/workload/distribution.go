package workload

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Every sampler here is stateless: the caller passes its own RNG stream, so a
// single sampler may be shared by replications running on different goroutines.
// Samplers do not clamp to the engine's positive floor; sim does that.

// GaussianSampler draws normal durations clamped to [min, max]. A zero max
// means no upper bound.
type GaussianSampler struct {
	mean, stdDev float64
	min, max     float64
}

func (s *GaussianSampler) Sample(rng *rand.Rand) float64 {
	if s.stdDev == 0 {
		return s.clamp(s.mean)
	}
	return s.clamp(distuv.Normal{Mu: s.mean, Sigma: s.stdDev, Src: rng}.Rand())
}

func (s *GaussianSampler) clamp(v float64) float64 {
	v = math.Max(s.min, v)
	if s.max > 0 {
		v = math.Min(s.max, v)
	}
	return v
}

// ExponentialSampler draws exponentially distributed durations.
type ExponentialSampler struct {
	mean float64
}

func (s *ExponentialSampler) Sample(rng *rand.Rand) float64 {
	return distuv.Exponential{Rate: 1 / s.mean, Src: rng}.Rand()
}

// LogNormalSampler draws durations whose logarithm is normal(mu, sigma).
type LogNormalSampler struct {
	mu, sigma float64
}

func (s *LogNormalSampler) Sample(rng *rand.Rand) float64 {
	return distuv.LogNormal{Mu: s.mu, Sigma: s.sigma, Src: rng}.Rand()
}

// TriangularSampler draws from the (min, mode, max) triangle commonly used
// for expert-estimated cycle times.
type TriangularSampler struct {
	min, mode, max float64
}

func (s *TriangularSampler) Sample(rng *rand.Rand) float64 {
	return distuv.NewTriangle(s.min, s.max, s.mode, rng).Rand()
}

// UniformSampler draws uniformly from [min, max).
type UniformSampler struct {
	min, max float64
}

func (s *UniformSampler) Sample(rng *rand.Rand) float64 {
	return distuv.Uniform{Min: s.min, Max: s.max, Src: rng}.Rand()
}

// WeibullSampler draws Weibull(shape k, scale lambda) durations.
type WeibullSampler struct {
	shape, scale float64
}

func (s *WeibullSampler) Sample(rng *rand.Rand) float64 {
	return distuv.Weibull{K: s.shape, Lambda: s.scale, Src: rng}.Rand()
}

// ConstantSampler always returns the same fixed value.
// Used for deterministic cycle times (zero variance).
type ConstantSampler struct {
	value float64
}

func (s *ConstantSampler) Sample(_ *rand.Rand) float64 {
	return s.value
}

// NewConstantSampler returns a sampler that always yields v minutes.
func NewConstantSampler(v float64) *ConstantSampler {
	return &ConstantSampler{value: v}
}

// requireParam checks that all required keys exist in a params map.
func requireParam(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return fmt.Errorf("distribution requires parameter %q", k)
		}
	}
	return nil
}

// NewDurationSampler creates a sampler from a DistSpec.
func NewDurationSampler(spec DistSpec) (DurationSampler, error) {
	switch spec.Type {
	case "gaussian":
		if err := requireParam(spec.Params, "mean", "std_dev"); err != nil {
			return nil, err
		}
		s := &GaussianSampler{
			mean:   spec.Params["mean"],
			stdDev: spec.Params["std_dev"],
			min:    spec.Params["min"],
			max:    spec.Params["max"],
		}
		if s.stdDev < 0 {
			return nil, fmt.Errorf("gaussian std_dev must be non-negative, got %f", s.stdDev)
		}
		if s.max > 0 && s.max < s.min {
			return nil, fmt.Errorf("gaussian max %f below min %f", s.max, s.min)
		}
		return s, nil

	case "exponential":
		if err := requireParam(spec.Params, "mean"); err != nil {
			return nil, err
		}
		if spec.Params["mean"] <= 0 {
			return nil, fmt.Errorf("exponential mean must be positive, got %f", spec.Params["mean"])
		}
		return &ExponentialSampler{mean: spec.Params["mean"]}, nil

	case "lognormal":
		if err := requireParam(spec.Params, "mu", "sigma"); err != nil {
			return nil, err
		}
		if spec.Params["sigma"] <= 0 {
			return nil, fmt.Errorf("lognormal sigma must be positive, got %f", spec.Params["sigma"])
		}
		return &LogNormalSampler{mu: spec.Params["mu"], sigma: spec.Params["sigma"]}, nil

	case "triangular":
		if err := requireParam(spec.Params, "min", "mode", "max"); err != nil {
			return nil, err
		}
		lo, mode, hi := spec.Params["min"], spec.Params["mode"], spec.Params["max"]
		if !(lo < hi) || mode < lo || mode > hi {
			return nil, fmt.Errorf("triangular requires min <= mode <= max and min < max, got (%f, %f, %f)", lo, mode, hi)
		}
		return &TriangularSampler{min: lo, mode: mode, max: hi}, nil

	case "uniform":
		if err := requireParam(spec.Params, "min", "max"); err != nil {
			return nil, err
		}
		if !(spec.Params["min"] < spec.Params["max"]) {
			return nil, fmt.Errorf("uniform requires min < max, got (%f, %f)", spec.Params["min"], spec.Params["max"])
		}
		return &UniformSampler{min: spec.Params["min"], max: spec.Params["max"]}, nil

	case "weibull":
		if err := requireParam(spec.Params, "shape", "scale"); err != nil {
			return nil, err
		}
		if spec.Params["shape"] <= 0 || spec.Params["scale"] <= 0 {
			return nil, fmt.Errorf("weibull shape and scale must be positive, got (%f, %f)", spec.Params["shape"], spec.Params["scale"])
		}
		return &WeibullSampler{shape: spec.Params["shape"], scale: spec.Params["scale"]}, nil

	case "constant":
		if err := requireParam(spec.Params, "value"); err != nil {
			return nil, err
		}
		return &ConstantSampler{value: spec.Params["value"]}, nil

	default:
		return nil, fmt.Errorf("unknown distribution type %q", spec.Type)
	}
}
