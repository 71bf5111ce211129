// Package replication runs many independently seeded replications of one
// scenario and summarises them.
package replication

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/i4mm/linesim/sim"
)

// SeedFunc maps a 1-based replication index to its seed.
type SeedFunc func(replication int) int64

// DefaultSeedOffset is the offset used by DefaultSeed.
const DefaultSeedOffset = 7

// DefaultSeed is seed = r*100 + 7, so replication r is reproducible on its own.
func DefaultSeed(replication int) int64 {
	return int64(replication)*100 + DefaultSeedOffset
}

// OffsetSeed returns seed = r*100 + offset.
func OffsetSeed(offset int64) SeedFunc {
	return func(replication int) int64 {
		return int64(replication)*100 + offset
	}
}

// ObserverFactory builds a per-replication observer. It is called on the
// goroutine that runs the replication.
type ObserverFactory func(replication int, seed int64) sim.Observer

type config struct {
	parallelism int
	observers   ObserverFactory
}

// Option customises RunReplications.
type Option func(*config)

// WithParallelism bounds how many replications run at once. Values below one
// mean runtime.GOMAXPROCS(0).
func WithParallelism(n int) Option {
	return func(c *config) { c.parallelism = n }
}

// WithObservers attaches an observer to every replication.
func WithObservers(f ObserverFactory) Option {
	return func(c *config) { c.observers = f }
}

// RunReplications executes count replications of params, replication r using
// seed seedFn(r), and returns the results ordered by r. Replications share no
// mutable state, so they may run concurrently; every individual result is the
// same as sim.RunSingle with the same seed. A nil seedFn means DefaultSeed.
//
// Samplers in params are shared between goroutines and must be stateless.
func RunReplications(ctx context.Context, params sim.ScenarioParams, horizonMinutes float64, count int, seedFn SeedFunc, opts ...Option) ([]sim.ReplicationResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if count < 1 {
		return nil, &sim.ConfigError{Field: "replications", Reason: fmt.Sprintf("must be at least 1, got %d", count)}
	}
	if seedFn == nil {
		seedFn = DefaultSeed
	}
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.parallelism < 1 {
		cfg.parallelism = runtime.GOMAXPROCS(0)
	}

	logrus.Infof("scenario %q: %d replications, horizon %.1f min, parallelism %d",
		params.Name, count, horizonMinutes, cfg.parallelism)

	results := make([]sim.ReplicationResult, count)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.parallelism)
	for r := 1; r <= count; r++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			seed := seedFn(r)
			simOpts := []sim.Option{sim.WithReplication(r)}
			if cfg.observers != nil {
				simOpts = append(simOpts, sim.WithObserver(cfg.observers(r, seed)))
			}
			res, err := sim.RunSingle(params, horizonMinutes, seed, simOpts...)
			if err != nil {
				return fmt.Errorf("replication %d (seed %d): %w", r, seed, err)
			}
			results[r-1] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
