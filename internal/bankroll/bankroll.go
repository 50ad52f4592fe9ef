// Package bankroll estimates bankruptcy and survival probabilities with a
// Monte-Carlo simulation over an empirical distribution of per-tournament
// relative returns.
package bankroll

import (
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/McDic/pokercraft-local/internal/randutil"
)

// ErrInvalidConfig is returned by Simulate for configs violating their
// constraints.
var ErrInvalidConfig = errors.New("invalid bankroll config")

// Config describes one simulation batch. Capital is measured in buy-ins;
// returns are additive signed relative returns, so -1 means one lost buy-in
// and +2 a 2x cash.
type Config struct {
	// InitialCapital is the starting bankroll in buy-ins. Must be positive.
	InitialCapital float64

	// Returns is the empirical return distribution sampled uniformly with
	// replacement at every step. Must be non-empty.
	Returns []float64

	// MaxSteps bounds each trajectory; reaching it counts as survival.
	MaxSteps int

	// ProfitExitMultiplier ends a trajectory early once capital reaches
	// InitialCapital times this multiplier. Zero disables profit exits.
	ProfitExitMultiplier float64

	// Simulations is the number of independent trajectories.
	Simulations int

	// Seed makes the whole batch reproducible: trajectory i always runs on
	// a stream derived from Seed and i, regardless of scheduling.
	Seed int64

	// Workers caps the parallelism; 0 means GOMAXPROCS.
	Workers int
}

func (c Config) validate() error {
	if c.InitialCapital <= 0 {
		return fmt.Errorf("%w: initial capital must be positive, got %v", ErrInvalidConfig, c.InitialCapital)
	}
	if len(c.Returns) == 0 {
		return fmt.Errorf("%w: return samples must not be empty", ErrInvalidConfig)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("%w: max steps must be positive, got %d", ErrInvalidConfig, c.MaxSteps)
	}
	if c.Simulations <= 0 {
		return fmt.Errorf("%w: simulation count must be positive, got %d", ErrInvalidConfig, c.Simulations)
	}
	return nil
}

// Result aggregates the outcomes of one batch. The three counts sum to
// Simulations.
type Result struct {
	Simulations  int
	Bankrupt     int
	Survived     int
	ProfitExited int

	bustStepSum int64   // steps until bankruptcy, summed over bankrupt runs
	multipleSum float64 // final capital multiples, summed over non-bankrupt runs
}

// BankruptcyRate returns the fraction of trajectories that went bankrupt.
func (r *Result) BankruptcyRate() float64 {
	return float64(r.Bankrupt) / float64(r.Simulations)
}

// SurvivalRate returns the fraction of trajectories that reached MaxSteps.
func (r *Result) SurvivalRate() float64 {
	return float64(r.Survived) / float64(r.Simulations)
}

// ProfitableRate returns the fraction of trajectories that hit the profit
// exit threshold.
func (r *Result) ProfitableRate() float64 {
	return float64(r.ProfitExited) / float64(r.Simulations)
}

// MeanBustStep returns the average step at which bankrupt trajectories went
// bust, or 0 when none did.
func (r *Result) MeanBustStep() float64 {
	if r.Bankrupt == 0 {
		return 0
	}
	return float64(r.bustStepSum) / float64(r.Bankrupt)
}

// MeanFinalMultiple returns the average final-capital multiple over the
// trajectories that did not go bankrupt, or 0 when all did.
func (r *Result) MeanFinalMultiple() float64 {
	alive := r.Survived + r.ProfitExited
	if alive == 0 {
		return 0
	}
	return r.multipleSum / float64(alive)
}

func (r *Result) merge(other Result) {
	r.Bankrupt += other.Bankrupt
	r.Survived += other.Survived
	r.ProfitExited += other.ProfitExited
	r.bustStepSum += other.bustStepSum
	r.multipleSum += other.multipleSum
}

// Simulate runs the batch. Trajectories are independent and run in parallel;
// the per-trajectory seeding makes the aggregate counts identical across
// runs and worker counts.
func Simulate(cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > cfg.Simulations {
		workers = cfg.Simulations
	}

	// Per-chunk partials merged in chunk order after the barrier, so the
	// floating-point sums do not depend on scheduling.
	chunk := (cfg.Simulations + workers - 1) / workers
	partials := make([]Result, (cfg.Simulations+chunk-1)/chunk)

	var g errgroup.Group
	for c := range partials {
		c := c
		g.Go(func() error {
			lo := c * chunk
			hi := lo + chunk
			if hi > cfg.Simulations {
				hi = cfg.Simulations
			}
			for i := lo; i < hi; i++ {
				runTrajectory(cfg, i, &partials[c])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{Simulations: cfg.Simulations}
	for _, partial := range partials {
		result.merge(partial)
	}
	return result, nil
}

// runTrajectory plays one trajectory to completion and records its outcome.
func runTrajectory(cfg Config, index int, out *Result) {
	rng := randutil.New(cfg.Seed + int64(index))

	exitCapital := 0.0
	if cfg.ProfitExitMultiplier > 0 {
		exitCapital = cfg.InitialCapital * cfg.ProfitExitMultiplier
	}

	capital := cfg.InitialCapital
	for step := 1; step <= cfg.MaxSteps; step++ {
		capital += cfg.Returns[rng.IntN(len(cfg.Returns))]
		if capital <= 0 {
			out.Bankrupt++
			out.bustStepSum += int64(step)
			return
		}
		if exitCapital > 0 && capital >= exitCapital {
			out.ProfitExited++
			out.multipleSum += capital / cfg.InitialCapital
			return
		}
	}
	out.Survived++
	out.multipleSum += capital / cfg.InitialCapital
}
