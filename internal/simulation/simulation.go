// Package simulation runs permutation Monte Carlo trials over a fixed set of
// trade results and reduces the per-trial totals to a summary.
package simulation

import (
	"math/rand"

	"github.com/iwvelando/montecarlo-backtest/pkg/mathutil"
	"go.uber.org/zap"
)

// Shuffler produces a uniform random permutation through swap. *rand.Rand
// satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Summary reduces the totals of every permutation trial in a run.
type Summary struct {
	Average float64 `json:"average" yaml:"average"`
	Min     float64 `json:"min" yaml:"min"`
	Max     float64 `json:"max" yaml:"max"`
}

// Result is a Summary plus the size of the run that produced it.
type Result struct {
	Summary
	Trades int
	Trials int
}

// Simulator shuffles and sums trade sets.
type Simulator struct {
	logger *zap.Logger
	rng    Shuffler
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithRand sets the random source used for shuffling. A nil source keeps
// the default.
func WithRand(rng Shuffler) Option {
	return func(s *Simulator) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithSeed makes runs reproducible by seeding a dedicated source.
func WithSeed(seed int64) Option {
	return func(s *Simulator) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Simulator) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type globalSource struct{}

func (globalSource) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

// New returns a Simulator that uses the process-level random source unless an
// option replaces it.
func New(opts ...Option) *Simulator {
	s := &Simulator{
		logger: zap.NewNop(),
		rng:    globalSource{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run performs trials random permutations of trades, sums each permutation in
// its shuffled order, and returns the mean, minimum and maximum of those sums.
// trades is not modified. trials <= 0 or an empty trade set yields a zero
// Summary.
func (s *Simulator) Run(trades []float64, trials int) Result {
	result := Result{Trades: len(trades)}
	if trials <= 0 {
		s.logger.Debug("no trials requested",
			zap.String("op", "simulation.Run"),
			zap.Int("trials", trials),
		)
		return result
	}
	result.Trials = trials

	// One working copy is shuffled in place across trials; each trial
	// starts from the order the previous one left.
	working := make([]float64, len(trades))
	copy(working, trades)
	swap := func(i, j int) {
		working[i], working[j] = working[j], working[i]
	}

	sums := make([]float64, 0, trials)
	for i := 0; i < trials; i++ {
		s.rng.Shuffle(len(working), swap)
		sums = append(sums, mathutil.Sum(working))
	}

	result.Average = mathutil.Mean(sums)
	result.Min, result.Max = mathutil.MinMax(sums)

	s.logger.Debug("simulation complete",
		zap.String("op", "simulation.Run"),
		zap.Int("trades", result.Trades),
		zap.Int("trials", result.Trials),
		zap.Float64("average", result.Average),
		zap.Float64("min", result.Min),
		zap.Float64("max", result.Max),
	)
	return result
}

// Simulate runs trials permutations with the process-level random source.
func Simulate(trades []float64, trials int) Summary {
	return New().Run(trades, trials).Summary
}
