package forecast

import (
	"math/rand"
	"slices"

	"golang.org/x/sync/errgroup"
)

// DefaultTrials is the number of simulation trials when none is requested.
const DefaultTrials = 10000

// maxDays is the safety brake for duration trials against histograms with
// no positive observations.
const maxDays = 10000

// batchSize fixes how trials are split across goroutines. The batch layout
// is part of the reproducibility contract: batch b always draws from a
// source seeded with seed+b, so the outcome distribution is independent of
// GOMAXPROCS.
const batchSize = 1024

// Result is the empirical outcome distribution of a simulation run plus its
// percentile bands at the standard probability levels.
type Result struct {
	Outcomes []float64
	Bands    map[float64]float64
	Warnings []string
}

// resultBands are the fixed probability levels reported for every forecast.
var resultBands = []float64{0.25, 0.50, 0.75, 0.85, 0.95, 0.999}

// Engine performs bootstrap resampling over a throughput or velocity
// histogram: sampling with replacement from the historical window, not a
// parametric model.
type Engine struct {
	hist *Histogram
	seed int64
}

// NewEngine creates a seedable engine. The same seed and trial count always
// produce the same distribution.
func NewEngine(h *Histogram, seed int64) *Engine {
	return &Engine{hist: h, seed: seed}
}

// RunDuration answers "how many days to reach target T": each trial samples
// one day's observation with replacement and accumulates until the running
// total reaches the target, recording the day count.
func (e *Engine) RunDuration(target float64, trials int) Result {
	if trials <= 0 {
		trials = DefaultTrials
	}

	result := e.run(trials, func(rng *rand.Rand) float64 {
		days := 0
		total := 0.0
		for total < target {
			days++
			total += e.sample(rng)
			if days >= maxDays {
				break
			}
		}
		return float64(days)
	})

	if e.hist.Sum() <= 0 {
		result.Warnings = append(result.Warnings,
			"No positive throughput in the sampling window; the duration forecast is unbounded and capped at the safety limit.")
	}
	return result
}

// RunVolume answers "how much is completed in D days": each trial samples D
// days with replacement and sums.
func (e *Engine) RunVolume(days int, trials int) Result {
	if trials <= 0 {
		trials = DefaultTrials
	}

	return e.run(trials, func(rng *rand.Rand) float64 {
		total := 0.0
		for i := 0; i < days; i++ {
			total += e.sample(rng)
		}
		return total
	})
}

func (e *Engine) sample(rng *rand.Rand) float64 {
	if len(e.hist.Values) == 0 {
		return 0
	}
	return e.hist.Values[rng.Intn(len(e.hist.Values))]
}

// run executes the trials in fixed-size batches. Trials are independent, so
// the batches combine by plain concatenation without changing the
// distribution.
func (e *Engine) run(trials int, trial func(*rand.Rand) float64) Result {
	outcomes := make([]float64, trials)

	var g errgroup.Group
	for batch, start := 0, 0; start < trials; batch, start = batch+1, start+batchSize {
		end := start + batchSize
		if end > trials {
			end = trials
		}
		seed := e.seed + int64(batch)
		segment := outcomes[start:end]

		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed))
			for i := range segment {
				segment[i] = trial(rng)
			}
			return nil
		})
	}
	_ = g.Wait() // trials never return errors

	slices.Sort(outcomes)

	bands := make(map[float64]float64, len(resultBands))
	for _, p := range resultBands {
		bands[p] = percentileSorted(outcomes, p)
	}

	return Result{Outcomes: outcomes, Bands: bands}
}

func percentileSorted(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
