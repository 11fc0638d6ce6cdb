package survival

import (
	"slices"
)

// ProbabilityBands are the fixed probability levels every percentile report
// answers: "within how many days is completion achieved with probability p".
var ProbabilityBands = []float64{0.25, 0.50, 0.75, 0.85, 0.95, 0.999}

// KMCurve is a fitted Kaplan-Meier estimator over observed durations. Every
// item is treated as an observed event; there is no censoring in a
// completed-items dataset.
type KMCurve struct {
	times    []float64 // distinct event times, ascending
	survival []float64 // S(t) immediately after each event time
}

// FitKaplanMeier fits the estimator to the duration sample. Returns nil for
// an empty sample.
func FitKaplanMeier(durations []float64) *KMCurve {
	if len(durations) == 0 {
		return nil
	}

	sorted := make([]float64, len(durations))
	copy(sorted, durations)
	slices.Sort(sorted)

	curve := &KMCurve{}
	n := len(sorted)
	atRisk := n
	s := 1.0

	i := 0
	for i < n {
		t := sorted[i]
		events := 0
		for i < n && sorted[i] == t {
			events++
			i++
		}
		s *= float64(atRisk-events) / float64(atRisk)
		atRisk -= events

		curve.times = append(curve.times, t)
		curve.survival = append(curve.survival, s)
	}

	return curve
}

// Quantile returns the smallest duration t at which the cumulative event
// probability 1-S(t) reaches p. Monotonically non-decreasing in p.
func (c *KMCurve) Quantile(p float64) float64 {
	for i, t := range c.times {
		if 1.0-c.survival[i] >= p {
			return t
		}
	}
	return c.times[len(c.times)-1]
}

// Bands evaluates the quantile at every standard probability band.
func (c *KMCurve) Bands() map[float64]float64 {
	out := make(map[float64]float64, len(ProbabilityBands))
	for _, p := range ProbabilityBands {
		out[p] = c.Quantile(p)
	}
	return out
}
