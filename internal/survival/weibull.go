package survival

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// zeroEpsilon replaces durations of exactly zero before fitting: the Weibull
// likelihood is undefined at zero, and a same-day completion is effectively
// "under one hundredth of a day" for forecasting purposes.
const zeroEpsilon = 0.01

// WeibullCurve is a fitted two-parameter Weibull distribution over observed
// durations.
type WeibullCurve struct {
	Shape float64
	Scale float64

	dist distuv.Weibull
}

// FitWeibull fits shape and scale by maximum likelihood (Newton iteration on
// the shape, closed-form scale). Needs at least two distinct values.
func FitWeibull(durations []float64) (*WeibullCurve, error) {
	if len(durations) < 2 {
		return nil, errors.New("survival: weibull fit needs at least two durations")
	}

	x := make([]float64, len(durations))
	distinct := false
	for i, d := range durations {
		if d <= 0 {
			d = zeroEpsilon
		}
		x[i] = d
		if d != x[0] {
			distinct = true
		}
	}
	if !distinct {
		return nil, errors.New("survival: weibull fit needs at least two distinct durations")
	}

	n := float64(len(x))
	meanLog := 0.0
	for _, v := range x {
		meanLog += math.Log(v)
	}
	meanLog /= n

	// Newton iteration on the profile likelihood equation for the shape:
	// f(k) = sum(x^k ln x)/sum(x^k) - 1/k - mean(ln x) = 0
	k := 1.0
	for iter := 0; iter < 100; iter++ {
		var sumXk, sumXkLog, sumXkLog2 float64
		for _, v := range x {
			xk := math.Pow(v, k)
			lv := math.Log(v)
			sumXk += xk
			sumXkLog += xk * lv
			sumXkLog2 += xk * lv * lv
		}

		f := sumXkLog/sumXk - 1.0/k - meanLog
		fPrime := (sumXkLog2*sumXk-sumXkLog*sumXkLog)/(sumXk*sumXk) + 1.0/(k*k)
		if fPrime == 0 {
			break
		}

		next := k - f/fPrime
		if next <= 0 {
			next = k / 2
		}
		if math.Abs(next-k) < 1e-9 {
			k = next
			break
		}
		k = next
	}

	var sumXk float64
	for _, v := range x {
		sumXk += math.Pow(v, k)
	}
	scale := math.Pow(sumXk/n, 1.0/k)

	return &WeibullCurve{
		Shape: k,
		Scale: scale,
		dist:  distuv.Weibull{K: k, Lambda: scale},
	}, nil
}

// Quantile returns the duration at which completion probability reaches p.
func (c *WeibullCurve) Quantile(p float64) float64 {
	return c.dist.Quantile(p)
}

// Bands evaluates the quantile at every standard probability band.
func (c *WeibullCurve) Bands() map[float64]float64 {
	out := make(map[float64]float64, len(ProbabilityBands))
	for _, p := range ProbabilityBands {
		out[p] = c.Quantile(p)
	}
	return out
}
