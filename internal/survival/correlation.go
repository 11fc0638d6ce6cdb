package survival

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// alpha is the significance level at which the correlation is assessed.
const alpha = 0.05

// Correlation summarizes the linear relationship between issue size and
// interval duration.
type Correlation struct {
	N           int
	R           float64
	R2          float64
	P           float64
	Power       float64
	Significant bool
}

// Correlate computes the Pearson correlation between point estimates and
// durations, with a two-sided significance test and post-hoc power at
// alpha = 0.05 (Fisher z approximation).
func Correlate(points, durations []float64) (Correlation, error) {
	if len(points) != len(durations) {
		return Correlation{}, errors.New("survival: points and durations length mismatch")
	}
	n := len(points)
	if n < 4 {
		return Correlation{}, errors.New("survival: correlation needs at least four pairs")
	}

	r := stat.Correlation(points, durations, nil)
	if math.IsNaN(r) {
		return Correlation{}, errors.New("survival: correlation undefined for constant input")
	}

	result := Correlation{N: n, R: r, R2: r * r}

	// Two-sided t-test on r with n-2 degrees of freedom.
	df := float64(n - 2)
	if r*r >= 1 {
		result.P = 0
	} else {
		t := r * math.Sqrt(df/(1-r*r))
		tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
		result.P = 2 * (1 - tDist.CDF(math.Abs(t)))
	}
	result.Significant = result.P < alpha

	// Post-hoc power via the Fisher z transform.
	z := math.Atanh(math.Abs(r))
	se := math.Sqrt(float64(n - 3))
	normal := distuv.Normal{Mu: 0, Sigma: 1}
	zCrit := normal.Quantile(1 - alpha/2)
	result.Power = 1 - normal.CDF(zCrit-z*se) + normal.CDF(-zCrit-z*se)

	return result, nil
}
