package flow

import (
	"math"
	"slices"
)

// Mean returns the arithmetic mean of values, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the sample standard deviation (n-1 denominator).
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

// Median returns the median value of the slice.
func Median(values []float64) float64 {
	return Percentile(values, 0.5)
}

// Percentile returns the p-th quantile (p in [0, 1]) using linear
// interpolation between closest ranks.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	// Work on a copy to avoid mutating the original
	temp := make([]float64, len(values))
	copy(temp, values)
	slices.Sort(temp)

	if p <= 0 {
		return temp[0]
	}
	if p >= 1 {
		return temp[len(temp)-1]
	}

	rank := p * float64(len(temp)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return temp[lo]
	}
	frac := rank - float64(lo)
	return temp[lo] + frac*(temp[hi]-temp[lo])
}
