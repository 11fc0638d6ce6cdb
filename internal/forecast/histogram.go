package forecast

import (
	"github.com/rs/zerolog/log"
)

// DefaultWindow is the trailing number of daily observations sampled.
const DefaultWindow = 90

// Histogram holds the trailing window of daily throughput or velocity
// observations the simulation resamples from.
type Histogram struct {
	Values []float64
	// Truncated is set when the requested window exceeded the available
	// history and the shorter window was used instead.
	Truncated bool
}

// NewHistogram keeps the most recent window observations of the daily
// series. A window longer than the history is a warning, not an error; the
// simulation proceeds with what exists.
func NewHistogram(daily []float64, window int) *Histogram {
	if window <= 0 {
		window = DefaultWindow
	}

	h := &Histogram{}
	if window > len(daily) {
		log.Warn().
			Int("window", window).
			Int("available", len(daily)).
			Msg("Sampling window exceeds available history, using shorter window")
		h.Truncated = true
		window = len(daily)
	}

	h.Values = make([]float64, window)
	copy(h.Values, daily[len(daily)-window:])
	return h
}

// Sum returns the total of the window observations.
func (h *Histogram) Sum() float64 {
	sum := 0.0
	for _, v := range h.Values {
		sum += v
	}
	return sum
}
