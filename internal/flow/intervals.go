package flow

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"
)

// rollingWindow is the trailing number of completed items over which the
// moving average and deviation are computed.
const rollingWindow = 10

// minInterval filters out same-day artifacts: intervals under one hour are
// treated as noise (bulk transitions, import scripts) and excluded.
const minInterval = time.Hour

// IntervalPoint is one completed issue with its interval measure and the
// rolling statistics as of that completion. The rolling window is strictly
// backward-looking.
type IntervalPoint struct {
	IssueKey    string
	IssueType   string
	CompletedAt time.Time
	Days        float64
	RollingMean float64
	RollingStd  float64
	DatasetMean float64
	DatasetStd  float64
}

// LeadTimeSeries derives the lead-time run chart for issues completed within
// the axis. Returns nil when no issue qualifies.
func LeadTimeSeries(timelines []IssueTimeline, axis DateAxis) []IntervalPoint {
	return intervalSeries(timelines, axis, "lead time", func(tl IssueTimeline) time.Duration {
		return tl.LeadTime
	})
}

// CycleTimeSeries derives the cycle-time run chart for issues completed
// within the axis. Returns nil when no issue qualifies.
func CycleTimeSeries(timelines []IssueTimeline, axis DateAxis) []IntervalPoint {
	return intervalSeries(timelines, axis, "cycle time", func(tl IssueTimeline) time.Duration {
		return tl.CycleTime
	})
}

func intervalSeries(timelines []IssueTimeline, axis DateAxis, name string, measure func(IssueTimeline) time.Duration) []IntervalPoint {
	var points []IntervalPoint

	for _, tl := range timelines {
		if !tl.Completed() || !axis.Contains(SnapToDay(*tl.LastComplete)) {
			continue
		}
		d := measure(tl)
		if d < minInterval {
			continue
		}
		points = append(points, IntervalPoint{
			IssueKey:    tl.IssueKey,
			IssueType:   tl.IssueType,
			CompletedAt: *tl.LastComplete,
			Days:        d.Hours() / 24.0,
		})
	}

	if len(points) == 0 {
		log.Warn().Str("series", name).Msg("No completed issues in range, series is empty")
		return nil
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].CompletedAt.Before(points[j].CompletedAt)
	})

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Days
	}
	datasetMean := Mean(values)
	datasetStd := StdDev(values)

	for i := range points {
		lo := i + 1 - rollingWindow
		if lo < 0 {
			lo = 0
		}
		window := values[lo : i+1]
		points[i].RollingMean = Mean(window)
		points[i].RollingStd = StdDev(window)
		points[i].DatasetMean = datasetMean
		points[i].DatasetStd = datasetStd
	}

	return points
}
