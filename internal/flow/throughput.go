package flow

import (
	"sort"
	"time"
)

// weeklyRollingWindow is the trailing number of weeks for the weekly
// moving average and deviation.
const weeklyRollingWindow = 4

// ThroughputDay holds completed-item counts and completed points ("velocity")
// for one calendar day of the axis. Days without completions are present with
// zero counts.
type ThroughputDay struct {
	Date   time.Time
	ByType map[string]int
	Total  int
	Points float64
}

// ThroughputWeek is the week-ending-Monday aggregation of the daily series,
// with trailing rolling statistics over items and points.
type ThroughputWeek struct {
	WeekEnding  time.Time
	Total       int
	Points      float64
	RollingMean float64
	RollingStd  float64
	PointsMean  float64
	PointsStd   float64
}

// Throughput replays completions against the daily axis and resamples the
// result into week-ending-Monday sums.
func Throughput(timelines []IssueTimeline, axis DateAxis) ([]ThroughputDay, []ThroughputWeek) {
	days := axis.Days()

	index := make(map[time.Time]int, len(days))
	daily := make([]ThroughputDay, len(days))
	for i, d := range days {
		index[d] = i
		daily[i] = ThroughputDay{Date: d, ByType: make(map[string]int)}
	}

	for _, tl := range timelines {
		if !tl.Completed() {
			continue
		}
		day := SnapToDay(*tl.LastComplete)
		i, ok := index[day]
		if !ok {
			continue
		}
		daily[i].ByType[tl.IssueType]++
		daily[i].Total++
		daily[i].Points += tl.IssuePoints
	}

	return daily, resampleWeekly(daily)
}

func resampleWeekly(daily []ThroughputDay) []ThroughputWeek {
	sums := make(map[time.Time]*ThroughputWeek)
	var order []time.Time

	for _, d := range daily {
		we := WeekEndingMonday(d.Date)
		w, ok := sums[we]
		if !ok {
			w = &ThroughputWeek{WeekEnding: we}
			sums[we] = w
			order = append(order, we)
		}
		w.Total += d.Total
		w.Points += d.Points
	}

	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })

	weeks := make([]ThroughputWeek, len(order))
	totals := make([]float64, len(order))
	points := make([]float64, len(order))
	for i, we := range order {
		weeks[i] = *sums[we]
		totals[i] = float64(weeks[i].Total)
		points[i] = weeks[i].Points
	}

	for i := range weeks {
		lo := i + 1 - weeklyRollingWindow
		if lo < 0 {
			lo = 0
		}
		weeks[i].RollingMean = Mean(totals[lo : i+1])
		weeks[i].RollingStd = StdDev(totals[lo : i+1])
		weeks[i].PointsMean = Mean(points[lo : i+1])
		weeks[i].PointsStd = StdDev(points[lo : i+1])
	}

	return weeks
}
