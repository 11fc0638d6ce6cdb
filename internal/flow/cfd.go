package flow

import (
	"sort"
	"time"

	"github.com/eamoe/jira-flow-metrics/internal/changelog"
)

// RangeError indicates the cumulative flow analysis was invoked without an
// explicit date range. Unlike the other engines, flow cannot infer bounds:
// the running counter is only meaningful relative to a fixed starting day.
type RangeError struct{}

func (e *RangeError) Error() string {
	return "flow: cumulative flow requires both since and until bounds"
}

// FlowDay is the per-status (or per-category) stock level at the end of one
// day of the axis. Counts carry forward: each day starts from the previous
// day's counter.
type FlowDay struct {
	Date   time.Time
	Counts map[string]int
}

// FlowResult is the cumulative flow table plus the ordered key set observed.
type FlowResult struct {
	Days     []FlowDay
	Statuses []string
}

// Flow replays raw status transitions against the daily axis. For every
// event on the current day the "from" bucket is decremented (floored at
// zero) and the "to" bucket incremented. The counter persists across days:
// stock-and-flow accumulation, not per-day recomputation.
func Flow(table *changelog.Table, axis DateAxis, byCategory bool) (*FlowResult, error) {
	if axis.Since.IsZero() || axis.Until.IsZero() {
		return nil, &RangeError{}
	}

	type transition struct {
		at   time.Time
		from *string
		to   *string
	}

	var events []transition
	for _, e := range table.Events {
		if e.StatusChanged == nil {
			continue
		}
		if !axis.Contains(SnapToDay(*e.StatusChanged)) {
			continue
		}
		tr := transition{at: *e.StatusChanged}
		if byCategory {
			tr.from, tr.to = e.FromCategory, e.ToCategory
		} else {
			tr.from, tr.to = e.StatusFrom, e.StatusTo
		}
		events = append(events, tr)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].at.Before(events[j].at)
	})

	keySet := make(map[string]bool)
	counter := make(map[string]int)
	next := 0

	days := axis.Days()
	result := &FlowResult{Days: make([]FlowDay, len(days))}

	for i, day := range days {
		for next < len(events) && SnapToDay(events[next].at).Equal(day) {
			e := events[next]
			if e.from != nil {
				decrementFloored(counter, *e.from)
				keySet[*e.from] = true
			}
			if e.to != nil {
				counter[*e.to]++
				keySet[*e.to] = true
			}
			next++
		}

		snapshot := make(map[string]int, len(counter))
		for k, v := range counter {
			snapshot[k] = v
		}
		result.Days[i] = FlowDay{Date: day, Counts: snapshot}
	}

	for k := range keySet {
		result.Statuses = append(result.Statuses, k)
	}
	sort.Strings(result.Statuses)

	return result, nil
}

// decrementFloored decrements the bucket but never lets it go negative.
// The floor is an explicit rule, not an incidental effect: the very first
// transition of an issue decrements a bucket it was never counted into.
func decrementFloored(counter map[string]int, key string) {
	if counter[key] > 0 {
		counter[key]--
	}
}
