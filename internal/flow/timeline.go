package flow

import (
	"sort"
	"time"

	"github.com/eamoe/jira-flow-metrics/internal/changelog"
)

// IssueTimeline is the folded history of a single issue: the milestone
// timestamps, the two most recent transitions, and the derived interval
// measures. Nil milestone fields mean the milestone was never observed,
// which is distinct from a zero duration.
type IssueTimeline struct {
	IssueID     int64
	IssueKey    string
	IssueType   string
	IssuePoints float64

	FirstCreated    time.Time
	FirstInProgress *time.Time
	LastComplete    *time.Time

	PrevStatus         *string
	PrevStatusCategory *string
	PrevStatusChanged  *time.Time

	LastStatus         *string
	LastStatusCategory *string
	LastStatusChanged  *time.Time

	LeadTime  time.Duration
	CycleTime time.Duration
}

// LeadTimeDays returns the lead time in fractional days.
func (t IssueTimeline) LeadTimeDays() float64 {
	return t.LeadTime.Hours() / 24.0
}

// CycleTimeDays returns the cycle time in fractional days.
func (t IssueTimeline) CycleTimeDays() float64 {
	return t.CycleTime.Hours() / 24.0
}

// Completed reports whether the issue ever reached a completed category.
func (t IssueTimeline) Completed() bool {
	return t.LastComplete != nil
}

// ReconstructOptions controls timeline derivation.
type ReconstructOptions struct {
	// ExcludeWeekends subtracts the count of Saturday/Sunday calendar days
	// spanned by an interval from its duration. This is a coarse subtraction,
	// not a business-day calendar; historical results depend on exactly this
	// arithmetic.
	ExcludeWeekends bool
}

// Reconstruct folds every issue's change events into an IssueTimeline.
// Milestones are simple min/max folds regardless of visitation order:
// out-of-order status histories (complete, then reopened) are not validated,
// so last_complete can reflect an earlier completion.
//
// Issues with zero transitions still appear in the output with nil milestone
// fields and zero durations.
func Reconstruct(table *changelog.Table, opts ReconstructOptions) []IssueTimeline {
	byIssue := make(map[int64]*IssueTimeline)
	var order []int64

	for _, e := range table.Events {
		tl, ok := byIssue[e.IssueID]
		if !ok {
			tl = &IssueTimeline{
				IssueID:      e.IssueID,
				IssueKey:     e.IssueKey,
				IssueType:    e.IssueType,
				IssuePoints:  e.IssuePoints,
				FirstCreated: e.IssueCreated,
			}
			byIssue[e.IssueID] = tl
			order = append(order, e.IssueID)
		}

		if e.IssueCreated.Before(tl.FirstCreated) {
			tl.FirstCreated = e.IssueCreated
		}

		// Synthetic rows carry issue identity only; they hold no transition.
		if e.IsSynthetic() || e.StatusChanged == nil {
			continue
		}

		// Milestones
		if e.ToCategory != nil {
			switch *e.ToCategory {
			case changelog.CategoryInProgress:
				if tl.FirstInProgress == nil || e.StatusChanged.Before(*tl.FirstInProgress) {
					at := *e.StatusChanged
					tl.FirstInProgress = &at
				}
			case changelog.CategoryComplete, changelog.CategoryDone:
				if tl.LastComplete == nil || e.StatusChanged.After(*tl.LastComplete) {
					at := *e.StatusChanged
					tl.LastComplete = &at
				}
			}
		}

		// Two-slot history: previous update, last update.
		tl.PrevStatus = tl.LastStatus
		tl.PrevStatusCategory = tl.LastStatusCategory
		tl.PrevStatusChanged = tl.LastStatusChanged

		tl.LastStatus = e.StatusTo
		tl.LastStatusCategory = e.ToCategory
		at := *e.StatusChanged
		tl.LastStatusChanged = &at
	}

	timelines := make([]IssueTimeline, 0, len(order))
	for _, id := range order {
		tl := byIssue[id]
		tl.LeadTime, tl.CycleTime = deriveDurations(tl, opts.ExcludeWeekends)
		timelines = append(timelines, *tl)
	}

	sort.Slice(timelines, func(i, j int) bool {
		return timelines[i].IssueID < timelines[j].IssueID
	})

	return timelines
}

// deriveDurations computes lead and cycle time, floor-clamped at zero.
func deriveDurations(tl *IssueTimeline, excludeWeekends bool) (lead, cycle time.Duration) {
	if tl.LastComplete == nil {
		return 0, 0
	}

	lead = tl.LastComplete.Sub(tl.FirstCreated)
	if excludeWeekends {
		lead -= weekendSpan(tl.FirstCreated, *tl.LastComplete)
	}
	if lead < 0 {
		lead = 0
	}

	if tl.FirstInProgress != nil {
		cycle = tl.LastComplete.Sub(*tl.FirstInProgress)
		if excludeWeekends {
			cycle -= weekendSpan(*tl.FirstInProgress, *tl.LastComplete)
		}
		if cycle < 0 {
			cycle = 0
		}
	}

	return lead, cycle
}

func weekendSpan(start, end time.Time) time.Duration {
	return time.Duration(CountWeekendDays(start, end)) * 24 * time.Hour
}
