package flow

import (
	"testing"
	"time"

	"github.com/eamoe/jira-flow-metrics/internal/changelog"
)

func TestReconstructBasicIntervals(t *testing.T) {
	// Created Jan 1, started Jan 2, done Jan 10.
	table := tableOf(startDone(1, "PROJ-1", day(1), day(2), day(10)))
	timelines := Reconstruct(table, ReconstructOptions{})

	if len(timelines) != 1 {
		t.Fatalf("expected 1 timeline, got %d", len(timelines))
	}
	tl := timelines[0]
	if got := tl.LeadTimeDays(); got != 9 {
		t.Errorf("lead time = %v days, want 9", got)
	}
	if got := tl.CycleTimeDays(); got != 8 {
		t.Errorf("cycle time = %v days, want 8", got)
	}
	if !tl.Completed() {
		t.Error("issue should be completed")
	}
}

func TestReconstructExcludeWeekends(t *testing.T) {
	// Jan 6 and Jan 7 2024 are the only weekend days in either interval.
	table := tableOf(startDone(1, "PROJ-1", day(1), day(2), day(10)))
	timelines := Reconstruct(table, ReconstructOptions{ExcludeWeekends: true})

	tl := timelines[0]
	if got := tl.LeadTimeDays(); got != 7 {
		t.Errorf("lead time = %v days, want 7", got)
	}
	if got := tl.CycleTimeDays(); got != 6 {
		t.Errorf("cycle time = %v days, want 6", got)
	}
}

func TestReconstructClampsNegativeDurations(t *testing.T) {
	// Completion recorded before creation; the fold does not validate order.
	table := tableOf(startDone(1, "PROJ-1", day(10), day(2), day(5)))
	tl := Reconstruct(table, ReconstructOptions{})[0]

	if tl.LeadTime != 0 {
		t.Errorf("lead time = %v, want 0 after clamping", tl.LeadTime)
	}
	if got := tl.CycleTimeDays(); got != 3 {
		t.Errorf("cycle time = %v days, want 3", got)
	}
}

func TestReconstructNoInProgressMeansZeroCycle(t *testing.T) {
	// Straight To Do -> Done, never in progress.
	ev := withFrom(transition(1, "PROJ-1", day(1), "1", "Done", "Done", day(4)), "To Do", "To Do")
	table := tableOf([]changelog.ChangeEvent{ev})
	tl := Reconstruct(table, ReconstructOptions{})[0]

	if tl.FirstInProgress != nil {
		t.Error("first in progress should be nil")
	}
	if got := tl.LeadTimeDays(); got != 3 {
		t.Errorf("lead time = %v days, want 3", got)
	}
	if tl.CycleTime != 0 {
		t.Errorf("cycle time = %v, want 0", tl.CycleTime)
	}
}

func TestReconstructSyntheticOnlyIssue(t *testing.T) {
	table := tableOf([]changelog.ChangeEvent{synthetic(7, "PROJ-7", day(3))})
	timelines := Reconstruct(table, ReconstructOptions{})

	if len(timelines) != 1 {
		t.Fatalf("expected 1 timeline, got %d", len(timelines))
	}
	tl := timelines[0]
	if tl.FirstInProgress != nil || tl.LastComplete != nil {
		t.Error("synthetic-only issue should have no milestones")
	}
	if tl.LastStatus != nil {
		t.Error("synthetic-only issue should have no status history")
	}
	if tl.LeadTime != 0 || tl.CycleTime != 0 {
		t.Error("synthetic-only issue should have zero durations")
	}
}

func TestReconstructMilestoneFolds(t *testing.T) {
	// Reopened and completed twice: first in-progress wins, last complete wins.
	events := startDone(1, "PROJ-1", day(1), day(2), day(5))
	events = append(events,
		withFrom(transition(1, "PROJ-1", day(1), "PROJ-1-3", "In Progress", changelog.CategoryInProgress, day(6)),
			"Done", changelog.CategoryDone),
		withFrom(transition(1, "PROJ-1", day(1), "PROJ-1-4", "Done", changelog.CategoryDone, day(9)),
			"In Progress", changelog.CategoryInProgress),
	)
	tl := Reconstruct(tableOf(events), ReconstructOptions{})[0]

	if !tl.FirstInProgress.Equal(day(2)) {
		t.Errorf("first in progress = %v, want Jan 2", tl.FirstInProgress)
	}
	if !tl.LastComplete.Equal(day(9)) {
		t.Errorf("last complete = %v, want Jan 9", tl.LastComplete)
	}
	if got := tl.CycleTimeDays(); got != 7 {
		t.Errorf("cycle time = %v days, want 7", got)
	}

	// Two-slot history holds the final two transitions.
	if *tl.LastStatus != "Done" || !tl.LastStatusChanged.Equal(day(9)) {
		t.Errorf("last status = %v at %v, want Done at Jan 9", *tl.LastStatus, tl.LastStatusChanged)
	}
	if *tl.PrevStatus != "In Progress" || !tl.PrevStatusChanged.Equal(day(6)) {
		t.Errorf("prev status = %v at %v, want In Progress at Jan 6", *tl.PrevStatus, tl.PrevStatusChanged)
	}
}

func TestReconstructSortedByIssueID(t *testing.T) {
	table := tableOf(
		startDone(3, "PROJ-3", day(1), day(2), day(4)),
		startDone(1, "PROJ-1", day(1), day(2), day(4)),
		startDone(2, "PROJ-2", day(1), day(2), day(4)),
	)
	timelines := Reconstruct(table, ReconstructOptions{})
	for i, tl := range timelines {
		if tl.IssueID != int64(i+1) {
			t.Fatalf("timeline %d has issue id %d, want %d", i, tl.IssueID, i+1)
		}
	}
}

func TestWeekendSpanNeverNegative(t *testing.T) {
	if got := weekendSpan(day(10), day(2)); got != 0 {
		t.Errorf("inverted range weekend span = %v, want 0", got)
	}
	if got := weekendSpan(day(6), day(7)); got != 48*time.Hour {
		t.Errorf("Sat-Sun span = %v, want 48h", got)
	}
}
