package flow

import (
	"testing"
)

func TestThroughputDailyZeroFill(t *testing.T) {
	table := tableOf(
		startDone(1, "PROJ-1", day(1), day(2), day(3)),
		startDone(2, "PROJ-2", day(1), day(2), day(3)),
		startDone(3, "PROJ-3", day(1), day(2), day(5)),
	)
	timelines := Reconstruct(table, ReconstructOptions{})
	daily, _ := Throughput(timelines, NewDateAxis(day(1), day(8)))

	if len(daily) != 7 {
		t.Fatalf("expected 7 daily rows, got %d", len(daily))
	}
	if daily[2].Total != 2 {
		t.Errorf("Jan 3 total = %d, want 2", daily[2].Total)
	}
	if daily[4].Total != 1 {
		t.Errorf("Jan 5 total = %d, want 1", daily[4].Total)
	}
	// Days without completions are present with zeros.
	if daily[0].Total != 0 || daily[6].Total != 0 {
		t.Error("idle days should appear with zero counts")
	}
	if daily[2].ByType["Story"] != 2 {
		t.Errorf("Jan 3 Story count = %d, want 2", daily[2].ByType["Story"])
	}
}

func TestThroughputWeeklyResample(t *testing.T) {
	// Jan 1 2024 is a Monday: Jan 2-8 is one reporting week, Jan 9-15 the next.
	table := tableOf(
		startDone(1, "PROJ-1", day(1), day(2), day(3)),  // week ending Jan 8
		startDone(2, "PROJ-2", day(1), day(2), day(8)),  // week ending Jan 8
		startDone(3, "PROJ-3", day(1), day(2), day(9)),  // week ending Jan 15
	)
	timelines := Reconstruct(table, ReconstructOptions{})
	_, weeks := Throughput(timelines, NewDateAxis(day(2), day(16)))

	if len(weeks) != 2 {
		t.Fatalf("expected 2 weeks, got %d", len(weeks))
	}
	first, second := weeks[0], weeks[1]
	if !first.WeekEnding.Equal(day(8)) || first.Total != 2 {
		t.Errorf("first week = %v total %d, want Jan 8 total 2", first.WeekEnding, first.Total)
	}
	if !second.WeekEnding.Equal(day(15)) || second.Total != 1 {
		t.Errorf("second week = %v total %d, want Jan 15 total 1", second.WeekEnding, second.Total)
	}

	// Trailing window: the second week averages both weeks.
	if second.RollingMean != 1.5 {
		t.Errorf("second week rolling mean = %v, want 1.5", second.RollingMean)
	}
	if first.PointsMean != 2 {
		t.Errorf("first week points mean = %v, want 2", first.PointsMean)
	}
}

func TestThroughputIgnoresCompletionsOutsideAxis(t *testing.T) {
	table := tableOf(startDone(1, "PROJ-1", day(1), day(2), day(20)))
	timelines := Reconstruct(table, ReconstructOptions{})
	daily, _ := Throughput(timelines, NewDateAxis(day(1), day(8)))

	for _, d := range daily {
		if d.Total != 0 {
			t.Fatalf("day %v has total %d, want 0", d.Date, d.Total)
		}
	}
}
