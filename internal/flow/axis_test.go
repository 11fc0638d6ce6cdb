package flow

import (
	"testing"
	"time"
)

func TestDateAxisDays(t *testing.T) {
	axis := NewDateAxis(day(1), day(4))
	days := axis.Days()
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	if !days[0].Equal(day(1)) || !days[2].Equal(day(3)) {
		t.Errorf("days = %v, want Jan 1 through Jan 3", days)
	}
}

func TestDateAxisContains(t *testing.T) {
	axis := NewDateAxis(day(1), day(4))
	if !axis.Contains(day(1)) {
		t.Error("since bound should be inside")
	}
	if axis.Contains(day(4)) {
		t.Error("until bound should be outside")
	}
}

func TestSnapToDay(t *testing.T) {
	at := time.Date(2024, 1, 5, 17, 30, 12, 0, time.UTC)
	if got := SnapToDay(at); !got.Equal(day(5)) {
		t.Errorf("SnapToDay() = %v, want Jan 5 midnight", got)
	}
	if !SnapToDay(time.Time{}).IsZero() {
		t.Error("zero time should stay zero")
	}
}

func TestWeekEndingMonday(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"MondayMapsToItself", day(1), day(1)},
		{"TuesdayMapsToNextMonday", day(2), day(8)},
		{"SundayMapsToNextMonday", day(7), day(8)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekEndingMonday(tt.in); !got.Equal(tt.want) {
				t.Errorf("WeekEndingMonday(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCountWeekendDays(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"FullWeek", day(1), day(7), 2},
		{"WeekdaysOnly", day(1), day(5), 0},
		{"SingleSaturday", day(6), day(6), 1},
		{"InvertedRange", day(7), day(1), 0},
		{"TwoWeekends", day(1), day(14), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountWeekendDays(tt.start, tt.end); got != tt.want {
				t.Errorf("CountWeekendDays() = %d, want %d", got, tt.want)
			}
		})
	}
}
