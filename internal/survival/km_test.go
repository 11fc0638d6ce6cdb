package survival

import (
	"testing"
)

func TestFitKaplanMeierEmpty(t *testing.T) {
	if FitKaplanMeier(nil) != nil {
		t.Error("empty sample should fit to nil")
	}
}

func TestKaplanMeierQuantiles(t *testing.T) {
	// Four events at distinct times: S drops 0.75, 0.50, 0.25, 0.
	km := FitKaplanMeier([]float64{1, 2, 3, 4})

	tests := []struct {
		p    float64
		want float64
	}{
		{0.25, 1},
		{0.50, 2},
		{0.75, 3},
		{0.85, 4},
		{0.999, 4},
	}
	for _, tt := range tests {
		if got := km.Quantile(tt.p); got != tt.want {
			t.Errorf("Quantile(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestKaplanMeierTies(t *testing.T) {
	// Two events at t=2 drop S from 1.0 straight to 0.5.
	km := FitKaplanMeier([]float64{2, 2, 5, 9})

	if got := km.Quantile(0.5); got != 2 {
		t.Errorf("Quantile(0.5) = %v, want 2", got)
	}
	if got := km.Quantile(0.75); got != 5 {
		t.Errorf("Quantile(0.75) = %v, want 5", got)
	}
}

func TestKaplanMeierQuantilesMonotone(t *testing.T) {
	km := FitKaplanMeier([]float64{3, 1, 4, 1, 5, 9, 2, 6})

	prev := 0.0
	for _, p := range ProbabilityBands {
		q := km.Quantile(p)
		if q < prev {
			t.Fatalf("Quantile(%v) = %v dropped below %v", p, q, prev)
		}
		prev = q
	}
}
