package kpi

import (
	"math"
	"reflect"
	"testing"
)

func TestFirstLastPctChange(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   *float64
	}{
		{"empty", nil, nil},
		{"single", []float64{10}, nil},
		{"zero baseline", []float64{0, 10}, nil},
		{"negative baseline", []float64{-5, 10}, nil},
		{"down", []float64{10, 12, 9}, ptr(-10.0)},
		{"up", []float64{100, 130}, ptr(30.0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := firstLastPctChange(tt.values)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			if got != nil && math.Abs(*got-*tt.want) > 1e-9 {
				t.Errorf("expected %v, got %v", *tt.want, *got)
			}
		})
	}
}

func TestRollingMean(t *testing.T) {
	// Trailing window of 3 with min 1 period: early entries average the
	// shorter prefix.
	got := rollingMean([]float64{1000, 2400, 450}, 3)
	want := []float64{1000, 1700, 3850.0 / 3.0}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestRollingMean_WindowOne(t *testing.T) {
	got := rollingMean([]float64{3, 7, 11}, 1)
	if !reflect.DeepEqual(got, []float64{3, 7, 11}) {
		t.Errorf("expected identity with window 1, got %v", got)
	}
}

func TestPeriodReturns_SkipsZeroBaseline(t *testing.T) {
	got := periodReturns([]float64{10, 0, 5, 10})
	// 10→0: -1.0; 0→5 skipped (zero baseline); 5→10: 1.0
	want := []float64{-1.0, 1.0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSampleStddev(t *testing.T) {
	got := sampleStddev([]float64{-0.2, -0.25})
	want := math.Sqrt(0.00125)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func ptr(v float64) *float64 { return &v }
