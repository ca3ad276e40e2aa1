package stats

import (
	"math"
	"testing"
)

func TestMean(t *testing.T) {
	if m := Mean(nil); m != 0 {
		t.Errorf("mean of empty slice must be 0, got %f", m)
	}
	if m := Mean([]float64{2, 4, 6}); m != 4 {
		t.Errorf("expected mean 4, got %f", m)
	}
}

func TestWeightedMean(t *testing.T) {
	values := []float64{10, 20}
	if m := WeightedMean(values, []float64{3, 1}); m != 12.5 {
		t.Errorf("expected weighted mean 12.5, got %f", m)
	}
	// Nil or zero weights fall back to the plain mean
	if m := WeightedMean(values, nil); m != 15 {
		t.Errorf("expected fallback mean 15, got %f", m)
	}
	if m := WeightedMean(values, []float64{0, 0}); m != 15 {
		t.Errorf("expected fallback mean 15 for zero weights, got %f", m)
	}
}

func TestMeanStdDev(t *testing.T) {
	mean, sd := MeanStdDev(nil)
	if mean != 0 || sd != 0 {
		t.Errorf("empty slice must give (0, 0), got (%f, %f)", mean, sd)
	}
	mean, sd = MeanStdDev([]float64{7})
	if mean != 7 || sd != 0 {
		t.Errorf("single value must give (value, 0), got (%f, %f)", mean, sd)
	}
	mean, sd = MeanStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if mean != 5 {
		t.Errorf("expected mean 5, got %f", mean)
	}
	if math.Abs(sd-2.13809) > 1e-4 { // sample stddev, n-1
		t.Errorf("expected stddev ~2.138, got %f", sd)
	}
}

func TestMinMaxSum(t *testing.T) {
	values := []float64{3, -1, 4, 1.5}
	if v := Min(values); v != -1 {
		t.Errorf("expected min -1, got %f", v)
	}
	if v := Max(values); v != 4 {
		t.Errorf("expected max 4, got %f", v)
	}
	if v := Sum(values); v != 7.5 {
		t.Errorf("expected sum 7.5, got %f", v)
	}
	if Min(nil) != 0 || Max(nil) != 0 || Sum(nil) != 0 {
		t.Error("empty slices must give 0")
	}
}
