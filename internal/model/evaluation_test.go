package model

import (
	"math"
	"testing"
)

func TestBrierScorePerfectAndWorst(t *testing.T) {
	y := []int{1, 0}
	if got := BrierScore(y, []float64{1, 0}); got != 0 {
		t.Errorf("perfect predictions should score 0, got %v", got)
	}
	if got := BrierScore(y, []float64{0, 1}); got != 1 {
		t.Errorf("inverted predictions should score 1, got %v", got)
	}
}

func TestBrierScoreKnownValue(t *testing.T) {
	got := BrierScore([]int{1, 0, 1, 0}, []float64{0.8, 0.3, 0.6, 0.4})
	want := (0.04 + 0.09 + 0.16 + 0.16) / 4
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("brier = %v, want %v", got, want)
	}
}

func TestLogLossKnownValue(t *testing.T) {
	got := LogLoss([]int{1, 0}, []float64{0.8, 0.2})
	want := -(math.Log(0.8) + math.Log(0.8)) / 2
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("log loss = %v, want %v", got, want)
	}
}

func TestLogLossClipsExtremes(t *testing.T) {
	got := LogLoss([]int{1, 0}, []float64{0.0, 1.0})
	if math.IsInf(got, 0) || math.IsNaN(got) {
		t.Fatalf("clipped log loss must stay finite, got %v", got)
	}
	if got <= 0 {
		t.Errorf("confidently wrong predictions should score a large positive loss, got %v", got)
	}
}

func TestLogLossSingleClassFold(t *testing.T) {
	// A fold that happens to contain only positives still evaluates.
	got := LogLoss([]int{1, 1, 1}, []float64{0.9, 0.8, 0.7})
	if math.IsNaN(got) || got < 0 {
		t.Fatalf("single-class fold log loss should be a finite non-negative value, got %v", got)
	}
}

func TestMetricsEmptyInput(t *testing.T) {
	if BrierScore(nil, nil) != 0 {
		t.Error("empty brier should be 0")
	}
	if LogLoss(nil, nil) != 0 {
		t.Error("empty log loss should be 0")
	}
}
