package model

import (
	"testing"
)

func TestStratifiedSplitPreservesClassBalance(t *testing.T) {
	y := make([]int, 0, 100)
	for i := 0; i < 60; i++ {
		y = append(y, 1)
	}
	for i := 0; i < 40; i++ {
		y = append(y, 0)
	}

	trainIdx, valIdx := stratifiedSplit(y, 0.25)
	if len(trainIdx)+len(valIdx) != len(y) {
		t.Fatalf("partitions must cover all rows: %d + %d != %d", len(trainIdx), len(valIdx), len(y))
	}

	valOnes := 0
	for _, i := range valIdx {
		if y[i] == 1 {
			valOnes++
		}
	}
	// 25% of 60 positives = 15
	if valOnes != 15 {
		t.Errorf("expected 15 positive validation rows, got %d", valOnes)
	}
	if len(valIdx) != 25 {
		t.Errorf("expected 25 validation rows, got %d", len(valIdx))
	}
}

func TestStratifiedSplitDeterministic(t *testing.T) {
	y := []int{1, 0, 1, 0, 1, 0, 1, 1, 0, 0, 1, 0}
	train1, val1 := stratifiedSplit(y, 0.25)
	train2, val2 := stratifiedSplit(y, 0.25)

	if len(train1) != len(train2) || len(val1) != len(val2) {
		t.Fatal("split sizes must be deterministic")
	}
	for i := range val1 {
		if val1[i] != val2[i] {
			t.Fatal("validation indices must be deterministic")
		}
	}
	for i := range train1 {
		if train1[i] != train2[i] {
			t.Fatal("train indices must be deterministic")
		}
	}
}

func TestStratifiedSplitNoOverlap(t *testing.T) {
	y := []int{1, 0, 1, 0, 1, 0, 1, 0}
	trainIdx, valIdx := stratifiedSplit(y, 0.25)
	seen := map[int]bool{}
	for _, i := range trainIdx {
		seen[i] = true
	}
	for _, i := range valIdx {
		if seen[i] {
			t.Fatalf("index %d appears in both partitions", i)
		}
	}
}

func TestStratifiedSplitTinyClasses(t *testing.T) {
	// With two rows per class, each class still contributes one row to each
	// partition.
	y := []int{1, 1, 0, 0}
	trainIdx, valIdx := stratifiedSplit(y, 0.25)
	if len(trainIdx) != 2 || len(valIdx) != 2 {
		t.Fatalf("expected 2/2 split, got %d/%d", len(trainIdx), len(valIdx))
	}
}
