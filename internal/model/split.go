package model

import (
	"math"
	"math/rand"
	"sort"
)

// splitSeed fixes the validation split so repeated training runs on the same
// frame produce identical metrics.
const splitSeed = 42

// validationFraction is the held-out share of the labeled rows.
const validationFraction = 0.25

// stratifiedSplit partitions row indices into train and validation sets,
// stratified on the label so each partition preserves the class balance.
// Deterministic for a given y.
func stratifiedSplit(y []int, fraction float64) (trainIdx, valIdx []int) {
	byClass := map[int][]int{}
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}

	classes := make([]int, 0, len(byClass))
	for label := range byClass {
		classes = append(classes, label)
	}
	sort.Ints(classes)

	rng := rand.New(rand.NewSource(splitSeed))
	for _, label := range classes {
		indices := byClass[label]
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		nVal := int(math.Round(fraction * float64(len(indices))))
		if nVal < 1 && len(indices) >= 2 {
			nVal = 1
		}
		if nVal >= len(indices) {
			nVal = len(indices) - 1
		}
		if nVal < 0 {
			nVal = 0
		}

		valIdx = append(valIdx, indices[:nVal]...)
		trainIdx = append(trainIdx, indices[nVal:]...)
	}

	sort.Ints(trainIdx)
	sort.Ints(valIdx)
	return trainIdx, valIdx
}
