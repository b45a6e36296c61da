package classifier

import (
	"fmt"
	"math/rand"
	"sort"
)

// classOrder returns the distinct labels in ascending order. Both split
// helpers consume a single seeded RNG, so the class visit order must be
// fixed or the same seed would yield different splits per call.
func classOrder(byClass map[int][]int) []int {
	labels := make([]int, 0, len(byClass))
	for label := range byClass {
		labels = append(labels, label)
	}
	sort.Ints(labels)
	return labels
}

// stratifiedSplit shuffles per class with the fixed seed and holds out
// testFrac of each class, so the validation split preserves class
// balance.
func stratifiedSplit(X [][]float64, y []int, testFrac float64, seed int64) (trainX, testX [][]float64, trainY, testY []int, err error) {
	if len(X) != len(y) {
		return nil, nil, nil, nil, fmt.Errorf("feature matrix has %d rows, labels have %d", len(X), len(y))
	}
	byClass := make(map[int][]int)
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}

	r := rand.New(rand.NewSource(seed))
	for _, label := range classOrder(byClass) {
		indices := byClass[label]
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
		nTest := int(float64(len(indices)) * testFrac)
		if nTest == 0 && len(indices) > 1 {
			nTest = 1
		}
		if nTest >= len(indices) {
			return nil, nil, nil, nil, fmt.Errorf("class %d has too few samples (%d) for split", label, len(indices))
		}
		for k, idx := range indices {
			if k < nTest {
				testX = append(testX, X[idx])
				testY = append(testY, y[idx])
			} else {
				trainX = append(trainX, X[idx])
				trainY = append(trainY, y[idx])
			}
		}
	}
	return trainX, testX, trainY, testY, nil
}

// stratifiedFolds assigns samples of each class round-robin to k folds
// after a seeded shuffle. Returns per-fold index lists.
func stratifiedFolds(y []int, k int, seed int64) ([][]int, error) {
	if k < 2 {
		return nil, fmt.Errorf("fold count must be >= 2 (got %d)", k)
	}
	byClass := make(map[int][]int)
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}

	r := rand.New(rand.NewSource(seed))
	folds := make([][]int, k)
	for _, label := range classOrder(byClass) {
		indices := byClass[label]
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
		for pos, idx := range indices {
			f := pos % k
			folds[f] = append(folds[f], idx)
		}
	}
	for f, fold := range folds {
		if len(fold) == 0 {
			return nil, fmt.Errorf("fold %d is empty; not enough samples for %d folds", f, k)
		}
	}
	return folds, nil
}
