package classifier

import (
	"runtime"
	"sort"
	"sync"

	"performative-scorer/internal/logger"
	"performative-scorer/internal/vision"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ComboResult is the cross-validated score of one parameter combination.
type ComboResult struct {
	Params       Params  `json:"params"`
	MeanAccuracy float64 `json:"mean_accuracy"`
	StdAccuracy  float64 `json:"std_accuracy"`
}

// SearchResult is the outcome of an exhaustive grid search.
type SearchResult struct {
	BestParams   Params        `json:"best_params"`
	BestAccuracy float64       `json:"best_accuracy"`
	Results      []ComboResult `json:"results"`
}

// GridSearch exhaustively cross-validates every combination in grid,
// then refits the model on the full data with the best parameters.
// Combinations run concurrently, bounded by the CPU count.
func (m *Model) GridSearch(samples []vision.FeatureVector, labels []string, grid map[string][]float64) (*SearchResult, error) {
	if grid == nil {
		grid = DefaultGrid(m.kind)
	}

	X, err := m.encode(samples)
	if err != nil {
		return nil, err
	}
	m.encoder.Fit(labels)
	y, err := m.encoder.Transform(labels)
	if err != nil {
		return nil, err
	}
	numClasses := len(m.encoder.Classes)

	combos := enumerateCombos(grid)
	logger.WithFields(logrus.Fields{
		"kind":         m.kind,
		"combinations": len(combos),
	}).Info("Starting grid search")

	results := make([]ComboResult, len(combos))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	var mu sync.Mutex

	for idx, combo := range combos {
		idx, combo := idx, combo
		g.Go(func() error {
			cv, err := m.cvAccuracy(X, y, numClasses, cvFolds, defaultParams(m.kind).merged(combo))
			if err != nil {
				return err
			}
			mu.Lock()
			results[idx] = ComboResult{
				Params:       combo,
				MeanAccuracy: cv.MeanAccuracy,
				StdAccuracy:  cv.StdAccuracy,
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	best := 0
	for i := range results {
		if results[i].MeanAccuracy > results[best].MeanAccuracy {
			best = i
		}
	}

	// Refit on everything with the winning combination.
	m.params = defaultParams(m.kind).merged(results[best].Params)
	if err := m.scaler.Fit(X); err != nil {
		return nil, err
	}
	scaled, err := m.scaler.Transform(X)
	if err != nil {
		return nil, err
	}
	est, err := newEstimator(m.kind, m.params)
	if err != nil {
		return nil, err
	}
	if err := est.Fit(scaled, y, numClasses); err != nil {
		return nil, err
	}
	m.estimator = est
	m.trained = true

	logger.WithFields(logrus.Fields{
		"kind":          m.kind,
		"best_accuracy": results[best].MeanAccuracy,
	}).Info("Grid search complete")

	return &SearchResult{
		BestParams:   results[best].Params,
		BestAccuracy: results[best].MeanAccuracy,
		Results:      results,
	}, nil
}

// enumerateCombos expands the grid into the cartesian product of its
// values. Keys are visited in sorted order so combination order is
// stable.
func enumerateCombos(grid map[string][]float64) []Params {
	keys := make([]string, 0, len(grid))
	for k := range grid {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	combos := []Params{{}}
	for _, key := range keys {
		next := make([]Params, 0, len(combos)*len(grid[key]))
		for _, base := range combos {
			for _, v := range grid[key] {
				combo := make(Params, len(base)+1)
				for k, bv := range base {
					combo[k] = bv
				}
				combo[key] = v
				next = append(next, combo)
			}
		}
		combos = next
	}
	return combos
}
