package classifier

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler centers features to zero mean and unit variance.
// Fit on the training split only; inference reuses the fitted moments.
type StandardScaler struct {
	Means []float64 `json:"means"`
	Stds  []float64 `json:"stds"`
}

func (s *StandardScaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return fmt.Errorf("cannot fit scaler on empty matrix")
	}
	dims := len(X[0])
	s.Means = make([]float64, dims)
	s.Stds = make([]float64, dims)

	col := make([]float64, len(X))
	for d := 0; d < dims; d++ {
		for i, row := range X {
			col[i] = row[d]
		}
		mean, std := stat.MeanStdDev(col, nil)
		if math.IsNaN(std) || std == 0 {
			std = 1
		}
		s.Means[d] = mean
		s.Stds[d] = std
	}
	return nil
}

func (s *StandardScaler) fitted() bool {
	return len(s.Means) > 0
}

// Transform scales a matrix in a fresh allocation.
func (s *StandardScaler) Transform(X [][]float64) ([][]float64, error) {
	out := make([][]float64, len(X))
	for i, row := range X {
		scaled, err := s.TransformRow(row)
		if err != nil {
			return nil, err
		}
		out[i] = scaled
	}
	return out, nil
}

func (s *StandardScaler) TransformRow(row []float64) ([]float64, error) {
	if !s.fitted() {
		return nil, fmt.Errorf("scaler not fitted")
	}
	if len(row) != len(s.Means) {
		return nil, fmt.Errorf("row has %d features, scaler fitted on %d", len(row), len(s.Means))
	}
	out := make([]float64, len(row))
	for d, v := range row {
		out[d] = (v - s.Means[d]) / s.Stds[d]
	}
	return out, nil
}
