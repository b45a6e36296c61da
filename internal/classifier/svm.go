package classifier

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
)

// LinearSVM is a hinge-loss linear classifier trained with Pegasos-style
// SGD. Probabilities come from a sigmoid over the margin. Binary only.
type LinearSVM struct {
	C       float64   `json:"c"`
	Epochs  int       `json:"epochs"`
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

func newLinearSVM(p Params) *LinearSVM {
	return &LinearSVM{
		C:      p.get("c", 1.0),
		Epochs: int(p.get("epochs", 200)),
	}
}

func (s *LinearSVM) Fit(X [][]float64, y []int, numClasses int) error {
	if numClasses != 2 {
		return fmt.Errorf("svm supports binary classification, got %d classes", numClasses)
	}
	if len(X) == 0 {
		return fmt.Errorf("empty training set")
	}

	n := len(X)
	dims := len(X[0])
	s.Weights = make([]float64, dims)
	s.Bias = 0
	lambda := 1 / (s.C * float64(n))

	r := rand.New(rand.NewSource(randomSeed))
	t := 0
	for epoch := 0; epoch < s.Epochs; epoch++ {
		for _, i := range r.Perm(n) {
			t++
			eta := 1 / (lambda * float64(t))
			target := float64(2*y[i] - 1) // {0,1} -> {-1,+1}
			margin := s.margin(X[i])

			if target*margin < 1 {
				for d, v := range X[i] {
					s.Weights[d] = (1-eta*lambda)*s.Weights[d] + eta*target*v
				}
				s.Bias += eta * target
			} else {
				for d := range s.Weights {
					s.Weights[d] *= 1 - eta*lambda
				}
			}
		}
	}
	return nil
}

func (s *LinearSVM) margin(x []float64) float64 {
	m := s.Bias
	for d, v := range x {
		m += s.Weights[d] * v
	}
	return m
}

func (s *LinearSVM) PredictProba(x []float64) []float64 {
	p := sigmoid(s.margin(x))
	return []float64{1 - p, p}
}

// FeatureImportances is the absolute weight per feature.
func (s *LinearSVM) FeatureImportances() []float64 {
	if s.Weights == nil {
		return nil
	}
	out := make([]float64, len(s.Weights))
	for d, w := range s.Weights {
		out[d] = math.Abs(w)
	}
	return out
}

func (s *LinearSVM) state() (json.RawMessage, error) {
	return json.Marshal(s)
}
