package classifier

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// regressionStump is a depth-1 regression tree fitted to residuals.
type regressionStump struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t"`
	Left      float64 `json:"l"`
	Right     float64 `json:"r"`
}

func (s *regressionStump) predict(x []float64) float64 {
	if x[s.Feature] <= s.Threshold {
		return s.Left
	}
	return s.Right
}

// GradientBoost fits additive regression stumps to logistic-loss
// residuals. Binary classification only, by contract.
type GradientBoost struct {
	NumRounds    int               `json:"n_estimators"`
	LearningRate float64           `json:"learning_rate"`
	Bias         float64           `json:"bias"`
	Stumps       []regressionStump `json:"stumps"`
}

func newGradientBoost(p Params) *GradientBoost {
	return &GradientBoost{
		NumRounds:    int(p.get("n_estimators", 150)),
		LearningRate: p.get("learning_rate", 0.1),
	}
}

func (g *GradientBoost) Fit(X [][]float64, y []int, numClasses int) error {
	if numClasses != 2 {
		return fmt.Errorf("gradient boosting supports binary classification, got %d classes", numClasses)
	}
	if len(X) == 0 {
		return fmt.Errorf("empty training set")
	}

	n := len(X)
	posRate := 0.0
	for _, label := range y {
		posRate += float64(label)
	}
	posRate /= float64(n)
	posRate = math.Min(math.Max(posRate, 1e-6), 1-1e-6)
	g.Bias = math.Log(posRate / (1 - posRate))
	g.Stumps = make([]regressionStump, 0, g.NumRounds)

	margin := make([]float64, n)
	for i := range margin {
		margin[i] = g.Bias
	}
	residual := make([]float64, n)

	for round := 0; round < g.NumRounds; round++ {
		for i := range residual {
			p := sigmoid(margin[i])
			residual[i] = float64(y[i]) - p
		}
		stump, ok := fitStump(X, residual)
		if !ok {
			break
		}
		g.Stumps = append(g.Stumps, stump)
		for i, row := range X {
			margin[i] += g.LearningRate * stump.predict(row)
		}
	}
	return nil
}

func (g *GradientBoost) PredictProba(x []float64) []float64 {
	margin := g.Bias
	for i := range g.Stumps {
		margin += g.LearningRate * g.Stumps[i].predict(x)
	}
	p := sigmoid(margin)
	return []float64{1 - p, p}
}

// FeatureImportances counts how often each feature was chosen for a
// stump, normalized. Only meaningful on a freshly fitted model where
// stump order reflects residual structure.
func (g *GradientBoost) FeatureImportances() []float64 {
	if len(g.Stumps) == 0 {
		return nil
	}
	maxFeature := 0
	for i := range g.Stumps {
		if g.Stumps[i].Feature > maxFeature {
			maxFeature = g.Stumps[i].Feature
		}
	}
	out := make([]float64, maxFeature+1)
	for i := range g.Stumps {
		out[g.Stumps[i].Feature]++
	}
	for i := range out {
		out[i] /= float64(len(g.Stumps))
	}
	return out
}

func (g *GradientBoost) state() (json.RawMessage, error) {
	return json.Marshal(g)
}

// fitStump finds the squared-error-optimal single split over quantile
// candidate thresholds.
func fitStump(X [][]float64, residual []float64) (regressionStump, bool) {
	dims := len(X[0])
	bestSSE := math.Inf(1)
	var best regressionStump
	found := false

	values := make([]float64, len(X))
	for feature := 0; feature < dims; feature++ {
		for i, row := range X {
			values[i] = row[feature]
		}
		sort.Float64s(values)

		const candidates = 16
		step := len(values) / candidates
		if step < 1 {
			step = 1
		}
		prev := math.Inf(-1)
		for i := step; i < len(values); i += step {
			threshold := values[i]
			if threshold == prev {
				continue
			}
			prev = threshold

			var leftSum, rightSum float64
			var leftN, rightN int
			for j, row := range X {
				if row[feature] <= threshold {
					leftSum += residual[j]
					leftN++
				} else {
					rightSum += residual[j]
					rightN++
				}
			}
			if leftN == 0 || rightN == 0 {
				continue
			}
			leftMean := leftSum / float64(leftN)
			rightMean := rightSum / float64(rightN)

			sse := 0.0
			for j, row := range X {
				var pred float64
				if row[feature] <= threshold {
					pred = leftMean
				} else {
					pred = rightMean
				}
				d := residual[j] - pred
				sse += d * d
			}
			if sse < bestSSE {
				bestSSE = sse
				best = regressionStump{Feature: feature, Threshold: threshold, Left: leftMean, Right: rightMean}
				found = true
			}
		}
	}
	return best, found
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
