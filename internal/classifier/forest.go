package classifier

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// treeNode is one node of a classification tree. Leaves carry a class
// probability distribution; internal nodes split on feature <= threshold.
type treeNode struct {
	Feature   int       `json:"f"`
	Threshold float64   `json:"t"`
	Left      *treeNode `json:"l,omitempty"`
	Right     *treeNode `json:"r,omitempty"`
	Probs     []float64 `json:"p,omitempty"`
}

func (n *treeNode) leaf() bool { return n.Probs != nil }

func (n *treeNode) predict(x []float64) []float64 {
	for !n.leaf() {
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Probs
}

// RandomForest is a bagged ensemble of gini-split classification trees
// with sqrt-feature subsampling at each split.
type RandomForest struct {
	NumTrees int         `json:"n_estimators"`
	MaxDepth int         `json:"max_depth"`
	MinSplit int         `json:"min_samples_split"`
	MinLeaf  int         `json:"min_samples_leaf"`
	Classes  int         `json:"classes"`
	Trees    []*treeNode `json:"trees"`

	importances []float64
}

func newRandomForest(p Params) *RandomForest {
	return &RandomForest{
		NumTrees: int(p.get("n_estimators", 200)),
		MaxDepth: int(p.get("max_depth", 15)),
		MinSplit: int(p.get("min_samples_split", 5)),
		MinLeaf:  int(p.get("min_samples_leaf", 2)),
	}
}

func (f *RandomForest) Fit(X [][]float64, y []int, numClasses int) error {
	if len(X) == 0 {
		return fmt.Errorf("empty training set")
	}
	f.Classes = numClasses
	f.Trees = make([]*treeNode, 0, f.NumTrees)
	f.importances = make([]float64, len(X[0]))

	r := rand.New(rand.NewSource(randomSeed))
	n := len(X)
	featuresPerSplit := int(math.Sqrt(float64(len(X[0]))))
	if featuresPerSplit < 1 {
		featuresPerSplit = 1
	}

	for t := 0; t < f.NumTrees; t++ {
		// Bootstrap sample
		sampleX := make([][]float64, n)
		sampleY := make([]int, n)
		for i := 0; i < n; i++ {
			j := r.Intn(n)
			sampleX[i] = X[j]
			sampleY[i] = y[j]
		}
		b := &treeBuilder{
			forest:      f,
			rand:        r,
			numFeatures: featuresPerSplit,
		}
		f.Trees = append(f.Trees, b.build(sampleX, sampleY, 0))
	}
	return nil
}

func (f *RandomForest) PredictProba(x []float64) []float64 {
	probs := make([]float64, f.Classes)
	for _, tree := range f.Trees {
		for c, p := range tree.predict(x) {
			probs[c] += p
		}
	}
	for c := range probs {
		probs[c] /= float64(len(f.Trees))
	}
	return probs
}

// FeatureImportances is the accumulated gini impurity decrease per
// feature, normalized to sum to 1. Only populated on a freshly fitted
// forest, not after a load.
func (f *RandomForest) FeatureImportances() []float64 {
	if f.importances == nil {
		return nil
	}
	total := 0.0
	for _, v := range f.importances {
		total += v
	}
	if total == 0 {
		return f.importances
	}
	out := make([]float64, len(f.importances))
	for i, v := range f.importances {
		out[i] = v / total
	}
	return out
}

func (f *RandomForest) state() (json.RawMessage, error) {
	return json.Marshal(f)
}

type treeBuilder struct {
	forest      *RandomForest
	rand        *rand.Rand
	numFeatures int
}

func (b *treeBuilder) build(X [][]float64, y []int, depth int) *treeNode {
	if depth >= b.forest.MaxDepth || len(y) < b.forest.MinSplit || pure(y) {
		return b.leaf(y)
	}

	feature, threshold, gain := b.bestSplit(X, y)
	if gain <= 0 {
		return b.leaf(y)
	}

	var leftX, rightX [][]float64
	var leftY, rightY []int
	for i, row := range X {
		if row[feature] <= threshold {
			leftX = append(leftX, row)
			leftY = append(leftY, y[i])
		} else {
			rightX = append(rightX, row)
			rightY = append(rightY, y[i])
		}
	}
	if len(leftY) < b.forest.MinLeaf || len(rightY) < b.forest.MinLeaf {
		return b.leaf(y)
	}

	b.forest.importances[feature] += gain * float64(len(y))
	return &treeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      b.build(leftX, leftY, depth+1),
		Right:     b.build(rightX, rightY, depth+1),
	}
}

func (b *treeBuilder) leaf(y []int) *treeNode {
	probs := make([]float64, b.forest.Classes)
	for _, label := range y {
		probs[label]++
	}
	for c := range probs {
		probs[c] /= float64(len(y))
	}
	return &treeNode{Probs: probs}
}

// bestSplit searches a random feature subset, trying candidate
// thresholds at value quantiles.
func (b *treeBuilder) bestSplit(X [][]float64, y []int) (int, float64, float64) {
	parent := gini(y, b.forest.Classes)
	bestFeature, bestThreshold, bestGain := -1, 0.0, 0.0

	dims := len(X[0])
	perm := b.rand.Perm(dims)[:b.numFeatures]

	values := make([]float64, len(X))
	for _, feature := range perm {
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

			var leftY, rightY []int
			for j, row := range X {
				if row[feature] <= threshold {
					leftY = append(leftY, y[j])
				} else {
					rightY = append(rightY, y[j])
				}
			}
			if len(leftY) == 0 || len(rightY) == 0 {
				continue
			}
			weighted := (float64(len(leftY))*gini(leftY, b.forest.Classes) +
				float64(len(rightY))*gini(rightY, b.forest.Classes)) / float64(len(y))
			if gain := parent - weighted; gain > bestGain {
				bestFeature, bestThreshold, bestGain = feature, threshold, gain
			}
		}
	}
	return bestFeature, bestThreshold, bestGain
}

func gini(y []int, classes int) float64 {
	counts := make([]int, classes)
	for _, label := range y {
		counts[label]++
	}
	impurity := 1.0
	n := float64(len(y))
	for _, c := range counts {
		p := float64(c) / n
		impurity -= p * p
	}
	return impurity
}

func pure(y []int) bool {
	for _, label := range y[1:] {
		if label != y[0] {
			return false
		}
	}
	return true
}
