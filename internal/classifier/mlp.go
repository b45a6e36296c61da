package classifier

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// MLP is a one-hidden-layer ReLU network with a softmax output,
// trained by full-batch gradient descent on cross-entropy.
type MLP struct {
	Hidden       int     `json:"hidden_units"`
	LearningRate float64 `json:"learning_rate"`
	Epochs       int     `json:"epochs"`
	Classes      int     `json:"classes"`

	// Serialized weight matrices, row-major
	W1 [][]float64 `json:"w1"` // input x hidden
	B1 []float64   `json:"b1"`
	W2 [][]float64 `json:"w2"` // hidden x classes
	B2 []float64   `json:"b2"`
}

func newMLP(p Params) *MLP {
	return &MLP{
		Hidden:       int(p.get("hidden_units", 64)),
		LearningRate: p.get("learning_rate", 0.01),
		Epochs:       int(p.get("epochs", 300)),
	}
}

func (m *MLP) Fit(X [][]float64, y []int, numClasses int) error {
	if len(X) == 0 {
		return fmt.Errorf("empty training set")
	}
	n := len(X)
	dims := len(X[0])
	m.Classes = numClasses

	r := rand.New(rand.NewSource(randomSeed))
	scale1 := math.Sqrt(2 / float64(dims))
	scale2 := math.Sqrt(2 / float64(m.Hidden))

	w1 := mat.NewDense(dims, m.Hidden, randomWeights(r, dims*m.Hidden, scale1))
	w2 := mat.NewDense(m.Hidden, numClasses, randomWeights(r, m.Hidden*numClasses, scale2))
	b1 := make([]float64, m.Hidden)
	b2 := make([]float64, numClasses)

	input := mat.NewDense(n, dims, nil)
	for i, row := range X {
		input.SetRow(i, row)
	}

	var hidden, logits mat.Dense
	for epoch := 0; epoch < m.Epochs; epoch++ {
		// Forward
		hidden.Mul(input, w1)
		hidden.Apply(func(_, j int, v float64) float64 {
			return relu(v + b1[j])
		}, &hidden)
		logits.Mul(&hidden, w2)
		logits.Apply(func(_, j int, v float64) float64 {
			return v + b2[j]
		}, &logits)

		// Softmax and output gradient (probs - onehot)/n
		gradOut := mat.NewDense(n, numClasses, nil)
		for i := 0; i < n; i++ {
			probs := softmax(logits.RawRowView(i))
			for c := 0; c < numClasses; c++ {
				g := probs[c]
				if c == y[i] {
					g -= 1
				}
				gradOut.Set(i, c, g/float64(n))
			}
		}

		// Backward through the output layer
		var gradW2 mat.Dense
		gradW2.Mul(hidden.T(), gradOut)

		var gradHidden mat.Dense
		gradHidden.Mul(gradOut, w2.T())
		gradHidden.Apply(func(i, j int, v float64) float64 {
			if hidden.At(i, j) <= 0 {
				return 0
			}
			return v
		}, &gradHidden)

		var gradW1 mat.Dense
		gradW1.Mul(input.T(), &gradHidden)

		// Parameter step
		step(w1, &gradW1, m.LearningRate)
		step(w2, &gradW2, m.LearningRate)
		stepBias(b1, &gradHidden, m.LearningRate)
		stepBias(b2, gradOut, m.LearningRate)
	}

	m.W1 = denseToRows(w1)
	m.W2 = denseToRows(w2)
	m.B1 = b1
	m.B2 = b2
	return nil
}

func (m *MLP) PredictProba(x []float64) []float64 {
	hidden := make([]float64, m.Hidden)
	for j := 0; j < m.Hidden; j++ {
		z := m.B1[j]
		for d, v := range x {
			z += v * m.W1[d][j]
		}
		hidden[j] = relu(z)
	}
	logits := make([]float64, m.Classes)
	for c := 0; c < m.Classes; c++ {
		z := m.B2[c]
		for j, h := range hidden {
			z += h * m.W2[j][c]
		}
		logits[c] = z
	}
	return softmax(logits)
}

// FeatureImportances is nil: hidden-layer weights have no direct
// per-feature interpretation.
func (m *MLP) FeatureImportances() []float64 { return nil }

func (m *MLP) state() (json.RawMessage, error) {
	return json.Marshal(m)
}

func randomWeights(r *rand.Rand, n int, scale float64) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = r.NormFloat64() * scale
	}
	return w
}

func relu(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func softmax(logits []float64) []float64 {
	maxLogit := logits[0]
	for _, v := range logits[1:] {
		if v > maxLogit {
			maxLogit = v
		}
	}
	sum := 0.0
	out := make([]float64, len(logits))
	for i, v := range logits {
		out[i] = math.Exp(v - maxLogit)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func step(w, grad *mat.Dense, lr float64) {
	w.Apply(func(i, j int, v float64) float64 {
		return v - lr*grad.At(i, j)
	}, w)
}

func stepBias(b []float64, grad *mat.Dense, lr float64) {
	rows, _ := grad.Dims()
	for j := range b {
		sum := 0.0
		for i := 0; i < rows; i++ {
			sum += grad.At(i, j)
		}
		b[j] -= lr * sum
	}
}

func denseToRows(d *mat.Dense) [][]float64 {
	rows, cols := d.Dims()
	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		row := make([]float64, cols)
		copy(row, d.RawRowView(i))
		out[i] = row
	}
	return out
}
