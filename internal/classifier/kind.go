package classifier

import "fmt"

// ModelKind is the tagged set of supported estimator families. Every
// kind implements the same train/predict/persist capability surface.
type ModelKind string

const (
	KindRandomForest  ModelKind = "random_forest"
	KindGradientBoost ModelKind = "gradient_boost"
	KindSVM           ModelKind = "svm"
	KindNeuralNet     ModelKind = "neural_network"
)

// ParseKind validates a model kind string.
func ParseKind(s string) (ModelKind, error) {
	switch ModelKind(s) {
	case KindRandomForest, KindGradientBoost, KindSVM, KindNeuralNet:
		return ModelKind(s), nil
	}
	return "", fmt.Errorf("unknown model kind: %q", s)
}

// Params are numeric hyperparameters for an estimator. Unset keys fall
// back to the kind's defaults.
type Params map[string]float64

func (p Params) get(key string, fallback float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return fallback
}

func (p Params) merged(overrides Params) Params {
	out := make(Params, len(p)+len(overrides))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// randomSeed fixes all stochastic estimator behavior for
// reproducibility.
const randomSeed = 42

// defaultParams returns the per-kind defaults the original model
// shipped with.
func defaultParams(kind ModelKind) Params {
	switch kind {
	case KindRandomForest:
		return Params{
			"n_estimators":      200,
			"max_depth":         15,
			"min_samples_split": 5,
			"min_samples_leaf":  2,
		}
	case KindGradientBoost:
		return Params{
			"n_estimators":  150,
			"learning_rate": 0.1,
		}
	case KindSVM:
		return Params{
			"c":      1.0,
			"epochs": 200,
		}
	case KindNeuralNet:
		return Params{
			"hidden_units":  64,
			"learning_rate": 0.01,
			"epochs":        300,
		}
	}
	return Params{}
}

// DefaultGrid returns the exhaustive hyperparameter search space for a
// model kind.
func DefaultGrid(kind ModelKind) map[string][]float64 {
	switch kind {
	case KindRandomForest:
		return map[string][]float64{
			"n_estimators":      {100, 200, 300},
			"max_depth":         {10, 15, 20},
			"min_samples_split": {2, 5, 10},
			"min_samples_leaf":  {1, 2, 4},
		}
	case KindGradientBoost:
		return map[string][]float64{
			"n_estimators":  {100, 150, 200},
			"learning_rate": {0.05, 0.1, 0.15},
		}
	case KindSVM:
		return map[string][]float64{
			"c":      {0.1, 1, 10, 100},
			"epochs": {100, 200},
		}
	case KindNeuralNet:
		return map[string][]float64{
			"hidden_units":  {32, 64, 128},
			"learning_rate": {0.001, 0.01},
		}
	}
	return nil
}
