package classifier

import (
	"encoding/json"
	"fmt"
)

// Estimator is the uniform capability surface of all model kinds.
// Implementations are deterministic under the fixed seed.
type Estimator interface {
	Fit(X [][]float64, y []int, numClasses int) error
	PredictProba(x []float64) []float64

	// FeatureImportances returns per-feature importance scores, or nil
	// for kinds without a natural importance measure.
	FeatureImportances() []float64

	state() (json.RawMessage, error)
}

func newEstimator(kind ModelKind, params Params) (Estimator, error) {
	p := defaultParams(kind).merged(params)
	switch kind {
	case KindRandomForest:
		return newRandomForest(p), nil
	case KindGradientBoost:
		return newGradientBoost(p), nil
	case KindSVM:
		return newLinearSVM(p), nil
	case KindNeuralNet:
		return newMLP(p), nil
	}
	return nil, fmt.Errorf("unknown model kind: %q", kind)
}

func estimatorFromState(kind ModelKind, raw json.RawMessage) (Estimator, error) {
	var est Estimator
	switch kind {
	case KindRandomForest:
		est = &RandomForest{}
	case KindGradientBoost:
		est = &GradientBoost{}
	case KindSVM:
		est = &LinearSVM{}
	case KindNeuralNet:
		est = &MLP{}
	default:
		return nil, fmt.Errorf("unknown model kind: %q", kind)
	}
	if err := json.Unmarshal(raw, est); err != nil {
		return nil, fmt.Errorf("decode %s estimator state: %w", kind, err)
	}
	return est, nil
}
