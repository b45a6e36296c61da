package classifier

import (
	"fmt"

	apperrors "performative-scorer/internal/errors"
	"performative-scorer/internal/vision"

	"golang.org/x/sync/errgroup"
)

// ensembleOrder fixes member iteration order for deterministic output.
var ensembleOrder = []ModelKind{KindRandomForest, KindGradientBoost, KindSVM, KindNeuralNet}

// defaultWeights are the soft-voting weights per member kind.
var defaultWeights = map[ModelKind]float64{
	KindRandomForest:  0.3,
	KindGradientBoost: 0.3,
	KindSVM:           0.2,
	KindNeuralNet:     0.2,
}

// Ensemble combines one model of each kind with weighted soft voting.
type Ensemble struct {
	members map[ModelKind]*Model
	weights map[ModelKind]float64
}

func NewEnsemble() (*Ensemble, error) {
	members := make(map[ModelKind]*Model, len(ensembleOrder))
	for _, kind := range ensembleOrder {
		m, err := NewModel(kind)
		if err != nil {
			return nil, err
		}
		members[kind] = m
	}
	return &Ensemble{members: members, weights: defaultWeights}, nil
}

// Member exposes a single ensemble member, mainly for persistence.
func (e *Ensemble) Member(kind ModelKind) *Model { return e.members[kind] }

// Trained reports whether every member has been trained or loaded.
func (e *Ensemble) Trained() bool {
	for _, m := range e.members {
		if !m.Trained() {
			return false
		}
	}
	return true
}

// TrainAll trains every member concurrently on the same data. Each
// member keeps its own scaler and encoder.
func (e *Ensemble) TrainAll(samples []vision.FeatureVector, labels []string) (map[ModelKind]*TrainMetrics, error) {
	results := make(map[ModelKind]*TrainMetrics, len(ensembleOrder))
	var g errgroup.Group
	type trained struct {
		kind    ModelKind
		metrics *TrainMetrics
	}
	out := make(chan trained, len(ensembleOrder))

	for _, kind := range ensembleOrder {
		kind := kind
		g.Go(func() error {
			metrics, err := e.members[kind].Train(samples, labels)
			if err != nil {
				return fmt.Errorf("train %s: %w", kind, err)
			}
			out <- trained{kind: kind, metrics: metrics}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(out)
	for t := range out {
		results[t.kind] = t.metrics
	}
	return results, nil
}

// PredictEnsemble soft-votes member probabilities with the fixed
// weights. The reported confidence is the max of the combined vector.
func (e *Ensemble) PredictEnsemble(fv vision.FeatureVector) (string, []float64, float64, error) {
	if !e.Trained() {
		return "", nil, 0, apperrors.NewNotTrainedError("ensemble must be trained before making predictions")
	}

	var combined []float64
	var classes []string
	for _, kind := range ensembleOrder {
		m := e.members[kind]
		pred, err := m.Predict([]vision.FeatureVector{fv})
		if err != nil {
			return "", nil, 0, fmt.Errorf("predict %s: %w", kind, err)
		}
		probs := pred.Probabilities[0]
		if combined == nil {
			combined = make([]float64, len(probs))
			classes = m.encoder.Classes
		}
		if len(probs) != len(combined) {
			return "", nil, 0, fmt.Errorf("member %s class count %d does not match ensemble %d", kind, len(probs), len(combined))
		}
		w := e.weights[kind]
		for c, p := range probs {
			combined[c] += w * p
		}
	}

	best := argmax(combined)
	return classes[best], combined, maxval(combined), nil
}

// PredictScoreEnsemble maps the combined positive-class probability to
// an integer score in [0,100].
func (e *Ensemble) PredictScoreEnsemble(fv vision.FeatureVector) (int, error) {
	_, combined, _, err := e.PredictEnsemble(fv)
	if err != nil {
		return 0, err
	}
	return scoreFromProbs(combined), nil
}
