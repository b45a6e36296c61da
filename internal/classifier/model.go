package classifier

import (
	"fmt"
	"sort"

	apperrors "performative-scorer/internal/errors"
	"performative-scorer/internal/vision"

	"gonum.org/v1/gonum/stat"
)

const (
	// validationFraction is held out of training, stratified by label.
	validationFraction = 0.2
	// cvFolds is the fixed cross-validation fold count.
	cvFolds = 5
)

// TrainMetrics summarizes one training run.
type TrainMetrics struct {
	TrainAccuracy      float64                 `json:"train_accuracy"`
	ValidationAccuracy float64                 `json:"validation_accuracy"`
	Report             map[string]ClassMetrics `json:"classification_report"`
	Confusion          [][]int                 `json:"confusion_matrix"`
	// ROCAUC is set only for exactly two classes; the task is binary
	// by contract.
	ROCAUC *float64 `json:"roc_auc,omitempty"`
}

// Prediction is the per-sample output of a trained model.
type Prediction struct {
	Labels        []string
	Probabilities [][]float64
	Confidence    []float64
}

// CVResult summarizes a k-fold cross-validation.
type CVResult struct {
	MeanAccuracy float64   `json:"mean_accuracy"`
	StdAccuracy  float64   `json:"std_accuracy"`
	Scores       []float64 `json:"individual_scores"`
}

// Model owns a trained estimator together with its feature scaler and
// label encoder. The trained flag gates every predict/score/save path.
type Model struct {
	kind         ModelKind
	params       Params
	scaler       *StandardScaler
	encoder      *LabelEncoder
	estimator    Estimator
	featureNames []string
	trained      bool
}

func NewModel(kind ModelKind) (*Model, error) {
	return NewModelWithParams(kind, nil)
}

func NewModelWithParams(kind ModelKind, params Params) (*Model, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	return &Model{
		kind:         kind,
		params:       defaultParams(kind).merged(params),
		scaler:       &StandardScaler{},
		encoder:      &LabelEncoder{},
		featureNames: vision.FeatureNames,
	}, nil
}

func (m *Model) Kind() ModelKind { return m.kind }
func (m *Model) Trained() bool   { return m.trained }

// encode turns feature vectors into the positional matrix the scaler
// and estimators consume. Schema violations are an error, never
// silently reordered.
func (m *Model) encode(samples []vision.FeatureVector) ([][]float64, error) {
	X := make([][]float64, len(samples))
	for i, fv := range samples {
		row, err := fv.Vector()
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		X[i] = row
	}
	return X, nil
}

// Train fits scaler, encoder and estimator on a stratified training
// split and reports metrics from the held-out validation split.
func (m *Model) Train(samples []vision.FeatureVector, labels []string) (*TrainMetrics, error) {
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

	trainX, valX, trainY, valY, err := stratifiedSplit(X, y, validationFraction, randomSeed)
	if err != nil {
		return nil, err
	}

	if err := m.scaler.Fit(trainX); err != nil {
		return nil, err
	}
	trainX, err = m.scaler.Transform(trainX)
	if err != nil {
		return nil, err
	}
	valX, err = m.scaler.Transform(valX)
	if err != nil {
		return nil, err
	}

	est, err := newEstimator(m.kind, m.params)
	if err != nil {
		return nil, err
	}
	if err := est.Fit(trainX, trainY, numClasses); err != nil {
		return nil, err
	}
	m.estimator = est
	m.trained = true

	trainPred := predictClasses(est, trainX)
	valPred := predictClasses(est, valX)

	metrics := &TrainMetrics{
		TrainAccuracy:      accuracy(trainY, trainPred),
		ValidationAccuracy: accuracy(valY, valPred),
		Report:             classificationReport(valY, valPred, m.encoder.Classes),
		Confusion:          confusionMatrix(valY, valPred, numClasses),
	}
	if numClasses == 2 {
		posProb := make([]float64, len(valX))
		for i, row := range valX {
			posProb[i] = est.PredictProba(row)[1]
		}
		auc := rocAUC(valY, posProb)
		metrics.ROCAUC = &auc
	}
	return metrics, nil
}

// Predict returns decoded labels, probability vectors and per-sample
// confidence (max probability).
func (m *Model) Predict(samples []vision.FeatureVector) (*Prediction, error) {
	if !m.trained {
		return nil, apperrors.NewNotTrainedError("model must be trained before making predictions")
	}
	X, err := m.encode(samples)
	if err != nil {
		return nil, err
	}
	X, err = m.scaler.Transform(X)
	if err != nil {
		return nil, err
	}

	pred := &Prediction{
		Labels:        make([]string, len(X)),
		Probabilities: make([][]float64, len(X)),
		Confidence:    make([]float64, len(X)),
	}
	indices := make([]int, len(X))
	for i, row := range X {
		probs := m.estimator.PredictProba(row)
		pred.Probabilities[i] = probs
		pred.Confidence[i] = maxval(probs)
		indices[i] = argmax(probs)
	}
	pred.Labels, err = m.encoder.Inverse(indices)
	if err != nil {
		return nil, err
	}
	return pred, nil
}

// PredictScore maps the positive-class probability to an integer score
// in [0,100], truncated.
func (m *Model) PredictScore(fv vision.FeatureVector) (int, error) {
	pred, err := m.Predict([]vision.FeatureVector{fv})
	if err != nil {
		return 0, err
	}
	return scoreFromProbs(pred.Probabilities[0]), nil
}

func scoreFromProbs(probs []float64) int {
	pos := probs[0]
	if len(probs) > 1 {
		pos = probs[1]
	}
	return int(pos * 100)
}

// CrossValidate runs stratified k-fold cross-validation with a fresh
// estimator and scaler per fold.
func (m *Model) CrossValidate(samples []vision.FeatureVector, labels []string, k int) (*CVResult, error) {
	if k <= 0 {
		k = cvFolds
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

	score, err := m.cvAccuracy(X, y, len(m.encoder.Classes), k, m.params)
	if err != nil {
		return nil, err
	}
	return score, nil
}

func (m *Model) cvAccuracy(X [][]float64, y []int, numClasses, k int, params Params) (*CVResult, error) {
	folds, err := stratifiedFolds(y, k, randomSeed)
	if err != nil {
		return nil, err
	}

	scores := make([]float64, 0, k)
	for f, holdout := range folds {
		inFold := make(map[int]bool, len(holdout))
		for _, idx := range holdout {
			inFold[idx] = true
		}
		var trainX, testX [][]float64
		var trainY, testY []int
		for i := range X {
			if inFold[i] {
				testX = append(testX, X[i])
				testY = append(testY, y[i])
			} else {
				trainX = append(trainX, X[i])
				trainY = append(trainY, y[i])
			}
		}

		scaler := &StandardScaler{}
		if err := scaler.Fit(trainX); err != nil {
			return nil, fmt.Errorf("fold %d: %w", f, err)
		}
		trainX, err = scaler.Transform(trainX)
		if err != nil {
			return nil, err
		}
		testX, err = scaler.Transform(testX)
		if err != nil {
			return nil, err
		}

		est, err := newEstimator(m.kind, params)
		if err != nil {
			return nil, err
		}
		if err := est.Fit(trainX, trainY, numClasses); err != nil {
			return nil, fmt.Errorf("fold %d: %w", f, err)
		}
		scores = append(scores, accuracy(testY, predictClasses(est, testX)))
	}

	return &CVResult{
		MeanAccuracy: stat.Mean(scores, nil),
		StdAccuracy:  stat.StdDev(scores, nil),
		Scores:       scores,
	}, nil
}

// FeatureImportance returns (name, score) pairs sorted by score
// descending, or nil when the estimator kind has no importances.
func (m *Model) FeatureImportance() ([]FeatureWeight, error) {
	if !m.trained {
		return nil, apperrors.NewNotTrainedError("model must be trained to get feature importance")
	}
	raw := m.estimator.FeatureImportances()
	if raw == nil {
		return nil, nil
	}
	out := make([]FeatureWeight, 0, len(raw))
	for i, v := range raw {
		if i < len(m.featureNames) {
			out = append(out, FeatureWeight{Name: m.featureNames[i], Weight: v})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	return out, nil
}

// FeatureWeight pairs a feature name with its importance.
type FeatureWeight struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

func predictClasses(est Estimator, X [][]float64) []int {
	out := make([]int, len(X))
	for i, row := range X {
		out[i] = argmax(est.PredictProba(row))
	}
	return out
}
