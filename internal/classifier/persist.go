package classifier

import (
	"encoding/json"
	"fmt"
	"time"

	apperrors "performative-scorer/internal/errors"
	"performative-scorer/internal/vision"
)

const artifactVersion = 1

// modelArtifact is the on-disk form of a trained model. The feature
// name list is stored so a load against a different extraction schema
// fails instead of silently misaligning columns.
type modelArtifact struct {
	Version      int             `json:"version"`
	Kind         ModelKind       `json:"kind"`
	FeatureNames []string        `json:"feature_names"`
	Params       Params          `json:"params"`
	Scaler       *StandardScaler `json:"scaler"`
	Encoder      *LabelEncoder   `json:"encoder"`
	Estimator    json.RawMessage `json:"estimator"`
	SavedAt      time.Time       `json:"saved_at"`
}

// Save serializes the trained model to a versioned JSON artifact.
func (m *Model) Save() ([]byte, error) {
	if !m.trained {
		return nil, apperrors.NewNotTrainedError("model must be trained before saving")
	}
	state, err := m.estimator.state()
	if err != nil {
		return nil, fmt.Errorf("serialize estimator: %w", err)
	}
	return json.Marshal(modelArtifact{
		Version:      artifactVersion,
		Kind:         m.kind,
		FeatureNames: m.featureNames,
		Params:       m.params,
		Scaler:       m.scaler,
		Encoder:      m.encoder,
		Estimator:    state,
		SavedAt:      time.Now().UTC(),
	})
}

// Load restores a model from a saved artifact. Version, kind and
// feature schema must all match the running code.
func (m *Model) Load(data []byte) error {
	var artifact modelArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return apperrors.NewModelLoadError("failed to decode model artifact", err)
	}
	if artifact.Version != artifactVersion {
		return apperrors.NewModelLoadError(
			fmt.Sprintf("unsupported artifact version %d", artifact.Version), nil)
	}
	if artifact.Kind != m.kind {
		return apperrors.NewModelLoadError(
			fmt.Sprintf("artifact kind %q does not match model kind %q", artifact.Kind, m.kind), nil)
	}
	if err := validateFeatureNames(artifact.FeatureNames); err != nil {
		return apperrors.NewModelLoadError("artifact feature schema mismatch", err)
	}
	if artifact.Scaler == nil || artifact.Encoder == nil {
		return apperrors.NewModelLoadError("artifact missing scaler or encoder", nil)
	}

	est, err := estimatorFromState(artifact.Kind, artifact.Estimator)
	if err != nil {
		return apperrors.NewModelLoadError("failed to restore estimator", err)
	}

	m.params = artifact.Params
	m.scaler = artifact.Scaler
	m.encoder = artifact.Encoder
	m.estimator = est
	m.featureNames = artifact.FeatureNames
	m.trained = true
	return nil
}

func validateFeatureNames(names []string) error {
	if len(names) != len(vision.FeatureNames) {
		return fmt.Errorf("artifact has %d features, extractor produces %d",
			len(names), len(vision.FeatureNames))
	}
	for i, name := range names {
		if name != vision.FeatureNames[i] {
			return fmt.Errorf("feature %d is %q, extractor produces %q",
				i, name, vision.FeatureNames[i])
		}
	}
	return nil
}

// ensembleArtifact bundles each member's artifact under its kind.
type ensembleArtifact struct {
	Version int                           `json:"version"`
	Weights map[ModelKind]float64         `json:"weights"`
	Members map[ModelKind]json.RawMessage `json:"members"`
	SavedAt time.Time                     `json:"saved_at"`
}

// Save serializes every trained member into a single artifact.
func (e *Ensemble) Save() ([]byte, error) {
	if !e.Trained() {
		return nil, apperrors.NewNotTrainedError("ensemble must be trained before saving")
	}
	members := make(map[ModelKind]json.RawMessage, len(ensembleOrder))
	for _, kind := range ensembleOrder {
		data, err := e.members[kind].Save()
		if err != nil {
			return nil, fmt.Errorf("save %s: %w", kind, err)
		}
		members[kind] = data
	}
	return json.Marshal(ensembleArtifact{
		Version: artifactVersion,
		Weights: e.weights,
		Members: members,
		SavedAt: time.Now().UTC(),
	})
}

// Load restores every member from a bundled artifact. All members must
// be present.
func (e *Ensemble) Load(data []byte) error {
	var artifact ensembleArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return apperrors.NewModelLoadError("failed to decode ensemble artifact", err)
	}
	if artifact.Version != artifactVersion {
		return apperrors.NewModelLoadError(
			fmt.Sprintf("unsupported artifact version %d", artifact.Version), nil)
	}
	for _, kind := range ensembleOrder {
		raw, ok := artifact.Members[kind]
		if !ok {
			return apperrors.NewModelLoadError(
				fmt.Sprintf("ensemble artifact missing member %q", kind), nil)
		}
		if err := e.members[kind].Load(raw); err != nil {
			return fmt.Errorf("load %s: %w", kind, err)
		}
	}
	if artifact.Weights != nil {
		e.weights = artifact.Weights
	}
	return nil
}
