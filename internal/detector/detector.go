package detector

import (
	"math"
	"sort"
	"strings"

	"performative-scorer/internal/vision"
	"performative-scorer/pkg/models"
)

// RandSource supplies uniform floats in [0,1). Injected so tests can
// substitute a deterministic stub.
type RandSource interface {
	Float64() float64
}

// maxDetectedItems caps the detector output length.
const maxDetectedItems = 8

// Detector maps semantic labels against the performative item catalog.
type Detector struct {
	catalog []CatalogItem
	rand    RandSource
}

func NewDetector(catalog []CatalogItem, rand RandSource) *Detector {
	return &Detector{catalog: catalog, rand: rand}
}

// DetectItems matches labels against the catalog. When labels is nil
// the deterministic heuristic label provider derives pseudo-labels from
// the feature vector. Output is sorted by point value descending and
// capped at 8 entries.
func (d *Detector) DetectItems(features vision.FeatureVector, labels []string) []models.DetectedItem {
	if labels == nil {
		labels = NewHeuristicLabelProvider(d.rand).Labels(features)
	}

	var detected []models.DetectedItem
	for _, label := range labels {
		labelLower := strings.ToLower(label)
		for _, item := range d.catalog {
			if match, ok := d.matchLabel(item, labelLower, label); ok {
				detected = append(detected, match)
			}
		}
	}

	sort.SliceStable(detected, func(i, j int) bool {
		return detected[i].Points > detected[j].Points
	})
	if len(detected) > maxDetectedItems {
		detected = detected[:maxDetectedItems]
	}
	return detected
}

// matchLabel checks a single catalog item against a label. The first
// keyword in catalog order that is a substring wins; this tie-break is
// deliberate, not a best-match selection.
func (d *Detector) matchLabel(item CatalogItem, labelLower, original string) (models.DetectedItem, bool) {
	for _, keyword := range item.Keywords {
		if !strings.Contains(labelLower, keyword) {
			continue
		}
		matchType := "partial"
		if keyword == labelLower {
			matchType = "exact"
		}
		return models.DetectedItem{
			Item:           item.Name,
			Points:         item.Points,
			Confidence:     d.sampleConfidence(),
			MatchedKeyword: keyword,
			OriginalLabel:  original,
			MatchType:      matchType,
		}, true
	}
	return models.DetectedItem{}, false
}

// sampleConfidence draws from N(0.8, 0.1) clipped to [0.6, 0.95].
func (d *Detector) sampleConfidence() float64 {
	c := 0.8 + 0.1*gaussian(d.rand)
	return math.Min(0.95, math.Max(0.6, c))
}

// gaussian produces a standard normal sample via Box-Muller from two
// uniform draws.
func gaussian(r RandSource) float64 {
	u1 := r.Float64()
	if u1 < 1e-12 {
		u1 = 1e-12
	}
	u2 := r.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}
