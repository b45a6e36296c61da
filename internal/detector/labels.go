package detector

import "performative-scorer/internal/vision"

// LabelProvider produces semantic labels for an image. The heuristic
// implementation below is a documented deterministic rule set, not a
// trained model; it is kept behind this interface so a learned label
// source can replace or disable it.
type LabelProvider interface {
	Labels(features vision.FeatureVector) []string
}

// baseLabels are scene labels assumed present in any photograph.
var baseLabels = []string{
	"person", "clothing", "face", "hair", "hand", "furniture",
	"wall", "floor", "window", "door", "table", "chair",
}

// maxLabels bounds the sampled label set size.
const maxLabels = 12

// HeuristicLabelProvider derives pseudo-labels from fixed feature
// thresholds. The thresholds are the documented heuristic:
// many keypoints suggest detailed objects, low brightness suggests a
// dim interior, many contours suggest clutter, and so on.
type HeuristicLabelProvider struct {
	rand RandSource
}

func NewHeuristicLabelProvider(rand RandSource) *HeuristicLabelProvider {
	return &HeuristicLabelProvider{rand: rand}
}

func (p *HeuristicLabelProvider) Labels(features vision.FeatureVector) []string {
	var performative []string

	if features["fast_keypoints"] > 100 {
		performative = append(performative, "vintage camera", "typewriter", "record player")
	}
	if features["brightness"] < 100 {
		performative = append(performative, "coffee shop", "dim lighting", "artistic")
	}
	if features["contour_count"] > 50 {
		performative = append(performative, "books", "art supplies", "cluttered desk")
	}
	if features["edge_density"] > 0.1 {
		performative = append(performative, "glasses", "geometric patterns", "detailed objects")
	}
	if features["contrast"] > 60 {
		performative = append(performative, "high contrast", "dramatic lighting", "black and white")
	}

	all := make([]string, 0, len(baseLabels)+len(performative))
	all = append(all, baseLabels...)
	all = append(all, performative...)

	return sampleWithoutReplacement(all, maxLabels, p.rand)
}

// sampleWithoutReplacement draws up to n distinct labels via a partial
// Fisher-Yates shuffle.
func sampleWithoutReplacement(labels []string, n int, r RandSource) []string {
	out := make([]string, len(labels))
	copy(out, labels)
	if n > len(out) {
		n = len(out)
	}
	for i := 0; i < n; i++ {
		j := i + int(r.Float64()*float64(len(out)-i))
		if j >= len(out) {
			j = len(out) - 1
		}
		out[i], out[j] = out[j], out[i]
	}
	return out[:n]
}
