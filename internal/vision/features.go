package vision

import "fmt"

// FeatureNames is the fixed, ordered feature schema shared by extraction
// and classifier inference. Extraction always emits exactly these names;
// the classifier refuses vectors with extra or missing keys.
var FeatureNames = []string{
	"brightness",
	"contrast",
	"color_variance",
	"fast_keypoints",
	"harris_keypoints",
	"corner_count",
	"contour_count",
	"edge_density",
	"edge_pixel_count",
	"keypoint_density",
	"symmetry_score",
	"rule_of_thirds_score",
	"aspect_ratio",
	"resolution_mp",
	"red_mean",
	"green_mean",
	"blue_mean",
	"red_variance",
	"green_variance",
	"blue_variance",
	"red_skewness",
	"green_skewness",
	"blue_skewness",
	"saturation_mean",
	"luminance_mean",
	"dominant_tone_count",
	"texture_complexity",
	"dark_pixel_ratio",
	"bright_pixel_ratio",
	"midtone_ratio",
	"vertical_edge_ratio",
	"horizontal_edge_ratio",
	"center_mass_x",
	"center_mass_y",
	"aesthetic_score",
}

// FeatureVector maps feature names to values. A valid vector holds
// exactly the FeatureNames schema.
type FeatureVector map[string]float64

// Vector returns the values in schema order. Extra or missing keys
// are an error: the scaler and estimators are positional.
func (fv FeatureVector) Vector() ([]float64, error) {
	if len(fv) != len(FeatureNames) {
		return nil, fmt.Errorf("feature vector has %d entries, schema has %d", len(fv), len(FeatureNames))
	}
	out := make([]float64, len(FeatureNames))
	for i, name := range FeatureNames {
		v, ok := fv[name]
		if !ok {
			return nil, fmt.Errorf("feature vector missing %q", name)
		}
		out[i] = v
	}
	return out, nil
}
