package models

import "time"

// DetectedItem is a single performative item match produced by the detector
// and consumed by the score aggregator.
type DetectedItem struct {
	Item           string  `json:"item"`
	Points         int     `json:"points"`
	Confidence     float64 `json:"confidence"`
	MatchedKeyword string  `json:"matched_keyword"`
	OriginalLabel  string  `json:"original_label"`
	MatchType      string  `json:"match_type"` // "exact" or "partial"
}

// ProcessedLabel records how a raw label was matched, for the debug payload.
type ProcessedLabel struct {
	Original   string  `json:"original"`
	Processed  string  `json:"processed"`
	Confidence float64 `json:"confidence"`
}

// FeatureSummary is the rounded feature subset exposed in debug output.
type FeatureSummary struct {
	FastKeypoints   int     `json:"fast_keypoints"`
	HarrisKeypoints int     `json:"harris_keypoints"`
	ContourCount    int     `json:"contour_count"`
	EdgeDensity     float64 `json:"edge_density"`
	Brightness      float64 `json:"brightness"`
	Contrast        float64 `json:"contrast"`
}

// AnalysisMetadata carries timing and count metadata for a scoring run.
type AnalysisMetadata struct {
	TotalLabelsFound          int       `json:"totalLabelsFound"`
	PerformativeItemsDetected int       `json:"performativeItemsDetected"`
	VisionProcessingTimeMs    int64     `json:"visionProcessingTime"`
	RatingProcessingTimeMs    int64     `json:"ratingProcessingTime"`
	ModelScore                *int      `json:"modelScore,omitempty"`
	Timestamp                 time.Time `json:"timestamp"`
}

// DebugInfo exposes the matching trace and a feature summary.
type DebugInfo struct {
	ProcessedLabels []ProcessedLabel `json:"processedLabels"`
	Features        FeatureSummary   `json:"features"`
}

// ScoreResult is the complete, immutable result of one image analysis.
// It is the value serialized into the cache and returned to clients.
type ScoreResult struct {
	Score             int              `json:"score"`
	Message           string           `json:"message"`
	DetectedItems     []DetectedItem   `json:"detectedItems"`
	ProcessingTimeMs  int64            `json:"processingTime"`
	Metadata          AnalysisMetadata `json:"metadata"`
	Debug             DebugInfo        `json:"debug"`
	PerformativeItems map[string]int   `json:"performativeItems"`
}

// HealthStatus is the payload for GET /health.
type HealthStatus struct {
	Status         string    `json:"status"`
	ModelLoaded    bool      `json:"model_loaded"`
	Device         string    `json:"device"`
	CacheConnected bool      `json:"cache_connected"`
	Timestamp      time.Time `json:"timestamp"`
}
