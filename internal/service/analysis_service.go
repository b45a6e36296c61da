package service

import (
	"context"
	"time"

	"performative-scorer/internal/cache"
	"performative-scorer/internal/classifier"
	"performative-scorer/internal/detector"
	apperrors "performative-scorer/internal/errors"
	"performative-scorer/internal/logger"
	"performative-scorer/internal/scorer"
	"performative-scorer/internal/vision"
	"performative-scorer/pkg/models"

	"github.com/sirupsen/logrus"
)

// AnalysisService defines the image scoring surface exposed to transport.
type AnalysisService interface {
	// Analyze scores raw image bytes. Identical bytes produce a cache
	// hit within the TTL; timeouts and invalid images are never cached.
	Analyze(ctx context.Context, imageData []byte) (*models.ScoreResult, error)

	// Health reports component readiness.
	Health(ctx context.Context) models.HealthStatus
}

type analysisService struct {
	extractor   *vision.Extractor
	pool        *vision.WorkerPool
	detector    *detector.Detector
	scorer      *scorer.Scorer
	ensemble    *classifier.Ensemble
	cache       cache.ResultCache
	textLabeler detector.TextLabeler

	cacheTTL        time.Duration
	analysisTimeout time.Duration
	cacheConnected  bool
}

// Options carries the optional collaborators and tunables for the
// analysis service.
type Options struct {
	Ensemble        *classifier.Ensemble
	TextLabeler     detector.TextLabeler
	CacheTTL        time.Duration
	AnalysisTimeout time.Duration
	CacheConnected  bool
}

// NewAnalysisService wires the pipeline. The ensemble and text labeler
// are optional; nil disables the model score and OCR labels.
func NewAnalysisService(
	extractor *vision.Extractor,
	pool *vision.WorkerPool,
	itemDetector *detector.Detector,
	itemScorer *scorer.Scorer,
	resultCache cache.ResultCache,
	opts Options,
) AnalysisService {
	return &analysisService{
		extractor:       extractor,
		pool:            pool,
		detector:        itemDetector,
		scorer:          itemScorer,
		ensemble:        opts.Ensemble,
		cache:           resultCache,
		textLabeler:     opts.TextLabeler,
		cacheTTL:        opts.CacheTTL,
		analysisTimeout: opts.AnalysisTimeout,
		cacheConnected:  opts.CacheConnected,
	}
}

// Analyze runs the full pipeline: cache lookup, feature extraction on
// the worker pool, item detection, score aggregation, cache store.
// Concurrent requests for the same bytes may both extract; both write
// the same value, so the race is harmless.
func (s *analysisService) Analyze(ctx context.Context, imageData []byte) (*models.ScoreResult, error) {
	start := time.Now()
	key := cache.Key(imageData)

	if result, ok := s.cache.Get(ctx, key); ok {
		logger.WithField("key", key).Debug("Cache hit")
		return result, nil
	}

	features, visionTime, err := s.extractFeatures(ctx, imageData)
	if err != nil {
		return nil, err
	}

	ratingStart := time.Now()
	labels := s.ocrLabels(ctx, imageData)
	items := s.detector.DetectItems(features, labels)
	score, message := s.scorer.Score(items, features)
	ratingTime := time.Since(ratingStart)

	result := s.assembleResult(score, message, items, features, labels, visionTime, ratingTime, start)

	s.cache.Put(ctx, key, result, s.cacheTTL)

	logger.WithFields(logrus.Fields{
		"score":          score,
		"detected_items": len(items),
		"duration_ms":    result.ProcessingTimeMs,
	}).Info("Analysis completed")
	return result, nil
}

// extractFeatures runs extraction on the worker pool, bounded by the
// analysis timeout. On timeout the extraction goroutine finishes in the
// background but its output is discarded and nothing is cached.
func (s *analysisService) extractFeatures(ctx context.Context, imageData []byte) (vision.FeatureVector, time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.analysisTimeout)
	defer cancel()

	type extraction struct {
		features vision.FeatureVector
		err      error
	}
	done := make(chan extraction, 1)
	start := time.Now()

	s.pool.Submit(func() {
		features, err := s.extractor.Extract(imageData)
		done <- extraction{features: features, err: err}
	})

	select {
	case <-ctx.Done():
		return nil, 0, apperrors.NewTimeoutError("image analysis timed out", ctx.Err())
	case ex := <-done:
		if ex.err != nil {
			return nil, 0, ex.err
		}
		return ex.features, time.Since(start), nil
	}
}

// ocrLabels returns text-derived labels when the capability is wired,
// nil otherwise. OCR failures degrade to the heuristic label path.
func (s *analysisService) ocrLabels(ctx context.Context, imageData []byte) []string {
	if s.textLabeler == nil {
		return nil
	}
	labels, err := s.textLabeler.Labels(ctx, imageData)
	if err != nil {
		logger.WithError(err).Warn("OCR labeling failed, falling back to heuristic labels")
		return nil
	}
	if len(labels) == 0 {
		return nil
	}
	return labels
}

func (s *analysisService) assembleResult(
	score int,
	message string,
	items []models.DetectedItem,
	features vision.FeatureVector,
	labels []string,
	visionTime, ratingTime time.Duration,
	start time.Time,
) *models.ScoreResult {
	performativeItems := make(map[string]int, len(items))
	processedLabels := make([]models.ProcessedLabel, 0, len(items))
	for _, item := range items {
		performativeItems[item.Item] = item.Points
		processedLabels = append(processedLabels, models.ProcessedLabel{
			Original:   item.OriginalLabel,
			Processed:  item.MatchedKeyword,
			Confidence: item.Confidence,
		})
	}

	totalLabels := len(labels)
	if labels == nil {
		// Heuristic path samples up to its own cap internally.
		totalLabels = len(items)
	}

	result := &models.ScoreResult{
		Score:            score,
		Message:          message,
		DetectedItems:    items,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		Metadata: models.AnalysisMetadata{
			TotalLabelsFound:          totalLabels,
			PerformativeItemsDetected: len(items),
			VisionProcessingTimeMs:    visionTime.Milliseconds(),
			RatingProcessingTimeMs:    ratingTime.Milliseconds(),
			Timestamp:                 time.Now().UTC(),
		},
		Debug: models.DebugInfo{
			ProcessedLabels: processedLabels,
			Features: models.FeatureSummary{
				FastKeypoints:   int(features["fast_keypoints"]),
				HarrisKeypoints: int(features["harris_keypoints"]),
				ContourCount:    int(features["contour_count"]),
				EdgeDensity:     features["edge_density"],
				Brightness:      features["brightness"],
				Contrast:        features["contrast"],
			},
		},
		PerformativeItems: performativeItems,
	}

	if s.ensemble != nil && s.ensemble.Trained() {
		if modelScore, err := s.ensemble.PredictScoreEnsemble(features); err == nil {
			result.Metadata.ModelScore = &modelScore
		} else {
			logger.WithError(err).Warn("Ensemble score unavailable")
		}
	}
	return result
}

func (s *analysisService) Health(ctx context.Context) models.HealthStatus {
	return models.HealthStatus{
		Status:         "healthy",
		ModelLoaded:    s.ensemble != nil && s.ensemble.Trained(),
		Device:         "cpu",
		CacheConnected: s.cacheConnected,
		Timestamp:      time.Now().UTC(),
	}
}
