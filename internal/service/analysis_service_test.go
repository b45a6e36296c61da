package service

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"reflect"
	"sync"
	"testing"
	"time"

	"performative-scorer/internal/cache"
	"performative-scorer/internal/detector"
	apperrors "performative-scorer/internal/errors"
	"performative-scorer/internal/randutil"
	"performative-scorer/internal/scorer"
	"performative-scorer/internal/vision"
	"performative-scorer/pkg/models"
)

// memoryCache is an in-process ResultCache recording hits and puts. It
// stores JSON like the Redis backend, so hits return a fresh decoded
// copy rather than the pointer that was put.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	gets    int
	puts    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string) (*models.ScoreResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	data, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	var result models.ScoreResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false
	}
	return &result, true
}

func (c *memoryCache) Put(ctx context.Context, key string, result *models.ScoreResult, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	c.puts++
	c.entries[key] = data
}

func testImageBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 120, 90))
	for y := 0; y < 90; y++ {
		for x := 0; x < 120; x++ {
			intensity := uint8((x * 255) / 120)
			img.Set(x, y, color.RGBA{intensity, intensity / 2, 255 - intensity, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func newTestService(t *testing.T, resultCache cache.ResultCache, timeout time.Duration) AnalysisService {
	t.Helper()
	pool := vision.NewWorkerPool(2)
	pool.Start()
	t.Cleanup(pool.Close)

	rng := randutil.New(42)
	return NewAnalysisService(
		vision.NewExtractor(),
		pool,
		detector.NewDetector(detector.DefaultCatalog(), rng),
		scorer.NewScorer(rng),
		resultCache,
		Options{
			CacheTTL:        time.Hour,
			AnalysisTimeout: timeout,
			CacheConnected:  true,
		},
	)
}

func TestAnalyze_ProducesValidResult(t *testing.T) {
	svc := newTestService(t, newMemoryCache(), 10*time.Second)

	result, err := svc.Analyze(context.Background(), testImageBytes(t))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if result.Score < 0 || result.Score > 100 {
		t.Errorf("Score %d outside [0,100]", result.Score)
	}
	if result.Message == "" {
		t.Error("Expected non-empty message")
	}
	if result.Metadata.Timestamp.IsZero() {
		t.Error("Expected metadata timestamp to be set")
	}
	if result.Metadata.PerformativeItemsDetected != len(result.DetectedItems) {
		t.Errorf("Metadata item count %d does not match detected items %d",
			result.Metadata.PerformativeItemsDetected, len(result.DetectedItems))
	}
	if result.Metadata.ModelScore != nil {
		t.Error("Expected no model score without an ensemble")
	}
	if len(result.PerformativeItems) != 0 {
		for name, points := range result.PerformativeItems {
			if points <= 0 {
				t.Errorf("Item %q has non-positive points %d", name, points)
			}
		}
	}
}

// withoutTimings copies a result with the per-request timing fields
// zeroed, so cached and fresh results can be compared whole. The
// timestamp is zeroed too: JSON round trips strip its monotonic
// reading, which DeepEqual would flag.
func withoutTimings(r *models.ScoreResult) models.ScoreResult {
	out := *r
	out.ProcessingTimeMs = 0
	out.Metadata.VisionProcessingTimeMs = 0
	out.Metadata.RatingProcessingTimeMs = 0
	out.Metadata.Timestamp = time.Time{}
	return out
}

func TestAnalyze_CachesByContent(t *testing.T) {
	mc := newMemoryCache()
	svc := newTestService(t, mc, 10*time.Second)
	data := testImageBytes(t)

	first, err := svc.Analyze(context.Background(), data)
	if err != nil {
		t.Fatalf("First Analyze failed: %v", err)
	}
	second, err := svc.Analyze(context.Background(), data)
	if err != nil {
		t.Fatalf("Second Analyze failed: %v", err)
	}

	if mc.puts != 1 {
		t.Errorf("Expected 1 cache write, got %d", mc.puts)
	}

	// Everything except timings must survive the cache intact: score,
	// message, detected items, metadata counts and debug payload.
	got, want := withoutTimings(second), withoutTimings(first)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Cached result differs from original:\n got %+v\nwant %+v", got, want)
	}
}

func TestAnalyze_CacheMissDegradesGracefully(t *testing.T) {
	svc := newTestService(t, cache.NoopCache{}, 10*time.Second)
	data := testImageBytes(t)

	for i := 0; i < 2; i++ {
		result, err := svc.Analyze(context.Background(), data)
		if err != nil {
			t.Fatalf("Analyze %d failed: %v", i, err)
		}
		if result.Score < 0 || result.Score > 100 {
			t.Errorf("Score %d outside [0,100]", result.Score)
		}
	}
}

func TestAnalyze_InvalidImage(t *testing.T) {
	mc := newMemoryCache()
	svc := newTestService(t, mc, 10*time.Second)

	_, err := svc.Analyze(context.Background(), []byte("not an image"))
	if err == nil {
		t.Fatal("Expected error for invalid image")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeInvalidImage) {
		t.Errorf("Expected invalid_image error, got %v", err)
	}
	if mc.puts != 0 {
		t.Error("Invalid image result must not be cached")
	}
}

func TestAnalyze_Timeout(t *testing.T) {
	mc := newMemoryCache()
	svc := newTestService(t, mc, time.Nanosecond)

	_, err := svc.Analyze(context.Background(), testImageBytes(t))
	if err == nil {
		t.Fatal("Expected timeout error")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeTimeout) {
		t.Errorf("Expected timeout error, got %v", err)
	}
	if mc.puts != 0 {
		t.Error("Timed-out analysis must not be cached")
	}
}

func TestHealth(t *testing.T) {
	svc := newTestService(t, newMemoryCache(), 10*time.Second)

	status := svc.Health(context.Background())
	if status.Status != "healthy" {
		t.Errorf("Expected healthy status, got %q", status.Status)
	}
	if status.ModelLoaded {
		t.Error("Expected model_loaded false without an ensemble")
	}
	if status.Device != "cpu" {
		t.Errorf("Expected device cpu, got %q", status.Device)
	}
	if !status.CacheConnected {
		t.Error("Expected cache_connected true")
	}
	if status.Timestamp.IsZero() {
		t.Error("Expected timestamp to be set")
	}
}
