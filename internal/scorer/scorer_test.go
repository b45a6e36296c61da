package scorer

import (
	"testing"

	"performative-scorer/internal/vision"
	"performative-scorer/pkg/models"
)

type stubRand struct {
	value float64
}

func (s *stubRand) Float64() float64 { return s.value }

func emptyFeatures(t *testing.T) vision.FeatureVector {
	t.Helper()
	fv := make(vision.FeatureVector, len(vision.FeatureNames))
	for _, name := range vision.FeatureNames {
		fv[name] = 0
	}
	return fv
}

func messagesForRange(lo, hi int) []string {
	for _, r := range messageRanges {
		if r.lo == lo && r.hi == hi {
			return r.messages
		}
	}
	return nil
}

func containsMessage(messages []string, msg string) bool {
	for _, m := range messages {
		if m == msg {
			return true
		}
	}
	return false
}

func TestScore_NoItemsNoBonuses(t *testing.T) {
	s := NewScorer(&stubRand{value: 0})

	score, message := s.Score(nil, emptyFeatures(t))

	if score != 0 {
		t.Errorf("Expected score 0, got %d", score)
	}
	if !containsMessage(messagesForRange(0, 19), message) {
		t.Errorf("Message %q not from the [0,19] range", message)
	}
}

func TestScore_ItemsAndBonuses(t *testing.T) {
	s := NewScorer(&stubRand{value: 0})

	items := []models.DetectedItem{
		{Item: "Typewriter", Points: 20, Confidence: 0.9},
	}
	features := emptyFeatures(t)
	features["fast_keypoints"] = 200 // +5
	features["brightness"] = 100     // +3
	features["contrast"] = 60        // +4
	features["edge_density"] = 0.1   // +3

	score, message := s.Score(items, features)

	// 20*0.9 = 18 base, +15 bonus, truncated to 33.
	if score != 33 {
		t.Errorf("Expected score 33, got %d", score)
	}
	if !containsMessage(messagesForRange(20, 39), message) {
		t.Errorf("Message %q not from the [20,39] range", message)
	}
}

func TestScore_BonusBoundariesExclusive(t *testing.T) {
	s := NewScorer(&stubRand{value: 0})
	features := emptyFeatures(t)

	// Boundary values must not trigger their bonuses.
	features["fast_keypoints"] = 150
	features["brightness"] = 80
	features["contrast"] = 55
	features["edge_density"] = 0.05

	score, _ := s.Score(nil, features)
	if score != 0 {
		t.Errorf("Expected no bonus at threshold boundaries, got %d", score)
	}
}

func TestScore_ClampsToHundred(t *testing.T) {
	s := NewScorer(&stubRand{value: 0})

	var items []models.DetectedItem
	for i := 0; i < 10; i++ {
		items = append(items, models.DetectedItem{Points: 20, Confidence: 0.95})
	}

	score, message := s.Score(items, emptyFeatures(t))
	if score != 100 {
		t.Errorf("Expected score clamped to 100, got %d", score)
	}
	if !containsMessage(messagesForRange(80, 100), message) {
		t.Errorf("Message %q not from the [80,100] range", message)
	}
}

func TestMessageFor_CoversFullRange(t *testing.T) {
	s := NewScorer(&stubRand{value: 0.99})

	// Every score a clamped pipeline can produce has a range message;
	// the fallback is unreachable.
	for score := 0; score <= 100; score++ {
		msg := s.messageFor(score)
		if msg == fallbackMessage {
			t.Errorf("Score %d hit the fallback message", score)
		}
		if msg == "" {
			t.Errorf("Score %d produced an empty message", score)
		}
	}
}

func TestMessageFor_UniformSelectionStaysInRange(t *testing.T) {
	for _, v := range []float64{0, 0.33, 0.66, 0.999} {
		s := NewScorer(&stubRand{value: v})
		msg := s.messageFor(85)
		if !containsMessage(messagesForRange(80, 100), msg) {
			t.Errorf("rand=%v: message %q not from the [80,100] range", v, msg)
		}
	}
}
