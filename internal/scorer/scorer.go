package scorer

import (
	"performative-scorer/internal/vision"
	"performative-scorer/pkg/models"
)

// RandSource supplies uniform floats in [0,1) for message selection.
type RandSource interface {
	Float64() float64
}

// Scorer combines detected items and feature-derived bonuses into a
// bounded integer score with a matching message.
type Scorer struct {
	rand RandSource
}

func NewScorer(rand RandSource) *Scorer {
	return &Scorer{rand: rand}
}

// Score computes the performative score and its message.
// Base score is the confidence-weighted sum of item points; fixed
// aesthetic bonuses are each applied at most once; the total is clamped
// to [0,100] and truncated to an integer.
func (s *Scorer) Score(items []models.DetectedItem, features vision.FeatureVector) (int, string) {
	base := 0.0
	for _, item := range items {
		base += float64(item.Points) * item.Confidence
	}

	bonus := aestheticBonus(features)

	score := int(base + float64(bonus))
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score, s.messageFor(score)
}

// aestheticBonus awards independent additive bonuses for feature
// thresholds associated with curated composition.
func aestheticBonus(features vision.FeatureVector) int {
	bonus := 0
	if features["fast_keypoints"] > 150 {
		bonus += 5
	}
	if b := features["brightness"]; b > 80 && b < 120 {
		bonus += 3
	}
	if features["contrast"] > 55 {
		bonus += 4
	}
	if d := features["edge_density"]; d > 0.05 && d < 0.15 {
		bonus += 3
	}
	return bonus
}

type messageRange struct {
	lo, hi   int
	messages []string
}

var messageRanges = []messageRange{
	{80, 100, []string{
		"Peak performative energy detected! You've mastered the art of curated authenticity.",
		"Congratulations, you've achieved maximum indie credibility points.",
		"Your aesthetic game is so strong it's practically a performance art piece.",
	}},
	{60, 79, []string{
		"Strong performative vibes! You're well on your way to indie stardom.",
		"Impressive collection of carefully curated lifestyle choices.",
		"Your performative masculinity is showing, and honestly, we're here for it.",
	}},
	{40, 59, []string{
		"Moderate performative energy. You're dipping your toes in the indie waters.",
		"Some solid performative elements, but there's room for more curation.",
		"You're getting there! A few more vintage items should do the trick.",
	}},
	{20, 39, []string{
		"Mild performative tendencies detected. Still mostly authentic.",
		"Just a hint of performative energy. Keep it subtle, we respect that.",
		"Low-key performative vibes. The understated approach works too.",
	}},
	{0, 19, []string{
		"Refreshingly authentic! No performative energy detected.",
		"Genuinely authentic vibes. Respect for keeping it real.",
		"Zero performative points. You're either very authentic or very good at hiding it.",
	}},
}

// fallbackMessage guards the out-of-range branch. Clamping makes it
// unreachable; a test asserts that.
const fallbackMessage = "Unable to determine performative level. Try again with a clearer image."

// messageFor picks a message uniformly at random from the range the
// score falls into. The five ranges are disjoint and cover [0,100].
func (s *Scorer) messageFor(score int) string {
	for _, r := range messageRanges {
		if score >= r.lo && score <= r.hi {
			i := int(s.rand.Float64() * float64(len(r.messages)))
			if i >= len(r.messages) {
				i = len(r.messages) - 1
			}
			return r.messages[i]
		}
	}
	return fallbackMessage
}
