// Package emotion contains the review emotion model: the label set, the
// rating-based sentiment classification, dominant-emotion selection, and the
// aggregation that feeds the flow-graph builder. Inference backends live in
// the openai and ollama subpackages behind the Classifier interface.
package emotion

import (
	"context"

	"github.com/reviewscope/backend/pkg/flowgraph"
)

// DetectionThreshold is the minimum score for an emotion to count as
// detected in a review.
const DetectionThreshold = 0.1

// Polarity is the coarse sentiment bucket a review falls into.
type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNeutral  Polarity = "neutral"
	PolarityNegative Polarity = "negative"
)

// PositiveEmotions and NegativeEmotions partition the GoEmotions label set
// into the branches shown on the sentiment flow chart. Labels outside both
// lists (curiosity, surprise, neutral, ...) are scored by the model but
// never counted toward a branch.
var (
	PositiveEmotions = []string{
		"admiration", "approval", "love", "joy", "optimism",
		"gratitude", "caring", "excitement", "relief", "amusement",
	}
	NegativeEmotions = []string{
		"disappointment", "disapproval", "annoyance", "sadness", "confusion",
		"disgust", "anger", "fear", "remorse", "embarrassment", "nervousness", "grief",
	}
)

// Labels is the full label set the classifier scores, in model order.
var Labels = []string{
	"admiration", "amusement", "anger", "annoyance", "approval", "caring",
	"confusion", "curiosity", "desire", "disappointment", "disapproval",
	"disgust", "embarrassment", "excitement", "fear", "gratitude", "grief",
	"joy", "love", "nervousness", "optimism", "pride", "realization",
	"relief", "remorse", "sadness", "surprise", "neutral",
}

var (
	positiveSet = toSet(PositiveEmotions)
	negativeSet = toSet(NegativeEmotions)
)

func toSet(labels []string) map[string]bool {
	set := make(map[string]bool, len(labels))
	for _, l := range labels {
		set[l] = true
	}
	return set
}

// Score is one scored emotion label for a piece of text.
type Score struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classifier scores review text against the emotion label set and produces
// embeddings for similarity search. Implementations are safe for
// concurrent use.
type Classifier interface {
	ClassifyEmotions(ctx context.Context, text string) ([]Score, error)
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// SentimentFromRating buckets a star rating the same way the dashboard's
// sentiment statistics do: below 3 is negative, below 4 neutral, the rest
// positive.
func SentimentFromRating(rating float64) Polarity {
	switch {
	case rating < 3.0:
		return PolarityNegative
	case rating < 4.0:
		return PolarityNeutral
	default:
		return PolarityPositive
	}
}

// Dominant picks the single emotion counted for a review: the
// highest-scoring label that both exceeds the detection threshold and
// belongs to the review's rating-derived polarity. Counting one emotion
// per review keeps the branch sums comparable to the review counts.
// Neutral reviews have no emotion branch, so ok is always false for them.
func Dominant(scores []Score, polarity Polarity) (label string, ok bool) {
	var set map[string]bool
	switch polarity {
	case PolarityPositive:
		set = positiveSet
	case PolarityNegative:
		set = negativeSet
	default:
		return "", false
	}

	best := DetectionThreshold
	for _, s := range scores {
		if s.Score > best && set[s.Label] {
			best = s.Score
			label = s.Label
			ok = true
		}
	}
	return label, ok
}

// ReviewResult pairs a review's rating with its emotion scores.
type ReviewResult struct {
	Rating float64
	Scores []Score
}

// Aggregate folds classified reviews into the aggregate the flow-graph
// builder consumes. Each review is counted once into its rating-derived
// sentiment bucket and, for positive and negative reviews, once under its
// dominant emotion. Emotions that were never dominant are omitted.
func Aggregate(results []ReviewResult) flowgraph.AggregateStats {
	stats := flowgraph.AggregateStats{
		TotalReviews:     len(results),
		PositiveEmotions: make(map[string]int),
		NegativeEmotions: make(map[string]int),
	}

	for _, r := range results {
		polarity := SentimentFromRating(r.Rating)
		switch polarity {
		case PolarityPositive:
			stats.PositiveSentimentCount++
		case PolarityNeutral:
			stats.NeutralSentimentCount++
		case PolarityNegative:
			stats.NegativeSentimentCount++
		}

		label, ok := Dominant(r.Scores, polarity)
		if !ok {
			continue
		}
		if polarity == PolarityPositive {
			stats.PositiveEmotions[label]++
		} else {
			stats.NegativeEmotions[label]++
		}
	}

	return stats
}
