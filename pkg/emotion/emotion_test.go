package emotion

import (
	"reflect"
	"testing"
)

func TestSentimentFromRating(t *testing.T) {
	tests := []struct {
		name   string
		rating float64
		want   Polarity
	}{
		{"OneStar", 1.0, PolarityNegative},
		{"TwoPointNine", 2.9, PolarityNegative},
		{"ThreeStars", 3.0, PolarityNeutral},
		{"ThreePointNine", 3.9, PolarityNeutral},
		{"FourStars", 4.0, PolarityPositive},
		{"FiveStars", 5.0, PolarityPositive},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SentimentFromRating(tc.rating); got != tc.want {
				t.Fatalf("SentimentFromRating(%v) = %s, want %s", tc.rating, got, tc.want)
			}
		})
	}
}

func TestDominant(t *testing.T) {
	scores := []Score{
		{Label: "joy", Score: 0.7},
		{Label: "admiration", Score: 0.8},
		{Label: "anger", Score: 0.9},    // wrong polarity for a positive review
		{Label: "surprise", Score: 0.95}, // not on either branch
		{Label: "gratitude", Score: 0.05}, // below threshold
	}

	t.Run("PositivePicksHighestPositive", func(t *testing.T) {
		label, ok := Dominant(scores, PolarityPositive)
		if !ok || label != "admiration" {
			t.Fatalf("Dominant = %q, %v, want admiration, true", label, ok)
		}
	})

	t.Run("NegativePicksHighestNegative", func(t *testing.T) {
		label, ok := Dominant(scores, PolarityNegative)
		if !ok || label != "anger" {
			t.Fatalf("Dominant = %q, %v, want anger, true", label, ok)
		}
	})

	t.Run("NeutralHasNoBranch", func(t *testing.T) {
		if label, ok := Dominant(scores, PolarityNeutral); ok {
			t.Fatalf("Dominant for neutral = %q, want none", label)
		}
	})

	t.Run("AllBelowThreshold", func(t *testing.T) {
		low := []Score{{Label: "joy", Score: 0.1}, {Label: "love", Score: 0.09}}
		if label, ok := Dominant(low, PolarityPositive); ok {
			t.Fatalf("Dominant = %q, want none below threshold", label)
		}
	})

	t.Run("NoScores", func(t *testing.T) {
		if _, ok := Dominant(nil, PolarityPositive); ok {
			t.Fatal("Dominant on empty scores must report none")
		}
	})
}

func TestAggregate(t *testing.T) {
	results := []ReviewResult{
		{Rating: 5, Scores: []Score{{Label: "joy", Score: 0.9}, {Label: "trust", Score: 0.5}}},
		{Rating: 4, Scores: []Score{{Label: "joy", Score: 0.6}}},
		{Rating: 4.5, Scores: []Score{{Label: "gratitude", Score: 0.4}, {Label: "joy", Score: 0.3}}},
		{Rating: 3, Scores: []Score{{Label: "joy", Score: 0.9}}}, // neutral, emotions ignored
		{Rating: 2, Scores: []Score{{Label: "anger", Score: 0.8}}},
		{Rating: 1, Scores: []Score{{Label: "disgust", Score: 0.05}}}, // nothing above threshold
	}

	stats := Aggregate(results)

	if stats.TotalReviews != 6 {
		t.Fatalf("TotalReviews = %d, want 6", stats.TotalReviews)
	}
	if stats.PositiveSentimentCount != 3 || stats.NeutralSentimentCount != 1 || stats.NegativeSentimentCount != 2 {
		t.Fatalf("bucket counts = %d/%d/%d, want 3/1/2",
			stats.PositiveSentimentCount, stats.NeutralSentimentCount, stats.NegativeSentimentCount)
	}

	wantPositive := map[string]int{"joy": 2, "gratitude": 1}
	if !reflect.DeepEqual(stats.PositiveEmotions, wantPositive) {
		t.Fatalf("PositiveEmotions = %v, want %v", stats.PositiveEmotions, wantPositive)
	}

	wantNegative := map[string]int{"anger": 1}
	if !reflect.DeepEqual(stats.NegativeEmotions, wantNegative) {
		t.Fatalf("NegativeEmotions = %v, want %v", stats.NegativeEmotions, wantNegative)
	}
}

func TestAggregateEmpty(t *testing.T) {
	stats := Aggregate(nil)
	if stats.TotalReviews != 0 {
		t.Fatalf("TotalReviews = %d, want 0", stats.TotalReviews)
	}
	if len(stats.PositiveEmotions) != 0 || len(stats.NegativeEmotions) != 0 {
		t.Fatalf("emotion maps not empty: %v / %v", stats.PositiveEmotions, stats.NegativeEmotions)
	}
}

func TestNormalizeScores(t *testing.T) {
	in := []Score{
		{Label: " Joy ", Score: 0.5},
		{Label: "ANGER", Score: 1.5},
		{Label: "made_up_label", Score: 0.9},
		{Label: "fear", Score: -0.2},
	}

	got := NormalizeScores(in)
	want := []Score{
		{Label: "joy", Score: 0.5},
		{Label: "anger", Score: 1},
		{Label: "fear", Score: 0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeScores = %v, want %v", got, want)
	}
}
