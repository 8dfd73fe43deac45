package emotion

import (
	"fmt"
	"strings"
)

// Classification is the structured output both inference backends request
// from the model.
type Classification struct {
	Emotions []Score `json:"emotions" jsonschema_description:"One entry per emotion label with its confidence score between 0 and 1"`
}

const systemPrompt = `You are an emotion classification model for product reviews. ` +
	`Score the given review text against every emotion label and return a confidence ` +
	`between 0 and 1 per label. Score each label independently; scores do not need to sum to 1.`

// SystemPrompt returns the instruction message for the classifier model.
func SystemPrompt() string {
	return systemPrompt
}

// ClassifyPrompt builds the user message for a single review.
func ClassifyPrompt(text string) string {
	return fmt.Sprintf(
		"Labels: %s\n\nReview:\n%s\n\nReturn a score for every label.",
		strings.Join(Labels, ", "),
		text,
	)
}

// NormalizeScores lowercases labels, drops unknown ones and clamps scores
// into [0, 1]. Model output is not trusted to match the label set exactly.
func NormalizeScores(scores []Score) []Score {
	known := toSet(Labels)
	out := make([]Score, 0, len(scores))
	for _, s := range scores {
		label := strings.ToLower(strings.TrimSpace(s.Label))
		if !known[label] {
			continue
		}
		score := s.Score
		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}
		out = append(out, Score{Label: label, Score: score})
	}
	return out
}
