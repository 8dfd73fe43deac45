// Package flowgraph turns aggregate review-sentiment statistics into the
// node/link structure consumed by the multi-level Sankey chart on the
// product dashboard. The graph is a two-level tree: all reviews flow into
// sentiment buckets, and the positive/negative buckets flow into the
// emotions detected within them.
package flowgraph

import (
	"fmt"
	"sort"
)

// Category identifies what a node represents in the flow graph.
type Category string

const (
	CategoryTotal             Category = "total"
	CategoryPositiveSentiment Category = "positive_sentiment"
	CategoryNeutralSentiment  Category = "neutral_sentiment"
	CategoryNegativeSentiment Category = "negative_sentiment"
	CategoryPositiveEmotion   Category = "positive_emotion"
	CategoryNegativeEmotion   Category = "negative_emotion"
)

// AggregateStats is the upstream aggregate a graph is built from. The
// sentiment bucket counts and the emotion counts are allowed to disagree;
// Build treats the emotion counts as ground truth for the positive and
// negative branches and repairs the upstream values.
type AggregateStats struct {
	TotalReviews           int            `json:"total_reviews"`
	PositiveSentimentCount int            `json:"positive_sentiment_count"`
	NeutralSentimentCount  int            `json:"neutral_sentiment_count"`
	NegativeSentimentCount int            `json:"negative_sentiment_count"`
	PositiveEmotions       map[string]int `json:"positive_emotions"`
	NegativeEmotions       map[string]int `json:"negative_emotions"`
}

// Node is a single box in the Sankey chart. IDs are assigned in creation
// order starting at 0 and are referenced by Link.Source and Link.Target.
type Node struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Value    int      `json:"value"`
	Emotion  string   `json:"emotion,omitempty"`
}

// Link is a directed weighted edge between two nodes.
type Link struct {
	Source int `json:"source"`
	Target int `json:"target"`
	Value  int `json:"value"`
}

// Graph is the renderer-facing output of Build.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

type emotionCount struct {
	name  string
	count int
}

// Build converts aggregate sentiment statistics into a flow graph.
//
// Emotion counts are the source of truth: the positive and negative
// sentiment values are recomputed as the sum of their emotion counts, and
// the total is recomputed as that sum plus the raw neutral count. Neutral
// reviews carry no emotion breakdown, so their raw count stands. Sentiment
// nodes whose raw bucket count is zero are omitted along with their links;
// emotion nodes with a nonzero count are always kept, even when their
// parent bucket is missing.
//
// Build never fails. A nil stats value or a zero review total yields an
// empty graph.
func Build(stats *AggregateStats) Graph {
	if stats == nil || stats.TotalReviews <= 0 {
		return Graph{Nodes: []Node{}, Links: []Link{}}
	}

	positive := sortedEmotions(stats.PositiveEmotions)
	negative := sortedEmotions(stats.NegativeEmotions)

	positiveTotal := 0
	for _, e := range positive {
		positiveTotal += e.count
	}
	negativeTotal := 0
	for _, e := range negative {
		negativeTotal += e.count
	}

	total := positiveTotal + negativeTotal + stats.NeutralSentimentCount

	nodes := make([]Node, 0, 4+len(positive)+len(negative))
	links := make([]Link, 0, 3+len(positive)+len(negative))

	totalID := len(nodes)
	nodes = append(nodes, Node{
		ID:       totalID,
		Name:     fmt.Sprintf("Total Reviews (%d)", total),
		Category: CategoryTotal,
		Value:    total,
	})

	positiveID, neutralID, negativeID := -1, -1, -1
	if stats.PositiveSentimentCount > 0 {
		positiveID = len(nodes)
		nodes = append(nodes, Node{
			ID:       positiveID,
			Name:     fmt.Sprintf("Positive Sentiment (%d)", positiveTotal),
			Category: CategoryPositiveSentiment,
			Value:    positiveTotal,
		})
		links = append(links, Link{Source: totalID, Target: positiveID, Value: positiveTotal})
	}
	if stats.NeutralSentimentCount > 0 {
		neutralID = len(nodes)
		nodes = append(nodes, Node{
			ID:       neutralID,
			Name:     fmt.Sprintf("Neutral Sentiment (%d)", stats.NeutralSentimentCount),
			Category: CategoryNeutralSentiment,
			Value:    stats.NeutralSentimentCount,
		})
		links = append(links, Link{Source: totalID, Target: neutralID, Value: stats.NeutralSentimentCount})
	}
	if stats.NegativeSentimentCount > 0 {
		negativeID = len(nodes)
		nodes = append(nodes, Node{
			ID:       negativeID,
			Name:     fmt.Sprintf("Negative Sentiment (%d)", negativeTotal),
			Category: CategoryNegativeSentiment,
			Value:    negativeTotal,
		})
		links = append(links, Link{Source: totalID, Target: negativeID, Value: negativeTotal})
	}

	for _, e := range positive {
		id := len(nodes)
		nodes = append(nodes, Node{
			ID:       id,
			Name:     fmt.Sprintf("%s (%d)", titleCase(e.name), e.count),
			Category: CategoryPositiveEmotion,
			Value:    e.count,
			Emotion:  e.name,
		})
		if positiveID >= 0 {
			links = append(links, Link{Source: positiveID, Target: id, Value: e.count})
		}
	}
	for _, e := range negative {
		id := len(nodes)
		nodes = append(nodes, Node{
			ID:       id,
			Name:     fmt.Sprintf("%s (%d)", titleCase(e.name), e.count),
			Category: CategoryNegativeEmotion,
			Value:    e.count,
			Emotion:  e.name,
		})
		if negativeID >= 0 {
			links = append(links, Link{Source: negativeID, Target: id, Value: e.count})
		}
	}

	return Graph{Nodes: nodes, Links: links}
}

// sortedEmotions drops zero and negative counts and orders the rest by
// count descending, name ascending on ties. Map iteration order is
// unspecified, so the name tiebreak keeps the output deterministic.
func sortedEmotions(emotions map[string]int) []emotionCount {
	out := make([]emotionCount, 0, len(emotions))
	for name, count := range emotions {
		if count <= 0 {
			continue
		}
		out = append(out, emotionCount{name: name, count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].name < out[j].name
	})
	return out
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	c := s[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	return string(c) + s[1:]
}
