package flowgraph

import (
	"reflect"
	"testing"
)

func statsA() *AggregateStats {
	return &AggregateStats{
		TotalReviews:           100,
		PositiveSentimentCount: 60,
		NeutralSentimentCount:  20,
		NegativeSentimentCount: 20,
		PositiveEmotions:       map[string]int{"joy": 40, "trust": 20},
		NegativeEmotions:       map[string]int{"anger": 15, "sadness": 5},
	}
}

func findByCategory(g Graph, category Category) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].Category == category {
			return &g.Nodes[i]
		}
	}
	return nil
}

func nodeValue(g Graph, category Category) int {
	if n := findByCategory(g, category); n != nil {
		return n.Value
	}
	return 0
}

func findLink(g Graph, source, target int) *Link {
	for i := range g.Links {
		if g.Links[i].Source == source && g.Links[i].Target == target {
			return &g.Links[i]
		}
	}
	return nil
}

func TestBuildEmptyInput(t *testing.T) {
	tests := []struct {
		name  string
		stats *AggregateStats
	}{
		{"NilStats", nil},
		{"ZeroTotal", &AggregateStats{TotalReviews: 0, PositiveSentimentCount: 5}},
		{"NegativeTotal", &AggregateStats{TotalReviews: -1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := Build(tc.stats)
			if g.Nodes == nil || g.Links == nil {
				t.Fatalf("Build(%v) returned nil slices, want empty slices", tc.stats)
			}
			if len(g.Nodes) != 0 || len(g.Links) != 0 {
				t.Fatalf("Build(%v) = %d nodes, %d links, want 0, 0", tc.stats, len(g.Nodes), len(g.Links))
			}
		})
	}
}

func TestBuildScenarioA(t *testing.T) {
	g := Build(statsA())

	if len(g.Nodes) != 8 {
		t.Fatalf("got %d nodes, want 8", len(g.Nodes))
	}
	if len(g.Links) != 7 {
		t.Fatalf("got %d links, want 7", len(g.Links))
	}

	if got := nodeValue(g, CategoryTotal); got != 100 {
		t.Fatalf("total value = %d, want 100", got)
	}
	if got := nodeValue(g, CategoryPositiveSentiment); got != 60 {
		t.Fatalf("positive value = %d, want 60", got)
	}
	if got := nodeValue(g, CategoryNeutralSentiment); got != 20 {
		t.Fatalf("neutral value = %d, want 20", got)
	}
	if got := nodeValue(g, CategoryNegativeSentiment); got != 20 {
		t.Fatalf("negative value = %d, want 20", got)
	}

	total := findByCategory(g, CategoryTotal)
	positive := findByCategory(g, CategoryPositiveSentiment)
	l := findLink(g, total.ID, positive.ID)
	if l == nil {
		t.Fatal("missing total->positive link")
	}
	if l.Value != 60 {
		t.Fatalf("total->positive link value = %d, want 60", l.Value)
	}

	if total.Name != "Total Reviews (100)" {
		t.Fatalf("total name = %q", total.Name)
	}
	if positive.Name != "Positive Sentiment (60)" {
		t.Fatalf("positive name = %q", positive.Name)
	}
}

func TestBuildRepairsSentimentMismatch(t *testing.T) {
	stats := statsA()
	stats.PositiveSentimentCount = 70 // disagrees with emotion sum of 60

	g := Build(stats)

	if got := nodeValue(g, CategoryPositiveSentiment); got != 60 {
		t.Fatalf("positive value = %d, want recomputed 60", got)
	}
	if got := nodeValue(g, CategoryTotal); got != 100 {
		t.Fatalf("total value = %d, want recomputed 100", got)
	}

	total := findByCategory(g, CategoryTotal)
	positive := findByCategory(g, CategoryPositiveSentiment)
	if l := findLink(g, total.ID, positive.ID); l == nil || l.Value != 60 {
		t.Fatalf("total->positive link = %+v, want value 60", l)
	}
}

func TestBuildZeroBranchOrphansEmotions(t *testing.T) {
	stats := statsA()
	stats.NegativeSentimentCount = 0
	stats.NegativeEmotions = map[string]int{"anger": 5}

	g := Build(stats)

	if n := findByCategory(g, CategoryNegativeSentiment); n != nil {
		t.Fatalf("negative sentiment node created for zero bucket: %+v", n)
	}

	anger := findByCategory(g, CategoryNegativeEmotion)
	if anger == nil {
		t.Fatal("anger node missing, orphaned emotion nodes must be kept")
	}
	if anger.Value != 5 || anger.Emotion != "anger" {
		t.Fatalf("anger node = %+v, want value 5, emotion anger", anger)
	}

	for _, l := range g.Links {
		if l.Target == anger.ID {
			t.Fatalf("orphaned emotion node must not be linked, got link %+v", l)
		}
	}
}

func TestBuildConservation(t *testing.T) {
	tests := []struct {
		name  string
		stats *AggregateStats
	}{
		{"ScenarioA", statsA()},
		{
			"MismatchedBuckets",
			&AggregateStats{
				TotalReviews:           50,
				PositiveSentimentCount: 99,
				NeutralSentimentCount:  7,
				NegativeSentimentCount: 1,
				PositiveEmotions:       map[string]int{"joy": 3},
				NegativeEmotions:       map[string]int{"fear": 2, "grief": 2},
			},
		},
		{
			"NoEmotions",
			&AggregateStats{
				TotalReviews:           10,
				PositiveSentimentCount: 6,
				NeutralSentimentCount:  4,
			},
		},
		{
			"OnlyNeutral",
			&AggregateStats{TotalReviews: 5, NeutralSentimentCount: 5},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := Build(tc.stats)

			total := nodeValue(g, CategoryTotal)
			sum := nodeValue(g, CategoryPositiveSentiment) +
				nodeValue(g, CategoryNeutralSentiment) +
				nodeValue(g, CategoryNegativeSentiment)
			if total != sum {
				t.Fatalf("total %d != sentiment sum %d", total, sum)
			}

			// Each sentiment value must equal the sum of its linked emotion children.
			for _, category := range []Category{CategoryPositiveSentiment, CategoryNegativeSentiment} {
				parent := findByCategory(g, category)
				if parent == nil {
					continue
				}
				childSum := 0
				for _, l := range g.Links {
					if l.Source == parent.ID {
						childSum += l.Value
					}
				}
				if parent.Value != childSum {
					t.Fatalf("%s value %d != child sum %d", category, parent.Value, childSum)
				}
			}
		})
	}
}

func TestBuildNoDegenerateNodesOrLinks(t *testing.T) {
	stats := &AggregateStats{
		TotalReviews:           30,
		PositiveSentimentCount: 20,
		NeutralSentimentCount:  0,
		NegativeSentimentCount: 10,
		PositiveEmotions:       map[string]int{"joy": 15, "relief": 0, "love": 5},
		NegativeEmotions:       map[string]int{"anger": 10, "disgust": 0},
	}

	g := Build(stats)

	for _, n := range g.Nodes {
		if n.Value == 0 && n.Category != CategoryTotal {
			t.Fatalf("zero-count node created: %+v", n)
		}
		if n.Category == CategoryNeutralSentiment {
			t.Fatalf("neutral node created for zero bucket: %+v", n)
		}
	}

	ids := make(map[int]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if ids[n.ID] {
			t.Fatalf("duplicate node id %d", n.ID)
		}
		ids[n.ID] = true
	}
	for _, l := range g.Links {
		if !ids[l.Source] || !ids[l.Target] {
			t.Fatalf("link references missing node: %+v", l)
		}
		if l.Source == l.Target {
			t.Fatalf("self-loop: %+v", l)
		}
	}
}

func TestBuildNodeOrderAndIDs(t *testing.T) {
	stats := &AggregateStats{
		TotalReviews:           40,
		PositiveSentimentCount: 25,
		NeutralSentimentCount:  5,
		NegativeSentimentCount: 10,
		PositiveEmotions:       map[string]int{"trust": 10, "joy": 10, "love": 5},
		NegativeEmotions:       map[string]int{"sadness": 4, "anger": 6},
	}

	g := Build(stats)

	for i, n := range g.Nodes {
		if n.ID != i {
			t.Fatalf("node %d has id %d, ids must follow creation order", i, n.ID)
		}
	}

	wantCategories := []Category{
		CategoryTotal,
		CategoryPositiveSentiment,
		CategoryNeutralSentiment,
		CategoryNegativeSentiment,
		CategoryPositiveEmotion,
		CategoryPositiveEmotion,
		CategoryPositiveEmotion,
		CategoryNegativeEmotion,
		CategoryNegativeEmotion,
	}
	if len(g.Nodes) != len(wantCategories) {
		t.Fatalf("got %d nodes, want %d", len(g.Nodes), len(wantCategories))
	}
	for i, want := range wantCategories {
		if g.Nodes[i].Category != want {
			t.Fatalf("node %d category = %s, want %s", i, g.Nodes[i].Category, want)
		}
	}

	// Descending by count, name ascending on ties.
	wantPositive := []string{"joy", "trust", "love"}
	var gotPositive []string
	for _, n := range g.Nodes {
		if n.Category == CategoryPositiveEmotion {
			gotPositive = append(gotPositive, n.Emotion)
		}
	}
	if !reflect.DeepEqual(gotPositive, wantPositive) {
		t.Fatalf("positive emotion order = %v, want %v", gotPositive, wantPositive)
	}

	wantNegative := []string{"anger", "sadness"}
	var gotNegative []string
	for _, n := range g.Nodes {
		if n.Category == CategoryNegativeEmotion {
			gotNegative = append(gotNegative, n.Emotion)
		}
	}
	if !reflect.DeepEqual(gotNegative, wantNegative) {
		t.Fatalf("negative emotion order = %v, want %v", gotNegative, wantNegative)
	}
}

func TestBuildIdempotent(t *testing.T) {
	stats := statsA()
	first := Build(stats)
	second := Build(stats)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated builds differ:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestBuildEmotionNames(t *testing.T) {
	g := Build(&AggregateStats{
		TotalReviews:           10,
		PositiveSentimentCount: 10,
		PositiveEmotions:       map[string]int{"joy": 10},
	})

	joy := findByCategory(g, CategoryPositiveEmotion)
	if joy == nil {
		t.Fatal("joy node missing")
	}
	if joy.Name != "Joy (10)" {
		t.Fatalf("joy name = %q, want %q", joy.Name, "Joy (10)")
	}
	if joy.Emotion != "joy" {
		t.Fatalf("joy emotion key = %q, want raw key %q", joy.Emotion, "joy")
	}
}
