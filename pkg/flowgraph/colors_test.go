package flowgraph

import "testing"

func TestColorOf(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		want     string
	}{
		{"Total", CategoryTotal, "#6366F1"},
		{"PositiveSentiment", CategoryPositiveSentiment, "#22C55E"},
		{"NeutralSentiment", CategoryNeutralSentiment, "#EAB308"},
		{"NegativeSentiment", CategoryNegativeSentiment, "#EF4444"},
		{"PositiveEmotion", CategoryPositiveEmotion, "#86EFAC"},
		{"NegativeEmotion", CategoryNegativeEmotion, "#FCA5A5"},
		{"Unknown", Category("whatever"), defaultNodeColor},
		{"Empty", Category(""), defaultNodeColor},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ColorOf(tc.category); got != tc.want {
				t.Fatalf("ColorOf(%q) = %q, want %q", tc.category, got, tc.want)
			}
		})
	}
}

func TestLinkColor(t *testing.T) {
	nodes := []Node{
		{ID: 0, Category: CategoryTotal},
		{ID: 1, Category: CategoryPositiveSentiment},
		{ID: 2, Category: CategoryNegativeEmotion},
	}

	tests := []struct {
		name string
		link Link
		want string
	}{
		{"TargetPositive", Link{Source: 0, Target: 1}, "rgba(34,197,94,0.6)"},
		{"TargetNegativeEmotion", Link{Source: 1, Target: 2}, "rgba(252,165,165,0.6)"},
		{"MissingTarget", Link{Source: 0, Target: 99}, defaultLinkColor},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := LinkColor(tc.link, nodes); got != tc.want {
				t.Fatalf("LinkColor(%+v) = %q, want %q", tc.link, got, tc.want)
			}
		})
	}
}

func TestLinkColorEmptyNodes(t *testing.T) {
	if got := LinkColor(Link{Source: 0, Target: 1}, nil); got != defaultLinkColor {
		t.Fatalf("LinkColor with no nodes = %q, want fallback %q", got, defaultLinkColor)
	}
}
