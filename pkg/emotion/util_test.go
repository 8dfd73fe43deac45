package emotion

import "testing"

func TestUnmarshalFlexible(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"StandardJSON", `{"emotions":[{"label":"joy","score":0.8}]}`},
		{"DoubleEncoded", `"{\"emotions\":[{\"label\":\"joy\",\"score\":0.8}]}"`},
		{"MalformedRepairable", `{emotions: [{label: "joy", score: 0.8}]}`},
		{"TrailingComma", `{"emotions":[{"label":"joy","score":0.8},]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out Classification
			if err := UnmarshalFlexible(tc.in, &out); err != nil {
				t.Fatalf("UnmarshalFlexible(%q) failed: %v", tc.in, err)
			}
			if len(out.Emotions) != 1 || out.Emotions[0].Label != "joy" || out.Emotions[0].Score != 0.8 {
				t.Fatalf("parsed %+v, want single joy/0.8 entry", out.Emotions)
			}
		})
	}
}

func TestUnmarshalFlexibleRejectsGarbage(t *testing.T) {
	var out Classification
	if err := UnmarshalFlexible("not even close to json {{{", &out); err == nil {
		t.Fatal("expected an error for unrepairable input")
	}
}
