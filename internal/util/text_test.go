package util

import "testing"

func TestCleanReviewText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Empty", "", ""},
		{"Plain", "great product, works fine", "great product, works fine"},
		{"HTMLTags", "Loved it!<br>Would buy <b>again</b>.", "Loved it! Would buy again ."},
		{"URLRemoved", "see my unboxing https://example.com/video here", "see my unboxing here"},
		{"EmailRemoved", "contact me at buyer@example.com for details", "contact me at for details"},
		{"WhitespaceCollapsed", "too \t many\n\n spaces", "too many spaces"},
		{"Trimmed", "   padded   ", "padded"},
		{
			"Combined",
			"<p>Broke after a week :(</p>\nRefund info: support@shop.io or http://shop.io/refunds",
			"Broke after a week :( Refund info: or",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanReviewText(tc.in); got != tc.want {
				t.Fatalf("CleanReviewText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSanitizePostgresText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Empty", "", ""},
		{"Clean", "ok", "ok"},
		{"NulByte", "a\x00b", "ab"},
		{"InvalidUTF8", "a\xffb", "ab"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizePostgresText(tc.in); got != tc.want {
				t.Fatalf("SanitizePostgresText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
