package util

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	reURL        = regexp.MustCompile(`http[s]?://[^\s]+`)
	reEmail      = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

// CleanReviewText prepares raw review text for emotion analysis: HTML tags
// are stripped, URLs and email addresses removed, and whitespace collapsed.
// Review bodies come straight from marketplace exports and frequently carry
// markup like <br> and embedded links.
func CleanReviewText(text string) string {
	if text == "" {
		return ""
	}

	text = stripHTML(text)
	text = reURL.ReplaceAllString(text, "")
	text = reEmail.ReplaceAllString(text, "")
	text = reWhitespace.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

// stripHTML keeps only text content. Tag boundaries become spaces so
// "line<br>break" does not collapse into one word.
func stripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	tokenizer := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(tokenizer.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			b.WriteByte(' ')
		}
	}
}

// SanitizePostgresText drops byte sequences Postgres text columns reject.
func SanitizePostgresText(value string) string {
	if value == "" {
		return value
	}

	sanitized := strings.ToValidUTF8(value, "")
	return strings.ReplaceAll(sanitized, "\x00", "")
}
