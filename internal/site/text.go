package site

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// CleanHTML removes HTML tags and normalizes whitespace
func CleanHTML(input string) string {
	cleaned := htmlTagRegex.ReplaceAllString(input, " ")
	cleaned = html.UnescapeString(cleaned)
	return strings.Join(strings.Fields(cleaned), " ")
}

// Excerpt returns at most max runes of the plain text of input, cut at a word
// boundary when one is available.
func Excerpt(input string, max int) string {
	text := CleanHTML(input)
	if utf8.RuneCountInString(text) <= max {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:max-1])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
