package text

import (
	"regexp"
	"strings"
)

var (
	punctRe      = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	spaceRe      = regexp.MustCompile(`\s+`)
	localAreaRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bdi\s+kota\s+medan\b`),
		regexp.MustCompile(`(?i)\bdi\s+medan\b`),
	}
)

// Normalize lower-cases, strips punctuation and collapses whitespace.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = punctRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// CleanLocationTerms removes the in-area location phrases ("di medan",
// "di kota medan") that carry no retrieval signal against a bank whose
// entries all concern the same city.
func CleanLocationTerms(s string) string {
	for _, re := range localAreaRes {
		s = re.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// ExpandTerms appends the expanded form of every known abbreviation after
// the abbreviation itself, mirroring the "expanded-form OR abbreviation"
// convention used when the bank entries were written.
func ExpandTerms(s string) string {
	words := strings.Fields(strings.ToLower(s))
	expanded := make([]string, 0, len(words))
	for _, w := range words {
		expanded = append(expanded, w)
		if forms, ok := synonyms[w]; ok {
			expanded = append(expanded, forms...)
		}
	}
	return strings.Join(expanded, " ")
}

// TokenizeAndFilter splits on whitespace, dropping stopwords and tokens of
// length <= 2.
func TokenizeAndFilter(s string) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(s)) {
		if len([]rune(w)) <= 2 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}
