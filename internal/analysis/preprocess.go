// Package analysis turns raw review text into sentiment labels, topic
// assignments, per-product insight summaries and time-series trends.
package analysis

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/bbalet/stopwords"
	"github.com/kljensen/snowball"
)

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	urlRe        = regexp.MustCompile(`http\S+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// CleanText strips markup and URLs from scraped review text and collapses
// whitespace. The result is what gets stored and scored; casing and
// punctuation are preserved because the sentiment scorer uses them.
func CleanText(s string) string {
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = urlRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Preprocess normalizes text for topic modelling: lowercase, drop
// punctuation and digits, remove stop words, stem what remains.
// Returns "" when nothing survives.
func Preprocess(s string) string {
	s = strings.ToLower(CleanText(s))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	cleaned := stopwords.CleanString(b.String(), "en", false)

	words := strings.Fields(cleaned)
	stemmed := words[:0]
	for _, w := range words {
		if len(w) < 3 {
			continue
		}
		if st, err := snowball.Stem(w, "english", true); err == nil && st != "" {
			stemmed = append(stemmed, st)
		} else {
			stemmed = append(stemmed, w)
		}
	}
	return strings.Join(stemmed, " ")
}
