package tfidf

import (
	"strings"
	"unicode"
)

// tokenize lowercases and splits on whitespace boundaries via a
// rune-scan into a strings.Builder. No stopword, lexicon, or numeric
// filtering happens here — the index needs only raw tokens, and the
// predicates package passes canopy queries to the index without
// filtering tokens further.
func tokenize(text string) []string {
	var tokens []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for _, r := range text {
		if unicode.IsSpace(r) {
			flush()
			continue
		}
		cur.WriteRune(unicode.ToLower(r))
	}
	flush()

	return tokens
}
