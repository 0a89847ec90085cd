package search

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTokenLength is the shortest token the lexical scorer keeps. Shorter
// tokens are almost always particles or noise in both English and IAST.
const minTokenLength = 3

// Tokenize lowercases text, replaces punctuation with whitespace, splits
// on whitespace, and drops tokens shorter than three runes. It is a pure
// function shared by the lexical scorer for both queries and documents;
// the two sides must normalize identically for term statistics to line up.
func Tokenize(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minTokenLength {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
