package textutil

import (
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"
	"github.com/surgebase/porter2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Words segments text into lowercase words using Unicode word boundaries.
// Segments without a letter or digit (spaces, punctuation) are dropped.
func Words(text string) []string {
	lowered := cases.Lower(language.Und).String(text)
	out := make([]string, 0, 8)
	iter := words.FromString(lowered)
	for iter.Next() {
		token := iter.Value()
		if !hasWordRune(token) {
			continue
		}
		out = append(out, token)
	}
	return out
}

// Terms returns the stemmed words of text. Contractions keep their stem
// ("you're" becomes "you") so that "you're" and "you are" share a term.
func Terms(text string) []string {
	tokens := Words(text)
	terms := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if idx := strings.IndexAny(token, "'’"); idx > 0 {
			token = token[:idx]
		}
		terms = append(terms, porter2.Stem(token))
	}
	return terms
}

func hasWordRune(token string) bool {
	for _, r := range token {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
