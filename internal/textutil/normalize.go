package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// BreakMarker is the ASS hard line break sequence.
const BreakMarker = `\N`

var (
	// Override blocks may span a real newline.
	stylingPattern = regexp.MustCompile(`(?s)\{.*?\}`)

	// breakReplacer turns ASS break markers and real newlines into spaces.
	breakReplacer = strings.NewReplacer(
		`\N`, " ",
		`\n`, " ",
		`\h`, " ",
		"\r\n", " ",
		"\n", " ",
	)

	quoteReplacer = strings.NewReplacer(
		`"`, "",
		"“", "",
		"”", "",
	)
)

// StripStyling removes every `{...}` override tag span and trims the result.
func StripStyling(text string) string {
	return strings.TrimSpace(stylingPattern.ReplaceAllString(text, ""))
}

// CollapseSpaces replaces runs of whitespace with a single space and trims.
func CollapseSpaces(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// ForSemanticComparison prepares a line for the embedding-based metric.
func ForSemanticComparison(text string) string {
	out := StripStyling(text)
	// Quotes go first so that `\"N` cannot turn into a break marker.
	out = quoteReplacer.Replace(out)
	out = breakReplacer.Replace(out)
	out = norm.NFC.String(out)
	return CollapseSpaces(out)
}

// ForLexicalComparison prepares a line for the edit-distance metric. Only
// the letters a-z and single spaces survive.
func ForLexicalComparison(text string) string {
	out := StripStyling(text)
	out = breakReplacer.Replace(out)
	out = CollapseSpaces(out)
	out = cases.Lower(language.Und).String(out)

	var b strings.Builder
	b.Grow(len(out))
	for _, r := range out {
		if (r >= 'a' && r <= 'z') || r == ' ' {
			b.WriteRune(r)
		}
	}
	// Dropped punctuation can leave doubled spaces behind.
	return CollapseSpaces(b.String())
}
