// Package normalize provides the small amount of string preparation the
// matching strategies need on top of the parser's normalization: ASCII
// folding, whitespace collapsing, and assembly of the comparable street
// string from its components.
package normalize

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// whitespaceRegex matches runs of whitespace for collapsing.
var whitespaceRegex = regexp.MustCompile(`\s+`)

// Field folds a single address field to the comparable form used by every
// strategy: transliterated to ASCII, upper-cased, and whitespace-collapsed.
// Input records are already normalized upstream, so for most values this is
// a no-op; it exists so accented registry data can never dodge a comparison.
func Field(s string) string {
	s = unidecode.Unidecode(s)
	s = strings.ToUpper(strings.TrimSpace(s))
	return whitespaceRegex.ReplaceAllString(s, " ")
}

// FullStreet assembles the token string compared by the fuzzy, phonetic, and
// embedding strategies: "PREDIR STREET TYPE POSTDIR" with empty components
// dropped.
func FullStreet(preDir, streetName, streetType, postDir string) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{preDir, streetName, streetType, postDir} {
		if folded := Field(p); folded != "" {
			parts = append(parts, folded)
		}
	}
	return strings.Join(parts, " ")
}

// Tokens splits a folded string into its comparison tokens.
func Tokens(s string) []string {
	tokens := make([]string, 0)
	for _, tok := range strings.Fields(Field(s)) {
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// FirstLetter returns the first letter of the folded street name, or "" when
// the name is empty or starts with a non-letter.
func FirstLetter(streetName string) string {
	folded := Field(streetName)
	if folded == "" {
		return ""
	}
	c := folded[0]
	if c < 'A' || c > 'Z' {
		return ""
	}
	return string(c)
}
