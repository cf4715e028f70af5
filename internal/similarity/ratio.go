// Package similarity implements the string and vector scoring primitives the
// matching strategies rank candidates with. String scores are integers on a
// 0-100 scale; vector similarity is cosine on the unit interval.
package similarity

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/gcbaptista/go-address-matcher/internal/normalize"
)

// Ratio scores two strings on a 0-100 scale: Levenshtein distance
// normalized by the combined length of both strings, so a short
// abbreviation against its expansion ("AVE" vs "AVENUE") is charged for the
// missing letters once, not against the full longer string. Identical
// strings score 100; two empty strings also score 100.
func Ratio(a, b string) int {
	if a == b {
		return 100
	}
	total := len([]rune(a)) + len([]rune(b))
	if total == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return (total - dist) * 100 / total
}

// TokenSortRatio scores two strings after sorting their tokens, so that
// "BEDFORD AVE N" and "N BEDFORD AVE" compare as equal. This is the score
// the fuzzy strategy thresholds on.
func TokenSortRatio(a, b string) int {
	return Ratio(sortedTokenString(a), sortedTokenString(b))
}

// TokenSetRatio scores two strings on their token sets, discounting tokens
// present in only one of them. It takes the best of the three comparisons
// between the shared-token string and each side's full sorted string, which
// makes it tolerant of one side carrying extra tokens (unit suffixes, city
// names) the other omits.
func TokenSetRatio(a, b string) int {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)

	var shared, onlyA, onlyB []string
	for tok := range tokensA {
		if tokensB[tok] {
			shared = append(shared, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range tokensB {
		if !tokensA[tok] {
			onlyB = append(onlyB, tok)
		}
	}
	sort.Strings(shared)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	base := strings.Join(shared, " ")
	combinedA := joinNonEmpty(base, strings.Join(onlyA, " "))
	combinedB := joinNonEmpty(base, strings.Join(onlyB, " "))

	best := Ratio(base, combinedA)
	if s := Ratio(base, combinedB); s > best {
		best = s
	}
	if s := Ratio(combinedA, combinedB); s > best {
		best = s
	}
	return best
}

// Tokenization folds through the comparison normalizer, so a caller passing
// unfolded text scores on the same scale as the strategies' prepared strings.

func sortedTokenString(s string) string {
	tokens := normalize.Tokens(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range normalize.Tokens(s) {
		set[tok] = true
	}
	return set
}

func joinNonEmpty(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + " " + b
}
