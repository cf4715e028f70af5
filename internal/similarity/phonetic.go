package similarity

import "github.com/xrash/smetrics"

// PhoneticCode returns the Soundex code of a string, or "" for an empty or
// non-alphabetic input. Strings that sound alike ("BEDFORD", "BEDFERD")
// produce the same code.
func PhoneticCode(s string) string {
	hasLetter := false
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return ""
	}
	return smetrics.Soundex(s)
}

// JaroWinkler returns the Jaro-Winkler similarity of two strings on the unit
// interval, with the standard 0.7 boost threshold and 4-character prefix.
func JaroWinkler(a, b string) float64 {
	return smetrics.JaroWinkler(a, b, 0.7, 4)
}
