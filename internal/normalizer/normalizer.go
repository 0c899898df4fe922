// Package normalizer handles text folding for filename comparisons in subjectsort.
package normalizer

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Fold returns s in the form used for case-insensitive comparisons.
// It composes the string to NFC before lower-casing it, so a filename stored
// decomposed (as macOS does) compares equal to a keyword typed composed.
//
// Examples:
//   - "Redes_WAN.pdf" -> "redes_wan.pdf"
//   - "Programación" -> "programación"
func Fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

// FoldAll folds every element of values and returns a new slice.
func FoldAll(values []string) []string {
	folded := make([]string, len(values))
	for i, v := range values {
		folded[i] = Fold(v)
	}
	return folded
}
