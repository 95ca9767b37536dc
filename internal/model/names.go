package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// FoldName returns the comparison key for a resident name: trimmed, NFC
// normalised and Unicode case folded. Folding is locale independent, so
// "İ" and "i" never collide by accident of the host's language settings.
//
// The store registers the same function with SQLite, which keeps equality
// in SQL and in Go identical.
func FoldName(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	// cases.Caser is stateful, so each call gets its own.
	return cases.Fold().String(s)
}

// CleanName trims surrounding whitespace and normalises to NFC. It is applied
// to names before they are stored.
func CleanName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
