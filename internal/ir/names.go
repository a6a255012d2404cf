package ir

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName returns the NFC form of an operation name with surrounding
// whitespace removed. Drive-line sharing compares names in this form.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// SameOperation reports whether two operation names denote the same operation.
func SameOperation(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}
