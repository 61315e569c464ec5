package commitguard

import (
	"io"
	"regexp"
)

// Test helpers - exported for testing only

// MatchesPrefixForTesting exposes matchesPrefix for testing.
func MatchesPrefixForTesting(re *regexp.Regexp, value string) bool {
	return matchesPrefix(re, value)
}

// WriteDiagnosticForTesting exposes writeDiagnostic for testing.
func WriteDiagnosticForTesting(w io.Writer, err error, color bool) {
	writeDiagnostic(w, err, color)
}
