package validators

import "strings"

// SanitizeString trims surrounding whitespace and caps the value at
// maxLen bytes. A maxLen of zero or less means unbounded. Truncation
// re-trims so a cut never leaves trailing whitespace behind.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen <= 0 || len(trimmed) <= maxLen {
		return trimmed
	}
	return strings.TrimRight(trimmed[:maxLen], " \t")
}
