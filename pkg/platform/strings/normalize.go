// Package strings provides the normalization helpers used for fuzzy-identity
// matching and input cleanup.
package strings

import (
	"strings"
)

// Fold trims surrounding whitespace and lowercases s. This is the only
// normalization applied when building duplicate-detection keys: predictable,
// zero false positives, at the cost of missing near-duplicates.
func Fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// DedupeAndTrim removes duplicates and empty strings from a slice, trimming
// whitespace from each element. Order is preserved.
//
// Example:
//
//	DedupeAndTrim([]string{"  reports ", "exports", "reports", "", "  "})
//	// Returns: []string{"reports", "exports"}
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}
