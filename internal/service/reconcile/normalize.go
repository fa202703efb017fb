package reconcile

import "strings"

// normalizeKey folds a dedup key: surrounding whitespace is irrelevant and
// matching is case-insensitive.
func normalizeKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
