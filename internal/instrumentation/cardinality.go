package instrumentation

import "unicode/utf8"

// Cardinality helpers for metrics.
//
// List names are user data. Metrics carry the scope of an operation by
// default and the list name only when detailed labels are enabled.

// MaxLabelLength bounds label values derived from user data
const MaxLabelLength = 64

// Scope label values
const (
	ScopeAll    = "all"
	ScopeSingle = "single"
)

// ListScope maps an optional list name to a fixed label value.
//
// Example:
//
//	ListScope("")          // "all"
//	ListScope("Groceries") // "single"
func ListScope(listName string) string {
	if listName == "" {
		return ScopeAll
	}
	return ScopeSingle
}

// TruncateLabel shortens value to at most MaxLabelLength runes
func TruncateLabel(value string) string {
	if utf8.RuneCountInString(value) <= MaxLabelLength {
		return value
	}
	runes := []rune(value)
	return string(runes[:MaxLabelLength])
}
