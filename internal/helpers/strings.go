// This file holds the two small string-slice helpers the rest of the
// dialect compiler actually calls: an equality check used by the
// transform package's idempotence test, and a diagnostic-formatting
// helper used by the analyzer's duplicate-export error. The teacher's
// StringArrayArraysEqual (comparing a slice of string slices) has no
// caller here — nothing in this pipeline produces nested string-slice
// data that needs comparing — so it was dropped rather than kept unused.
package helpers

import (
	"fmt"
	"strings"
)

// StringArraysEqual reports whether two string slices hold the same
// elements in the same order.
func StringArraysEqual(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i, x := range a {
		if x != b[i] {
			return false
		}
	}
	return true
}

// StringArrayToQuotedCommaSeparatedString renders a, e.g. ["foo", "bar"],
// as `"foo", "bar"` for use in a diagnostic message.
func StringArrayToQuotedCommaSeparatedString(a []string) string {
	sb := strings.Builder{}
	for i, str := range a {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("%q", str))
	}
	return sb.String()
}
