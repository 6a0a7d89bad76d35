// Package namematch reconciles player identity across data sources. The odds
// feed and the stats source rarely agree on spelling or ordering, so every
// name goes through canonicalization, and lookups fall back to approximate
// matching behind a single Resolver interface.
package namematch

import "strings"

// Normalize canonicalizes a raw player name into a lowercase "first last"
// key. "Last, First" is flipped, periods are stripped, and interior
// whitespace is collapsed.
func Normalize(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	name = strings.ReplaceAll(name, ".", "")

	if idx := strings.Index(name, ","); idx >= 0 {
		last := strings.TrimSpace(name[:idx])
		first := strings.TrimSpace(name[idx+1:])
		name = first + " " + last
	}

	return strings.Join(strings.Fields(name), " ")
}
