package fundwatch

import "strings"

// titleRewrites fixes known formatting quirks in scraped page titles where
// the upstream site drops the space before a unit-class suffix. The list is
// applied after base normalization; extending it is the supported way to
// teach the matcher a new quirk.
var titleRewrites = [][2]string{
	{"accumulationshares", "accumulation shares"},
	{"distributionshares", "distribution shares"},
	{"classaccumulation", "class accumulation"},
	{"classdistribution", "class distribution"},
}

// Normalize canonicalizes a fund or share name into the key used to join
// ledger entries against scraped page titles. It trims surrounding
// whitespace, lowercases, spells "&" as "and" and collapses internal
// whitespace runs into single spaces. The empty string maps to itself.
//
// Normalize is pure: equal inputs always produce equal outputs.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " & ", " and ")
	s = strings.ReplaceAll(s, "&", " and ")
	// Collapsing all whitespace runs (not just a single double space) is a
	// deliberate behavior choice, see DESIGN.md.
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeTitle is Normalize plus the titleRewrites table. Use it for
// scraped page titles; ledger names never carry the upstream quirks.
func NormalizeTitle(s string) string {
	s = Normalize(s)
	for _, r := range titleRewrites {
		s = strings.ReplaceAll(s, r[0], r[1])
	}
	return s
}
