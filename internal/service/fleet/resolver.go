package fleet

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// matchKind is reported on the resolutions metric.
type matchKind string

const (
	matchExact     matchKind = "exact"
	matchFuzzy     matchKind = "fuzzy"
	matchCached    matchKind = "cached"
	matchNone      matchKind = "none"
	matchAmbiguous matchKind = "ambiguous"
)

// noiseWords are dropped from a spoken name when the literal phrase finds
// nothing, so "red falcon drone" can still resolve to "Red Falcon".
var noiseWords = map[string]bool{
	"drone":  true,
	"drones": true,
	"now":    true,
	"please": true,
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// nameVariants returns the normalized name and, if different, the name with
// noise words removed.
func nameVariants(name string) []string {
	norm := normalizeName(name)
	if norm == "" {
		return nil
	}
	variants := []string{norm}

	words := strings.Fields(norm)
	kept := words[:0:0]
	for _, w := range words {
		if !noiseWords[w] {
			kept = append(kept, w)
		}
	}
	if stripped := strings.Join(kept, " "); stripped != "" && stripped != norm {
		variants = append(variants, stripped)
	}
	return variants
}

// distanceLimit is the largest edit distance accepted for a query of n runes.
func distanceLimit(n, max int) int {
	limit := 3
	switch {
	case n <= 4:
		limit = 1
	case n <= 8:
		limit = 2
	}
	if max > 0 && limit > max {
		limit = max
	}
	return limit
}

// closest returns the index of the single name nearest to query within the
// length-dependent limit. ok is false when nothing is close enough and
// ambiguous is true when several names tie at the best distance.
func closest(query string, names []string, max int) (idx int, ok, ambiguous bool) {
	limit := distanceLimit(len([]rune(query)), max)
	best := limit + 1
	idx = -1
	ties := 0

	for i, name := range names {
		d := levenshtein.ComputeDistance(query, normalizeName(name))
		switch {
		case d < best:
			best, idx, ties = d, i, 1
		case d == best:
			ties++
		}
	}

	if idx < 0 {
		return -1, false, false
	}
	if ties > 1 {
		return -1, false, true
	}
	return idx, true, false
}
