// Package screening holds the pure candidate evaluation rules: identity matching for duplicate
// detection and the weighted composite score used to rank applicants.
package screening

import (
	"strings"
	"unicode/utf8"
)

// NameMatchThreshold is the minimum NameSimilarity for two names to be treated as the same person.
const NameMatchThreshold = 0.8

// NameSimilarity returns 1 - editDistance/maxLen over trimmed, lower-cased names.
// Identical names score 1.0 and two blank names score 0.
func NameSimilarity(a, b string) float64 {
	a = normalizeName(a)
	b = normalizeName(b)
	if a == "" && b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	return 1 - float64(EditDistance(a, b))/float64(longest)
}

// EditDistance computes the Levenshtein distance between two strings, rune-wise.
func EditDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
