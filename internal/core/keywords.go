package core

import (
	"regexp"
	"sort"
	"strings"
)

// tokenRe matches Unicode word runs: letters, digits and underscore.
var tokenRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// noiseWords never identify a chip: vendor and product-line names, unit
// suffixes and memory generations.
var noiseWords = map[string]struct{}{
	"amd":     {},
	"intel":   {},
	"geforce": {},
	"radeon":  {},
	"gb":      {},
	"tb":      {},
	"mhz":     {},
	"ddr4":    {},
	"ddr5":    {},
	"nvidia":  {},
}

// KeywordSet is a sorted, de-duplicated list of identifying tokens.
type KeywordSet []string

// Keywords normalizes a product or reference name into its keyword set.
func Keywords(term string) KeywordSet {
	tokens := tokenRe.FindAllString(strings.ToLower(term), -1)
	seen := make(map[string]struct{}, len(tokens))
	out := make(KeywordSet, 0, len(tokens))
	for _, tok := range tokens {
		if _, noise := noiseWords[tok]; noise {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

// Key returns the canonical, order-independent form of the set.
func (k KeywordSet) Key() string { return strings.Join(k, " ") }

// Empty reports whether the set carries no tokens.
func (k KeywordSet) Empty() bool { return len(k) == 0 }

// Contains reports whether token is a member. k must be sorted.
func (k KeywordSet) Contains(token string) bool {
	i := sort.SearchStrings(k, token)
	return i < len(k) && k[i] == token
}

// SubsetOf reports whether every token of k is in other. Both sets are
// sorted, so a single merge walk is enough.
func (k KeywordSet) SubsetOf(other KeywordSet) bool {
	if len(k) > len(other) {
		return false
	}
	j := 0
	for _, tok := range k {
		for j < len(other) && other[j] < tok {
			j++
		}
		if j == len(other) || other[j] != tok {
			return false
		}
		j++
	}
	return true
}
