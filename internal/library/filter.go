package library

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// minSimilarity is the lowest fuzzy score a name needs to stay in a
// filtered listing.
const minSimilarity = 0.5

// Filter narrows items to those whose name matches query. Substring matches
// come first in their original order, then close fuzzy matches by score.
// An empty query returns items unchanged.
func Filter(items []Handle, query string) []Handle {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}

	type scored struct {
		h     Handle
		score float64
	}
	var exact []Handle
	var fuzzy []scored
	for _, h := range items {
		name := strings.ToLower(h.Name())
		if strings.Contains(name, q) {
			exact = append(exact, h)
			continue
		}
		stem := strings.TrimSuffix(name, extOf(name))
		if s := similarity(stem, q); s >= minSimilarity {
			fuzzy = append(fuzzy, scored{h, s})
		}
	}
	sort.SliceStable(fuzzy, func(i, j int) bool { return fuzzy[i].score > fuzzy[j].score })

	out := make([]Handle, 0, len(exact)+len(fuzzy))
	out = append(out, exact...)
	for _, s := range fuzzy {
		out = append(out, s.h)
	}
	return out
}

func similarity(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

func extOf(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[i:]
	}
	return ""
}
