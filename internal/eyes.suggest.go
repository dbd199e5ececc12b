package internal

import (
	"sort"
	"strings"
)

// Suggestion distance bounds
const (
	SuggestMinDistance = 2
	SuggestDivisor     = 2 // Allowed distance grows with target length
)

// Suggest returns up to limit candidates close to target by edit distance,
// closest first and alphabetical among equals. Case is ignored. An exact
// match is never suggested.
func Suggest(target string, candidates []string, limit int) []string {
	if limit <= 0 || len(candidates) == 0 {
		return nil
	}

	maxDist := max(len(target)/SuggestDivisor, SuggestMinDistance)
	lower := strings.ToLower(target)

	type scored struct {
		name string
		dist int
	}
	var near []scored
	for _, c := range candidates {
		if c == target {
			continue
		}
		if d := editDistance(lower, strings.ToLower(c)); d <= maxDist {
			near = append(near, scored{c, d})
		}
	}

	sort.Slice(near, func(i, j int) bool {
		if near[i].dist != near[j].dist {
			return near[i].dist < near[j].dist
		}
		return near[i].name < near[j].name
	})

	out := make([]string, 0, min(limit, len(near)))
	for i := 0; i < len(near) && i < limit; i++ {
		out = append(out, near[i].name)
	}
	return out
}

// editDistance is the Levenshtein distance between a and b, counted in runes.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
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
