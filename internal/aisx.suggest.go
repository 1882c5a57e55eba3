package internal

import (
	"sort"
	"strings"
)

// SimilarNames returns up to limit names from candidates within edit
// distance of target, closest first. Matching is case-insensitive.
func SimilarNames(target string, candidates []string, limit int) []string {
	if len(candidates) == 0 || limit <= 0 {
		return nil
	}

	maxDistance := len(target) / 2
	if maxDistance < SuggestMinDistance {
		maxDistance = SuggestMinDistance
	}

	type scored struct {
		name     string
		distance int
	}

	lower := strings.ToLower(target)
	var similar []scored
	for _, candidate := range candidates {
		if d := editDistance(lower, strings.ToLower(candidate)); d <= maxDistance {
			similar = append(similar, scored{name: candidate, distance: d})
		}
	}
	sort.SliceStable(similar, func(i, j int) bool {
		return similar[i].distance < similar[j].distance
	})

	if len(similar) > limit {
		similar = similar[:limit]
	}
	names := make([]string, len(similar))
	for i, s := range similar {
		names[i] = s.name
	}
	return names
}

// editDistance is the Levenshtein distance over bytes, two rows at a time.
func editDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// FormatSuggestions renders names as a "did you mean" sentence suffix.
// Returns "" for no names.
func FormatSuggestions(names []string) string {
	if len(names) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(SuggestPrefix)
	for i, name := range names {
		if i > 0 {
			if i == len(names)-1 {
				sb.WriteString(SuggestLastSep)
			} else {
				sb.WriteString(SuggestSep)
			}
		}
		sb.WriteByte('\'')
		sb.WriteString(name)
		sb.WriteByte('\'')
	}
	sb.WriteByte('?')
	return sb.String()
}
