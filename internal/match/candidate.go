package match

import (
	"slices"
	"strings"
)

// MinScore is the similarity below which a candidate is not suggested.
const MinScore = 0.5

// Candidate is a known name scored against a query.
type Candidate struct {
	Name  string
	Score float64
}

// Rank scores every candidate against query and returns those at or above
// MinScore, best first. Ties are broken by name so the order is stable.
func Rank(query string, candidates []string) []Candidate {
	q := Normalize(query)
	qTokens := Tokens(query)

	var out []Candidate

	for _, c := range candidates {
		n := Normalize(c)

		score := Similarity(q, n)
		if q != "" && strings.Contains(n, q) {
			score = max(score, 0.75)
		}

		if shared := sharedTokens(qTokens, Tokens(c)); shared > 0 {
			score = max(score, min(0.9, 0.5+0.1*float64(shared)))
		}

		if score >= MinScore {
			out = append(out, Candidate{Name: c, Score: score})
		}
	}

	slices.SortStableFunc(out, func(a, b Candidate) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return strings.Compare(a.Name, b.Name)
		}
	})

	return out
}

// Suggest returns at most limit candidate names closest to query.
func Suggest(query string, candidates []string, limit int) []string {
	ranked := Rank(query, candidates)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]string, len(ranked))
	for i, c := range ranked {
		out[i] = c.Name
	}

	return out
}

func sharedTokens(a, b []string) int {
	n := 0

	for _, t := range a {
		if len(t) > 1 && slices.Contains(b, t) {
			n++
		}
	}

	return n
}
