package match

import (
	"cmp"
	"slices"
)

const (
	// DefaultMinScore is the minimum similarity for a name to be suggested.
	DefaultMinScore = 0.6
	// DefaultMaxSuggestions caps the number of suggestions.
	DefaultMaxSuggestions = 3
)

// Candidate is one ranked name.
type Candidate struct {
	// Index of the name in the slice given to Rank.
	Index int
	Name  string
	Score float64
}

// CandidateList is sorted by descending score.
type CandidateList []Candidate

// Rank scores every name against target, best first. Ties keep input order.
func Rank(target string, names []string) CandidateList {
	candidates := make(CandidateList, 0, len(names))

	norm := NormalizeName(target)

	for i, name := range names {
		candidates = append(candidates, Candidate{
			Index: i,
			Name:  name,
			Score: Similarity(norm, NormalizeName(name)),
		})
	}

	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		return cmp.Compare(b.Score, a.Score)
	})

	return candidates
}

// Suggest returns up to DefaultMaxSuggestions names similar to target.
func Suggest(target string, names []string) []string {
	var out []string

	for _, c := range Rank(target, names).AboveThreshold(DefaultMinScore).Top(DefaultMaxSuggestions) {
		out = append(out, c.Name)
	}

	return out
}

// Top returns the first n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// Best returns the best candidate, or nil if there is none.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// AboveThreshold returns the candidates scoring at least threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList

	for _, cand := range c {
		if cand.Score >= threshold {
			result = append(result, cand)
		}
	}

	return result
}
