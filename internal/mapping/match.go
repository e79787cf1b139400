package mapping

import (
	"strings"
	"unicode"
)

// suggestionThreshold is the minimum overlap score for an advisory match.
const suggestionThreshold = 0.3

// Suggestion is an advisory pairing of a source value with its best-scoring
// target value. Suggestions never overwrite existing entries.
type Suggestion struct {
	Category    Category `json:"category"`
	SourceValue string   `json:"source_value"`
	TargetValue string   `json:"target_value"`
	Score       float64  `json:"score"`
}

// MatchScore computes a normalized word-overlap score between two values.
// Each source token scores 1 for an exact token match and 0.5 when it
// contains or is contained by a target token; the sum is divided by the
// larger token count so padding a value with extra words cannot inflate
// the score.
func MatchScore(a, b string) float64 {
	at := tokenize(a)
	bt := tokenize(b)
	if len(at) == 0 || len(bt) == 0 {
		return 0
	}

	var score float64
	for _, t := range at {
		best := 0.0
		for _, u := range bt {
			switch {
			case t == u:
				best = 1
			case best < 0.5 && (strings.Contains(t, u) || strings.Contains(u, t)):
				best = 0.5
			}
			if best == 1 {
				break
			}
		}
		score += best
	}

	return score / float64(max(len(at), len(bt)))
}

// SuggestMatches scores every source value against every candidate target
// and keeps the best pairing per source when it clears the threshold. Ties
// resolve to the earliest target in the candidate list.
func SuggestMatches(category Category, sources, targets []string) []Suggestion {
	suggestions := make([]Suggestion, 0, len(sources))

	for _, source := range sources {
		var (
			best      string
			bestScore float64
		)
		for _, target := range targets {
			if score := MatchScore(source, target); score > bestScore {
				best = target
				bestScore = score
			}
		}

		if bestScore > suggestionThreshold {
			suggestions = append(suggestions, Suggestion{
				Category:    category,
				SourceValue: source,
				TargetValue: best,
				Score:       bestScore,
			})
		}
	}

	return suggestions
}

// tokenize lowercases and splits on non-alphanumeric runes, discarding
// tokens shorter than two runes so separators like "/" and stray initials
// do not count as words.
func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
