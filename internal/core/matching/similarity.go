// Package matching reconciles the two independently maintained naming schemes
// for properties: the document store's house names and the helpdesk's
// configured home-field values.
package matching

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// stopWords are generic property words stripped before comparison; they carry
// no distinguishing information ("Casa Saona" and "Saona" are the same home).
var stopWords = map[string]struct{}{
	"casa":  {},
	"home":  {},
	"house": {},
}

const (
	// minTokenLength excludes short filler tokens ("de", "la") from the
	// token-overlap rule.
	minTokenLength = 2

	// iiBonus and iiPenaltyFactor disambiguate sibling properties named
	// "X" and "X II": when the target carries the "ii" marker, candidates
	// that also carry it are boosted and candidates that do not are halved.
	iiBonus         = 0.2
	iiPenaltyFactor = 0.5
	siblingSuffix   = "ii"
)

// Normalize lowercases the name, strips stop words and collapses whitespace.
func Normalize(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	kept := fields[:0]
	for _, f := range fields {
		if _, skip := stopWords[f]; !skip {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}

// Score rates how well candidate matches target, in [0,1]. Rules are
// evaluated in order, first match wins:
//
//  1. exact equality -> 1.0
//  2. candidate contains target -> len(target)/len(candidate)
//  3. target contains candidate -> len(candidate)/len(target)
//  4. token overlap (tokens longer than two characters, substring either
//     direction) -> common/max(tokens) * 0.5
//  5. otherwise -> 0
//
// Callers are expected to Normalize both sides first.
func Score(target, candidate string) float64 {
	if target == "" || candidate == "" {
		return 0
	}
	if target == candidate {
		return 1.0
	}
	if strings.Contains(candidate, target) {
		return float64(len(target)) / float64(len(candidate))
	}
	if strings.Contains(target, candidate) {
		return float64(len(candidate)) / float64(len(target))
	}

	targetTokens := longTokens(target)
	candidateTokens := longTokens(candidate)
	if len(targetTokens) == 0 || len(candidateTokens) == 0 {
		return 0
	}

	common := 0
	for _, tt := range targetTokens {
		for _, ct := range candidateTokens {
			if strings.Contains(ct, tt) || strings.Contains(tt, ct) {
				common++
				break
			}
		}
	}
	if common == 0 {
		return 0
	}

	maxTokens := len(targetTokens)
	if len(candidateTokens) > maxTokens {
		maxTokens = len(candidateTokens)
	}
	return float64(common) / float64(maxTokens) * 0.5
}

func longTokens(s string) []string {
	var tokens []string
	for _, t := range strings.Fields(s) {
		if len(t) > minTokenLength {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// BestMatch returns the candidate with the strictly highest Score against
// target. Ties keep the first-seen candidate; a best score of zero means no
// match.
func BestMatch(target string, candidates []string) (string, float64) {
	best := ""
	bestScore := 0.0
	for _, c := range candidates {
		if s := Score(target, c); s > bestScore {
			best, bestScore = c, s
		}
	}
	return best, bestScore
}

// BestHouseMatch matches a house name against the helpdesk's configured home
// names: both sides are normalized and the sibling-suffix adjustment is
// applied. It returns the original (unnormalized) winning candidate.
func BestHouseMatch(houseName string, candidates []string) (string, float64) {
	target := Normalize(houseName)
	targetHasSuffix := strings.Contains(target, siblingSuffix)

	best := ""
	bestScore := 0.0
	for _, c := range candidates {
		normalized := Normalize(c)
		score := Score(target, normalized)
		if targetHasSuffix {
			if strings.Contains(normalized, siblingSuffix) {
				score += iiBonus
			} else {
				score *= iiPenaltyFactor
			}
		}
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return best, bestScore
}

// NearestByEditDistance returns the candidate with the lowest Levenshtein
// distance to the target. It is only a diagnostic hint for names no scoring
// rule matched, never a result.
func NearestByEditDistance(target string, candidates []string) string {
	normalized := Normalize(target)
	nearest := ""
	nearestDistance := -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(normalized, Normalize(c))
		if nearestDistance < 0 || d < nearestDistance {
			nearest, nearestDistance = c, d
		}
	}
	return nearest
}
