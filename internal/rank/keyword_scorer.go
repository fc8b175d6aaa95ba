package rank

import (
	"math"
	"regexp"
	"slices"
	"strings"
)

const (
	exactPoints   = 20.0
	synonymPoints = 15.0
	partialPoints = 5.0
	minPartialLen = 4
)

var reKeywordSep = regexp.MustCompile(`[,\s\p{Z}]+`)

// KeywordScorer is the default Scorer. It has no state; the zero value is
// ready to use.
type KeywordScorer struct{}

var _ Scorer = KeywordScorer{}

// Score returns 0 when the query's seniority or job-type intent conflicts
// with the posting, otherwise the keyword match strength normalized to
// 0..100 with one decimal.
func (KeywordScorer) Score(jobText, keywords string) float64 {
	text := strings.ToLower(jobText)
	query := strings.ToLower(keywords)

	if conflicts(query, text, experienceConflicts) || conflicts(query, text, jobTypeConflicts) {
		return 0
	}

	tokens := Tokenize(keywords)
	if len(tokens) == 0 {
		return 0
	}

	var raw float64
	for _, tok := range tokens {
		if strings.Contains(text, tok) {
			raw += exactPoints
		} else if synonymMatch(tok, text) {
			raw += synonymPoints
		}
		if partialMatch(tok, text) {
			raw += partialPoints
		}
	}

	score := math.Min(100, raw/(float64(len(tokens))*exactPoints)*100)
	return math.Round(score*10) / 10
}

// Tokenize lower-cases keywords and splits them on commas and whitespace.
func Tokenize(keywords string) []string {
	parts := reKeywordSep.Split(strings.ToLower(keywords), -1)
	return slices.DeleteFunc(parts, func(s string) bool { return strings.TrimSpace(s) == "" })
}

func conflicts(query, text string, rules []conflictRule) bool {
	for _, r := range rules {
		if !strings.Contains(query, r.term) {
			continue
		}
		for _, c := range r.conflicts {
			if strings.Contains(text, c) {
				return true
			}
		}
	}
	return false
}

// synonymMatch: the first group listing tok with any member present in text.
func synonymMatch(tok, text string) bool {
	for _, g := range techSynonyms {
		if !slices.Contains(g.synonyms, tok) {
			continue
		}
		for _, syn := range g.synonyms {
			if strings.Contains(text, syn) {
				return true
			}
		}
	}
	return false
}

func partialMatch(tok, text string) bool {
	if len(tok) < minPartialLen {
		return false
	}
	for _, part := range strings.Fields(tok) {
		if len(part) >= minPartialLen && strings.Contains(text, part) {
			return true
		}
	}
	return false
}
