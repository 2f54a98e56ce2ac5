package scoring

import (
	"regexp"
	"sort"
	"strings"
)

// wordBoundary matches one character that cannot be part of a word. RE2's \b
// only knows ASCII word characters.
const wordBoundary = `[^\p{L}\p{N}_]`

// keywordMatcher computes the weighted keyword overlap of a text.
type keywordMatcher struct {
	patterns []*regexp.Regexp
	weights  []float64
	total    float64
}

// newKeywordMatcher compiles one case-insensitive, word-bounded pattern per
// keyword. Keywords are sorted so matching is deterministic.
func newKeywordMatcher(keywords map[string]float64) *keywordMatcher {
	terms := make([]string, 0, len(keywords))
	for k := range keywords {
		if strings.TrimSpace(k) != "" {
			terms = append(terms, k)
		}
	}
	sort.Strings(terms)

	m := &keywordMatcher{
		patterns: make([]*regexp.Regexp, 0, len(terms)),
		weights:  make([]float64, 0, len(terms)),
	}
	for _, term := range terms {
		m.patterns = append(m.patterns, regexp.MustCompile(`(?i)(?:^|`+wordBoundary+`)`+
			regexp.QuoteMeta(strings.TrimSpace(term))+`(?:$|`+wordBoundary+`)`))
		m.weights = append(m.weights, keywords[term])
		m.total += keywords[term]
	}
	return m
}

// score returns the sum of weights of keywords present in text over the sum
// of all weights, clamped to [0,1].
func (m *keywordMatcher) score(text string) float64 {
	if m.total <= 0 {
		return 0
	}
	var matched float64
	for i, p := range m.patterns {
		if p.MatchString(text) {
			matched += m.weights[i]
		}
	}
	return clamp01(matched / m.total)
}
