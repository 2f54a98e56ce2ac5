package ranking

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/poiesic/personarank/core"
)

var folder = cases.Fold()

// normalize folds case, applies NFKC, drops punctuation and collapses
// whitespace so cosmetic differences do not hide a repeat.
func normalize(text string) []rune {
	text = folder.String(norm.NFKC.String(text))
	var b strings.Builder
	b.Grow(len(text))
	space := false
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		default:
			space = true
		}
	}
	return []rune(b.String())
}

// dedupe drops sections whose normalized text is at least threshold similar
// to an earlier, higher ranked section of the same document. Input must be
// in score order.
func dedupe(sections []*core.ScoredSection, threshold float64) []*core.ScoredSection {
	if threshold <= 0 {
		return sections
	}

	kept := make(map[string][][]rune)
	out := sections[:0]
	for _, ss := range sections {
		text := normalize(ss.Section.Text())
		doc := ss.Section.DocumentID

		duplicate := false
		for _, prior := range kept[doc] {
			if SimilarAtLeast(text, prior, threshold) {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		kept[doc] = append(kept[doc], text)
		out = append(out, ss)
	}
	return out
}

// Similarity returns 1 - editDistance/maxLength for two rune strings.
// Identical strings give 1; two empty strings are identical.
func Similarity(a, b []rune) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}
	d := boundedDistance(a, b, longest)
	return 1 - float64(d)/float64(longest)
}

// SimilarAtLeast reports whether Similarity(a, b) >= threshold without
// computing distances beyond what the threshold allows.
func SimilarAtLeast(a, b []rune, threshold float64) bool {
	longest := max(len(a), len(b))
	if longest == 0 {
		return true
	}
	limit := int((1 - threshold) * float64(longest))
	if abs(len(a)-len(b)) > limit {
		return false
	}
	return boundedDistance(a, b, limit) <= limit
}

// boundedDistance computes the Levenshtein distance of a and b if it is at
// most limit, and returns limit+1 otherwise. Only cells within limit of the
// diagonal are evaluated.
func boundedDistance(a, b []rune, limit int) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	if len(b)-len(a) > limit {
		return limit + 1
	}
	if len(a) == 0 {
		return len(b)
	}

	inf := limit + 1
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		if j <= limit {
			prev[j] = j
		} else {
			prev[j] = inf
		}
	}

	for i := 1; i <= len(a); i++ {
		lo := max(1, i-limit)
		hi := min(len(b), i+limit)
		curr[0] = inf
		if i <= limit {
			curr[0] = i
		}
		if lo > 1 {
			curr[lo-1] = inf
		}
		if hi < len(b) {
			curr[hi+1] = inf
		}
		rowMin := curr[0]
		for j := lo; j <= hi; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			v := min(prev[j-1]+cost, prev[j]+1, curr[j-1]+1)
			if v > inf {
				v = inf
			}
			curr[j] = v
			rowMin = min(rowMin, v)
		}
		if rowMin > limit {
			return inf
		}
		prev, curr = curr, prev
	}
	return min(prev[len(b)], inf)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
