package ranking

import (
	"regexp"
	"strings"
)

const (
	DefaultRefineSentences = 3
	DefaultRefineChars     = 300
)

var sentenceBoundary = regexp.MustCompile(`[.!?]\s+`)

// Refine shortens a section body for presentation. Bodies within maxChars
// are returned with whitespace collapsed. Longer bodies keep their first
// maxSentences sentences, then are cut at the last word boundary within
// maxChars. Non-positive limits use the defaults.
func Refine(body string, maxSentences, maxChars int) string {
	if maxSentences <= 0 {
		maxSentences = DefaultRefineSentences
	}
	if maxChars <= 0 {
		maxChars = DefaultRefineChars
	}

	text := strings.Join(strings.Fields(body), " ")
	if len([]rune(text)) <= maxChars {
		return text
	}

	sentences := splitSentences(text)
	if len(sentences) > maxSentences {
		sentences = sentences[:maxSentences]
	}
	return truncateWords(strings.Join(sentences, " "), maxChars)
}

func splitSentences(text string) []string {
	var out []string
	start := 0
	for _, loc := range sentenceBoundary.FindAllStringIndex(text, -1) {
		// keep the punctuation, drop the whitespace
		out = append(out, text[start:loc[0]+1])
		start = loc[1]
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}

// truncateWords cuts text to at most limit runes, backing up to a space
// when one exists.
func truncateWords(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	cut := string(runes[:limit])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:")
}
