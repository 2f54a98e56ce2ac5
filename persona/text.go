package persona

import (
	"regexp"
	"strings"
)

// minTokenLength drops short fragments such as "hr" or "it" from task text.
const minTokenLength = 3

var wordPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

// Stop words filtered out of task text before counting terms
var stopWords = map[string]bool{
	"the": true, "and": true, "or": true, "but": true, "in": true, "on": true,
	"at": true, "to": true, "for": true, "of": true, "with": true, "by": true,
	"is": true, "are": true, "was": true, "were": true, "be": true, "been": true,
	"have": true, "has": true, "had": true, "do": true, "does": true, "did": true,
	"will": true, "would": true, "should": true, "could": true, "can": true,
	"may": true, "might": true, "must": true, "a": true, "an": true, "this": true,
	"that": true, "these": true, "those": true, "from": true, "not": true,
	"you": true, "your": true, "our": true, "their": true, "its": true, "it": true,
	"as": true, "into": true, "about": true, "all": true, "any": true, "some": true,
	"need": true, "needs": true, "want": true, "using": true, "use": true,
}

// words lowercases text and returns its words in order of appearance.
func words(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// terms returns the content words of text: long enough and not stop words.
func terms(text string) []string {
	all := words(text)
	filtered := make([]string, 0, len(all))
	for _, w := range all {
		if len([]rune(w)) < minTokenLength || stopWords[w] {
			continue
		}
		filtered = append(filtered, w)
	}
	return filtered
}

// rawTokens splits text on whitespace, lowercases, and trims punctuation.
// Nothing is filtered out besides empty strings.
func rawTokens(text string) []string {
	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		cleaned := strings.ToLower(strings.Trim(f, ".,!?;:'\"-()[]{}"))
		if cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

// normalizeRole lowercases a role label and collapses internal whitespace.
func normalizeRole(role string) string {
	return strings.Join(strings.Fields(strings.ToLower(role)), " ")
}
