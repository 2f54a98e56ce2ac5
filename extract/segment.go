package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/poiesic/personarank/core"
)

var (
	numberedHeading = regexp.MustCompile(`^(\d+(\.\d+)*\.?|[IVXLC]+\.|[A-Z]\.)\s+\p{Lu}`)
	labelledHeading = regexp.MustCompile(`(?i)^(chapter|section|part|step|appendix)\s+([0-9]+|[IVXLC]+|[A-Z])\b`)
	pageNumberLine  = regexp.MustCompile(`(?i)^(page\s*)?\d+(\s*(of|/)\s*\d+)?$`)
	questionHeading = regexp.MustCompile(`^(What|How|Why|When|Where|Which|Who)\b.*\?$`)
)

var leadingConnectors = map[string]bool{
	"to": true, "for": true, "with": true, "the": true, "this": true, "a": true, "an": true,
}

var trailingConnectors = map[string]bool{
	"and": true, "or": true, "with": true, "to": true, "for": true, "of": true, "in": true, "on": true,
}

var minorWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "of": true, "in": true,
	"on": true, "for": true, "to": true, "with": true, "at": true, "by": true, "from": true,
	"vs": true, "via": true,
}

// HeadingPolicy decides which lines open a new section.
type HeadingPolicy struct {
	// MinLength and MaxLength bound a heading's length in runes.
	MinLength int
	MaxLength int

	// MaxWords bounds a heading's word count.
	MaxWords int

	// Structural lists words that are headings on their own line
	// ("Introduction", "Summary: ..."). Matching is case-insensitive.
	Structural []string
}

// DefaultHeadingPolicy returns the heading heuristics used unless configured otherwise.
func DefaultHeadingPolicy() HeadingPolicy {
	return HeadingPolicy{
		MinLength: 3,
		MaxLength: 80,
		MaxWords:  12,
		Structural: []string{
			"abstract", "introduction", "overview", "summary", "background", "methodology",
			"methods", "results", "discussion", "conclusion", "conclusions", "references",
			"appendix", "recommendations", "key findings", "executive summary",
		},
	}
}

// IsHeading reports whether a trimmed line looks like a section heading.
func (p HeadingPolicy) IsHeading(line string) bool {
	if strings.HasPrefix(line, "#") {
		return strings.TrimSpace(strings.TrimLeft(line, "#")) != ""
	}

	n := utf8.RuneCountInString(line)
	if n < p.MinLength || n > p.MaxLength || isNoiseLine(line) || strings.ContainsRune(line, '\t') {
		return false
	}

	words := strings.Fields(line)
	if len(words) > p.MaxWords {
		return false
	}

	if numberedHeading.MatchString(line) || labelledHeading.MatchString(line) {
		return !endsSentence(line)
	}

	if p.isStructural(line) {
		return true
	}

	if questionHeading.MatchString(line) {
		return true
	}

	if endsSentence(line) || strings.HasSuffix(line, "?") {
		return false
	}

	last := strings.ToLower(strings.Trim(words[len(words)-1], ":"))
	if len(words) > 1 && trailingConnectors[last] {
		return false
	}
	if len(words) > 1 && leadingConnectors[strings.ToLower(words[0])] && startsLower(words[1]) {
		return false
	}

	return isAllCaps(line) || isTitleCase(words)
}

func (p HeadingPolicy) isStructural(line string) bool {
	lower := strings.ToLower(strings.TrimSuffix(line, ":"))
	for _, word := range p.Structural {
		if lower == word || strings.HasPrefix(lower, word+":") {
			return true
		}
	}
	return false
}

// Segment splits one page of text into sections. Offsets are rune offsets
// into text. Lines before the first heading form an untitled section, so a
// page without headings yields a single section spanning its content.
func (p HeadingPolicy) Segment(documentID string, page int, text string, source core.TextSource) []*core.Section {
	var (
		sections []*core.Section
		current  *core.Section
		body     []string
		offset   int
	)

	flush := func() {
		if current == nil {
			return
		}
		current.Body = strings.TrimSpace(strings.Join(body, "\n"))
		if current.Body != "" {
			current.ID = core.SectionID(documentID, page, current.Start)
			sections = append(sections, current)
		}
		current = nil
		body = nil
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		start := offset
		offset += utf8.RuneCountInString(line)
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || isNoiseLine(trimmed) {
			continue
		}

		if p.IsHeading(trimmed) {
			flush()
			current = &core.Section{
				DocumentID: documentID,
				Page:       page,
				Title:      headingTitle(trimmed),
				Start:      start,
				End:        offset,
				Source:     source,
			}
			continue
		}

		if current == nil {
			current = &core.Section{
				DocumentID: documentID,
				Page:       page,
				Start:      start,
				Source:     source,
			}
		}
		body = append(body, trimmed)
		current.End = start + utf8.RuneCountInString(strings.TrimRight(line, "\r\n"))
	}
	flush()

	return sections
}

func headingTitle(line string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimLeft(line, "# "), ":"))
}

// isNoiseLine matches page numbers, rules and fragments too short to carry text.
func isNoiseLine(line string) bool {
	if utf8.RuneCountInString(line) < 3 {
		return true
	}
	if pageNumberLine.MatchString(line) {
		return true
	}
	for _, r := range line {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func endsSentence(line string) bool {
	last, _ := utf8.DecodeLastRuneInString(line)
	return last == '.' || last == ',' || last == ';' || last == '!'
}

func startsLower(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsLower(r)
}

func isAllCaps(line string) bool {
	letters := 0
	for _, r := range line {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		}
	}
	return letters >= 4
}

func isTitleCase(words []string) bool {
	if startsLower(words[0]) {
		return false
	}
	significant := 0
	for _, word := range words {
		r, _ := utf8.DecodeRuneInString(word)
		if !unicode.IsLetter(r) {
			continue
		}
		if minorWords[strings.ToLower(word)] {
			continue
		}
		if !unicode.IsUpper(r) {
			return false
		}
		significant++
	}
	return significant > 0
}

// normalizedLength is the rune length of text after collapsing whitespace.
func normalizedLength(text string) int {
	return utf8.RuneCountInString(strings.Join(strings.Fields(text), " "))
}
