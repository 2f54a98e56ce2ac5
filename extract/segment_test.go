package extract

import (
	"strings"
	"testing"

	"github.com/poiesic/personarank/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsHeading(t *testing.T) {
	policy := DefaultHeadingPolicy()

	tests := []struct {
		line string
		want bool
	}{
		{"Executive Summary", true},
		{"FINANCIAL RESULTS", true},
		{"1. Introduction", true},
		{"2.3 Market Risks", true},
		{"IV. Appendix Tables", true},
		{"Chapter 3", true},
		{"Step 2: Prepare the Venue", true},
		{"## Staffing plan", true},
		{"Conclusion:", true},
		{"What Drives Growth?", true},
		{"Revenue grew 20% in Q2. Risks include supply delays.", false},
		{"Revenue grew 20% in Q2", false},
		{"This section covers the budget", false},
		{"Costs for Travel and", false},
		{"the quick brown fox", false},
		{"12", false},
		{"Page 3 of 10", false},
		{"-----", false},
		{"Name\tRevenue", false},
		{"1. the first point", false},
		{strings.Repeat("Long Title ", 10), false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.IsHeading(strings.TrimSpace(tt.line)))
		})
	}
}

func TestSegmentWithoutHeadings(t *testing.T) {
	policy := DefaultHeadingPolicy()
	text := "Revenue grew 20% in Q2. Risks include supply delays."

	sections := policy.Segment("report.txt", 1, text, core.SourceNative)

	require.Len(t, sections, 1)
	s := sections[0]
	assert.Equal(t, text, s.Body)
	assert.Empty(t, s.Title)
	assert.Equal(t, 0, s.Start)
	assert.Equal(t, len([]rune(text)), s.End)
	assert.Equal(t, core.SectionID("report.txt", 1, 0), s.ID)
	assert.Equal(t, core.SourceNative, s.Source)
}

func TestSegmentWithHeadings(t *testing.T) {
	policy := DefaultHeadingPolicy()
	text := strings.Join([]string{
		"Quarterly overview of the business follows.",
		"",
		"1. Revenue",
		"Revenue grew 20% in Q2.",
		"Growth was led by exports.",
		"7",
		"2. Risks",
		"Risks include supply delays.",
		"3. Empty Heading",
	}, "\n")

	sections := policy.Segment("doc", 2, text, core.SourceOCR)

	require.Len(t, sections, 3, "heading without body is dropped")

	assert.Empty(t, sections[0].Title)
	assert.Equal(t, "Quarterly overview of the business follows.", sections[0].Body)

	assert.Equal(t, "1. Revenue", sections[1].Title)
	assert.Equal(t, "Revenue grew 20% in Q2.\nGrowth was led by exports.", sections[1].Body, "page number line removed")

	assert.Equal(t, "2. Risks", sections[2].Title)
	assert.Equal(t, "Risks include supply delays.", sections[2].Body)

	runes := []rune(text)
	for _, s := range sections {
		assert.Equal(t, 2, s.Page)
		assert.Equal(t, core.SourceOCR, s.Source)
		span := string(runes[s.Start:s.End])
		if s.Title != "" {
			assert.True(t, strings.HasPrefix(span, s.Title), "span starts at heading: %q", span)
		}
		assert.True(t, strings.HasSuffix(span, s.Body[strings.LastIndex(s.Body, "\n")+1:]), "span ends at last body line: %q", span)
	}

	ids := map[core.ID]bool{}
	for _, s := range sections {
		ids[s.ID] = true
	}
	assert.Len(t, ids, 3, "section ids are unique")
}

func TestSegmentMarkdownHeadings(t *testing.T) {
	sections := DefaultHeadingPolicy().Segment("notes.md", 1, "# Venue\nBook the hall early.\n## Menu\nVegetarian options for all guests.\n", core.SourceNative)

	require.Len(t, sections, 2)
	assert.Equal(t, "Venue", sections[0].Title)
	assert.Equal(t, "Menu", sections[1].Title)
}

func TestSegmentEmptyPage(t *testing.T) {
	assert.Empty(t, DefaultHeadingPolicy().Segment("doc", 1, "  \n\n 3 \n", core.SourceNative))
}

func TestSegmentIsDeterministic(t *testing.T) {
	text := "Overview\nThe plan.\nBudget Notes\nCosts rose."
	a := DefaultHeadingPolicy().Segment("doc", 4, text, core.SourceNative)
	b := DefaultHeadingPolicy().Segment("doc", 4, text, core.SourceNative)
	assert.Equal(t, a, b)
}

func TestNormalizedLength(t *testing.T) {
	assert.Equal(t, 0, normalizedLength(" \n\t "))
	assert.Equal(t, 7, normalizedLength("  a  b\n\n c d "))
}
