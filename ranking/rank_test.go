package ranking

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/personarank/core"
)

func scoredSection(doc string, page, offset int, title, body string, score float64) *core.ScoredSection {
	return &core.ScoredSection{
		Section: &core.Section{
			ID:         core.SectionID(doc, page, offset),
			DocumentID: doc,
			Page:       page,
			Title:      title,
			Body:       body,
		},
		Score: score,
	}
}

func ids(sections []*core.ScoredSection) []string {
	out := make([]string, len(sections))
	for i, ss := range sections {
		out[i] = ss.Section.Title
	}
	return out
}

func assertRanks(t *testing.T, sections []*core.ScoredSection) {
	t.Helper()
	seen := make(map[int]bool)
	for _, ss := range sections {
		assert.GreaterOrEqual(t, ss.Rank, 1)
		assert.LessOrEqual(t, ss.Rank, len(sections))
		assert.False(t, seen[ss.Rank], "duplicate rank %d", ss.Rank)
		seen[ss.Rank] = true
	}
}

func fixture() []*core.ScoredSection {
	return []*core.ScoredSection{
		scoredSection("a.pdf", 3, 0, "Budget", "Quarterly budget figures.", 0.60),
		scoredSection("a.pdf", 1, 0, "Revenue", "Revenue grew 20% in Q2.", 0.90),
		scoredSection("b.pdf", 2, 0, "Risks", "Risks include supply delays.", 0.75),
		scoredSection("b.pdf", 1, 0, "Team", "The team grew to twelve.", 0.30),
		scoredSection("a.pdf", 4, 0, "Outlook", "Outlook remains positive.", 0.75),
	}
}

func TestRank_ScoreOrder(t *testing.T) {
	ranked, err := Rank(fixture(), DefaultConfig())
	require.NoError(t, err)

	// The tie at 0.75 is broken by page.
	assert.Equal(t, []string{"Revenue", "Risks", "Outlook", "Budget", "Team"}, ids(ranked))
	for i, ss := range ranked {
		assert.Equal(t, i+1, ss.Rank)
	}
}

func TestRank_TieBreakBySectionID(t *testing.T) {
	a := scoredSection("doc", 1, 0, "A", "first", 0.5)
	b := scoredSection("doc", 1, 100, "B", "second", 0.5)

	ranked, err := Rank([]*core.ScoredSection{b, a}, DefaultConfig())
	require.NoError(t, err)

	if a.Section.ID < b.Section.ID {
		assert.Equal(t, []string{"A", "B"}, ids(ranked))
	} else {
		assert.Equal(t, []string{"B", "A"}, ids(ranked))
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	input := fixture()
	before := make([]core.ScoredSection, len(input))
	for i, ss := range input {
		before[i] = *ss
	}

	ranked, err := Rank(input, DefaultConfig())
	require.NoError(t, err)
	require.NotEmpty(t, ranked)

	for i, ss := range input {
		assert.Equal(t, before[i], *ss)
		assert.Zero(t, ss.Rank)
	}
	assert.NotSame(t, input[1], ranked[0])
}

func TestRank_Idempotent(t *testing.T) {
	input := fixture()
	cfg := Config{MaxCount: 3, MinScore: 0.5, SortBy: SortByPage, DuplicateThreshold: 0.95}

	first, err := Rank(input, cfg)
	require.NoError(t, err)
	second, err := Rank(input, cfg)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, *first[i], *second[i])
	}
}

func TestRank_MinScore(t *testing.T) {
	t.Run("filters below threshold", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MinScore = 0.7
		ranked, err := Rank(fixture(), cfg)
		require.NoError(t, err)
		assert.Equal(t, []string{"Revenue", "Risks", "Outlook"}, ids(ranked))
		assertRanks(t, ranked)
	})

	t.Run("one with no perfect score is empty", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MinScore = 1.0
		ranked, err := Rank(fixture(), cfg)
		require.NoError(t, err)
		assert.Empty(t, ranked)
	})
}

func TestRank_Search(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Search = "  GREW "
	ranked, err := Rank(fixture(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"Revenue", "Team"}, ids(ranked))
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 2, ranked[1].Rank)

	t.Run("matches title", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Search = "outlook"
		ranked, err := Rank(fixture(), cfg)
		require.NoError(t, err)
		assert.Equal(t, []string{"Outlook"}, ids(ranked))
	})
}

func TestRank_MaxCount(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxCount = 2
	ranked, err := Rank(fixture(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"Revenue", "Risks"}, ids(ranked))
}

func TestRank_MaxPerDocument(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxPerDocument = 1
	ranked, err := Rank(fixture(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"Revenue", "Risks"}, ids(ranked))
	assertRanks(t, ranked)
}

func TestRank_SortBy(t *testing.T) {
	t.Run("page", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.SortBy = SortByPage
		ranked, err := Rank(fixture(), cfg)
		require.NoError(t, err)
		// Page 1 entries ordered by rank: Revenue (1) before Team (5).
		assert.Equal(t, []string{"Revenue", "Team", "Risks", "Budget", "Outlook"}, ids(ranked))
		assert.Equal(t, 1, ranked[0].Rank)
		assert.Equal(t, 5, ranked[1].Rank)
	})

	t.Run("document", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.SortBy = SortByDocument
		ranked, err := Rank(fixture(), cfg)
		require.NoError(t, err)
		assert.Equal(t, []string{"Revenue", "Budget", "Outlook", "Team", "Risks"}, ids(ranked))
	})

	t.Run("ranks stay in score order", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.SortBy = SortByDocument
		cfg.MinScore = 0.5
		ranked, err := Rank(fixture(), cfg)
		require.NoError(t, err)
		assertRanks(t, ranked)
		assert.Len(t, ranked, 4)
	})
}

func TestRank_Deduplicate(t *testing.T) {
	t.Run("table of contents repeated on two pages", func(t *testing.T) {
		input := []*core.ScoredSection{
			scoredSection("doc", 1, 0, "Table of Contents", "1. Introduction 2. Methods 3. Results", 0.40),
			scoredSection("doc", 2, 0, "Table of Contents", "1. Introduction 2. Methods 3. Results", 0.45),
			scoredSection("doc", 3, 0, "Methods", "We surveyed forty kitchens.", 0.80),
		}
		ranked, err := Rank(input, DefaultConfig())
		require.NoError(t, err)
		require.Len(t, ranked, 2)

		var toc []*core.ScoredSection
		for _, ss := range ranked {
			if ss.Section.Title == "Table of Contents" {
				toc = append(toc, ss)
			}
		}
		require.Len(t, toc, 1)
		assert.Equal(t, 2, toc[0].Section.Page)
		assert.Equal(t, 0.45, toc[0].Score)
		assertRanks(t, ranked)
	})

	t.Run("cosmetic differences collapse", func(t *testing.T) {
		input := []*core.ScoredSection{
			scoredSection("doc", 1, 0, "ACME Corp  Confidential", "Do not distribute.", 0.2),
			scoredSection("doc", 2, 0, "Acme Corp, confidential", "Do not distribute", 0.1),
		}
		ranked, err := Rank(input, DefaultConfig())
		require.NoError(t, err)
		assert.Len(t, ranked, 1)
	})

	t.Run("different documents are kept", func(t *testing.T) {
		input := []*core.ScoredSection{
			scoredSection("a.pdf", 1, 0, "Table of Contents", "Intro", 0.4),
			scoredSection("b.pdf", 1, 0, "Table of Contents", "Intro", 0.4),
		}
		ranked, err := Rank(input, DefaultConfig())
		require.NoError(t, err)
		assert.Len(t, ranked, 2)
	})

	t.Run("distinct text is kept", func(t *testing.T) {
		ranked, err := Rank(fixture(), DefaultConfig())
		require.NoError(t, err)
		assert.Len(t, ranked, 5)
	})

	t.Run("zero threshold disables", func(t *testing.T) {
		input := []*core.ScoredSection{
			scoredSection("doc", 1, 0, "Header", "Same", 0.4),
			scoredSection("doc", 2, 0, "Header", "Same", 0.4),
		}
		cfg := DefaultConfig()
		cfg.DuplicateThreshold = 0
		ranked, err := Rank(input, cfg)
		require.NoError(t, err)
		assert.Len(t, ranked, 2)
	})

	t.Run("dedupe runs before truncation", func(t *testing.T) {
		input := make([]*core.ScoredSection, 0, 10)
		for i := range 10 {
			input = append(input, scoredSection("doc", i+1, 0, "Footer", "Company confidential", 0.9))
		}
		input = append(input, scoredSection("doc", 20, 0, "Findings", "Results were positive.", 0.1))

		cfg := DefaultConfig()
		cfg.MaxCount = 2
		ranked, err := Rank(input, cfg)
		require.NoError(t, err)
		assert.Equal(t, []string{"Footer", "Findings"}, ids(ranked))
	})
}

func TestRank_SkipsNil(t *testing.T) {
	input := []*core.ScoredSection{nil, {Score: 1}, scoredSection("doc", 1, 0, "Only", "body", 0.5)}
	ranked, err := Rank(input, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"Only"}, ids(ranked))
}

func TestRank_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero max count", Config{MaxCount: 0}},
		{"negative min score", Config{MaxCount: 1, MinScore: -0.1}},
		{"min score above one", Config{MaxCount: 1, MinScore: 1.1}},
		{"threshold above one", Config{MaxCount: 1, DuplicateThreshold: 2}},
		{"negative per document", Config{MaxCount: 1, MaxPerDocument: -1}},
		{"unknown sort", Config{MaxCount: 1, SortBy: "title"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Rank(fixture(), tt.cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestParseSortBy(t *testing.T) {
	for in, want := range map[string]SortBy{"": SortByScore, "Score": SortByScore, " page ": SortByPage, "DOCUMENT": SortByDocument} {
		t.Run(fmt.Sprintf("%q", in), func(t *testing.T) {
			got, err := ParseSortBy(in)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
	_, err := ParseSortBy("relevance")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRank_LargeInputRanksArePermutation(t *testing.T) {
	input := make([]*core.ScoredSection, 0, 200)
	for i := range 200 {
		input = append(input, scoredSection(fmt.Sprintf("doc%d", i%7), i%13+1, i,
			fmt.Sprintf("Heading %d", i), fmt.Sprintf("Unique body %d with text", i), float64(i%10)/10))
	}
	cfg := DefaultConfig()
	cfg.MaxCount = 50
	cfg.SortBy = SortByDocument

	ranked, err := Rank(input, cfg)
	require.NoError(t, err)
	assert.Len(t, ranked, 50)
	assertRanks(t, ranked)
	for _, ss := range ranked {
		assert.GreaterOrEqual(t, ss.Score, 0.0)
		assert.LessOrEqual(t, ss.Score, 1.0)
	}
}
