package persona

import (
	"slices"
	"strings"

	"github.com/poiesic/personarank/core"
)

// DefaultTopN is the number of task terms kept by FrequencyExtraction.
const DefaultTopN = 10

// DefaultTaskWeight scales task terms merged into catalog keywords.
const DefaultTaskWeight = 0.5

// KeywordSource derives weighted keywords for a role and task.
// An empty result means the source has nothing to offer for the request.
type KeywordSource interface {
	Kind() core.KeywordSource
	Keywords(role, task string) map[string]float64
}

// FrequencyExtraction weights the top task terms by frequency.
type FrequencyExtraction struct {
	TopN int
}

func (f *FrequencyExtraction) Kind() core.KeywordSource {
	return core.KeywordsFromFrequency
}

// Keywords ignores role and extracts terms from task. Each kept term is
// weighted by its count over the highest count; ties keep first occurrence.
func (f *FrequencyExtraction) Keywords(_ string, task string) map[string]float64 {
	topN := f.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	type termCount struct {
		term  string
		count int
		first int
	}
	counts := make(map[string]*termCount)
	for i, t := range terms(task) {
		if tc, ok := counts[t]; ok {
			tc.count++
			continue
		}
		counts[t] = &termCount{term: t, count: 1, first: i}
	}
	if len(counts) == 0 {
		return nil
	}

	ranked := make([]*termCount, 0, len(counts))
	for _, tc := range counts {
		ranked = append(ranked, tc)
	}
	slices.SortFunc(ranked, func(a, b *termCount) int {
		if a.count != b.count {
			return b.count - a.count
		}
		return a.first - b.first
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	maxCount := float64(ranked[0].count)
	out := make(map[string]float64, len(ranked))
	for _, tc := range ranked {
		out[tc.term] = float64(tc.count) / maxCount
	}
	return out
}

// CatalogLookup takes keywords from the catalog profile matching the role.
// Section patterns the task mentions, task-triggered patterns and task terms
// are merged in.
type CatalogLookup struct {
	Catalog    *Catalog
	Task       *FrequencyExtraction
	TaskWeight float64
}

func (c *CatalogLookup) Kind() core.KeywordSource {
	return core.KeywordsFromCatalog
}

// Keywords returns nil when the role is not in the catalog.
func (c *CatalogLookup) Keywords(role, task string) map[string]float64 {
	catalog := c.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	profile, ok := catalog.Lookup(role)
	if !ok {
		return nil
	}

	out := profile.Weights()

	taskWords := words(task)
	for _, p := range profile.SectionPatterns {
		if mentions(taskWords, p) {
			merge(out, strings.ToLower(p), PatternWeight)
		}
	}
	for _, tp := range taskPatterns {
		if !containsAny(taskWords, tp.triggers) {
			continue
		}
		for _, p := range tp.patterns {
			merge(out, p, PatternWeight)
		}
	}

	extractor := c.Task
	if extractor == nil {
		extractor = &FrequencyExtraction{}
	}
	for term, w := range extractor.Keywords(role, task) {
		merge(out, term, w*c.TaskWeight)
	}
	return out
}

// merge keeps the larger weight for term, capped at 1.
func merge(into map[string]float64, term string, weight float64) {
	weight = min(weight, 1)
	if weight <= 0 {
		return
	}
	if weight > into[term] {
		into[term] = weight
	}
}

// mentions reports whether phrase occurs in taskWords as a run of whole words.
func mentions(taskWords []string, phrase string) bool {
	want := words(phrase)
	if len(want) == 0 {
		return false
	}
	for i := 0; i+len(want) <= len(taskWords); i++ {
		if slices.Equal(taskWords[i:i+len(want)], want) {
			return true
		}
	}
	return false
}

func containsAny(haystack, needles []string) bool {
	for _, n := range needles {
		if slices.Contains(haystack, n) {
			return true
		}
	}
	return false
}
