package persona

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/personarank/core"
)

func TestFrequencyExtraction(t *testing.T) {
	f := &FrequencyExtraction{}
	assert.Equal(t, core.KeywordsFromFrequency, f.Kind())

	t.Run("weights by frequency", func(t *testing.T) {
		kw := f.Keywords("", "Recipes, recipes and more recipes. Sides: salads and salads.")
		assert.Equal(t, 1.0, kw["recipes"])
		assert.InDelta(t, 2.0/3.0, kw["salads"], 1e-9)
		assert.InDelta(t, 1.0/3.0, kw["sides"], 1e-9)
		assert.NotContains(t, kw, "and")
	})

	t.Run("ties keep first occurrence", func(t *testing.T) {
		f := &FrequencyExtraction{TopN: 2}
		kw := f.Keywords("", "zebra apple mango")
		assert.Equal(t, map[string]float64{"zebra": 1, "apple": 1}, kw)
	})

	t.Run("short words dropped", func(t *testing.T) {
		assert.Empty(t, f.Keywords("", "go to it"))
	})

	t.Run("empty task", func(t *testing.T) {
		assert.Nil(t, f.Keywords("", ""))
	})
}

func TestCatalogLookup(t *testing.T) {
	c := &CatalogLookup{TaskWeight: DefaultTaskWeight}
	assert.Equal(t, core.KeywordsFromCatalog, c.Kind())

	t.Run("unknown role", func(t *testing.T) {
		assert.Nil(t, c.Keywords("Sommelier", "pair wines"))
	})

	t.Run("task never lowers catalog weight", func(t *testing.T) {
		kw := c.Keywords("Data Analyst", "dashboard dashboard dashboard")
		assert.Equal(t, PatternWeight, kw["dashboard"])
	})

	t.Run("only mentioned section patterns apply", func(t *testing.T) {
		kw := c.Keywords("Data Analyst", "find growth trends")
		assert.Equal(t, map[string]float64{
			"revenue": 0.9,
			"trend":   0.8,
			"metric":  0.7,
			"trends":  PatternWeight,
			"find":    DefaultTaskWeight,
			"growth":  DefaultTaskWeight,
		}, kw)
	})

	t.Run("multi-word pattern needs the whole phrase", func(t *testing.T) {
		kw := c.Keywords("Legal Counsel", "Review intellectual property clauses")
		assert.Equal(t, PatternWeight, kw["intellectual property"])

		kw = c.Keywords("Legal Counsel", "Review property clauses")
		assert.NotContains(t, kw, "intellectual property")
	})

	t.Run("signature trigger", func(t *testing.T) {
		kw := c.Keywords("Legal Counsel", "Sign the agreement")
		assert.Equal(t, PatternWeight, kw["esign"])
	})
}
