package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		s := Summarize(nil)
		assert.Zero(t, s.Count)
		assert.Zero(t, s.Average)
		assert.Empty(t, s.PerDocument)
	})

	t.Run("statistics", func(t *testing.T) {
		sections := fixture()
		sections[0].Degraded = true
		s := Summarize(sections)

		assert.Equal(t, 5, s.Count)
		assert.InDelta(t, (0.6+0.9+0.75+0.3+0.75)/5, s.Average, 1e-9)
		assert.Equal(t, 0.9, s.Max)
		assert.Equal(t, 0.3, s.Min)
		assert.Equal(t, 1, s.Degraded)
		assert.Equal(t, map[string]int{"a.pdf": 3, "b.pdf": 2}, s.PerDocument)
		assert.Equal(t, 3+5+4+5+3, s.Words)
	})
}
