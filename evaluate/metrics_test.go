package evaluate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	truth := []Section{
		{Title: "Packing Tips", Score: 0.9},
		{Title: "Nightlife", Score: 0.8},
		{Title: "History", Score: 0.2},
		{Title: "Museums", Score: 0.1},
		{Title: "Only In Truth", Score: 0.9},
	}

	t.Run("mixed outcomes", func(t *testing.T) {
		predicted := []Section{
			{Title: "packing tips ", Score: 0.7}, // tp
			{Title: "Nightlife", Score: 0.3},     // fn
			{Title: "History", Score: 0.6},       // fp
			{Title: "Museums", Score: 0.4},       // tn
			{Title: "Only Predicted", Score: 0.9},
		}
		m := Evaluate(predicted, truth, 0)

		assert.Equal(t, 4, m.Common)
		assert.Equal(t, 5, m.Predicted)
		assert.Equal(t, 5, m.Truth)
		assert.InDelta(t, 0.5, m.Accuracy, 1e-9)
		assert.InDelta(t, 0.5, m.Precision, 1e-9)
		assert.InDelta(t, 0.5, m.Recall, 1e-9)
		assert.InDelta(t, 0.5, m.F1, 1e-9)
	})

	t.Run("perfect agreement", func(t *testing.T) {
		m := Evaluate(truth, truth, DefaultThreshold)
		assert.Equal(t, 5, m.Common)
		assert.Equal(t, 1.0, m.Accuracy)
		assert.Equal(t, 1.0, m.Precision)
		assert.Equal(t, 1.0, m.Recall)
		assert.Equal(t, 1.0, m.F1)
	})

	t.Run("no positive predictions divides to zero", func(t *testing.T) {
		predicted := []Section{{Title: "Packing Tips", Score: 0.1}}
		m := Evaluate(predicted, truth, 0)
		assert.Equal(t, 1, m.Common)
		assert.Zero(t, m.Accuracy)
		assert.Zero(t, m.Precision)
		assert.Zero(t, m.Recall)
		assert.Zero(t, m.F1)
	})

	t.Run("no common titles", func(t *testing.T) {
		m := Evaluate([]Section{{Title: "Elsewhere", Score: 1}}, truth, 0)
		assert.Zero(t, m.Common)
		assert.Zero(t, m.Accuracy)
		assert.Equal(t, 1, m.Predicted)
	})

	t.Run("custom threshold", func(t *testing.T) {
		predicted := []Section{{Title: "History", Score: 0.3}}
		m := Evaluate(predicted, truth, 0.15)
		assert.Equal(t, 1.0, m.Accuracy)
		assert.Equal(t, 1.0, m.Precision)
	})
}

func TestCompare(t *testing.T) {
	predicted := []Section{
		{Title: "Packing Tips", Score: 0.7},
		{Title: "Only Predicted", Score: 0.4},
		{Title: "packing tips", Score: 0.1},
	}
	truth := []Section{
		{Title: "PACKING TIPS", Score: 0.9},
		{Title: "Only In Truth", Score: 0.6},
	}

	rows := Compare(predicted, truth)
	require.Len(t, rows, 3)

	assert.Equal(t, "Only In Truth", rows[0].Title)
	assert.InDelta(t, 0.6, rows[0].Difference, 1e-9)
	assert.False(t, rows[0].InPredicted)
	assert.True(t, rows[0].InTruth)

	assert.Equal(t, "Only Predicted", rows[1].Title)
	assert.InDelta(t, 0.4, rows[1].Difference, 1e-9)
	assert.True(t, rows[1].InPredicted)
	assert.False(t, rows[1].InTruth)

	assert.Equal(t, "Packing Tips", rows[2].Title)
	assert.InDelta(t, 0.7, rows[2].Predicted, 1e-9)
	assert.InDelta(t, 0.9, rows[2].Truth, 1e-9)
	assert.InDelta(t, 0.2, rows[2].Difference, 1e-9)
}
