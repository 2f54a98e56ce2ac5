package storage

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalVector(t *testing.T) {
	tests := []struct {
		name   string
		vector []float32
	}{
		{"empty", []float32{}},
		{"single", []float32{0.5}},
		{"mixed signs", []float32{-1, 0, 1, 0.25, -0.125}},
		{"extremes", []float32{math.MaxFloat32, math.SmallestNonzeroFloat32}},
		{"long", make([]float32, 384)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalVector(tt.vector)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalVector(data)
			require.NoError(t, err)
			assert.Equal(t, tt.vector, decoded)
		})
	}
}

func TestUnmarshalVector_Invalid(t *testing.T) {
	t.Run("empty data", func(t *testing.T) {
		_, err := UnmarshalVector([]byte{})
		assert.ErrorIs(t, err, ErrCorruptVector)
	})

	t.Run("truncated components", func(t *testing.T) {
		data := MarshalVector([]float32{1, 2, 3})
		_, err := UnmarshalVector(data[:len(data)-2])
		assert.ErrorIs(t, err, ErrShortVector)
	})
}

func TestKeyFor(t *testing.T) {
	a := KeyFor("openai:nomic-embed-text", "Introduction")
	b := KeyFor("openai:nomic-embed-text", "Introduction")
	assert.Equal(t, a, b)

	assert.NotEqual(t, a, KeyFor("hugot:all-MiniLM-L6-v2", "Introduction"))
	assert.NotEqual(t, a, KeyFor("openai:nomic-embed-text", "Introduction."))
	// Model and text boundaries are not interchangeable.
	assert.NotEqual(t, KeyFor("ab", "c"), KeyFor("a", "bc"))

	assert.Len(t, a.String(), 32)
}
