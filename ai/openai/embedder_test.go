package openai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbeddings struct {
	batches [][]string
	queries []string
	short   bool
	err     error
}

func (f *fakeEmbeddings) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	f.batches = append(f.batches, texts)
	if f.err != nil {
		return nil, f.err
	}
	n := len(texts)
	if f.short {
		n--
	}
	out := make([][]float32, n)
	for i := range out {
		out[i] = []float32{float32(len(texts[i])), 1}
	}
	return out, nil
}

func (f *fakeEmbeddings) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	f.queries = append(f.queries, text)
	if f.err != nil {
		return nil, f.err
	}
	return []float32{float32(len(text)), 0}, nil
}

func TestEmbedder_EmbedTexts(t *testing.T) {
	ctx := context.Background()

	t.Run("splits large requests", func(t *testing.T) {
		fake := &fakeEmbeddings{}
		texts := make([]string, MaxBatchInputs+10)
		for i := range texts {
			texts[i] = strings.Repeat("x", i%7+1)
		}

		vectors, err := wrap(fake).EmbedTexts(ctx, texts)
		require.NoError(t, err)
		require.Len(t, vectors, len(texts))
		require.Len(t, fake.batches, 2)
		assert.Len(t, fake.batches[0], MaxBatchInputs)
		assert.Len(t, fake.batches[1], 10)
		for i, v := range vectors {
			assert.Equal(t, float32(len(texts[i])), v[0], "order preserved")
		}
	})

	t.Run("empty input makes no request", func(t *testing.T) {
		fake := &fakeEmbeddings{}
		vectors, err := wrap(fake).EmbedTexts(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, vectors)
		assert.Empty(t, fake.batches)
	})

	t.Run("short response", func(t *testing.T) {
		_, err := wrap(&fakeEmbeddings{short: true}).EmbedTexts(ctx, []string{"a", "b"})
		assert.ErrorIs(t, err, ErrResponseSize)
	})

	t.Run("service error", func(t *testing.T) {
		boom := errors.New("503")
		_, err := wrap(&fakeEmbeddings{err: boom}).EmbedTexts(ctx, []string{"a"})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("long texts are clipped", func(t *testing.T) {
		fake := &fakeEmbeddings{}
		long := strings.Repeat("é", MaxInputRunes+50)
		_, err := wrap(fake).EmbedTexts(ctx, []string{long})
		require.NoError(t, err)
		assert.Equal(t, MaxInputRunes, len([]rune(fake.batches[0][0])))
	})
}

func TestEmbedder_EmbedText(t *testing.T) {
	fake := &fakeEmbeddings{}
	vector, err := wrap(fake).EmbedText(context.Background(), "vegetarian buffet")
	require.NoError(t, err)
	assert.Equal(t, []float32{17, 0}, vector)
	assert.Equal(t, []string{"vegetarian buffet"}, fake.queries)
}
