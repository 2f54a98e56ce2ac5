package openai

import (
	"testing"

	"github.com/poiesic/personarank/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		cfg := ai.NewConfig(
			ai.WithEmbeddingHost("http://localhost:11434"),
			ai.WithEmbeddingModel("nomic-embed-text"),
		)

		provider, err := NewProvider(cfg)
		require.NoError(t, err)
		defer provider.Close()

		assert.NotNil(t, provider.Embedder())
		assert.Equal(t, "openai:nomic-embed-text", provider.Model())
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost, "host normalized in place")
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := NewProvider(ai.NewConfig(ai.WithEmbeddingModel("")))
		assert.Error(t, err)
	})
}
