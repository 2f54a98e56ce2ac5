package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, BackendOpenAI, cfg.Backend)
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "nomic-embed-text", cfg.EmbeddingModel)
	assert.Equal(t, "none", cfg.APIToken)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("with custom host and model", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingHost("http://embed:8080/v1"),
			WithEmbeddingModel("text-embedding-3-small"),
			WithAPIToken("secret"),
		)

		assert.Equal(t, "http://embed:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
		assert.Equal(t, "secret", cfg.APIToken)
	})

	t.Run("with hugot backend", func(t *testing.T) {
		cfg := NewConfig(WithBackend(BackendHugot), WithModelDir("/tmp/models"))

		assert.Equal(t, BackendHugot, cfg.Backend)
		assert.Equal(t, "/tmp/models", cfg.ModelDir)
	})
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		expected string
	}{
		{name: "already has v1", host: "http://localhost:11434/v1", expected: "http://localhost:11434/v1"},
		{name: "missing v1", host: "http://localhost:11434", expected: "http://localhost:11434/v1"},
		{name: "trailing slash", host: "http://localhost:11434/", expected: "http://localhost:11434/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Backend: BackendOpenAI, EmbeddingHost: tt.host}
			cfg.Normalize()
			assert.Equal(t, tt.expected, cfg.EmbeddingHost)
		})
	}

	t.Run("hugot host untouched", func(t *testing.T) {
		cfg := &Config{Backend: BackendHugot, EmbeddingHost: "http://x"}
		cfg.Normalize()
		assert.Equal(t, "http://x", cfg.EmbeddingHost)
	})

	t.Run("fills empty backend and token", func(t *testing.T) {
		cfg := &Config{}
		cfg.Normalize()
		assert.Equal(t, BackendOpenAI, cfg.Backend)
		assert.Equal(t, "none", cfg.APIToken)
	})
}

func TestConfigValidate(t *testing.T) {
	t.Run("default is valid", func(t *testing.T) {
		require.NoError(t, DefaultConfig().Validate())
	})

	t.Run("missing model", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingModel(""))
		assert.ErrorContains(t, cfg.Validate(), "EmbeddingModel")
	})

	t.Run("missing host for openai", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingHost(""))
		assert.ErrorContains(t, cfg.Validate(), "EmbeddingHost")
	})

	t.Run("hugot does not need a host", func(t *testing.T) {
		cfg := NewConfig(WithBackend(BackendHugot), WithEmbeddingHost(""))
		assert.NoError(t, cfg.Validate())
	})

	t.Run("hugot needs a model dir", func(t *testing.T) {
		cfg := NewConfig(WithBackend(BackendHugot), WithModelDir(""))
		assert.ErrorContains(t, cfg.Validate(), "ModelDir")
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := NewConfig(WithBackend("word2vec"))
		assert.ErrorContains(t, cfg.Validate(), "unknown backend")
	})
}
