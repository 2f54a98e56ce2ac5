package ai

import "context"

// Embedder turns text into dense vectors. Queries and section bodies share
// one vector space so their cosine similarity is meaningful.
// Implementations must be safe for concurrent use.
type Embedder interface {
	// EmbedText embeds a single text, typically the persona query.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts embeds a batch of section texts. The result has one vector
	// per input, in input order. Any failure fails the whole batch.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Provider owns an embedding backend and its resources.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Model identifies the embedding model. Embedding caches are keyed by it
	// so vectors from different models never mix.
	Model() string

	// Close releases the backend. The Embedder must not be used afterwards.
	Close() error
}
