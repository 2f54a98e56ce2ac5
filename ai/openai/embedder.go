package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/poiesic/personarank/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	// MaxBatchInputs bounds the texts sent in one request.
	MaxBatchInputs = 256

	// MaxInputRunes bounds the length of one text. Longer section bodies are
	// cut; the head of a section carries its topic.
	MaxInputRunes = 8000
)

// ErrResponseSize is returned when the service answers with a different
// number of vectors than texts sent.
var ErrResponseSize = errors.New("embedding response size mismatch")

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
type Embedder struct {
	embedder embeddings.Embedder
	logger   *slog.Logger
}

// newEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken(config.APIToken),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	// Section bodies keep their line structure; newlines are stripped only
	// for the request payload.
	embedder, err := embeddings.NewEmbedder(client,
		embeddings.WithStripNewLines(true),
		embeddings.WithBatchSize(MaxBatchInputs),
	)
	if err != nil {
		return nil, err
	}
	return wrap(embedder), nil
}

func wrap(embedder embeddings.Embedder) *Embedder {
	return &Embedder{
		embedder: embedder,
		logger:   slog.Default().With("component", "openai-embedder"),
	}
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText embeds one text as a query.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vector, err := e.embedder.EmbedQuery(ctx, clip(text))
	if err != nil {
		e.logger.Error("failed to embed query", "length", len(text), "err", err)
		return nil, err
	}
	return vector, nil
}

// EmbedTexts embeds texts as documents, MaxBatchInputs per request.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	vectors := make([][]float32, 0, len(texts))
	for batch := range slices.Chunk(texts, MaxBatchInputs) {
		clipped := make([]string, len(batch))
		for i, text := range batch {
			clipped[i] = clip(text)
		}

		e.logger.Debug("embedding batch", "count", len(clipped))
		out, err := e.embedder.EmbedDocuments(ctx, clipped)
		if err != nil {
			e.logger.Error("failed to embed batch", "count", len(clipped), "err", err)
			return nil, err
		}
		if len(out) != len(clipped) {
			return nil, fmt.Errorf("%w: sent %d texts, got %d vectors", ErrResponseSize, len(clipped), len(out))
		}
		vectors = append(vectors, out...)
	}
	return vectors, nil
}

func clip(text string) string {
	if len(text) <= MaxInputRunes {
		return text
	}
	runes := []rune(text)
	if len(runes) <= MaxInputRunes {
		return text
	}
	return string(runes[:MaxInputRunes])
}
