package warmup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/personarank/ai"
	"github.com/poiesic/personarank/scoring"
	"github.com/poiesic/personarank/storage"
)

// BatchProcessor embeds one batch of texts and stores the vectors.
type BatchProcessor struct {
	cache    storage.EmbeddingCache
	embedder ai.Embedder
	model    string
	policy   RetryPolicy
	logger   *slog.Logger
}

// NewBatchProcessor creates a new batch processor writing to cache under model.
func NewBatchProcessor(cache storage.EmbeddingCache, embedder ai.Embedder, model string, policy RetryPolicy, logger *slog.Logger) *BatchProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchProcessor{
		cache:    cache,
		embedder: embedder,
		model:    model,
		policy:   policy,
		logger:   logger,
	}
}

// Process embeds the texts of a batch that are not cached yet and writes
// them to the cache. It returns how many texts were embedded and how many
// were already cached.
func (bp *BatchProcessor) Process(ctx context.Context, texts []string) (embedded, cached int, err error) {
	if len(texts) == 0 {
		return 0, 0, nil
	}

	keys := make([]storage.Key, len(texts))
	for i, text := range texts {
		keys[i] = storage.KeyFor(bp.model, text)
	}
	existing, err := bp.cache.Get(ctx, keys...)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read cache: %w", err)
	}

	missing := make([]string, 0, len(texts))
	missingKeys := make([]storage.Key, 0, len(texts))
	for i, vector := range existing {
		if vector == nil {
			missing = append(missing, texts[i])
			missingKeys = append(missingKeys, keys[i])
		}
	}
	cached = len(texts) - len(missing)
	if len(missing) == 0 {
		return 0, cached, nil
	}

	var embeddings [][]float32
	err = RetryWithBackoff(ctx, bp.policy, bp.logger, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, missing)
		return err
	})
	if err != nil {
		return 0, cached, fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.policy.MaxAttempts, err)
	}

	if len(embeddings) != len(missing) {
		return 0, cached, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(missing), len(embeddings))
	}

	entries := make([]storage.Entry, len(missing))
	for i := range missing {
		entries[i] = storage.Entry{Key: missingKeys[i], Vector: scoring.NormalizeVector(embeddings[i])}
	}
	if err := bp.cache.Put(ctx, entries...); err != nil {
		return 0, cached, fmt.Errorf("failed to write cache: %w", err)
	}

	return len(missing), cached, nil
}
