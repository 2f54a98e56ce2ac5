package warmup

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when a retry policy allows no attempts.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrCacheRequired is returned when a Warmer is created without a cache.
	ErrCacheRequired = errors.New("embedding cache required")

	// ErrEmbedderRequired is returned when a Warmer is created without an embedder.
	ErrEmbedderRequired = errors.New("embedder required")
)
