package scoring

import "errors"

var (
	// ErrEmbedderRequired is returned when no embedder is provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrInvalidWeights is returned when the blend weights are negative or do not sum to 1.
	ErrInvalidWeights = errors.New("semantic and keyword weights must be non-negative and sum to 1")

	// ErrDimensionMismatch is returned when a section vector and the query
	// vector have different lengths.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
