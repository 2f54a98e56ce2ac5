package storage

import (
	"context"
)

// Entry pairs a cache key with its embedding.
type Entry struct {
	Key    Key
	Vector []float32
}

// EmbeddingCache stores section and query embeddings between runs.
// Implementations must be thread-safe and support concurrent access.
type EmbeddingCache interface {
	// Get looks up embeddings for keys. The result has one slot per key,
	// in key order; misses are nil. A miss is not an error.
	Get(ctx context.Context, keys ...Key) ([][]float32, error)

	// Put stores one or more embeddings, replacing existing entries.
	Put(ctx context.Context, entries ...Entry) error

	// Len returns the number of cached embeddings.
	Len(ctx context.Context) (int, error)

	// Close releases resources held by the cache.
	// Operations after Close return ErrCacheClosed.
	Close() error
}
