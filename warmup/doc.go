// Package warmup pre-computes section embeddings into an embedding cache.
//
// A warm-up run extracts nothing itself: callers pass section texts, which
// are deduplicated, split into batches, checked against the cache and
// embedded with retry and exponential backoff. Progress is written to an
// io.Writer as the run advances.
package warmup
