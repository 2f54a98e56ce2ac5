package badger

import "github.com/poiesic/personarank/storage"

// NewMemoryEmbeddingCache creates an in-memory badger-backed cache for testing.
// The cache owns its backend; closing the cache closes the database.
func NewMemoryEmbeddingCache() (storage.EmbeddingCache, error) {
	backend, err := OpenBackend("", true, nil)
	if err != nil {
		return nil, err
	}
	return &embeddingCache{backend: backend, ownsBackend: true}, nil
}
