// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/personarank/storage"
)

// embeddingCache implements storage.EmbeddingCache on a Backend.
type embeddingCache struct {
	backend     *Backend
	ownsBackend bool
	closed      atomic.Bool
}

var _ storage.EmbeddingCache = (*embeddingCache)(nil)

// NewEmbeddingCache creates an embedding cache on an open backend.
// Closing the cache leaves the backend open.
func NewEmbeddingCache(backend *Backend) (storage.EmbeddingCache, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend cannot be nil")
	}
	return &embeddingCache{backend: backend}, nil
}

// OpenEmbeddingCache opens a persistent embedding cache in dir.
// The cache owns its backend and closes it on Close.
func OpenEmbeddingCache(dir string, logger *slog.Logger) (storage.EmbeddingCache, error) {
	backend, err := OpenBackend(dir, false, logger)
	if err != nil {
		return nil, err
	}
	return &embeddingCache{backend: backend, ownsBackend: true}, nil
}

func (c *embeddingCache) Get(ctx context.Context, keys ...storage.Key) ([][]float32, error) {
	if c.closed.Load() {
		return nil, storage.ErrCacheClosed
	}
	results := make([][]float32, len(keys))

	err := c.backend.View(func(tx *badger.Txn) error {
		for i, key := range keys {
			if err := ctx.Err(); err != nil {
				return err
			}
			item, err := tx.Get(makeEmbeddingKey(key))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			err = item.Value(func(val []byte) error {
				vector, err := storage.UnmarshalVector(val)
				if err != nil {
					return err
				}
				results[i] = vector
				return nil
			})
			if err != nil {
				return fmt.Errorf("decoding embedding %s: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (c *embeddingCache) Put(ctx context.Context, entries ...storage.Entry) error {
	if c.closed.Load() {
		return storage.ErrCacheClosed
	}
	if len(entries) == 0 {
		return nil
	}
	return c.backend.WriteBatch(func(wb *badger.WriteBatch) error {
		for _, e := range entries {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := wb.Set(makeEmbeddingKey(e.Key), storage.MarshalVector(e.Vector)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *embeddingCache) Len(ctx context.Context) (int, error) {
	if c.closed.Load() {
		return 0, storage.ErrCacheClosed
	}
	return c.backend.CountPrefix([]byte(embeddingPrefix))
}

// Close marks the cache closed and, when the cache owns it, closes the backend.
func (c *embeddingCache) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	if c.ownsBackend {
		return c.backend.Close()
	}
	return nil
}
