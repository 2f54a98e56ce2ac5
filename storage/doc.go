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

// Package storage provides the embedding cache abstraction for personarank.
//
// Embedding a section is the most expensive step of a relevance request.
// The EmbeddingCache interface lets the scorer reuse vectors across runs,
// keyed by KeyFor(model, text). Two backends are provided:
//
//   - badger: persistent cache on BadgerDB
//   - memory: bounded in-process LRU
//
// # Constructor Return Type Pattern
//
// Public constructors return the storage.EmbeddingCache interface:
//
//	cache, err := badger.OpenEmbeddingCache("/path/to/cache")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cache.Close()
//
// # Serialization
//
// Vectors are stored with mus-go: a varint component count followed by
// fixed-width float32 components (MarshalVector, UnmarshalVector).
//
// # Thread Safety
//
// All cache implementations must be safe for concurrent use.
package storage
