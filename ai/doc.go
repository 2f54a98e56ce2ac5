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

// Package ai provides abstractions for the embedding services used to score
// document sections.
//
// The package defines two interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - Provider: Owns an embedder, names its model and releases its resources
//
// # Implementation Packages
//
//   - ai/openai: OpenAI-compatible HTTP APIs (Ollama, LocalAI, vLLM, OpenAI)
//   - ai/local: In-process sentence transformers run by hugot (all-MiniLM-L6-v2 by default)
//   - ai/mock: Deterministic test doubles
//
// Public constructors return interface types. Mock constructors return
// concrete types so tests can inspect call counts and inject behavior.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithEmbeddingModel("nomic-embed-text"))
//	provider, err := openai.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "quarterly revenue")
package ai
