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

// Package openai embeds section text through an OpenAI-compatible endpoint
// (OpenAI, Ollama, LocalAI, vLLM) using langchaingo.
//
// Queries go through EmbedQuery and sections through EmbedDocuments, split
// into requests of at most MaxBatchInputs texts. Texts longer than
// MaxInputRunes are cut before sending.
//
//	provider, err := openai.NewProvider(ai.NewConfig(
//	    ai.WithEmbeddingHost("http://localhost:11434"), // /v1 added automatically
//	    ai.WithEmbeddingModel("nomic-embed-text"),
//	))
//	if err != nil {
//	    return err
//	}
//	defer provider.Close()
package openai
