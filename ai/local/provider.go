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

package local

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/poiesic/personarank/ai"
)

// DefaultModel produces 384-dimensional sentence embeddings.
const DefaultModel = "sentence-transformers/all-MiniLM-L6-v2"

// Provider implements ai.Provider with a sentence-transformer model running
// in process on hugot's pure Go backend.
type Provider struct {
	model    string
	session  *hugot.Session
	embedder *Embedder
	logger   *slog.Logger
}

// Embedder implements ai.Embedder on a hugot feature extraction pipeline.
type Embedder struct {
	mu       sync.Mutex
	pipeline *pipelines.FeatureExtractionPipeline
	logger   *slog.Logger
}

// NewProvider prepares the configured model (downloading it when missing)
// and starts a hugot session.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Backend != ai.BackendHugot {
		return nil, fmt.Errorf("ai config: backend %q is not %q", config.Backend, ai.BackendHugot)
	}

	modelPath, err := prepareModel(config.EmbeddingModel, config.ModelDir)
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	pipelineConfig := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "section-embedder",
	}
	pipeline, err := hugot.NewPipeline(session, pipelineConfig)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create embedding pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create embedding pipeline: %w", err)
	}

	logger := slog.Default().With("component", "hugot-embedder")
	return &Provider{
		model:   config.EmbeddingModel,
		session: session,
		embedder: &Embedder{
			pipeline: pipeline,
			logger:   logger,
		},
		logger: logger,
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Model returns the local model name.
func (p *Provider) Model() string {
	return "hugot:" + p.model
}

// Close destroys the hugot session.
func (p *Provider) Close() error {
	p.logger.Debug("closing hugot provider")
	return p.session.Destroy()
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts runs the pipeline over a batch. Calls are serialized on the
// pipeline; the context is checked before the batch starts.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.logger.Debug("generating embeddings for texts", "count", len(texts))
	result, err := e.pipeline.RunPipeline(texts)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(result.Embeddings) != len(texts) {
		return nil, errors.New("embedding count does not match input count")
	}
	return result.Embeddings, nil
}
