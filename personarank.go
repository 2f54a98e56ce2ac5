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

package personarank

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/personarank/ai"
	"github.com/poiesic/personarank/core"
	"github.com/poiesic/personarank/extract"
	"github.com/poiesic/personarank/persona"
	"github.com/poiesic/personarank/ranking"
	"github.com/poiesic/personarank/scoring"
)

// ErrEmbedderRequired is returned by New when no embedder is given.
var ErrEmbedderRequired = errors.New("embedder is required")

// Engine runs the extract, score and rank pipeline. It holds no per-request
// state and is safe for concurrent use.
type Engine struct {
	extractor *extract.Extractor
	builder   *persona.Builder
	scorer    *scoring.Scorer
	timeout   time.Duration
	logger    *slog.Logger
}

// New creates an engine around the given embedder.
func New(embedder ai.Embedder, opts ...Option) (*Engine, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	options := &engineOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	extractOpts := []extract.Option{
		extract.WithRecognizer(options.recognizer),
		extract.WithRasterizer(options.rasterizer),
		extract.WithLogger(options.logger),
	}
	scoreOpts := []scoring.Option{
		scoring.WithDegradedMode(options.degraded),
		scoring.WithLogger(options.logger),
	}
	if options.poolSize > 0 {
		extractOpts = append(extractOpts, extract.WithPoolSize(options.poolSize))
		scoreOpts = append(scoreOpts, scoring.WithPoolSize(options.poolSize))
	}
	if options.minTextLength != nil {
		extractOpts = append(extractOpts, extract.WithMinTextLength(*options.minTextLength))
	}
	if options.batchSize > 0 {
		scoreOpts = append(scoreOpts, scoring.WithBatchSize(options.batchSize))
	}
	if options.cache != nil {
		scoreOpts = append(scoreOpts, scoring.WithCache(options.cache, options.model))
	}
	if options.monitor != nil {
		scoreOpts = append(scoreOpts, scoring.WithMonitor(options.monitor))
	}

	var builderOpts []persona.Option
	if options.catalog != nil {
		builderOpts = append(builderOpts, persona.WithCatalog(options.catalog))
	}
	builder, err := persona.NewBuilder(builderOpts...)
	if err != nil {
		return nil, err
	}

	extractor, err := extract.NewExtractor(extractOpts...)
	if err != nil {
		return nil, err
	}
	scorer, err := scoring.NewScorer(embedder, scoreOpts...)
	if err != nil {
		extractor.Release()
		return nil, err
	}

	return &Engine{
		extractor: extractor,
		builder:   builder,
		scorer:    scorer,
		timeout:   options.timeout,
		logger:    options.logger.With("component", "engine"),
	}, nil
}

// Close releases the worker pools. The embedder and cache belong to the
// caller and are left open.
func (e *Engine) Close() error {
	e.extractor.Release()
	e.scorer.Release()
	return nil
}

// Catalog returns the persona catalog used to build contexts.
func (e *Engine) Catalog() *persona.Catalog {
	return e.builder.Catalog()
}

// Extract returns the sections of one document in page order. Pages whose
// OCR failed are skipped. Parse failures wrap core.ErrExtraction.
func (e *Engine) Extract(ctx context.Context, name string, data []byte) ([]*core.Section, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	sections, _, err := e.extract(ctx, name, data)
	if err != nil {
		return nil, e.timeoutErr(ctx, err)
	}
	return sections, nil
}

func (e *Engine) extract(ctx context.Context, name string, data []byte) ([]*core.Section, []extract.PageResult, error) {
	stream, err := e.extractor.Extract(ctx, name, data)
	if err != nil {
		return nil, nil, err
	}
	sections, skipped, err := stream.Collect()
	if err != nil {
		return nil, nil, err
	}
	for _, page := range skipped {
		e.logger.Info("page skipped", "document", stream.Document().ID, "page", page.Page, "err", page.Err)
	}
	return sections, skipped, nil
}

// BuildContext builds the persona context for one request.
func (e *Engine) BuildContext(role, task string) *core.PersonaContext {
	return e.builder.Build(role, task)
}

// ScoreAndRank scores sections against pc and ranks them under cfg.
// It fails with core.ErrScoring when the embedding backend fails and with
// core.ErrTimeout when the engine timeout elapses. No partial ranking is
// returned on failure.
func (e *Engine) ScoreAndRank(ctx context.Context, pc *core.PersonaContext, sections []*core.Section, cfg ranking.Config) ([]*core.ScoredSection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	scored, err := e.scorer.Score(ctx, pc, sections)
	if err != nil {
		return nil, e.timeoutErr(ctx, err)
	}
	return ranking.Rank(scored, cfg)
}

func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeoutCause(ctx, e.timeout, core.ErrTimeout)
}

// timeoutErr reports core.ErrTimeout when err came from the engine's own
// deadline rather than the caller's context.
func (e *Engine) timeoutErr(ctx context.Context, err error) error {
	if errors.Is(context.Cause(ctx), core.ErrTimeout) && !errors.Is(err, core.ErrTimeout) {
		return fmt.Errorf("%w: after %s", core.ErrTimeout, e.timeout)
	}
	return err
}
