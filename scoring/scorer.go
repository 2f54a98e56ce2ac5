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

package scoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/personarank/ai"
	"github.com/poiesic/personarank/core"
	"github.com/poiesic/personarank/storage"
)

const (
	// DefaultBatchSize is the number of sections embedded per backend call.
	DefaultBatchSize = 32
	// DefaultSemanticWeight is the share of the score taken by embedding similarity.
	DefaultSemanticWeight = 0.7
	// DefaultKeywordWeight is the share of the score taken by keyword overlap.
	DefaultKeywordWeight = 0.3
)

// Scorer assigns every section a relevance score against a persona context.
// It is safe for concurrent use; each call must use its own PersonaContext.
type Scorer struct {
	embedder       ai.Embedder
	pool           *ants.Pool
	batchSize      int
	semanticWeight float64
	keywordWeight  float64
	degraded       bool
	cache          storage.EmbeddingCache
	model          string
	monitor        Monitor
	logger         *slog.Logger
}

// Option configures a Scorer.
type Option func(*Scorer) error

// WithBatchSize sets the number of sections per embedding call.
// Default is 32.
func WithBatchSize(size int) Option {
	return func(s *Scorer) error {
		if size < 1 {
			size = 1
		}
		s.batchSize = size
		return nil
	}
}

// WithPoolSize sets the number of concurrent embedding batches.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(s *Scorer) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if s.pool != nil {
			s.pool.Release()
		}
		s.pool = pool
		return nil
	}
}

// WithWeights sets the blend of semantic and keyword sub-scores.
func WithWeights(semantic, keyword float64) Option {
	return func(s *Scorer) error {
		if semantic < 0 || keyword < 0 || math.Abs(semantic+keyword-1) > 1e-9 {
			return fmt.Errorf("%w: got %v and %v", ErrInvalidWeights, semantic, keyword)
		}
		s.semanticWeight = semantic
		s.keywordWeight = keyword
		return nil
	}
}

// WithDegradedMode makes backend failures fall back to keyword-only scores
// instead of failing the request.
func WithDegradedMode(enabled bool) Option {
	return func(s *Scorer) error {
		s.degraded = enabled
		return nil
	}
}

// WithCache reuses embeddings stored under model. A nil cache disables caching.
func WithCache(cache storage.EmbeddingCache, model string) Option {
	return func(s *Scorer) error {
		s.cache = cache
		s.model = model
		return nil
	}
}

// WithMonitor installs hooks observing each Score call.
func WithMonitor(monitor Monitor) Option {
	return func(s *Scorer) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		s.monitor = monitor
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scorer) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger.With("component", "scorer")
		return nil
	}
}

// NewScorer creates a scorer with its embedding worker pool.
func NewScorer(embedder ai.Embedder, opts ...Option) (*Scorer, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	s := &Scorer{
		embedder:       embedder,
		pool:           pool,
		batchSize:      DefaultBatchSize,
		semanticWeight: DefaultSemanticWeight,
		keywordWeight:  DefaultKeywordWeight,
		monitor:        &noopMonitor{},
		logger:         slog.Default().With("component", "scorer"),
	}

	for _, opt := range opts {
		if optErr := opt(s); optErr != nil {
			s.Release()
			return nil, optErr
		}
	}
	return s, nil
}

// Release releases the worker pool.
// The scorer should not be used after calling Release.
func (s *Scorer) Release() {
	if s.pool != nil {
		s.pool.Release()
	}
}

// Score returns one ScoredSection per section, in input order.
//
// Backend failures return an error wrapping core.ErrScoring unless degraded
// mode is on, in which case every section gets its keyword score and the
// Degraded flag. Cancelling ctx stops new batches; batches already running
// finish and ctx.Err() is returned.
func (s *Scorer) Score(ctx context.Context, pc *core.PersonaContext, sections []*core.Section) ([]*core.ScoredSection, error) {
	if err := core.ValidatePersonaContext(pc); err != nil {
		return nil, err
	}
	s.monitor.Start(pc.Query, len(sections))

	matcher := newKeywordMatcher(pc.Keywords)
	scored := make([]*core.ScoredSection, len(sections))
	for i, section := range sections {
		scored[i] = &core.ScoredSection{
			Section: section,
			Keyword: matcher.score(section.Text()),
		}
	}
	if len(sections) == 0 {
		s.monitor.Finish(scored)
		return scored, nil
	}

	vectors, queryVector, err := s.embed(ctx, pc, sections)
	if err == nil {
		err = s.blend(scored, queryVector, vectors)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if !s.degraded {
			return nil, fmt.Errorf("%w: %w", core.ErrScoring, err)
		}
		s.logger.Warn("embedding backend unavailable, scoring by keywords only", "err", err, "sections", len(sections))
		s.monitor.Degraded(err)
		for _, ss := range scored {
			ss.Semantic = 0
			ss.Score = ss.Keyword
			ss.Degraded = true
		}
	}

	s.monitor.Finish(scored)
	return scored, nil
}

func (s *Scorer) blend(scored []*core.ScoredSection, query []float32, vectors [][]float32) error {
	for i, ss := range scored {
		if len(vectors[i]) != len(query) {
			return fmt.Errorf("%w: section %d has %d dimensions, query has %d",
				ErrDimensionMismatch, ss.Section.ID, len(vectors[i]), len(query))
		}
		ss.Semantic = SemanticScore(query, vectors[i])
		ss.Score = clamp01(s.semanticWeight*ss.Semantic + s.keywordWeight*ss.Keyword)
	}
	return nil
}

// embed returns section vectors in input order plus the query vector.
func (s *Scorer) embed(ctx context.Context, pc *core.PersonaContext, sections []*core.Section) ([][]float32, []float32, error) {
	started := time.Now()
	queryVector, err := pc.QueryEmbedding(ctx, s.embedOne)
	if err != nil {
		return nil, nil, fmt.Errorf("embedding query: %w", err)
	}
	s.monitor.QueryEmbedded(time.Since(started))

	texts := make([]string, len(sections))
	for i, section := range sections {
		texts[i] = section.Text()
	}
	vectors, err := s.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, nil, err
	}
	return vectors, queryVector, nil
}

// embedOne embeds a single text, consulting the cache first.
func (s *Scorer) embedOne(ctx context.Context, text string) ([]float32, error) {
	if cached := s.lookup(ctx, []string{text}); cached[0] != nil {
		return cached[0], nil
	}
	vector, err := s.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}
	vector = NormalizeVector(vector)
	s.store(ctx, []string{text}, [][]float32{vector})
	return vector, nil
}

// EmbedTexts embeds texts in batches on the worker pool and returns the
// vectors in input order. Backend vectors are scaled to unit length before
// they are cached or compared. Cached vectors are not recomputed; new vectors
// are written back to the cache.
func (s *Scorer) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := s.lookup(ctx, texts)

	missing := make([]int, 0, len(texts))
	for i, v := range vectors {
		if v == nil {
			missing = append(missing, i)
		}
	}
	s.monitor.CacheLookup(len(texts)-len(missing), len(missing))
	if len(missing) == 0 {
		return vectors, nil
	}

	batchCount := (len(missing) + s.batchSize - 1) / s.batchSize
	batchErrs := make([]error, batchCount)
	var wg sync.WaitGroup

	for b := 0; b < batchCount; b++ {
		if ctx.Err() != nil {
			break
		}
		start := b * s.batchSize
		end := min(start+s.batchSize, len(missing))
		indices := missing[start:end]

		task := func() {
			defer wg.Done()
			batchErrs[b] = s.embedBatch(ctx, texts, indices, vectors)
		}
		wg.Add(1)
		if err := s.pool.Submit(task); err != nil {
			s.logger.Debug("pool rejected batch, running inline", "batch", b, "err", err)
			task()
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := errors.Join(batchErrs...); err != nil {
		return nil, err
	}

	fresh := make([]string, len(missing))
	freshVectors := make([][]float32, len(missing))
	for i, idx := range missing {
		fresh[i] = texts[idx]
		freshVectors[i] = vectors[idx]
	}
	s.store(ctx, fresh, freshVectors)
	return vectors, nil
}

// embedBatch embeds texts at indices and writes each vector into its slot.
func (s *Scorer) embedBatch(ctx context.Context, texts []string, indices []int, vectors [][]float32) error {
	batch := make([]string, len(indices))
	for i, idx := range indices {
		batch[i] = texts[idx]
	}

	started := time.Now()
	embedded, err := s.embedder.EmbedTexts(ctx, batch)
	if err != nil {
		return err
	}
	if len(embedded) != len(batch) {
		return fmt.Errorf("backend returned %d vectors for %d texts", len(embedded), len(batch))
	}
	for i, idx := range indices {
		vectors[idx] = NormalizeVector(embedded[i])
	}
	s.monitor.BatchEmbedded(len(batch), time.Since(started))
	return nil
}

// lookup returns cached vectors for texts; misses and cache failures are nil.
func (s *Scorer) lookup(ctx context.Context, texts []string) [][]float32 {
	if s.cache == nil {
		return make([][]float32, len(texts))
	}
	keys := make([]storage.Key, len(texts))
	for i, text := range texts {
		keys[i] = storage.KeyFor(s.model, text)
	}
	vectors, err := s.cache.Get(ctx, keys...)
	if err != nil || len(vectors) != len(texts) {
		s.logger.Warn("embedding cache lookup failed", "err", err)
		return make([][]float32, len(texts))
	}
	return vectors
}

func (s *Scorer) store(ctx context.Context, texts []string, vectors [][]float32) {
	if s.cache == nil {
		return
	}
	entries := make([]storage.Entry, len(texts))
	for i, text := range texts {
		entries[i] = storage.Entry{Key: storage.KeyFor(s.model, text), Vector: vectors[i]}
	}
	if err := s.cache.Put(ctx, entries...); err != nil {
		s.logger.Warn("embedding cache write failed", "err", err, "entries", len(entries))
	}
}
