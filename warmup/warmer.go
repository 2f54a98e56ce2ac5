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

package warmup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/poiesic/personarank/ai"
	"github.com/poiesic/personarank/core"
	"github.com/poiesic/personarank/storage"
)

// Config holds configuration for a warm-up run.
type Config struct {
	// BatchSize is the number of texts sent to the backend per call
	BatchSize int `yaml:"batch_size"`

	// ReportInterval is how often to report progress (number of texts)
	ReportInterval int `yaml:"report_interval"`

	// MaxRetries is the maximum number of attempts per batch
	MaxRetries int `yaml:"max_retries"`

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration `yaml:"retry_delay"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      32,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Report summarizes a finished run.
type Report struct {
	Total    int
	Embedded int
	Cached   int
	Elapsed  time.Duration
}

// Warmer fills an embedding cache ahead of relevance requests so later
// scoring of the same sections skips the backend.
type Warmer struct {
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	logger    *slog.Logger
}

// NewWarmer creates a warmer storing vectors from embedder under model.
// progress: where to write progress output (typically os.Stderr), may be io.Discard
func NewWarmer(cache storage.EmbeddingCache, embedder ai.Embedder, model string, config *Config, progress io.Writer, logger *slog.Logger) (*Warmer, error) {
	if cache == nil {
		return nil, ErrCacheRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultConfig().BatchSize
	}
	if progress == nil {
		progress = io.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "warmup")

	policy := RetryPolicy{MaxAttempts: config.MaxRetries, BaseDelay: config.RetryDelay}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}

	return &Warmer{
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(cache, embedder, model, policy, logger),
		logger:    logger,
	}, nil
}

// WarmSections embeds the text of every section, as the scorer would.
func (w *Warmer) WarmSections(ctx context.Context, sections []*core.Section) (*Report, error) {
	texts := make([]string, len(sections))
	for i, s := range sections {
		texts[i] = s.Text()
	}
	return w.Run(ctx, texts)
}

// Run embeds texts in batches. Duplicate texts are embedded once.
// A failing batch stops the run; batches already written stay cached.
func (w *Warmer) Run(ctx context.Context, texts []string) (*Report, error) {
	unique := make([]string, 0, len(texts))
	seen := make(map[string]struct{}, len(texts))
	for _, t := range texts {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		unique = append(unique, t)
	}

	report := &Report{Total: len(unique)}
	if len(unique) == 0 {
		fmt.Fprintf(w.progress, "Nothing to warm (0 texts)\n")
		return report, nil
	}

	fmt.Fprintf(w.progress, "Warming embedding cache with %d texts (batch size: %d)\n",
		len(unique), w.config.BatchSize)

	tracker := NewProgressTracker(w.progress, len(unique), w.config.ReportInterval)
	tracker.Start()

	for batch := range slices.Chunk(unique, w.config.BatchSize) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		embedded, cached, err := w.processor.Process(ctx, batch)
		if err != nil {
			w.logger.Error("warm-up batch failed", "size", len(batch), "err", err)
			return nil, fmt.Errorf("failed to process batch: %w", err)
		}
		tracker.Add(embedded, cached)
	}

	tracker.Finish()

	report.Embedded, report.Cached = tracker.Counts()
	report.Elapsed = tracker.Elapsed()
	fmt.Fprintf(w.progress, "Warm-up complete. %d embedded, %d already cached in %v\n",
		report.Embedded, report.Cached, report.Elapsed.Round(time.Millisecond))
	return report, nil
}
