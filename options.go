package personarank

import (
	"errors"
	"log/slog"
	"time"

	"github.com/poiesic/personarank/ocr"
	"github.com/poiesic/personarank/persona"
	"github.com/poiesic/personarank/scoring"
	"github.com/poiesic/personarank/storage"
)

// ErrInvalidTimeout is returned for a negative timeout.
var ErrInvalidTimeout = errors.New("timeout cannot be negative")

// Option configures an Engine.
type Option func(*engineOptions) error

type engineOptions struct {
	recognizer    ocr.Recognizer
	rasterizer    ocr.Rasterizer
	cache         storage.EmbeddingCache
	model         string
	monitor       scoring.Monitor
	catalog       *persona.Catalog
	timeout       time.Duration
	degraded      bool
	batchSize     int
	poolSize      int
	minTextLength *int
	logger        *slog.Logger
}

// WithRecognizer sets the OCR engine used for scanned pages.
func WithRecognizer(recognizer ocr.Recognizer) Option {
	return func(o *engineOptions) error {
		o.recognizer = recognizer
		return nil
	}
}

// WithRasterizer sets the PDF page renderer used before OCR.
func WithRasterizer(rasterizer ocr.Rasterizer) Option {
	return func(o *engineOptions) error {
		o.rasterizer = rasterizer
		return nil
	}
}

// WithCache stores embeddings in cache, keyed by model.
func WithCache(cache storage.EmbeddingCache, model string) Option {
	return func(o *engineOptions) error {
		o.cache = cache
		o.model = model
		return nil
	}
}

// WithMonitor observes scoring runs.
func WithMonitor(monitor scoring.Monitor) Option {
	return func(o *engineOptions) error {
		o.monitor = monitor
		return nil
	}
}

// WithCatalog replaces the built-in persona catalog.
func WithCatalog(catalog *persona.Catalog) Option {
	return func(o *engineOptions) error {
		o.catalog = catalog
		return nil
	}
}

// WithTimeout caps the wall time of each Extract, ScoreAndRank and Analyze
// call. Zero means no limit.
func WithTimeout(timeout time.Duration) Option {
	return func(o *engineOptions) error {
		if timeout < 0 {
			return ErrInvalidTimeout
		}
		o.timeout = timeout
		return nil
	}
}

// WithDegradedMode scores by keywords alone when the embedding backend fails
// instead of failing the request.
func WithDegradedMode(enabled bool) Option {
	return func(o *engineOptions) error {
		o.degraded = enabled
		return nil
	}
}

// WithBatchSize sets the number of sections per embedding call.
func WithBatchSize(size int) Option {
	return func(o *engineOptions) error {
		o.batchSize = size
		return nil
	}
}

// WithPoolSize sets the page and embedding worker pool sizes.
func WithPoolSize(size int) Option {
	return func(o *engineOptions) error {
		o.poolSize = size
		return nil
	}
}

// WithMinTextLength sets the length below which a page is sent to OCR.
func WithMinTextLength(n int) Option {
	return func(o *engineOptions) error {
		o.minTextLength = &n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *engineOptions) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}
