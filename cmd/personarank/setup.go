package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/poiesic/personarank"
	"github.com/poiesic/personarank/ai"
	"github.com/poiesic/personarank/ai/local"
	"github.com/poiesic/personarank/ai/openai"
	"github.com/poiesic/personarank/ocr/pdftoppm"
	"github.com/poiesic/personarank/ocr/tesseract"
	"github.com/poiesic/personarank/storage"
	"github.com/poiesic/personarank/storage/badger"
	"github.com/poiesic/personarank/storage/memory"
)

// newProvider is replaced in tests.
var newProvider = func(cfg *ai.Config) (ai.Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	switch cfg.Backend {
	case ai.BackendHugot:
		return local.NewProvider(cfg)
	default:
		return openai.NewProvider(cfg)
	}
}

// session bundles what a pipeline command opens and must close.
type session struct {
	engine   *personarank.Engine
	provider ai.Provider
	cache    storage.EmbeddingCache
}

func (s *session) Close() error {
	var errs []error
	if s.engine != nil {
		errs = append(errs, s.engine.Close())
	}
	if s.cache != nil {
		errs = append(errs, s.cache.Close())
	}
	if s.provider != nil {
		errs = append(errs, s.provider.Close())
	}
	return errors.Join(errs...)
}

func openCache(cfg *Config) (storage.EmbeddingCache, error) {
	switch {
	case cfg.Cache.Dir != "":
		cache, err := badger.OpenEmbeddingCache(cfg.Cache.Dir, slog.Default())
		if err != nil {
			return nil, fmt.Errorf("failed to open embedding cache: %w", err)
		}
		return cache, nil
	case cfg.Cache.Memory > 0:
		return memory.NewEmbeddingCache(cfg.Cache.Memory), nil
	}
	return nil, nil
}

func openSession(cfg *Config) (*session, error) {
	provider, err := newProvider(cfg.aiConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding provider: %w", err)
	}
	sess := &session{provider: provider}

	sess.cache, err = openCache(cfg)
	if err != nil {
		sess.Close()
		return nil, err
	}

	opts := []personarank.Option{
		personarank.WithTimeout(cfg.Timeout),
		personarank.WithDegradedMode(cfg.Degraded),
		personarank.WithBatchSize(cfg.BatchSize),
		personarank.WithPoolSize(cfg.PoolSize),
		personarank.WithLogger(slog.Default()),
	}
	if cfg.MinTextLength >= 0 {
		opts = append(opts, personarank.WithMinTextLength(cfg.MinTextLength))
	}
	if sess.cache != nil {
		opts = append(opts, personarank.WithCache(sess.cache, provider.Model()))
	}
	if cfg.OCR.Enabled {
		opts = append(opts, personarank.WithRecognizer(tesseract.NewRecognizer(
			tesseract.WithLanguages(cfg.OCR.Languages...),
			tesseract.WithLogger(slog.Default()),
		)))
		rasterizer, rerr := pdftoppm.NewRasterizer(cfg.OCR.DPI)
		if rerr != nil {
			slog.Warn("scanned PDF pages will be skipped", "err", rerr)
		} else {
			opts = append(opts, personarank.WithRasterizer(rasterizer))
		}
	}

	sess.engine, err = personarank.New(provider.Embedder(), opts...)
	if err != nil {
		sess.Close()
		return nil, err
	}
	return sess, nil
}

// readDocuments loads every path. Documents are named by base file name.
func readDocuments(paths []string) ([]personarank.Document, error) {
	if len(paths) == 0 {
		return nil, errors.New("at least one document is required")
	}
	docs := make([]personarank.Document, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading document: %w", err)
		}
		docs = append(docs, personarank.Document{Name: filepath.Base(path), Data: data})
	}
	return docs, nil
}
