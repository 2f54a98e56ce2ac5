// Package tesseract implements ocr.Recognizer with the Tesseract engine.
package tesseract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"github.com/poiesic/personarank/ocr"
)

// Recognizer runs Tesseract on page images. A gosseract client is not safe for
// concurrent use, so each call creates its own.
type Recognizer struct {
	languages []string
	logger    *slog.Logger
}

// Option configures a Recognizer.
type Option func(*Recognizer)

// WithLanguages sets the Tesseract language packs, e.g. "eng", "deu".
// Blank entries are ignored; with none left the default is kept.
func WithLanguages(langs ...string) Option {
	return func(r *Recognizer) {
		kept := make([]string, 0, len(langs))
		for _, lang := range langs {
			if lang = strings.TrimSpace(lang); lang != "" {
				kept = append(kept, lang)
			}
		}
		if len(kept) > 0 {
			r.languages = kept
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recognizer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// DefaultLanguage is used when no language pack is configured.
const DefaultLanguage = "eng"

// NewRecognizer creates a Tesseract recognizer. Defaults to English.
func NewRecognizer(opts ...Option) *Recognizer {
	r := &Recognizer{
		languages: []string{DefaultLanguage},
		logger:    slog.Default().With("component", "tesseract"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ ocr.Recognizer = (*Recognizer)(nil)

// Recognize returns the text Tesseract finds in image.
func (r *Recognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(r.languages...); err != nil {
		return "", fmt.Errorf("tesseract language: %w", err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("tesseract image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	text = strings.TrimSpace(text)
	r.logger.Debug("recognized page image", "bytes", len(image), "chars", len(text))
	if text == "" {
		return "", ocr.ErrNoText
	}
	return text, nil
}
