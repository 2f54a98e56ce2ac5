package tesseract

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRecognizer(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want []string
	}{
		{"default", nil, []string{DefaultLanguage}},
		{"languages", []Option{WithLanguages("deu", "eng")}, []string{"deu", "eng"}},
		{"no languages keeps default", []Option{WithLanguages()}, []string{DefaultLanguage}},
		{"blank languages keep default", []Option{WithLanguages("", "  ")}, []string{DefaultLanguage}},
		{"blank entries dropped", []Option{WithLanguages(" fra ", "")}, []string{"fra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecognizer(tt.opts...)
			assert.Equal(t, tt.want, r.languages)
		})
	}

	t.Run("nil logger keeps default", func(t *testing.T) {
		r := NewRecognizer(WithLogger(nil))
		assert.NotNil(t, r.logger)

		logger := slog.New(slog.DiscardHandler)
		assert.Same(t, logger, NewRecognizer(WithLogger(logger)).logger)
	})
}

func TestRecognizer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRecognizer().Recognize(ctx, []byte("not an image"))
	assert.ErrorIs(t, err, context.Canceled)
}
