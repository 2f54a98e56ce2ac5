// Package mock provides test doubles for the ocr interfaces.
package mock

import (
	"context"
	"sync/atomic"
)

// Recognizer is a test double for ocr.Recognizer.
type Recognizer struct {
	// RecognizeFunc is called by Recognize if set.
	// If nil, Recognize returns Text.
	RecognizeFunc func(ctx context.Context, image []byte) (string, error)
	Text          string

	calls atomic.Int64
}

// Recognize counts the call and delegates to RecognizeFunc.
func (r *Recognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	r.calls.Add(1)
	if r.RecognizeFunc != nil {
		return r.RecognizeFunc(ctx, image)
	}
	return r.Text, nil
}

// CallCount returns the number of Recognize calls.
func (r *Recognizer) CallCount() int {
	return int(r.calls.Load())
}

// Rasterizer is a test double for ocr.Rasterizer.
type Rasterizer struct {
	// RasterizeFunc is called by Rasterize if set.
	// If nil, Rasterize returns a fixed placeholder image.
	RasterizeFunc func(ctx context.Context, document []byte, page int) ([]byte, error)

	calls atomic.Int64
}

// Rasterize counts the call and delegates to RasterizeFunc.
func (r *Rasterizer) Rasterize(ctx context.Context, document []byte, page int) ([]byte, error) {
	r.calls.Add(1)
	if r.RasterizeFunc != nil {
		return r.RasterizeFunc(ctx, document, page)
	}
	return []byte("image"), nil
}

// CallCount returns the number of Rasterize calls.
func (r *Rasterizer) CallCount() int {
	return int(r.calls.Load())
}
