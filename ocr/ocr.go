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

// Package ocr defines the optical recognition fallback used for pages whose
// native text layer is missing or too short.
//
// A Recognizer turns an encoded page image into text. A Rasterizer renders a
// page of a container format (PDF) into an image the Recognizer can read.
// Implementations live in sub-packages:
//
//   - ocr/tesseract: Tesseract via gosseract (requires libtesseract)
//   - ocr/pdftoppm: PDF rasterization with poppler's pdftoppm
//   - ocr/mock: Test doubles
package ocr

import (
	"context"
	"errors"
)

// ErrNoText is returned by recognizers that ran successfully but found nothing.
var ErrNoText = errors.New("no text recognized")

// Recognizer extracts text from an encoded image (PNG, JPEG, TIFF).
// Implementations must be safe for concurrent use.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// Rasterizer renders one page (1-based) of a document into an encoded image.
// Implementations must be safe for concurrent use.
type Rasterizer interface {
	Rasterize(ctx context.Context, document []byte, page int) ([]byte, error)
}
