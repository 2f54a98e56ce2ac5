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

package core

import (
	"context"
	"encoding/binary"
	"strconv"
	"sync"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// SectionID derives the stable identifier of a section from its position.
// The result depends only on the document id, page and offset, never on
// processing order.
func SectionID(documentID string, page, offset int) ID {
	h, _ := blake2b.New(8, nil)
	h.Write([]byte(documentID))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(page)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(offset)))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Format identifies the container format of a document.
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatDOCX  Format = "docx"
	FormatXLSX  Format = "xlsx"
	FormatText  Format = "text"
	FormatImage Format = "image"
)

// TextSource records where a page's text came from.
type TextSource string

const (
	// SourceNative is the document's own text layer.
	SourceNative TextSource = "native"
	// SourceOCR is text recovered by optical recognition.
	SourceOCR TextSource = "ocr"
)

// Document is a parsed document. It lives only for one pipeline run.
type Document struct {
	ID     string
	Format Format
	Pages  []*Page
}

// Page is a single page of a document.
type Page struct {
	Number int        // 1-based
	Text   string     // Native text layer, may be empty
	Image  []byte     // Encoded bitmap, set only when the parser already holds one
	Source TextSource // Origin of Text after extraction
}

// Section is a contiguous unit of text extracted from one page.
type Section struct {
	ID         ID
	DocumentID string
	Page       int
	Title      string // Heading guess, empty when the page had no heading
	Body       string
	Start      int // Character offset of the section within the page text
	End        int
	Source     TextSource
}

// Text returns the title and body joined for matching purposes.
func (s *Section) Text() string {
	if s.Title == "" {
		return s.Body
	}
	return s.Title + "\n" + s.Body
}

// KeywordSource names the strategy that produced a persona's keywords.
type KeywordSource string

const (
	KeywordsFromCatalog   KeywordSource = "catalog"
	KeywordsFromFrequency KeywordSource = "frequency"
)

// PersonaContext is the normalized query for one analysis request.
// It must not be shared across concurrent requests.
type PersonaContext struct {
	Role     string
	Task     string
	Query    string
	Keywords map[string]float64 // keyword -> weight in [0,1], never empty
	Source   KeywordSource

	mu             sync.Mutex
	queryEmbedding []float32
}

// QueryEmbedding returns the embedding of the context's query string.
// The first successful call invokes embed; later calls return the cached vector.
func (pc *PersonaContext) QueryEmbedding(ctx context.Context, embed func(context.Context, string) ([]float32, error)) ([]float32, error) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.queryEmbedding != nil {
		return pc.queryEmbedding, nil
	}
	vector, err := embed(ctx, pc.Query)
	if err != nil {
		return nil, err
	}
	pc.queryEmbedding = vector
	return vector, nil
}

// TotalWeight returns the sum of all keyword weights.
func (pc *PersonaContext) TotalWeight() float64 {
	var total float64
	for _, w := range pc.Keywords {
		total += w
	}
	return total
}

// ScoredSection is a Section with its relevance score and rank.
type ScoredSection struct {
	Section  *Section
	Score    float64 // Blended relevance in [0,1]
	Semantic float64 // (cosine+1)/2
	Keyword  float64 // Weighted keyword overlap
	Rank     int     // 1-based, assigned by ranking; 0 until ranked
	Degraded bool    // Scored without embeddings
}
