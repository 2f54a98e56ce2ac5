package extract

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/personarank/core"
	"github.com/poiesic/personarank/ocr"
)

// DefaultMinTextLength is the normalized text length below which a page is
// treated as scanned.
const DefaultMinTextLength = 50

type parser func(data []byte) ([]*core.Page, error)

var parsers = map[core.Format]parser{
	core.FormatPDF:   parsePDF,
	core.FormatDOCX:  parseDOCX,
	core.FormatXLSX:  parseXLSX,
	core.FormatText:  parseText,
	core.FormatImage: parseImage,
}

// Extractor parses documents and segments their pages into sections.
// It is safe for concurrent use.
type Extractor struct {
	pool          *ants.Pool
	recognizer    ocr.Recognizer
	rasterizer    ocr.Rasterizer
	minTextLength int
	policy        HeadingPolicy
	logger        *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor) error

// WithRecognizer sets the OCR engine. Without one, scanned pages are skipped.
func WithRecognizer(recognizer ocr.Recognizer) Option {
	return func(e *Extractor) error {
		e.recognizer = recognizer
		return nil
	}
}

// WithRasterizer sets the renderer used to turn PDF pages into images for OCR.
func WithRasterizer(rasterizer ocr.Rasterizer) Option {
	return func(e *Extractor) error {
		e.rasterizer = rasterizer
		return nil
	}
}

// WithPoolSize sets the number of pages processed concurrently.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(e *Extractor) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if e.pool != nil {
			e.pool.Release()
		}
		e.pool = pool
		return nil
	}
}

// WithMinTextLength sets the scanned-page threshold in normalized characters.
func WithMinTextLength(n int) Option {
	return func(e *Extractor) error {
		if n < 0 {
			n = 0
		}
		e.minTextLength = n
		return nil
	}
}

// WithHeadingPolicy replaces the heading heuristics.
func WithHeadingPolicy(policy HeadingPolicy) Option {
	return func(e *Extractor) error {
		e.policy = policy
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger.With("component", "extractor")
		return nil
	}
}

// NewExtractor creates an extractor with its page worker pool.
func NewExtractor(opts ...Option) (*Extractor, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	e := &Extractor{
		pool:          pool,
		minTextLength: DefaultMinTextLength,
		policy:        DefaultHeadingPolicy(),
		logger:        slog.Default().With("component", "extractor"),
	}
	for _, opt := range opts {
		if optErr := opt(e); optErr != nil {
			e.Release()
			return nil, optErr
		}
	}
	return e, nil
}

// Release releases the worker pool.
// The extractor should not be used after calling Release.
func (e *Extractor) Release() {
	if e.pool != nil {
		e.pool.Release()
	}
}

// Parse detects the format and reads the page structure without running
// OCR or segmentation. Failures wrap core.ErrExtraction.
func (e *Extractor) Parse(name string, data []byte) (*core.Document, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrExtraction, name, ErrEmptyDocument)
	}

	format, err := DetectFormat(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrExtraction, name, err)
	}

	pages, err := parsers[format](data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrExtraction, name, err)
	}

	id := name
	if id == "" {
		id = fmt.Sprintf("%016x", uint64(core.IDFromContent(string(data))))
	}

	e.logger.Debug("parsed document", "document", id, "format", format, "pages", len(pages))
	return &core.Document{ID: id, Format: format, Pages: pages}, nil
}

// Extract parses the document and returns a stream over its sections.
// Parsing happens before Extract returns; page processing starts when the
// stream is first iterated.
func (e *Extractor) Extract(ctx context.Context, name string, data []byte) (*Stream, error) {
	doc, err := e.Parse(name, data)
	if err != nil {
		return nil, err
	}
	return &Stream{ctx: ctx, extractor: e, doc: doc, raw: data}, nil
}

// processPage resolves the page's text, running OCR when the native layer is
// too short, and segments it.
func (e *Extractor) processPage(ctx context.Context, doc *core.Document, raw []byte, page *core.Page) PageResult {
	result := PageResult{Page: page.Number, Source: core.SourceNative}
	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	text := page.Text
	if normalizedLength(text) < e.minTextLength && supportsOCR(doc.Format) {
		recognized, err := e.recognize(ctx, doc, raw, page)
		if ctxErr := ctx.Err(); ctxErr != nil {
			result.Err = ctxErr
			return result
		}
		switch {
		case err == nil && normalizedLength(recognized) > normalizedLength(text):
			text = recognized
			result.Source = core.SourceOCR
		case err == nil:
		case strings.TrimSpace(text) != "":
			e.logger.Warn("ocr failed, keeping short native text",
				"document", doc.ID, "page", page.Number, "err", err)
		default:
			result.Err = fmt.Errorf("%w: %s page %d: %w", core.ErrOcrUnavailable, doc.ID, page.Number, err)
			e.logger.Warn("skipping page", "document", doc.ID, "page", page.Number, "err", err)
			return result
		}
	}

	page.Source = result.Source
	if doc.Format == core.FormatXLSX {
		result.Sections = segmentSheet(doc.ID, page.Number, text, result.Source)
	} else {
		result.Sections = e.policy.Segment(doc.ID, page.Number, text, result.Source)
	}
	return result
}

func (e *Extractor) recognize(ctx context.Context, doc *core.Document, raw []byte, page *core.Page) (string, error) {
	if e.recognizer == nil {
		return "", ErrNoRecognizer
	}

	image := page.Image
	if len(image) == 0 {
		if doc.Format != core.FormatPDF || e.rasterizer == nil {
			return "", ErrNoPageImage
		}
		var err error
		image, err = e.rasterizer.Rasterize(ctx, raw, page.Number)
		if err != nil {
			return "", err
		}
	}

	return e.recognizer.Recognize(ctx, image)
}

func supportsOCR(format core.Format) bool {
	return format == core.FormatPDF || format == core.FormatImage
}
