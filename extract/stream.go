package extract

import (
	"context"
	"errors"
	"iter"
	"sync/atomic"

	"github.com/poiesic/personarank/core"
)

// PageResult is the outcome of one page: either its sections, or the reason
// it was skipped.
type PageResult struct {
	Page     int
	Sections []*core.Section
	Source   core.TextSource
	Err      error // Non-nil when the page was skipped
}

// Skipped reports whether the page produced no result.
func (r PageResult) Skipped() bool {
	return r.Err != nil
}

// Stream yields the sections of one document. It can be iterated once;
// later iterations yield nothing.
type Stream struct {
	ctx       context.Context
	extractor *Extractor
	doc       *core.Document
	raw       []byte
	consumed  atomic.Bool
	err       error
}

type pageSlot struct {
	done   chan struct{}
	result PageResult
}

// Document returns the parsed document.
func (s *Stream) Document() *core.Document {
	return s.doc
}

// Err returns the context error that stopped iteration, if any. It is
// meaningful once iteration has finished. OCR skips are not errors; they are
// reported per page.
func (s *Stream) Err() error {
	return s.err
}

// Pages yields one result per page in page order. Pages are processed
// concurrently; stopping early cancels the pages not yet started.
func (s *Stream) Pages() iter.Seq[PageResult] {
	return func(yield func(PageResult) bool) {
		if !s.consumed.CompareAndSwap(false, true) {
			return
		}

		ctx, cancel := context.WithCancel(s.ctx)
		defer cancel()

		slots := make([]*pageSlot, len(s.doc.Pages))
		for i := range slots {
			slots[i] = &pageSlot{done: make(chan struct{})}
		}
		go s.submit(ctx, slots)

		for _, slot := range slots {
			<-slot.done
			if slot.result.Err != nil && !errors.Is(slot.result.Err, core.ErrOcrUnavailable) {
				s.err = slot.result.Err
				return
			}
			if !yield(slot.result) {
				return
			}
		}
	}
}

func (s *Stream) submit(ctx context.Context, slots []*pageSlot) {
	for i, page := range s.doc.Pages {
		slot := slots[i]
		task := func() {
			slot.result = s.extractor.processPage(ctx, s.doc, s.raw, page)
			close(slot.done)
		}
		if ctx.Err() != nil {
			task()
			continue
		}
		if err := s.extractor.pool.Submit(task); err != nil {
			s.extractor.logger.Debug("pool rejected page, running inline", "page", page.Number, "err", err)
			task()
		}
	}
}

// Sections yields every section of every page that was not skipped.
func (s *Stream) Sections() iter.Seq[*core.Section] {
	return func(yield func(*core.Section) bool) {
		for result := range s.Pages() {
			if result.Skipped() {
				continue
			}
			for _, section := range result.Sections {
				if !yield(section) {
					return
				}
			}
		}
	}
}

// Collect drains the stream. It returns the sections, the skipped pages, and
// the context error if the run was cancelled.
func (s *Stream) Collect() ([]*core.Section, []PageResult, error) {
	var (
		sections []*core.Section
		skipped  []PageResult
	)
	for result := range s.Pages() {
		if result.Skipped() {
			skipped = append(skipped, result)
			continue
		}
		sections = append(sections, result.Sections...)
	}
	if err := s.Err(); err != nil {
		return nil, nil, err
	}
	return sections, skipped, nil
}
