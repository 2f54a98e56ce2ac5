package personarank

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/poiesic/personarank/core"
	"github.com/poiesic/personarank/ranking"
)

// ErrNoDocuments is returned by Analyze for a request without documents.
var ErrNoDocuments = errors.New("request has no documents")

// Document is one input file of an analysis request.
type Document struct {
	Name string
	Data []byte
}

// Request asks for the sections of Documents most relevant to a persona.
type Request struct {
	Role      string
	Task      string
	Documents []Document
}

// SkippedPage records a page that produced no sections. Document is the
// document id, which differs from the request name for repeated names.
type SkippedPage struct {
	Document string
	Page     int
	Err      error
}

// Analysis holds the scored sections of one request. Rank can be called
// repeatedly with different configurations without scoring again.
type Analysis struct {
	ID       uuid.UUID
	Context  *core.PersonaContext
	Sections []*core.Section
	Skipped  []SkippedPage
	Elapsed  time.Duration

	scored []*core.ScoredSection
}

// Scored returns the unranked scores in section order.
func (a *Analysis) Scored() []*core.ScoredSection {
	return a.scored
}

// Rank orders and filters the scored sections under cfg.
func (a *Analysis) Rank(cfg ranking.Config) ([]*core.ScoredSection, error) {
	return ranking.Rank(a.scored, cfg)
}

// Analyze extracts every document, builds the persona context and scores
// all sections once. Any document or scoring failure fails the whole request.
func (e *Engine) Analyze(ctx context.Context, req Request) (*Analysis, error) {
	if len(req.Documents) == 0 {
		return nil, ErrNoDocuments
	}

	started := time.Now()
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	analysis := &Analysis{
		ID:      uuid.New(),
		Context: e.BuildContext(req.Role, req.Task),
	}
	logger := e.logger.With("request", analysis.ID.String())
	logger.Info("analysis started",
		"role", analysis.Context.Role,
		"documents", len(req.Documents),
		"keywords", len(analysis.Context.Keywords),
		"keyword_source", analysis.Context.Source)

	names := documentNames(req.Documents)
	for i, doc := range req.Documents {
		if names[i] != doc.Name {
			logger.Warn("document renamed to keep section ids unique", "name", doc.Name, "id", names[i])
		}
		sections, skipped, err := e.extract(ctx, names[i], doc.Data)
		if err != nil {
			return nil, e.timeoutErr(ctx, err)
		}
		analysis.Sections = append(analysis.Sections, sections...)
		for _, page := range skipped {
			analysis.Skipped = append(analysis.Skipped, SkippedPage{Document: names[i], Page: page.Page, Err: page.Err})
		}
	}

	scored, err := e.scorer.Score(ctx, analysis.Context, analysis.Sections)
	if err != nil {
		return nil, e.timeoutErr(ctx, err)
	}
	analysis.scored = scored
	analysis.Elapsed = time.Since(started)

	logger.Info("analysis finished",
		"sections", len(analysis.Sections),
		"skipped_pages", len(analysis.Skipped),
		"elapsed", analysis.Elapsed)
	return analysis, nil
}

// documentNames gives every document of a request a distinct name, since
// section ids derive from it. Unnamed documents are named by content hash
// and repeated names get a "#n" suffix in request order.
func documentNames(docs []Document) []string {
	names := make([]string, len(docs))
	seen := make(map[string]int, len(docs))
	for i, doc := range docs {
		name := doc.Name
		if name == "" {
			name = fmt.Sprintf("%016x", uint64(core.IDFromContent(string(doc.Data))))
		}
		base := name
		for seen[name] > 0 {
			seen[base]++
			name = fmt.Sprintf("%s#%d", base, seen[base])
		}
		seen[name]++
		names[i] = name
	}
	return names
}
