package persona

import (
	"fmt"
	"strings"

	"github.com/poiesic/personarank/core"
)

// Builder turns a role and task into a PersonaContext. It performs no I/O
// and is safe for concurrent use.
type Builder struct {
	catalog    *Catalog
	topN       int
	taskWeight float64
	sources    []KeywordSource
}

// Option configures a Builder.
type Option func(*Builder) error

// WithCatalog replaces the built-in catalog.
func WithCatalog(catalog *Catalog) Option {
	return func(b *Builder) error {
		if catalog == nil {
			return fmt.Errorf("catalog cannot be nil")
		}
		b.catalog = catalog
		return nil
	}
}

// WithTopN sets how many task terms frequency extraction keeps.
func WithTopN(n int) Option {
	return func(b *Builder) error {
		if n <= 0 {
			return fmt.Errorf("top n must be positive, got %d", n)
		}
		b.topN = n
		return nil
	}
}

// WithTaskWeight sets the factor applied to task terms merged into catalog keywords.
func WithTaskWeight(w float64) Option {
	return func(b *Builder) error {
		if w < 0 || w > 1 {
			return fmt.Errorf("%w: task weight %v", core.ErrInvalidWeight, w)
		}
		b.taskWeight = w
		return nil
	}
}

// NewBuilder creates a Builder backed by the default catalog unless overridden.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{
		catalog:    DefaultCatalog(),
		topN:       DefaultTopN,
		taskWeight: DefaultTaskWeight,
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	frequency := &FrequencyExtraction{TopN: b.topN}
	b.sources = []KeywordSource{
		&CatalogLookup{Catalog: b.catalog, Task: frequency, TaskWeight: b.taskWeight},
		frequency,
	}
	return b, nil
}

// Catalog returns the catalog the builder consults.
func (b *Builder) Catalog() *Catalog {
	return b.catalog
}

// Build creates the context for one request. The keyword set is never empty:
// catalog roles use the catalog, other roles use task term frequency, then
// the raw task tokens, then the role's own tokens, then the generic profile.
func (b *Builder) Build(role, task string) *core.PersonaContext {
	role = strings.TrimSpace(role)
	task = strings.TrimSpace(task)

	pc := &core.PersonaContext{
		Role:  role,
		Task:  task,
		Query: query(role, task),
	}

	for _, src := range b.sources {
		if kw := src.Keywords(role, task); len(kw) > 0 {
			pc.Keywords = kw
			pc.Source = src.Kind()
			return pc
		}
	}

	pc.Source = core.KeywordsFromFrequency
	if kw := uniform(rawTokens(task)); len(kw) > 0 {
		pc.Keywords = kw
		return pc
	}
	if kw := uniform(rawTokens(role)); len(kw) > 0 {
		pc.Keywords = kw
		return pc
	}

	pc.Keywords = b.catalog.Generic().Weights()
	pc.Source = core.KeywordsFromCatalog
	return pc
}

func query(role, task string) string {
	switch {
	case role == "":
		return task
	case task == "":
		return role
	default:
		return role + ": " + task
	}
}

func uniform(tokens []string) map[string]float64 {
	if len(tokens) == 0 {
		return nil
	}
	out := make(map[string]float64, len(tokens))
	for _, t := range tokens {
		out[t] = 1
	}
	return out
}
