package main

import (
	"cmp"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/personarank"
	"github.com/poiesic/personarank/core"
	"github.com/poiesic/personarank/evaluate"
	"github.com/poiesic/personarank/extract"
	"github.com/poiesic/personarank/ocr/tesseract"
	"github.com/poiesic/personarank/persona"
	"github.com/poiesic/personarank/warmup"
)

// commandConfig loads the config file and applies the command's flags.
func commandConfig(c *cli.Context) (*Config, error) {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	if err := applyFlags(c, cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// output returns the writer for --output, or the app writer.
func output(c *cli.Context) (io.Writer, func() error, error) {
	path := c.String("output")
	if path == "" || path == "-" {
		return c.App.Writer, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output: %w", err)
	}
	return f, f.Close, nil
}

func analyze(c *cli.Context, cfg *Config, role, task string) (*personarank.Analysis, []personarank.Document, error) {
	docs, err := readDocuments(c.Args().Slice())
	if err != nil {
		return nil, nil, err
	}

	sess, err := openSession(cfg)
	if err != nil {
		return nil, nil, err
	}
	defer sess.Close()

	analysis, err := sess.engine.Analyze(c.Context, personarank.Request{Role: role, Task: task, Documents: docs})
	if err != nil {
		return nil, nil, fmt.Errorf("analysis failed: %w", err)
	}
	return analysis, docs, nil
}

func rankCommand(c *cli.Context) error {
	cfg, err := commandConfig(c)
	if err != nil {
		return err
	}

	analysis, docs, err := analyze(c, cfg, c.String("persona"), c.String("task"))
	if err != nil {
		return err
	}
	ranked, err := analysis.Rank(cfg.Ranking)
	if err != nil {
		return err
	}

	w, closeOutput, err := output(c)
	if err != nil {
		return err
	}
	out := newRankOutput(analysis, docs, ranked, cfg.Refine)
	if c.String("format") == "text" {
		err = writeRankText(w, out)
	} else {
		err = writeYAML(w, out)
	}
	if err != nil {
		closeOutput()
		return err
	}
	return closeOutput()
}

func extractCommand(c *cli.Context) error {
	cfg, err := commandConfig(c)
	if err != nil {
		return err
	}
	docs, err := readDocuments(c.Args().Slice())
	if err != nil {
		return err
	}

	opts := []extract.Option{extract.WithLogger(slog.Default())}
	if cfg.PoolSize > 0 {
		opts = append(opts, extract.WithPoolSize(cfg.PoolSize))
	}
	if cfg.MinTextLength >= 0 {
		opts = append(opts, extract.WithMinTextLength(cfg.MinTextLength))
	}
	if cfg.OCR.Enabled {
		opts = append(opts, extract.WithRecognizer(tesseract.NewRecognizer(tesseract.WithLanguages(cfg.OCR.Languages...))))
	}
	extractor, err := extract.NewExtractor(opts...)
	if err != nil {
		return err
	}
	defer extractor.Release()

	var sections []*core.Section
	for _, doc := range docs {
		stream, err := extractor.Extract(c.Context, doc.Name, doc.Data)
		if err != nil {
			return err
		}
		docSections, skipped, err := stream.Collect()
		if err != nil {
			return err
		}
		for _, page := range skipped {
			slog.Warn("page skipped", "document", doc.Name, "page", page.Page, "err", page.Err)
		}
		sections = append(sections, docSections...)
	}

	if c.String("format") == "yaml" {
		return writeYAML(c.App.Writer, sectionRecords(sections))
	}
	return writeSectionsText(c.App.Writer, sections)
}

type sectionRecord struct {
	Document string `yaml:"document"`
	Page     int    `yaml:"page_number"`
	Title    string `yaml:"section_title,omitempty"`
	Source   string `yaml:"source"`
	Body     string `yaml:"content"`
}

func sectionRecords(sections []*core.Section) []sectionRecord {
	records := make([]sectionRecord, len(sections))
	for i, s := range sections {
		records[i] = sectionRecord{
			Document: s.DocumentID,
			Page:     s.Page,
			Title:    s.Title,
			Source:   string(s.Source),
			Body:     s.Body,
		}
	}
	return records
}

func personasCommand(c *cli.Context) error {
	catalog := persona.DefaultCatalog()
	w := c.App.Writer

	if role := c.String("role"); role != "" {
		profile, ok := catalog.Lookup(role)
		if !ok {
			return fmt.Errorf("unknown persona %q; run 'personarank personas' for the list", role)
		}
		fmt.Fprintf(w, "%s (%s)\n", profile.Role, profile.Domain)
		terms := make([]string, 0, len(profile.Keywords))
		for _, term := range profile.Terms() {
			terms = append(terms, fmt.Sprintf("%s (%.1f)", term, profile.Keywords[term]))
		}
		fmt.Fprintf(w, "  keywords: %s\n", strings.Join(terms, ", "))
		fmt.Fprintf(w, "  section patterns: %s\n", strings.Join(profile.SectionPatterns, ", "))
		return nil
	}

	for _, role := range catalog.Roles() {
		fmt.Fprintln(w, role)
	}
	return nil
}

func warmCommand(c *cli.Context) error {
	cfg, err := commandConfig(c)
	if err != nil {
		return err
	}
	if cfg.Cache.Dir == "" {
		return fmt.Errorf("cache-dir is required")
	}
	docs, err := readDocuments(c.Args().Slice())
	if err != nil {
		return err
	}

	sess, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	var sections []*core.Section
	for _, doc := range docs {
		docSections, err := sess.engine.Extract(c.Context, doc.Name, doc.Data)
		if err != nil {
			return err
		}
		sections = append(sections, docSections...)
	}

	warmer, err := warmup.NewWarmer(sess.cache, sess.provider.Embedder(), sess.provider.Model(), &cfg.Warmup, c.App.ErrWriter, slog.Default())
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.ErrWriter, "Cache: %s\n", cfg.Cache.Dir)
	fmt.Fprintf(c.App.ErrWriter, "Embedding model: %s\n", sess.provider.Model())
	fmt.Fprintf(c.App.ErrWriter, "Sections: %d\n\n", len(sections))

	report, err := warmer.WarmSections(c.Context, sections)
	if err != nil {
		return fmt.Errorf("warm-up failed: %w", err)
	}
	slog.Info("cache warmed", "texts", report.Total, "embedded", report.Embedded, "cached", report.Cached, "elapsed", report.Elapsed)
	return nil
}

func evaluateCommand(c *cli.Context) error {
	cfg, err := commandConfig(c)
	if err != nil {
		return err
	}

	var truth *evaluate.GroundTruth
	if path := c.String("ground-truth"); path != "" && !c.Bool("template") {
		truth, err = evaluate.LoadGroundTruthFile(path)
		if err != nil {
			return err
		}
	}

	role, task := c.String("persona"), c.String("task")
	if truth != nil {
		role = cmp.Or(role, truth.Metadata.Persona)
		task = cmp.Or(task, truth.Metadata.Task)
	}

	analysis, _, err := analyze(c, cfg, role, task)
	if err != nil {
		return err
	}
	ranked, err := analysis.Rank(cfg.Ranking)
	if err != nil {
		return err
	}
	predicted := evaluate.FromRanked(ranked)

	if c.Bool("template") {
		w, closeOutput, err := output(c)
		if err != nil {
			return err
		}
		if err := evaluate.WriteGroundTruth(w, evaluate.Template(role, task, predicted)); err != nil {
			closeOutput()
			return err
		}
		return closeOutput()
	}
	if truth == nil {
		return fmt.Errorf("ground-truth is required unless --template is set")
	}

	metrics := evaluate.Evaluate(predicted, truth.Sections, c.Float64("threshold"))
	rows := evaluate.Compare(predicted, truth.Sections)
	if limit := c.Int("top"); limit > 0 && len(rows) > limit {
		rows = slices.Clone(rows[:limit])
	}
	if c.String("format") == "yaml" {
		return writeYAML(c.App.Writer, struct {
			Metrics    evaluate.Metrics      `yaml:"metrics"`
			Comparison []evaluate.Comparison `yaml:"comparison"`
		}{metrics, rows})
	}
	return writeEvaluationText(c.App.Writer, metrics, rows)
}
