package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/poiesic/personarank"
	"github.com/poiesic/personarank/core"
	"github.com/poiesic/personarank/evaluate"
	"github.com/poiesic/personarank/ranking"
)

type rankMetadata struct {
	RequestID string   `yaml:"request_id"`
	Documents []string `yaml:"input_documents"`
	Persona   string   `yaml:"persona"`
	Task      string   `yaml:"job_to_be_done"`
	Keywords  string   `yaml:"keyword_source"`
	Timestamp string   `yaml:"processing_timestamp"`
	Elapsed   string   `yaml:"processing_time"`
	Skipped   []string `yaml:"skipped_pages,omitempty"`
}

type rankedSection struct {
	Document string  `yaml:"document"`
	Title    string  `yaml:"section_title"`
	Rank     int     `yaml:"importance_rank"`
	Page     int     `yaml:"page_number"`
	Score    float64 `yaml:"relevance_score"`
	Degraded bool    `yaml:"degraded,omitempty"`
}

type refinedSection struct {
	Document string `yaml:"document"`
	Text     string `yaml:"refined_text"`
	Page     int    `yaml:"page_number"`
}

type rankOutput struct {
	Metadata    rankMetadata     `yaml:"metadata"`
	Sections    []rankedSection  `yaml:"extracted_sections"`
	Subsections []refinedSection `yaml:"subsection_analysis"`
	Statistics  ranking.Summary  `yaml:"statistics"`
}

func newRankOutput(analysis *personarank.Analysis, docs []personarank.Document, ranked []*core.ScoredSection, refine RefineConfig) *rankOutput {
	out := &rankOutput{
		Metadata: rankMetadata{
			RequestID: analysis.ID.String(),
			Persona:   analysis.Context.Role,
			Task:      analysis.Context.Task,
			Keywords:  string(analysis.Context.Source),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Elapsed:   analysis.Elapsed.Round(time.Millisecond).String(),
		},
		Sections:    make([]rankedSection, 0, len(ranked)),
		Subsections: make([]refinedSection, 0, len(ranked)),
		Statistics:  ranking.Summarize(ranked),
	}
	for _, doc := range docs {
		out.Metadata.Documents = append(out.Metadata.Documents, doc.Name)
	}
	for _, page := range analysis.Skipped {
		out.Metadata.Skipped = append(out.Metadata.Skipped, fmt.Sprintf("%s:%d", page.Document, page.Page))
	}
	for _, ss := range ranked {
		title := ss.Section.Title
		if title == "" {
			title = evaluate.UntitledSection
		}
		out.Sections = append(out.Sections, rankedSection{
			Document: ss.Section.DocumentID,
			Title:    title,
			Rank:     ss.Rank,
			Page:     ss.Section.Page,
			Score:    round(ss.Score),
			Degraded: ss.Degraded,
		})
		out.Subsections = append(out.Subsections, refinedSection{
			Document: ss.Section.DocumentID,
			Text:     ranking.Refine(ss.Section.Body, refine.Sentences, refine.Chars),
			Page:     ss.Section.Page,
		})
	}
	return out
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func writeRankText(w io.Writer, out *rankOutput) error {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s %s\n", bold("Persona:"), out.Metadata.Persona)
	fmt.Fprintf(w, "%s %s\n", bold("Task:"), out.Metadata.Task)
	fmt.Fprintf(w, "%s %s (%s)\n\n", bold("Request:"), out.Metadata.RequestID, out.Metadata.Elapsed)

	for i, s := range out.Sections {
		fmt.Fprintf(w, "%2d. [%s] %s\n", s.Rank, scoreColor(s.Score), bold(s.Title))
		fmt.Fprintf(w, "    %s, page %d\n", s.Document, s.Page)
		if text := out.Subsections[i].Text; text != "" {
			fmt.Fprintf(w, "    %s\n", text)
		}
	}
	st := out.Statistics
	_, err := fmt.Fprintf(w, "\n%d sections, %d words, score %.3f avg / %.3f max / %.3f min\n",
		st.Count, st.Words, st.Average, st.Max, st.Min)
	return err
}

func writeSectionsText(w io.Writer, sections []*core.Section) error {
	for _, s := range sections {
		title := s.Title
		if title == "" {
			title = evaluate.UntitledSection
		}
		if _, err := fmt.Fprintf(w, "%s p.%d [%s] %s\n    %s\n",
			s.DocumentID, s.Page, s.Source, color.New(color.Bold).Sprint(title),
			ranking.Refine(s.Body, 1, 120)); err != nil {
			return err
		}
	}
	return nil
}

func writeEvaluationText(w io.Writer, m evaluate.Metrics, rows []evaluate.Comparison) error {
	fmt.Fprintf(w, "Common sections: %d (predicted %d, ground truth %d)\n", m.Common, m.Predicted, m.Truth)
	fmt.Fprintf(w, "Accuracy:  %.3f\n", m.Accuracy)
	fmt.Fprintf(w, "Precision: %.3f\n", m.Precision)
	fmt.Fprintf(w, "Recall:    %.3f\n", m.Recall)
	fmt.Fprintf(w, "F1:        %.3f\n\n", m.F1)

	fmt.Fprintf(w, "%-48s %9s %9s %6s\n", "SECTION", "PREDICTED", "EXPECTED", "DIFF")
	for _, row := range rows {
		fmt.Fprintf(w, "%-48s %9s %9s %6.3f\n",
			truncate(row.Title, 48), present(row.Predicted, row.InPredicted), present(row.Truth, row.InTruth), row.Difference)
	}
	return nil
}

func scoreColor(score float64) string {
	s := fmt.Sprintf("%.3f", score)
	switch {
	case score >= 0.7:
		return color.GreenString(s)
	case score >= 0.4:
		return color.YellowString(s)
	}
	return color.RedString(s)
}

func present(score float64, ok bool) string {
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.3f", score)
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}

func round(v float64) float64 {
	return float64(int64(v*1000+0.5)) / 1000
}
