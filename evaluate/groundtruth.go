package evaluate

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/poiesic/personarank/core"
)

// UntitledSection labels sections without a heading.
const UntitledSection = "Untitled Section"

// Section is one labelled section in a ground truth or prediction set.
type Section struct {
	Title     string  `yaml:"section_title"`
	Document  string  `yaml:"document,omitempty"`
	Page      int     `yaml:"page_number,omitempty"`
	WordCount int     `yaml:"word_count,omitempty"`
	Score     float64 `yaml:"relevance_score"`
	Content   string  `yaml:"content,omitempty"`
}

// Metadata describes the request a ground truth file was labelled for.
type Metadata struct {
	Collection string   `yaml:"collection_name,omitempty"`
	Persona    string   `yaml:"persona"`
	Task       string   `yaml:"job_to_be_done"`
	Documents  []string `yaml:"input_documents,omitempty"`
}

// GroundTruth is a hand-labelled set of relevant sections.
// JSON files in the same layout decode as well.
type GroundTruth struct {
	Metadata Metadata  `yaml:"metadata"`
	Sections []Section `yaml:"extracted_sections"`
}

// LoadGroundTruth decodes a ground truth document.
func LoadGroundTruth(r io.Reader) (*GroundTruth, error) {
	var gt GroundTruth
	if err := yaml.NewDecoder(r).Decode(&gt); err != nil {
		return nil, fmt.Errorf("decoding ground truth: %w", err)
	}
	for i, s := range gt.Sections {
		if s.Score < 0 || s.Score > 1 {
			return nil, fmt.Errorf("section %d (%q): relevance score %v outside [0,1]", i, s.Title, s.Score)
		}
	}
	return &gt, nil
}

// LoadGroundTruthFile reads a ground truth document from path.
func LoadGroundTruthFile(path string) (*GroundTruth, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadGroundTruth(f)
}

// FromRanked converts a ranked list into prediction sections.
func FromRanked(ranked []*core.ScoredSection) []Section {
	out := make([]Section, 0, len(ranked))
	for _, ss := range ranked {
		if ss == nil || ss.Section == nil {
			continue
		}
		title := strings.TrimSpace(ss.Section.Title)
		if title == "" {
			title = UntitledSection
		}
		out = append(out, Section{
			Title:     title,
			Document:  ss.Section.DocumentID,
			Page:      ss.Section.Page,
			WordCount: len(strings.Fields(ss.Section.Body)),
			Score:     ss.Score,
		})
	}
	return out
}

// Template returns an example ground truth document for labelling.
func Template(persona, task string, predicted []Section) *GroundTruth {
	gt := &GroundTruth{
		Metadata: Metadata{Persona: persona, Task: task},
		Sections: make([]Section, len(predicted)),
	}
	seen := make(map[string]bool)
	for i, s := range predicted {
		gt.Sections[i] = s
		if !seen[s.Document] && s.Document != "" {
			seen[s.Document] = true
			gt.Metadata.Documents = append(gt.Metadata.Documents, s.Document)
		}
	}
	return gt
}

// WriteGroundTruth encodes gt as YAML.
func WriteGroundTruth(w io.Writer, gt *GroundTruth) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(gt); err != nil {
		return err
	}
	return enc.Close()
}
