package ranking

import (
	"strings"

	"github.com/poiesic/personarank/core"
)

// Summary describes a ranked list.
type Summary struct {
	Count       int            `json:"count" yaml:"count"`
	Words       int            `json:"words" yaml:"words"`
	Average     float64        `json:"average_score" yaml:"average_score"`
	Max         float64        `json:"max_score" yaml:"max_score"`
	Min         float64        `json:"min_score" yaml:"min_score"`
	Degraded    int            `json:"degraded" yaml:"degraded"`
	PerDocument map[string]int `json:"per_document" yaml:"per_document"`
}

// Summarize computes statistics over sections. An empty list gives zeros.
func Summarize(sections []*core.ScoredSection) Summary {
	s := Summary{PerDocument: make(map[string]int)}
	var total float64
	for _, ss := range sections {
		if ss == nil || ss.Section == nil {
			continue
		}
		if s.Count == 0 || ss.Score > s.Max {
			s.Max = ss.Score
		}
		if s.Count == 0 || ss.Score < s.Min {
			s.Min = ss.Score
		}
		s.Count++
		total += ss.Score
		s.Words += len(strings.Fields(ss.Section.Body))
		s.PerDocument[ss.Section.DocumentID]++
		if ss.Degraded {
			s.Degraded++
		}
	}
	if s.Count > 0 {
		s.Average = total / float64(s.Count)
	}
	return s
}
