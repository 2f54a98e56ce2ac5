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

package evaluate

import (
	"cmp"
	"math"
	"slices"
	"strings"
)

// DefaultThreshold splits scores into relevant and not relevant.
const DefaultThreshold = 0.5

// Metrics compares predictions with ground truth over the sections both
// contain, each labelled relevant when its score reaches the threshold.
type Metrics struct {
	Accuracy  float64 `yaml:"accuracy"`
	Precision float64 `yaml:"precision"`
	Recall    float64 `yaml:"recall"`
	F1        float64 `yaml:"f1_score"`
	Common    int     `yaml:"common_sections"`
	Predicted int     `yaml:"total_predicted"`
	Truth     int     `yaml:"total_ground_truth"`
}

// Comparison is the per-title difference between prediction and ground truth.
// A side missing the title contributes a score of 0.
type Comparison struct {
	Title       string  `yaml:"section_title"`
	Predicted   float64 `yaml:"predicted_score"`
	Truth       float64 `yaml:"ground_truth_score"`
	Difference  float64 `yaml:"score_difference"`
	InPredicted bool    `yaml:"in_predictions"`
	InTruth     bool    `yaml:"in_ground_truth"`
}

func titleKey(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

// byTitle maps normalized titles to scores. The first section with a title wins.
func byTitle(sections []Section) (map[string]float64, []string) {
	scores := make(map[string]float64, len(sections))
	order := make([]string, 0, len(sections))
	for _, s := range sections {
		key := titleKey(s.Title)
		if _, ok := scores[key]; ok {
			continue
		}
		scores[key] = s.Score
		order = append(order, key)
	}
	return scores, order
}

// Evaluate computes binary classification metrics over common titles.
// With no common titles every rate is zero. A non-positive threshold uses
// DefaultThreshold.
func Evaluate(predicted, truth []Section, threshold float64) Metrics {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	m := Metrics{Predicted: len(predicted), Truth: len(truth)}

	pred, _ := byTitle(predicted)
	gt, order := byTitle(truth)

	var tp, fp, fn, tn int
	for _, title := range order {
		p, ok := pred[title]
		if !ok {
			continue
		}
		m.Common++
		wantRelevant := gt[title] >= threshold
		gotRelevant := p >= threshold
		switch {
		case wantRelevant && gotRelevant:
			tp++
		case !wantRelevant && gotRelevant:
			fp++
		case wantRelevant && !gotRelevant:
			fn++
		default:
			tn++
		}
	}
	if m.Common == 0 {
		return m
	}

	m.Accuracy = float64(tp+tn) / float64(m.Common)
	m.Precision = ratio(tp, tp+fp)
	m.Recall = ratio(tp, tp+fn)
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}

// Compare lists every title from either side, largest difference first.
func Compare(predicted, truth []Section) []Comparison {
	pred, predOrder := byTitle(predicted)
	gt, gtOrder := byTitle(truth)

	titles := make(map[string]string)
	for _, s := range append(slices.Clone(predicted), truth...) {
		key := titleKey(s.Title)
		if _, ok := titles[key]; !ok {
			titles[key] = strings.TrimSpace(s.Title)
		}
	}

	out := make([]Comparison, 0, len(titles))
	for _, key := range append(predOrder, gtOrder...) {
		if _, done := titles[key]; !done {
			continue
		}
		p, inPred := pred[key]
		g, inTruth := gt[key]
		out = append(out, Comparison{
			Title:       titles[key],
			Predicted:   p,
			Truth:       g,
			Difference:  math.Abs(p - g),
			InPredicted: inPred,
			InTruth:     inTruth,
		})
		delete(titles, key)
	}

	slices.SortStableFunc(out, func(a, b Comparison) int {
		return cmp.Or(
			cmp.Compare(b.Difference, a.Difference),
			cmp.Compare(a.Title, b.Title),
		)
	})
	return out
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
