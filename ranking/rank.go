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

package ranking

import (
	"cmp"
	"slices"
	"strings"

	"github.com/poiesic/personarank/core"
)

// Rank filters and orders scored sections for presentation.
//
// Sections are ordered by score, highest first, with ties broken by page
// and then section id. Near duplicates within a document collapse to the
// higher ranked one. The min score, search and per-document filters run in
// that order before truncation to MaxCount. Ranks 1..N are then assigned in
// score order and the list is reordered by SortBy.
//
// Rank never re-scores and never mutates its input: the returned entries
// are copies, so the same scored slice can be ranked again with another
// Config.
func Rank(scored []*core.ScoredSection, cfg Config) ([]*core.ScoredSection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sortBy, _ := ParseSortBy(string(cfg.SortBy))

	out := make([]*core.ScoredSection, 0, len(scored))
	for _, ss := range scored {
		if ss == nil || ss.Section == nil {
			continue
		}
		c := *ss
		c.Rank = 0
		out = append(out, &c)
	}

	slices.SortStableFunc(out, compareScore)
	out = dedupe(out, cfg.DuplicateThreshold)
	out = filter(out, cfg)

	for i, ss := range out {
		ss.Rank = i + 1
	}

	switch sortBy {
	case SortByPage:
		slices.SortStableFunc(out, func(a, b *core.ScoredSection) int {
			return cmp.Or(
				cmp.Compare(a.Section.Page, b.Section.Page),
				cmp.Compare(a.Rank, b.Rank),
			)
		})
	case SortByDocument:
		slices.SortStableFunc(out, func(a, b *core.ScoredSection) int {
			return cmp.Or(
				cmp.Compare(a.Section.DocumentID, b.Section.DocumentID),
				cmp.Compare(a.Section.Page, b.Section.Page),
				cmp.Compare(a.Rank, b.Rank),
			)
		})
	}
	return out, nil
}

// compareScore orders by score descending, then page, section id and
// document id ascending.
func compareScore(a, b *core.ScoredSection) int {
	return cmp.Or(
		cmp.Compare(b.Score, a.Score),
		cmp.Compare(a.Section.Page, b.Section.Page),
		cmp.Compare(a.Section.ID, b.Section.ID),
		cmp.Compare(a.Section.DocumentID, b.Section.DocumentID),
	)
}

func filter(sections []*core.ScoredSection, cfg Config) []*core.ScoredSection {
	search := strings.ToLower(strings.TrimSpace(cfg.Search))
	perDocument := make(map[string]int)

	out := sections[:0]
	for _, ss := range sections {
		if ss.Score < cfg.MinScore {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(ss.Section.Text()), search) {
			continue
		}
		if cfg.MaxPerDocument > 0 {
			if perDocument[ss.Section.DocumentID] >= cfg.MaxPerDocument {
				continue
			}
			perDocument[ss.Section.DocumentID]++
		}
		out = append(out, ss)
		if len(out) == cfg.MaxCount {
			break
		}
	}
	return out
}
