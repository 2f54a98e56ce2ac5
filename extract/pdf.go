package extract

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/poiesic/personarank/core"
)

// charWidth approximates the advance of one glyph in points. The reader does
// not report run widths, so a run's extent is estimated from its length.
const charWidth = 5.0

func parsePDF(data []byte) (pages []*core.Page, err error) {
	// The pdf reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	count := reader.NumPage()
	if count == 0 {
		return nil, errors.New("pdf has no pages")
	}

	pages = make([]*core.Page, 0, count)
	for i := 1; i <= count; i++ {
		page := reader.Page(i)
		pages = append(pages, &core.Page{
			Number: i,
			Text:   pageText(page),
		})
	}
	return pages, nil
}

// pageText renders a page's text layer top to bottom, one line per row.
// Pages whose content stream cannot be decoded yield no text, which sends
// them to the OCR fallback.
func pageText(page pdf.Page) string {
	if page.V.IsNull() {
		return ""
	}
	rows, err := page.GetTextByRow()
	if err != nil {
		return ""
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Position > rows[j].Position
	})

	var sb strings.Builder
	for _, row := range rows {
		line := joinRow(row.Content)
		if line == "" {
			continue
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func joinRow(texts pdf.TextHorizontal) string {
	var sb strings.Builder
	end := 0.0
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		if sb.Len() > 0 && t.X-end > 1 && !strings.HasSuffix(sb.String(), " ") && !strings.HasPrefix(t.S, " ") {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.S)
		end = t.X + float64(utf8.RuneCountInString(t.S))*charWidth
	}
	return strings.TrimSpace(sb.String())
}
