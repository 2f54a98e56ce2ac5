package extract

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/personarank/core"
	"github.com/xuri/excelize/v2"
)

// parseXLSX renders each worksheet as one page: the sheet name as a heading,
// then one line per data row with cells labelled by the header row.
func parseXLSX(data []byte) ([]*core.Page, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var pages []*core.Page
	for i, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, err
		}
		pages = append(pages, &core.Page{
			Number: i + 1,
			Text:   sheetText(sheet, rows),
		})
	}
	return pages, nil
}

func sheetText(sheet string, rows [][]string) string {
	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(sheet)
	sb.WriteByte('\n')
	if len(rows) == 0 {
		return sb.String()
	}

	header := rows[0]
	if len(rows) == 1 {
		sb.WriteString(strings.Join(nonEmpty(header), "\t"))
		sb.WriteByte('\n')
		return sb.String()
	}

	for _, row := range rows[1:] {
		cells := make([]string, 0, len(row))
		for j, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			if j < len(header) && strings.TrimSpace(header[j]) != "" {
				cell = strings.TrimSpace(header[j]) + ": " + cell
			}
			cells = append(cells, cell)
		}
		if len(cells) == 0 {
			continue
		}
		sb.WriteString(strings.Join(cells, "\t"))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// segmentSheet turns a page rendered by sheetText into one section titled by
// the sheet name. Rows are data, so none of them opens a section, however
// much a "Header: Value" cell looks like a heading.
func segmentSheet(documentID string, page int, text string, source core.TextSource) []*core.Section {
	heading, rows, _ := strings.Cut(text, "\n")

	var body []string
	for _, row := range strings.Split(rows, "\n") {
		if row = strings.TrimSpace(row); row != "" {
			body = append(body, row)
		}
	}
	if len(body) == 0 {
		return nil
	}

	return []*core.Section{{
		ID:         core.SectionID(documentID, page, 0),
		DocumentID: documentID,
		Page:       page,
		Title:      headingTitle(strings.TrimSpace(heading)),
		Body:       strings.Join(body, "\n"),
		Start:      0,
		End:        utf8.RuneCountInString(strings.TrimRight(text, "\n")),
		Source:     source,
	}}
}
