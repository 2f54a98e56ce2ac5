package extract

import (
	"strings"

	"github.com/poiesic/personarank/core"
)

// parseText treats form feeds as page boundaries, the convention used by
// pdftotext and most line printers.
func parseText(data []byte) ([]*core.Page, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	parts := strings.Split(text, "\f")

	pages := make([]*core.Page, len(parts))
	for i, part := range parts {
		pages[i] = &core.Page{Number: i + 1, Text: part}
	}
	return pages, nil
}

// parseImage wraps a scanned image as a single page with no text layer.
func parseImage(data []byte) ([]*core.Page, error) {
	return []*core.Page{{Number: 1, Image: data}}, nil
}
