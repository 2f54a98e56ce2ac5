package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/poiesic/personarank/core"
)

func parseDOCX(data []byte) ([]*core.Page, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	var docFile *zip.File
	for _, f := range r.File {
		if strings.EqualFold(f.Name, "word/document.xml") {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, errors.New("docx has no word/document.xml")
	}
	rc, err := docFile.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	texts, err := docxPageTexts(rc)
	if err != nil {
		return nil, err
	}

	pages := make([]*core.Page, len(texts))
	for i, text := range texts {
		pages[i] = &core.Page{Number: i + 1, Text: text}
	}
	return pages, nil
}

// docxPageTexts walks document.xml and splits the text at explicit and
// rendered page breaks. Paragraphs styled as headings are written with a
// leading "# " so the segmenter treats them as headings.
func docxPageTexts(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	var (
		pages     []string
		page      strings.Builder
		para      strings.Builder
		isHeading bool
	)

	breakPage := func() {
		pages = append(pages, page.String())
		page.Reset()
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				para.Reset()
				isHeading = false
			case "pStyle":
				val := strings.ToLower(attr(t, "val"))
				isHeading = strings.HasPrefix(val, "heading") || val == "title"
			case "t", "instrText":
				var text string
				if err := dec.DecodeElement(&text, &t); err == nil {
					para.WriteString(text)
				}
			case "tab":
				para.WriteByte('\t')
			case "cr":
				para.WriteByte('\n')
			case "br":
				if attr(t, "type") == "page" {
					flushParagraph(&page, &para, isHeading)
					breakPage()
				} else {
					para.WriteByte('\n')
				}
			case "lastRenderedPageBreak":
				flushParagraph(&page, &para, isHeading)
				if page.Len() > 0 {
					breakPage()
				}
			}
		case xml.EndElement:
			if t.Name.Local == "p" {
				flushParagraph(&page, &para, isHeading)
			}
		}
	}
	breakPage()
	return pages, nil
}

func flushParagraph(page, para *strings.Builder, heading bool) {
	text := strings.TrimSpace(para.String())
	para.Reset()
	if text == "" {
		return
	}
	if heading {
		page.WriteString("# ")
	}
	page.WriteString(text)
	page.WriteByte('\n')
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
