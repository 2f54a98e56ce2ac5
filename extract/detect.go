package extract

import (
	"archive/zip"
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/personarank/core"
)

var (
	pdfMagic  = []byte("%PDF-")
	zipMagic  = []byte("PK\x03\x04")
	pngMagic  = []byte("\x89PNG\r\n\x1a\n")
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	tiffLE    = []byte("II*\x00")
	tiffBE    = []byte("MM\x00*")
)

// DetectFormat identifies a document format from its leading bytes.
func DetectFormat(data []byte) (core.Format, error) {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}

	switch {
	case bytes.Contains(head, pdfMagic):
		return core.FormatPDF, nil
	case bytes.HasPrefix(data, pngMagic), bytes.HasPrefix(data, jpegMagic),
		bytes.HasPrefix(data, tiffLE), bytes.HasPrefix(data, tiffBE):
		return core.FormatImage, nil
	case bytes.HasPrefix(data, zipMagic):
		return detectOfficeFormat(data)
	case utf8.Valid(data):
		return core.FormatText, nil
	}
	return "", ErrUnsupportedFormat
}

func detectOfficeFormat(data []byte) (core.Format, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	for _, f := range r.File {
		switch strings.ToLower(f.Name) {
		case "word/document.xml":
			return core.FormatDOCX, nil
		case "xl/workbook.xml":
			return core.FormatXLSX, nil
		}
	}
	return "", ErrUnsupportedFormat
}
