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

// Package extract turns raw document bytes into ordered text sections.
//
// Supported formats are detected from content: PDF, DOCX, XLSX, plain text
// or Markdown, and scanned images (PNG, JPEG, TIFF). Each page whose native
// text layer is shorter than a threshold goes through the OCR fallback
// (rasterize when needed, then recognize). The fallback is per page: a page
// whose recognition fails is reported as skipped and the remaining pages are
// still extracted.
//
// Pages are processed concurrently on a worker pool and yielded in page order:
//
//	extractor, err := extract.NewExtractor(extract.WithRecognizer(tesseract.NewRecognizer()))
//	if err != nil {
//	    return err
//	}
//	defer extractor.Release()
//
//	stream, err := extractor.Extract(ctx, "report.pdf", data)
//	if err != nil {
//	    return err // wraps core.ErrExtraction
//	}
//	for section := range stream.Sections() {
//	    ...
//	}
//
// A Stream is single pass. Use Collect to keep the sections for reuse.
package extract
