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

package core

import "errors"

// Pipeline errors. Callers match them with errors.Is.
var (
	// ErrExtraction indicates the document bytes could not be parsed.
	ErrExtraction = errors.New("extraction failed")

	// ErrOcrUnavailable indicates optical recognition could not produce text for a page.
	// It is page-scoped: the page is skipped and extraction continues.
	ErrOcrUnavailable = errors.New("ocr unavailable")

	// ErrScoring indicates the embedding backend failed.
	ErrScoring = errors.New("scoring failed")

	// ErrTimeout indicates the caller's ceiling on pipeline wall time was reached.
	ErrTimeout = errors.New("pipeline timed out")
)

// Domain validation errors
var (
	// ErrInvalidSection indicates a Section failed validation.
	ErrInvalidSection = errors.New("invalid section")

	// ErrInvalidPersonaContext indicates a PersonaContext failed validation.
	ErrInvalidPersonaContext = errors.New("invalid persona context")

	// ErrEmptyBody indicates the section body is empty after trimming.
	ErrEmptyBody = errors.New("section body cannot be empty")

	// ErrInvalidPage indicates a page number below 1.
	ErrInvalidPage = errors.New("page number must be at least 1")

	// ErrNoKeywords indicates the persona keyword set is empty.
	ErrNoKeywords = errors.New("keyword set cannot be empty")

	// ErrInvalidWeight indicates a keyword weight outside [0,1].
	ErrInvalidWeight = errors.New("keyword weight must be between 0 and 1")
)
