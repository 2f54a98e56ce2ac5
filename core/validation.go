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

import (
	"fmt"
	"strings"
)

// ValidateSection validates a Section according to domain rules.
//
// Validation rules:
//   - Body must not be empty after trimming
//   - Page must be 1 or greater
//   - Offsets must describe a non-negative range
func ValidateSection(section *Section) error {
	if section == nil {
		return fmt.Errorf("%w: section is nil", ErrInvalidSection)
	}

	if strings.TrimSpace(section.Body) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSection, ErrEmptyBody)
	}

	if section.Page < 1 {
		return fmt.Errorf("%w: %w", ErrInvalidSection, ErrInvalidPage)
	}

	if section.Start < 0 || section.End < section.Start {
		return fmt.Errorf("%w: offsets [%d,%d) out of order", ErrInvalidSection, section.Start, section.End)
	}

	return nil
}

// ValidatePersonaContext validates a PersonaContext.
//
// Validation rules:
//   - Keywords must not be empty
//   - Every weight must be in [0,1]
//
// NOT validated:
//   - Role and Task (either may be empty, the query is built from what is present)
func ValidatePersonaContext(pc *PersonaContext) error {
	if pc == nil {
		return fmt.Errorf("%w: context is nil", ErrInvalidPersonaContext)
	}

	if len(pc.Keywords) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidPersonaContext, ErrNoKeywords)
	}

	for keyword, weight := range pc.Keywords {
		if weight < 0 || weight > 1 {
			return fmt.Errorf("%w: %w: %q=%f", ErrInvalidPersonaContext, ErrInvalidWeight, keyword, weight)
		}
	}

	return nil
}
