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

// ValidateVerse validates a VerseRecord according to domain rules.
//
// Validation rules:
//   - Source must not be empty
//   - Chapter must not be empty
//   - Verse must not be empty
//   - Translation must not be empty
//
// NOT validated:
//   - Sanskrit (some sources only carry a translation)
func ValidateVerse(record *VerseRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidVerse)
	}

	if strings.TrimSpace(record.Source) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVerse, ErrEmptySource)
	}

	if strings.TrimSpace(record.Chapter) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVerse, ErrEmptyChapter)
	}

	if strings.TrimSpace(record.Verse) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVerse, ErrEmptyVerse)
	}

	if strings.TrimSpace(record.Translation) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVerse, ErrEmptyTranslation)
	}

	return nil
}
