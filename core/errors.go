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
	"errors"
	"fmt"
)

// Domain validation errors
var (
	// ErrInvalidVerse indicates a VerseRecord failed validation.
	ErrInvalidVerse = errors.New("invalid verse record")

	// ErrEmptySource indicates the Source field is empty.
	ErrEmptySource = errors.New("source cannot be empty")

	// ErrEmptyChapter indicates the Chapter field is empty.
	ErrEmptyChapter = errors.New("chapter cannot be empty")

	// ErrEmptyVerse indicates the Verse field is empty.
	ErrEmptyVerse = errors.New("verse cannot be empty")

	// ErrEmptyTranslation indicates the Translation field is empty.
	ErrEmptyTranslation = errors.New("translation cannot be empty")
)

// Retrieval and indexing errors
var (
	// ErrIngest indicates a source file could not be ingested.
	// The file is skipped; the rest of the load continues.
	ErrIngest = errors.New("ingest failed")

	// ErrIndexNotReady indicates the embedding index was queried before a build.
	ErrIndexNotReady = errors.New("embedding index not ready")

	// ErrEmbeddingBackend indicates the embedding service failed.
	ErrEmbeddingBackend = errors.New("embedding backend failed")

	// ErrModelMismatch indicates the index was built with a different embedding
	// model than the one configured for queries.
	ErrModelMismatch = errors.New("embedding model mismatch")
)

// IngestError describes a source file that was skipped during loading.
type IngestError struct {
	Path   string
	Reason string
	Err    error
}

func (e *IngestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", ErrIngest, e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", ErrIngest, e.Path, e.Reason)
}

func (e *IngestError) Unwrap() error {
	return e.Err
}

// Is reports ErrIngest so callers can match with errors.Is.
func (e *IngestError) Is(target error) bool {
	return target == ErrIngest
}

// NewIngestError creates an IngestError for the given file.
func NewIngestError(path, reason string, err error) *IngestError {
	return &IngestError{Path: path, Reason: reason, Err: err}
}
