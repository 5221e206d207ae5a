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

// Package storage provides the persistence abstraction for the embedding index.
//
// The index itself lives in memory; a repository only snapshots it so that a
// restarted process can serve queries without re-embedding the corpus. Each
// save writes a new generation and switches the metadata pointer to it once
// all entries are written, so readers never observe a half-written index.
//
// # Constructor Return Type Pattern
//
// Public constructors in implementation packages return the IndexRepository
// interface:
//
//	repo, err := badger.NewIndexRepository(backend)  // returns storage.IndexRepository
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	repo, err := badger.NewIndexRepository(backend)
//	snapshot, err := repo.LoadIndex(ctx)
//	if errors.Is(err, storage.ErrNotFound) {
//	    // nothing persisted yet
//	}
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
