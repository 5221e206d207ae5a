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

package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/saarthi/storage"
)

// IndexRepository implements storage.IndexRepository for BadgerDB.
type IndexRepository struct {
	backend *Backend
}

var _ storage.IndexRepository = (*IndexRepository)(nil)

// NewIndexRepository creates a new IndexRepository.
func NewIndexRepository(backend *Backend) (storage.IndexRepository, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}
	return &IndexRepository{backend: backend}, nil
}

// SaveIndex writes snapshot as a new generation, points the metadata at it,
// then deletes the previous generation.
func (r *IndexRepository) SaveIndex(ctx context.Context, snapshot *storage.IndexSnapshot) error {
	if snapshot == nil {
		return fmt.Errorf("%w: nil snapshot", storage.ErrSerializationFailed)
	}

	previous, err := r.LoadMeta(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	var generation uint64 = 1
	if previous != nil {
		generation = previous.Generation + 1
	}

	if err := r.writeEntries(ctx, generation, snapshot.Entries); err != nil {
		r.deleteGeneration(generation)
		return err
	}

	meta := snapshot.Meta
	meta.Generation = generation
	meta.Count = len(snapshot.Entries)
	if meta.BuiltAt.IsZero() {
		meta.BuiltAt = time.Now().UTC()
	}
	value, err := storage.MarshalMeta(&meta)
	if err != nil {
		r.deleteGeneration(generation)
		return err
	}
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(indexMetaKey), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		r.deleteGeneration(generation)
		return err
	}
	snapshot.Meta = meta

	if previous != nil {
		if err := r.deleteGeneration(previous.Generation); err != nil {
			r.backend.logger.Warn("failed to delete stale index generation",
				"generation", previous.Generation, "err", err)
		}
	}
	r.backend.logger.Debug("index saved", "generation", generation, "entries", meta.Count)
	return nil
}

func (r *IndexRepository) writeEntries(ctx context.Context, generation uint64, entries []storage.IndexEntry) error {
	wb, err := r.backend.NewWriteBatch()
	if err != nil {
		return err
	}
	defer wb.Cancel()

	for i := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		value, err := storage.MarshalEntry(&entries[i])
		if err != nil {
			return err
		}
		if err := wb.Set(makeEntryKey(generation, i), value); err != nil {
			return err
		}
	}
	return wb.Flush()
}

func (r *IndexRepository) deleteGeneration(generation uint64) error {
	var keys [][]byte
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = makeGenerationPrefix(generation)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		return nil
	}, false)
	if err != nil || len(keys) == 0 {
		return err
	}

	wb, err := r.backend.NewWriteBatch()
	if err != nil {
		return err
	}
	defer wb.Cancel()
	for _, key := range keys {
		if err := wb.Delete(key); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// LoadMeta returns the metadata of the current generation.
func (r *IndexRepository) LoadMeta(ctx context.Context) (*storage.IndexMeta, error) {
	var meta *storage.IndexMeta
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(indexMetaKey))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			meta, unmarshalErr = storage.UnmarshalMeta(val)
			return unmarshalErr
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return meta, nil
}

// LoadIndex returns the current generation in insertion order.
func (r *IndexRepository) LoadIndex(ctx context.Context) (*storage.IndexSnapshot, error) {
	var snapshot *storage.IndexSnapshot
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(indexMetaKey))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		var meta *storage.IndexMeta
		err = item.Value(func(val []byte) error {
			var unmarshalErr error
			meta, unmarshalErr = storage.UnmarshalMeta(val)
			return unmarshalErr
		})
		if err != nil {
			return err
		}

		snapshot = &storage.IndexSnapshot{
			Meta:    *meta,
			Entries: make([]storage.IndexEntry, 0, meta.Count),
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeGenerationPrefix(meta.Generation)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var entry *storage.IndexEntry
			err := iter.Item().Value(func(val []byte) error {
				var unmarshalErr error
				entry, unmarshalErr = storage.UnmarshalEntry(val)
				return unmarshalErr
			})
			if err != nil {
				return err
			}
			if meta.Dimensions > 0 && len(entry.Vector) != meta.Dimensions {
				return fmt.Errorf("%w: entry %s has %d, index has %d",
					storage.ErrDimensionMismatch, entry.Record.ID(), len(entry.Vector), meta.Dimensions)
			}
			snapshot.Entries = append(snapshot.Entries, *entry)
		}

		if len(snapshot.Entries) != meta.Count {
			return fmt.Errorf("%w: expected %d entries, found %d",
				storage.ErrTruncatedData, meta.Count, len(snapshot.Entries))
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Close is a no-op; the backend is owned and closed by the caller.
func (r *IndexRepository) Close() error {
	return nil
}
