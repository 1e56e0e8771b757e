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
	"github.com/poiesic/pairgen/core"
	"github.com/poiesic/pairgen/storage"
)

// ManifestRepository implements storage.ManifestRepository for BadgerDB.
type ManifestRepository struct {
	backend *Backend
}

var _ storage.ManifestRepository = (*ManifestRepository)(nil)

// NewManifestRepository creates a new ManifestRepository.
func NewManifestRepository(backend *Backend) *ManifestRepository {
	return &ManifestRepository{
		backend: backend,
	}
}

// Close releases resources. ManifestRepository has no resources to release.
func (r *ManifestRepository) Close() error {
	return nil
}

// SaveFileRecord persists the record for a source file.
func (r *ManifestRepository) SaveFileRecord(ctx context.Context, record *core.FileRecord) error {
	if record == nil || record.Source == "" {
		return fmt.Errorf("%w: missing source", storage.ErrInvalidRecord)
	}
	return r.backend.WithTransaction(ctx, func(ctx context.Context, tx *badger.Txn) error {
		if record.CompletedAt.IsZero() {
			record.CompletedAt = time.Now().UTC()
		}
		return tx.Set(makeManifestKey(record.Source), storage.MarshalFileRecord(record))
	})
}

// LoadFileRecord retrieves the record for a source file.
func (r *ManifestRepository) LoadFileRecord(ctx context.Context, source string) (*core.FileRecord, error) {
	var record *core.FileRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeManifestKey(source))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			record, unmarshalErr = storage.UnmarshalFileRecord(val)
			return unmarshalErr
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListFileRecords returns every record in key order, which is source order.
func (r *ManifestRepository) ListFileRecords(ctx context.Context) ([]*core.FileRecord, error) {
	var records []*core.FileRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(manifestPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := iter.Item()
			source, ok := sourceFromManifestKey(item.Key())
			if !ok {
				continue
			}
			err := item.Value(func(val []byte) error {
				record, err := storage.UnmarshalFileRecord(val)
				if err != nil {
					return fmt.Errorf("manifest entry %q: %w", source, err)
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteFileRecord removes the record for a source file.
func (r *ManifestRepository) DeleteFileRecord(ctx context.Context, source string) error {
	return r.backend.WithTransaction(ctx, func(ctx context.Context, tx *badger.Txn) error {
		key := makeManifestKey(source)
		if _, err := tx.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return tx.Delete(key)
	})
}
