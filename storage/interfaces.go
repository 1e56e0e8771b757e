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


package storage

import (
	"context"

	"github.com/poiesic/pairgen/core"
)

// ManifestRepository remembers which source files have been turned into
// datasets, so an interrupted or repeated run can skip them.
// Implementations must be thread-safe and support concurrent access.
type ManifestRepository interface {
	// SaveFileRecord stores record under record.Source, replacing any
	// previous record for that source.
	// Sets CompletedAt if not already set.
	SaveFileRecord(ctx context.Context, record *core.FileRecord) error

	// LoadFileRecord retrieves the record for source.
	// Returns ErrNotFound if the source has never completed.
	LoadFileRecord(ctx context.Context, source string) (*core.FileRecord, error)

	// ListFileRecords returns every record, ordered by source.
	ListFileRecords(ctx context.Context) ([]*core.FileRecord, error)

	// DeleteFileRecord removes the record for source.
	// Returns ErrNotFound if it doesn't exist.
	DeleteFileRecord(ctx context.Context, source string) error

	// Close releases resources held by the repository.
	// It does not close a shared backend.
	Close() error
}
