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
	"fmt"

	"github.com/poiesic/pairgen/core"
)

// MarshalFileRecord serializes a FileRecord to bytes.
func MarshalFileRecord(record *core.FileRecord) []byte {
	buf := make([]byte, core.FileRecordMUS.Size(*record))
	core.FileRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalFileRecord deserializes a FileRecord from bytes.
// Trailing bytes are rejected.
func UnmarshalFileRecord(data []byte) (*core.FileRecord, error) {
	record, n, err := core.FileRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrSerializationFailed, len(data)-n)
	}
	return &record, nil
}
