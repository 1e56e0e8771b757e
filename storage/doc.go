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


// Package storage provides the storage abstraction layer for pairgen.
//
// The only persistent state of a build is its manifest: one FileRecord per
// source file that finished, keyed by the file name. The corpus runner
// consults it to skip files whose contents have not changed since they were
// last turned into a dataset.
//
// # Usage
//
// Open a manifest on disk:
//
//	backend, err := badger.OpenBackend("/path/to/manifest", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//	manifest := badger.NewManifestRepository(backend)
//
// Use in tests with in-memory storage:
//
//	manifest, backend, err := badger.NewMemoryManifest()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation
// and timeout support. Pass context.Background() for operations
// without specific timeout requirements.
package storage
