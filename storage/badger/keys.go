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

import "strings"

// Key prefixes for different data types
const (
	manifestPrefix = "manifest:"
)

// makeManifestKey generates the key for a source file's manifest record.
// Format: manifest:source
func makeManifestKey(source string) []byte {
	return []byte(manifestPrefix + source)
}

// sourceFromManifestKey recovers the source name from a manifest key.
func sourceFromManifestKey(key []byte) (string, bool) {
	return strings.CutPrefix(string(key), manifestPrefix)
}
