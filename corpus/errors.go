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


package corpus

import "errors"

var (
	// ErrInvalidMaxAttempts is returned by a retry policy allowing no attempts.
	ErrInvalidMaxAttempts = errors.New("retry attempts must be at least 1")

	// ErrManifestRequired is returned when resume is enabled without a manifest.
	ErrManifestRequired = errors.New("manifest repository required for resume")

	// ErrConfigRequired is returned when a runner is built without configuration.
	ErrConfigRequired = errors.New("config required")
)
