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

import "errors"

// Pipeline errors
var (
	// ErrInput indicates a source file is missing, unreadable or malformed.
	// Processing of that file aborts; other files in a batch continue.
	ErrInput = errors.New("input error")

	// ErrDegenerateInput indicates a sentence shorter than the configured
	// minimum unit count. It is counted, never escalated.
	ErrDegenerateInput = errors.New("sentence below minimum length")

	// ErrInvariantViolation indicates the balancer produced a dataset whose
	// label counts or donor choices break the balancing rules.
	ErrInvariantViolation = errors.New("invariant violation")
)

// Domain validation errors
var (
	// ErrInvalidLabel indicates a label outside {related, unrelated}.
	ErrInvalidLabel = errors.New("invalid label")

	// ErrInvalidUnit indicates an unknown unit of measure.
	ErrInvalidUnit = errors.New("invalid unit of measure")

	// ErrInvalidPair indicates a SentencePair failed validation.
	ErrInvalidPair = errors.New("invalid sentence pair")

	// ErrEmptySpan indicates span_a is empty.
	ErrEmptySpan = errors.New("span cannot be empty")
)
