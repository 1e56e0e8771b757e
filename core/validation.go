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

import "fmt"

// ValidatePair validates a SentencePair according to domain rules.
//
// Validation rules:
//   - SpanA must not be empty
//   - Label must be LabelRelated or LabelUnrelated
//
// SpanB may be empty: a short sentence split at a high ratio can leave
// nothing after the cut.
func ValidatePair(pair *SentencePair) error {
	if pair == nil {
		return fmt.Errorf("%w: pair is nil", ErrInvalidPair)
	}

	if pair.SpanA == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPair, ErrEmptySpan)
	}

	if err := ValidateLabel(pair.Label); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPair, err)
	}

	return nil
}

// ValidateLabel validates that a Label has a valid value.
func ValidateLabel(label Label) error {
	if label != LabelRelated && label != LabelUnrelated {
		return fmt.Errorf("%w: value %d", ErrInvalidLabel, label)
	}
	return nil
}

// ValidateUnit validates that a Unit has a valid value.
func ValidateUnit(unit Unit) error {
	if unit != UnitWords && unit != UnitCharacters {
		return fmt.Errorf("%w: value %d", ErrInvalidUnit, unit)
	}
	return nil
}
