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

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-crypt/x/blake2b"
)

// ID is a 64-bit content hash.
type ID uint64

// IDFromContent hashes text into a stable 64-bit ID.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Label marks whether span_b is the true continuation of span_a.
type Label int

const (
	// LabelRelated marks a positive pair: span_b continues span_a.
	LabelRelated Label = iota + 1
	// LabelUnrelated marks a negative pair: span_b was borrowed from another pair.
	LabelUnrelated
)

// String returns the CSV encoding of the label ("1" or "0").
func (l Label) String() string {
	switch l {
	case LabelRelated:
		return "1"
	case LabelUnrelated:
		return "0"
	default:
		return fmt.Sprintf("Label(%d)", int(l))
	}
}

// ParseLabel decodes the CSV encoding of a label.
func ParseLabel(s string) (Label, error) {
	switch strings.TrimSpace(s) {
	case "1":
		return LabelRelated, nil
	case "0":
		return LabelUnrelated, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidLabel, s)
	}
}

// Unit selects how sentence length is measured and where it is cut.
type Unit int

const (
	// UnitWords measures whitespace-separated words.
	UnitWords Unit = iota + 1
	// UnitCharacters measures Unicode code points.
	UnitCharacters
)

// String returns the configuration name of the unit.
func (u Unit) String() string {
	switch u {
	case UnitWords:
		return "words"
	case UnitCharacters:
		return "characters"
	default:
		return fmt.Sprintf("Unit(%d)", int(u))
	}
}

// ParseUnit decodes a unit name. "chars" is accepted as shorthand.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "words", "word":
		return UnitWords, nil
	case "characters", "character", "chars":
		return UnitCharacters, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidUnit, s)
	}
}

// Measure returns the length of text in this unit.
func (u Unit) Measure(text string) int {
	if u == UnitCharacters {
		return utf8.RuneCountInString(text)
	}
	return len(strings.Fields(text))
}

// Sentence is a cleaned, deduplicated unit of text.
type Sentence = string

// SentencePair is one row of the coherence dataset.
type SentencePair struct {
	SpanA string // Head split of an original sentence; never rewritten after splitting
	SpanB string // Matching tail, or a tail borrowed from another pair
	Label Label
}

// FileRecord is the manifest entry for one processed source file.
type FileRecord struct {
	Source      string    // Source file name, relative to the input directory
	ContentID   ID        // Hash of the source file contents
	Output      string    // Path of the written dataset (first shard when sharded)
	Pairs       int       // Pairs emitted
	Related     int       // Pairs labeled related
	Unrelated   int       // Pairs labeled unrelated
	Dropped     int       // Sentences dropped for being under length
	Duplicates  int       // Lines discarded as duplicates
	CompletedAt time.Time // When the file finished processing
}
