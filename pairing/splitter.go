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


package pairing

import (
	"fmt"
	"math"
	"strings"

	"github.com/poiesic/pairgen/core"
)

// Splitter cuts a sentence into a head (span_a) and tail (span_b).
type Splitter struct {
	Ratio    float64   // Fraction of units in span_a, in (0, 1)
	Unit     core.Unit // Words or characters
	MinUnits int       // Sentences shorter than this are rejected
}

// cut returns floor(length * ratio).
func (s Splitter) cut(length int) int {
	return int(math.Floor(float64(length) * s.Ratio))
}

// Accepts reports whether sentence is long enough to split. A sentence whose
// cut would leave span_a empty is rejected as well.
func (s Splitter) Accepts(sentence string) bool {
	n := s.Unit.Measure(sentence)
	return n >= s.MinUnits && s.cut(n) >= 1
}

// Split returns the related pair for sentence. Words are re-joined with
// single spaces; characters are Unicode code points. Both spans are trimmed.
// Callers filter with Accepts first; under-length input returns
// core.ErrDegenerateInput.
func (s Splitter) Split(sentence string) (core.SentencePair, error) {
	if !s.Accepts(sentence) {
		return core.SentencePair{}, fmt.Errorf("%w: %d %s, need %d",
			core.ErrDegenerateInput, s.Unit.Measure(sentence), s.Unit, s.MinUnits)
	}

	var head, tail string
	switch s.Unit {
	case core.UnitCharacters:
		runes := []rune(sentence)
		cut := s.cut(len(runes))
		head, tail = string(runes[:cut]), string(runes[cut:])
	default:
		fields := strings.Fields(sentence)
		cut := s.cut(len(fields))
		head, tail = strings.Join(fields[:cut], " "), strings.Join(fields[cut:], " ")
	}

	pair := core.SentencePair{
		SpanA: strings.TrimSpace(head),
		SpanB: strings.TrimSpace(tail),
		Label: core.LabelRelated,
	}
	// A character cut can land on whitespace only, leaving nothing to keep.
	if pair.SpanA == "" {
		return core.SentencePair{}, fmt.Errorf("%w: empty head", core.ErrDegenerateInput)
	}
	return pair, nil
}

// Builder turns a stream of sentences into related pairs, dropping the ones
// the splitter rejects. Not safe for concurrent use.
type Builder struct {
	splitter Splitter
	pairs    []core.SentencePair
	dropped  int
}

// NewBuilder creates a Builder.
func NewBuilder(splitter Splitter) *Builder {
	return &Builder{splitter: splitter}
}

// Add splits sentence and keeps the pair. It reports false, and counts the
// sentence as dropped, when the sentence is under length.
func (b *Builder) Add(sentence string) bool {
	pair, err := b.splitter.Split(sentence)
	if err != nil {
		b.dropped++
		return false
	}
	b.pairs = append(b.pairs, pair)
	return true
}

// Pairs returns the pairs built so far, in input order.
func (b *Builder) Pairs() []core.SentencePair {
	return b.pairs
}

// Dropped returns how many sentences were rejected.
func (b *Builder) Dropped() int {
	return b.dropped
}
