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


package ingest

import (
	"errors"
	"strings"

	"github.com/poiesic/pairgen/core"
	"github.com/tmc/langchaingo/textsplitter"
)

// ErrInvalidChunkSize is returned when a chunker is built with a limit below 2.
var ErrInvalidChunkSize = errors.New("chunk size must be at least 2")

// Separators tried in order when a paragraph is too long: line breaks, then
// sentence ends, then Arabic semicolon and comma, then plain spaces.
var chunkSeparators = []string{"\n", ". ", "؛ ", "، ", " "}

// BlockChunker cuts oversized paragraphs into pieces of at most maxUnits.
type BlockChunker struct {
	maxUnits int
	unit     core.Unit
	splitter textsplitter.RecursiveCharacter
}

// NewBlockChunker creates a chunker measuring in unit.
func NewBlockChunker(maxUnits int, unit core.Unit) (*BlockChunker, error) {
	if maxUnits < 2 {
		return nil, ErrInvalidChunkSize
	}
	if err := core.ValidateUnit(unit); err != nil {
		return nil, err
	}
	return &BlockChunker{
		maxUnits: maxUnits,
		unit:     unit,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(maxUnits),
			textsplitter.WithChunkOverlap(0),
			textsplitter.WithSeparators(chunkSeparators),
			textsplitter.WithLenFunc(unit.Measure),
		),
	}, nil
}

// Chunk returns block unchanged when it fits, otherwise its pieces in order.
// Empty pieces are dropped.
func (c *BlockChunker) Chunk(block string) ([]string, error) {
	if c.unit.Measure(block) <= c.maxUnits {
		return []string{block}, nil
	}
	parts, err := c.splitter.SplitText(block)
	if err != nil {
		return nil, err
	}
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}
