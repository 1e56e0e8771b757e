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
	"bufio"
	"errors"
	"io"
	"strings"
)

const readBufferSize = 64 * 1024

// Scanner is the iteration protocol shared by the readers in this package.
// Scan advances to the next value and reports whether one is available;
// Err reports the first read error once Scan returns false.
type Scanner interface {
	Scan() bool
	Text() string
	Err() error
}

// lineScanner yields raw lines with the line terminator (LF or CRLF) removed.
// Lines have no length limit.
type lineScanner struct {
	br   *bufio.Reader
	text string
	err  error
	done bool
}

func newLineScanner(r io.Reader) *lineScanner {
	return &lineScanner{br: bufio.NewReaderSize(r, readBufferSize)}
}

func (s *lineScanner) Scan() bool {
	if s.done {
		return false
	}
	line, err := s.br.ReadString('\n')
	if err != nil {
		s.done = true
		if !errors.Is(err, io.EOF) {
			s.err = err
			return false
		}
		// A final line without terminator still counts.
		if line == "" {
			return false
		}
	}
	line = strings.TrimSuffix(line, "\n")
	s.text = strings.TrimSuffix(line, "\r")
	return true
}

func (s *lineScanner) Text() string { return s.text }
func (s *lineScanner) Err() error   { return s.err }

// LineReader trims every value of an underlying Scanner and emits only the
// first occurrence of each trimmed value, in original order.
// The seen-set belongs to the reader, so one reader must cover exactly one
// source file. LineReader is lazy and cannot be restarted.
type LineReader struct {
	src  Scanner
	seen map[string]struct{}
	text string
	dups int
}

var _ Scanner = (*LineReader)(nil)

// NewLineReader deduplicates the lines of r.
func NewLineReader(r io.Reader) *LineReader {
	return Dedup(newLineScanner(r))
}

// Dedup deduplicates the values produced by src.
func Dedup(src Scanner) *LineReader {
	return &LineReader{
		src:  src,
		seen: make(map[string]struct{}),
	}
}

// Scan advances to the next first-seen value.
func (lr *LineReader) Scan() bool {
	for lr.src.Scan() {
		v := strings.TrimSpace(lr.src.Text())
		if _, ok := lr.seen[v]; ok {
			lr.dups++
			continue
		}
		lr.seen[v] = struct{}{}
		lr.text = v
		return true
	}
	return false
}

// Text returns the current value.
func (lr *LineReader) Text() string { return lr.text }

// Err returns the first read error, if any.
func (lr *LineReader) Err() error { return lr.src.Err() }

// Duplicates returns how many values were discarded so far.
func (lr *LineReader) Duplicates() int { return lr.dups }

// BlockReader groups raw lines into paragraphs. Consecutive non-blank lines
// are trimmed and joined with a single space; a blank line ends a paragraph.
// Blank lines never produce a paragraph of their own.
type BlockReader struct {
	lines *lineScanner
	text  string
}

var _ Scanner = (*BlockReader)(nil)

// NewBlockReader reads blank-line separated paragraphs from r.
func NewBlockReader(r io.Reader) *BlockReader {
	return &BlockReader{lines: newLineScanner(r)}
}

// Scan advances to the next paragraph.
func (br *BlockReader) Scan() bool {
	var parts []string
	for br.lines.Scan() {
		line := strings.TrimSpace(br.lines.Text())
		if line == "" {
			if len(parts) > 0 {
				break
			}
			continue
		}
		parts = append(parts, line)
	}
	if len(parts) == 0 {
		return false
	}
	br.text = strings.Join(parts, " ")
	return true
}

// Text returns the current paragraph.
func (br *BlockReader) Text() string { return br.text }

// Err returns the first read error, if any.
func (br *BlockReader) Err() error { return br.lines.Err() }
