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
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/poiesic/pairgen/core"
)

// DefaultSentencePattern matches runs of Arabic letters, whitespace and
// Arabic punctuation.
var DefaultSentencePattern = regexp.MustCompile(`[ء-ي\s،.؛]+`)

const (
	// DefaultMinWords is the shortest run kept by ExtractSentences.
	DefaultMinWords = 10
	// DefaultElementSuffix selects the elements whose text is extracted.
	DefaultElementSuffix = "text"
)

// ExtractOptions configures ExtractSentences. Zero values take the defaults.
type ExtractOptions struct {
	Pattern       *regexp.Regexp
	MinWords      int
	ElementSuffix string // Matched case-insensitively against the element's local name
}

// ExtractStats summarizes one extraction.
type ExtractStats struct {
	Elements  int // Matching elements seen
	Sentences int // Lines written
	Rejected  int // Runs shorter than MinWords
}

func (o ExtractOptions) withDefaults() ExtractOptions {
	if o.Pattern == nil {
		o.Pattern = DefaultSentencePattern
	}
	if o.MinWords <= 0 {
		o.MinWords = DefaultMinWords
	}
	if o.ElementSuffix == "" {
		o.ElementSuffix = DefaultElementSuffix
	}
	o.ElementSuffix = strings.ToLower(o.ElementSuffix)
	return o
}

// ExtractSentences streams an XML document from r and writes one sentence
// per line to w. Text is taken from every element whose local name ends in
// the configured suffix, including text nested in child elements. Each
// matching run is written with its whitespace collapsed to single spaces.
// Malformed XML is reported as core.ErrInput.
func ExtractSentences(r io.Reader, w io.Writer, opts ExtractOptions) (ExtractStats, error) {
	opts = opts.withDefaults()
	var stats ExtractStats

	dec := xml.NewDecoder(r)
	dec.Entity = xml.HTMLEntity
	bw := bufio.NewWriterSize(w, readBufferSize)

	depth := 0 // Nesting depth inside a matching element
	var buf strings.Builder

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("%w: %w", core.ErrInput, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth > 0 {
				depth++
				continue
			}
			if strings.HasSuffix(strings.ToLower(t.Name.Local), opts.ElementSuffix) {
				depth = 1
				stats.Elements++
				buf.Reset()
			}
		case xml.CharData:
			if depth > 0 {
				buf.Write(t)
			}
		case xml.EndElement:
			if depth == 0 {
				continue
			}
			depth--
			if depth > 0 {
				continue
			}
			for _, run := range opts.Pattern.FindAllString(buf.String(), -1) {
				fields := strings.Fields(run)
				if len(fields) == 0 {
					continue
				}
				if len(fields) < opts.MinWords {
					stats.Rejected++
					continue
				}
				if _, err := bw.WriteString(strings.Join(fields, " ") + "\n"); err != nil {
					return stats, err
				}
				stats.Sentences++
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return stats, err
	}
	return stats, nil
}
