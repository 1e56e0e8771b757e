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


package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/poiesic/pairgen/core"
)

var (
	// ErrInvalidHeader indicates a CSV file whose first row is not the dataset header.
	ErrInvalidHeader = errors.New("invalid dataset header")

	// ErrMalformedRow indicates a row with the wrong field count or label.
	ErrMalformedRow = errors.New("malformed dataset row")
)

// Header is the first row of every dataset.
var Header = []string{"sentence_a", "sentence_b", "label"}

// WriteCSV writes the header and one row per pair, in order. Fields are
// quoted as RFC 4180 requires, so spans may hold commas, quotes and newlines.
func WriteCSV(w io.Writer, pairs []core.SentencePair) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	row := make([]string, 3)
	for i := range pairs {
		if err := core.ValidateLabel(pairs[i].Label); err != nil {
			return fmt.Errorf("pair %d: %w", i, err)
		}
		row[0], row[1], row[2] = pairs[i].SpanA, pairs[i].SpanB, pairs[i].Label.String()
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a dataset written by WriteCSV. The header is matched
// case-insensitively so files using "Label" are accepted too.
func ReadCSV(r io.Reader) ([]core.SentencePair, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	for i, name := range Header {
		if !strings.EqualFold(strings.TrimSpace(header[i]), name) {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrInvalidHeader, i+1, header[i], name)
		}
	}

	var pairs []core.SentencePair
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedRow, err)
		}
		label, err := core.ParseLabel(rec[2])
		if err != nil {
			line, _ := cr.FieldPos(2)
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, err)
		}
		pairs = append(pairs, core.SentencePair{SpanA: rec[0], SpanB: rec[1], Label: label})
	}
	return pairs, nil
}

// ReadFile reads the dataset at path.
func ReadFile(path string) ([]core.SentencePair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}
