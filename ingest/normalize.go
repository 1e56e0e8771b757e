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
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	versePrefixRe = regexp.MustCompile(`^\d+:\d+:`)
	latinWordRe   = regexp.MustCompile(`\b[a-zA-Z]+\b`)
	punctuationRe = regexp.MustCompile(`[.,;،؛]`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// NormalizeOptions selects the cleaning steps applied to each sentence.
type NormalizeOptions struct {
	// StripVersePrefix removes "chapter:verse:" references such as "2:255:".
	StripVersePrefix bool
	// DropLatin rejects sentences containing any Latin-script word.
	DropLatin bool
	// StripPunctuation removes . , ; ، and ؛ before measuring.
	StripPunctuation bool
	// KeepSpacing leaves internal whitespace as it is. Character splits
	// count every rune, so collapsing runs of spaces would move the cut.
	KeepSpacing bool
}

// Normalizer cleans sentences before they are measured and split.
// It is stateless and safe for concurrent use.
type Normalizer struct {
	opts NormalizeOptions
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(opts NormalizeOptions) *Normalizer {
	return &Normalizer{opts: opts}
}

// Normalize returns the cleaned sentence, or false when it must be dropped.
// Text is converted to NFC and trimmed. Internal whitespace is collapsed to
// single spaces unless KeepSpacing is set.
func (n *Normalizer) Normalize(line string) (string, bool) {
	s := norm.NFC.String(strings.TrimSpace(line))

	if n.opts.StripVersePrefix {
		if loc := versePrefixRe.FindStringIndex(s); loc != nil {
			s = strings.TrimSpace(s[loc[1]:])
		}
	}
	if n.opts.DropLatin && latinWordRe.MatchString(s) {
		return "", false
	}
	if n.opts.StripPunctuation {
		s = punctuationRe.ReplaceAllString(s, "")
	}
	if !n.opts.KeepSpacing {
		s = whitespaceRe.ReplaceAllString(s, " ")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}
