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

import "github.com/poiesic/pairgen/core"

// Stats counts the labels of a dataset.
type Stats struct {
	Rows      int
	Related   int
	Unrelated int
}

// Summarize counts the labels of pairs.
func Summarize(pairs []core.SentencePair) Stats {
	s := Stats{Rows: len(pairs)}
	for i := range pairs {
		switch pairs[i].Label {
		case core.LabelRelated:
			s.Related++
		case core.LabelUnrelated:
			s.Unrelated++
		}
	}
	return s
}

// Balanced reports whether exactly floor(Rows/2) rows are unrelated and the
// rest related.
func (s Stats) Balanced() bool {
	return s.Unrelated == s.Rows/2 && s.Related == s.Rows-s.Rows/2
}

// Add returns the sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Rows:      s.Rows + o.Rows,
		Related:   s.Related + o.Related,
		Unrelated: s.Unrelated + o.Unrelated,
	}
}
