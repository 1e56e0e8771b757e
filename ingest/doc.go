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


// Package ingest turns raw source text into cleaned sentences.
//
// A LineReader deduplicates the lines of one source file; a BlockReader
// groups lines into paragraphs for corpora where a unit spans several lines.
// The Normalizer applies the cleaning rules and the BlockChunker cuts
// paragraphs that exceed a length limit. ExtractSentences pulls sentences
// out of XML dumps into the one-sentence-per-line form the readers expect.
package ingest
