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


// Package dataset reads and writes sentence-pair datasets.
//
// A dataset is a CSV file with the header
//
//	sentence_a,sentence_b,label
//
// followed by one row per pair. Labels are "1" for a related pair and "0"
// for an unrelated one. Files are always replaced atomically.
package dataset
