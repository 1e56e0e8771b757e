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


package corpus

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"
)

// FileFailure records why a source file produced no dataset.
type FileFailure struct {
	Source string
	Err    error
}

// Summary is the outcome of one Run.
type Summary struct {
	RunID          string
	FilesProcessed int
	FilesFailed    int
	FilesSkipped   int
	PairsEmitted   int
	PairsDropped   int // Sentences rejected by cleaning or for being under length
	Duplicates     int
	Related        int
	Unrelated      int
	Truncated      int // Pairs beyond the shard cap, not written
	Failures       []FileFailure
	Elapsed        time.Duration
}

// Write prints a human readable report of the run.
func (s *Summary) Write(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s finished in %v\n", s.RunID, s.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(&b, "  files processed: %d\n", s.FilesProcessed)
	fmt.Fprintf(&b, "  files skipped:   %d\n", s.FilesSkipped)
	fmt.Fprintf(&b, "  files failed:    %d\n", s.FilesFailed)
	fmt.Fprintf(&b, "  pairs emitted:   %d (%d related, %d unrelated)\n", s.PairsEmitted, s.Related, s.Unrelated)
	fmt.Fprintf(&b, "  pairs dropped:   %d\n", s.PairsDropped)
	fmt.Fprintf(&b, "  duplicates:      %d\n", s.Duplicates)
	if s.Truncated > 0 {
		fmt.Fprintf(&b, "  truncated:       %d\n", s.Truncated)
	}
	for _, f := range s.Failures {
		fmt.Fprintf(&b, "  failed %s: %v\n", f.Source, f.Err)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// fileResult is what processing one source file contributes to the summary.
type fileResult struct {
	source     string
	pairs      int
	dropped    int
	duplicates int
	related    int
	unrelated  int
	truncated  int
	skipped    bool
	err        error
}

// summaryBuilder merges file results from concurrent workers.
type summaryBuilder struct {
	mu      sync.Mutex
	summary Summary
}

func (sb *summaryBuilder) add(r fileResult) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	s := &sb.summary
	switch {
	case r.err != nil:
		s.FilesFailed++
		s.Failures = append(s.Failures, FileFailure{Source: r.source, Err: r.err})
	case r.skipped:
		s.FilesSkipped++
	default:
		s.FilesProcessed++
		s.PairsEmitted += r.pairs
		s.PairsDropped += r.dropped
		s.Duplicates += r.duplicates
		s.Related += r.related
		s.Unrelated += r.unrelated
		s.Truncated += r.truncated
	}
}

func (sb *summaryBuilder) finish(runID string, elapsed time.Duration) *Summary {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	s := sb.summary
	s.RunID = runID
	s.Elapsed = elapsed
	slices.SortFunc(s.Failures, func(a, b FileFailure) int {
		return strings.Compare(a.Source, b.Source)
	})
	return &s
}
