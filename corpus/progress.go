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
	"sync"
	"time"
)

// progressLine prints a status line as source files finish:
//
//	[3/10] 30% built=2 failed=1 skipped=0 pairs=812 1.4 files/s
//
// Lines start with a carriage return so a terminal keeps one line updated.
type progressLine struct {
	mu    sync.Mutex
	w     io.Writer
	total int
	every int
	start time.Time
	now   func() time.Time

	done, built, failed, skipped, pairs int
}

func newProgressLine(w io.Writer, total, every int) *progressLine {
	p := &progressLine{w: w, total: total, every: max(every, 1), now: time.Now}
	p.start = p.now()
	return p
}

// fileDone counts one finished file and prints every p.every files.
func (p *progressLine) fileDone(r fileResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	switch {
	case r.err != nil:
		p.failed++
	case r.skipped:
		p.skipped++
	default:
		p.built++
		p.pairs += r.pairs
	}
	if p.done%p.every == 0 || p.done == p.total {
		p.print()
	}
}

// finish prints the final counts, which are short of total after a
// cancelled run, and ends the line.
func (p *progressLine) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.print()
	fmt.Fprintln(p.w)
}

func (p *progressLine) print() {
	percent := 100
	if p.total > 0 {
		percent = p.done * 100 / p.total
	}
	rate := 0.0
	if secs := p.now().Sub(p.start).Seconds(); secs > 0 {
		rate = float64(p.done) / secs
	}
	fmt.Fprintf(p.w, "\r[%d/%d] %d%% built=%d failed=%d skipped=%d pairs=%d %.1f files/s",
		p.done, p.total, percent, p.built, p.failed, p.skipped, p.pairs, rate)
}
