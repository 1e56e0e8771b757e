package corpus

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock(p *progressLine, elapsed time.Duration) {
	start := p.start
	p.now = func() time.Time { return start.Add(elapsed) }
}

func TestProgressLine_CountsOutcomes(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressLine(&buf, 4, 1)
	fixedClock(p, 2*time.Second)

	p.fileDone(fileResult{source: "a.txt", pairs: 10})
	p.fileDone(fileResult{source: "b.txt", pairs: 5})
	p.fileDone(fileResult{source: "c.txt", err: errors.New("boom")})
	p.fileDone(fileResult{source: "d.txt", skipped: true})

	lines := strings.Split(strings.TrimPrefix(buf.String(), "\r"), "\r")
	assert.Len(t, lines, 4)
	assert.Equal(t, "[4/4] 100% built=2 failed=1 skipped=1 pairs=15 2.0 files/s", lines[3])
}

func TestProgressLine_Interval(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressLine(&buf, 5, 2)

	for range 5 {
		p.fileDone(fileResult{pairs: 1})
	}

	out := buf.String()
	assert.Equal(t, 3, strings.Count(out, "\r["), "prints at 2, 4 and the last file")
	assert.Contains(t, out, "[5/5] 100%")
}

func TestProgressLine_FinishAfterCancel(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressLine(&buf, 4, 10)

	p.fileDone(fileResult{pairs: 3})
	assert.Empty(t, buf.String(), "interval not reached")

	p.finish()
	out := buf.String()
	assert.Contains(t, out, "[1/4] 25% built=1")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestProgressLine_ZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressLine(&buf, 0, 0)
	p.finish()
	assert.Contains(t, buf.String(), "[0/0] 100%")
}
