package corpus

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/pairgen/config"
	"github.com/poiesic/pairgen/core"
	"github.com/poiesic/pairgen/dataset"
	"github.com/poiesic/pairgen/events"
	"github.com/poiesic/pairgen/events/mock"
	"github.com/poiesic/pairgen/publish"
	"github.com/poiesic/pairgen/storage"
	"github.com/poiesic/pairgen/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sentence returns a distinct twelve-word line.
func sentence(i int) string {
	return fmt.Sprintf("sentence %d has enough words to be split into two spans here", i)
}

func sentences(from, to int) []string {
	out := make([]string, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, sentence(i))
	}
	return out
}

func writeSource(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func newTestConfig(t *testing.T, opts ...config.Option) *config.Config {
	t.Helper()
	base := []config.Option{
		config.WithInputDir(t.TempDir()),
		config.WithOutputDir(t.TempDir()),
		config.WithSeed(42),
	}
	return config.NewConfig(append(base, opts...)...)
}

func newTestRunner(t *testing.T, cfg *config.Config, opts ...Option) *Runner {
	t.Helper()
	r, err := NewRunner(cfg, append([]Option{WithRunID("test-run")}, opts...)...)
	require.NoError(t, err)
	return r
}

func readDataset(t *testing.T, path string) []core.SentencePair {
	t.Helper()
	pairs, err := dataset.ReadFile(path)
	require.NoError(t, err)
	return pairs
}

type mockPublisher struct {
	mu          sync.Mutex
	PublishFunc func(ctx context.Context, input publish.Input) (publish.Result, error)
	inputs      []publish.Input
}

func (m *mockPublisher) Publish(ctx context.Context, input publish.Input) (publish.Result, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, input)
	m.mu.Unlock()
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, input)
	}
	return publish.Result{Key: input.Key, Location: "s3://datasets/" + input.Key}, nil
}

func TestNewRunner_Errors(t *testing.T) {
	_, err := NewRunner(nil)
	assert.ErrorIs(t, err, ErrConfigRequired)

	_, err = NewRunner(newTestConfig(t, config.WithSplitRatio(1.5)))
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = NewRunner(config.NewConfig(config.WithOutputDir(t.TempDir())))
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	cfg := newTestConfig(t, config.WithManifest(filepath.Join(t.TempDir(), "manifest"), true))
	_, err = NewRunner(cfg)
	assert.ErrorIs(t, err, ErrManifestRequired)

	cfg = newTestConfig(t, config.WithMode(config.ModeBlocks), config.WithMaxBlockUnits(1))
	_, err = NewRunner(cfg)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestRun_EndToEnd(t *testing.T) {
	cfg := newTestConfig(t)
	lines := sentences(0, 10)
	lines = append(lines, sentence(3), "too short to keep", "   ", sentence(7))
	writeSource(t, cfg.InputDir, "corpus.txt", lines...)

	rec := mock.NewRecorder()
	summary, err := newTestRunner(t, cfg, WithRecorder(rec)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "test-run", summary.RunID)
	assert.Equal(t, 1, summary.FilesProcessed)
	assert.Equal(t, 0, summary.FilesFailed)
	assert.Equal(t, 10, summary.PairsEmitted)
	assert.Equal(t, 5, summary.Related)
	assert.Equal(t, 5, summary.Unrelated)
	assert.Equal(t, 2, summary.Duplicates)
	assert.Equal(t, 2, summary.PairsDropped, "short line and blank line")

	out := filepath.Join(cfg.OutputDir, "balanced_corpus.csv")
	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	rows := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	assert.Len(t, rows, 11)
	assert.Equal(t, "sentence_a,sentence_b,label", rows[0])

	pairs := readDataset(t, out)
	stats := dataset.Summarize(pairs)
	assert.Equal(t, 5, stats.Unrelated)
	assert.True(t, stats.Balanced())

	heads := map[string]bool{}
	for _, line := range sentences(0, 10) {
		fields := strings.Fields(line)
		heads[strings.Join(fields[:8], " ")] = true
	}
	for _, p := range pairs {
		assert.True(t, heads[p.SpanA], "span_a %q should be an original head", p.SpanA)
	}

	assert.Equal(t, 1, rec.Count(events.KindFileStarted))
	assert.Equal(t, 1, rec.Count(events.KindDatasetBalanced))
	assert.Equal(t, 1, rec.Count(events.KindDatasetWritten))
	assert.Equal(t, 1, rec.Count(events.KindFileCompleted))
	assert.Equal(t, 1, rec.Count(events.KindRunCompleted))
	assert.Zero(t, rec.Count(events.KindDatasetPublished))
}

func TestRun_EmptyFileWritesHeaderOnly(t *testing.T) {
	cfg := newTestConfig(t)
	writeSource(t, cfg.InputDir, "empty.txt", "short line")

	summary, err := newTestRunner(t, cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.FilesProcessed)
	assert.Equal(t, 0, summary.PairsEmitted)

	raw, err := os.ReadFile(filepath.Join(cfg.OutputDir, "balanced_empty.csv"))
	require.NoError(t, err)
	assert.Equal(t, "sentence_a,sentence_b,label\n", string(raw))
}

func TestRun_FiltersAndSortsSources(t *testing.T) {
	cfg := newTestConfig(t, config.WithExtensions("txt", ".TSV"), config.WithWorkers(3))
	writeSource(t, cfg.InputDir, "b.txt", sentences(0, 4)...)
	writeSource(t, cfg.InputDir, "a.TXT", sentences(0, 4)...)
	writeSource(t, cfg.InputDir, "c.tsv", sentences(0, 4)...)
	writeSource(t, cfg.InputDir, "notes.md", sentences(0, 4)...)
	require.NoError(t, os.Mkdir(filepath.Join(cfg.InputDir, "dir.txt"), 0o755))

	r := newTestRunner(t, cfg)
	files, err := r.sources()
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	assert.Equal(t, []string{"a.TXT", "b.txt", "c.tsv"}, names)

	summary, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.FilesProcessed)
	assert.Equal(t, 12, summary.PairsEmitted, "dedup is per file")
}

func TestRun_SingleFileInput(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "corpus.dat", sentences(0, 6)...)
	cfg := newTestConfig(t, config.WithInputDir(path))

	summary, err := newTestRunner(t, cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.FilesProcessed)
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "balanced_corpus.csv"))
}

func TestRun_MissingInput(t *testing.T) {
	cfg := newTestConfig(t, config.WithInputDir(filepath.Join(t.TempDir(), "missing")))

	summary, err := newTestRunner(t, cfg).Run(context.Background())
	assert.ErrorIs(t, err, core.ErrInput)
	assert.Nil(t, summary)
}

func TestRun_DeterministicWithSeed(t *testing.T) {
	input := t.TempDir()
	writeSource(t, input, "a.txt", sentences(0, 30)...)
	writeSource(t, input, "b.txt", sentences(30, 57)...)

	run := func(workers int) (string, string) {
		cfg := newTestConfig(t, config.WithInputDir(input), config.WithWorkers(workers))
		_, err := newTestRunner(t, cfg).Run(context.Background())
		require.NoError(t, err)
		a, err := os.ReadFile(filepath.Join(cfg.OutputDir, "balanced_a.csv"))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(cfg.OutputDir, "balanced_b.csv"))
		require.NoError(t, err)
		return string(a), string(b)
	}

	a1, b1 := run(1)
	a2, b2 := run(2)
	assert.Equal(t, a1, a2)
	assert.Equal(t, b1, b2)
	assert.NotEqual(t, a1, b1)
}

func TestRun_OneFailureDoesNotStopOthers(t *testing.T) {
	cfg := newTestConfig(t, config.WithWorkers(2))
	writeSource(t, cfg.InputDir, "bad.txt", sentences(0, 4)...)
	writeSource(t, cfg.InputDir, "good.txt", sentences(0, 4)...)
	// A directory in place of the output file makes the final rename fail.
	require.NoError(t, os.Mkdir(filepath.Join(cfg.OutputDir, "balanced_bad.csv"), 0o755))

	rec := mock.NewRecorder()
	summary, err := newTestRunner(t, cfg, WithRecorder(rec)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FilesProcessed)
	assert.Equal(t, 1, summary.FilesFailed)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "bad.txt", summary.Failures[0].Source)
	assert.Equal(t, 1, rec.Count(events.KindFileFailed))
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "balanced_good.csv"))

	leftovers, err := filepath.Glob(filepath.Join(cfg.OutputDir, ".tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "temp files are cleaned up")
}

func TestRun_Sharded(t *testing.T) {
	cfg := newTestConfig(t, config.WithSharding(10, 0))
	writeSource(t, cfg.InputDir, "corpus.txt", sentences(0, 25)...)

	rec := mock.NewRecorder()
	summary, err := newTestRunner(t, cfg, WithRecorder(rec)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 25, summary.PairsEmitted)
	assert.Equal(t, 12, summary.Unrelated, "5 + 5 + 2 across independently balanced shards")

	for n, want := range map[int]int{1: 5, 2: 5, 3: 2} {
		pairs := readDataset(t, dataset.ShardPath(filepath.Join(cfg.OutputDir, "balanced_corpus"), n))
		assert.Equal(t, want, dataset.Summarize(pairs).Unrelated, "shard %d", n)
	}
}

func TestRun_ShardedFailureLeavesNoPartialOutput(t *testing.T) {
	cfg := newTestConfig(t, config.WithSharding(10, 0))
	writeSource(t, cfg.InputDir, "corpus.txt", sentences(0, 25)...)
	base := filepath.Join(cfg.OutputDir, "balanced_corpus")
	require.NoError(t, os.Mkdir(dataset.ShardPath(base, 2), 0o755))

	summary, err := newTestRunner(t, cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.FilesFailed)
	assert.Equal(t, 0, summary.FilesProcessed)
	assert.NoFileExists(t, dataset.ShardPath(base, 1))
	assert.NoFileExists(t, dataset.ShardPath(base, 3))
}

func TestRun_ShardedRebuildRemovesStaleShards(t *testing.T) {
	cfg := newTestConfig(t, config.WithSharding(10, 0))
	writeSource(t, cfg.InputDir, "corpus.txt", sentences(0, 25)...)
	_, err := newTestRunner(t, cfg).Run(context.Background())
	require.NoError(t, err)

	writeSource(t, cfg.InputDir, "corpus.txt", sentences(100, 112)...)
	summary, err := newTestRunner(t, cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, summary.PairsEmitted)

	base := filepath.Join(cfg.OutputDir, "balanced_corpus")
	assert.Len(t, readDataset(t, dataset.ShardPath(base, 2)), 2)
	assert.NoFileExists(t, dataset.ShardPath(base, 3))
}

func TestRun_CharactersKeepSpacing(t *testing.T) {
	cfg := newTestConfig(t,
		config.WithUnit(core.UnitCharacters),
		config.WithSplitRatio(0.5),
		config.WithMinUnitCount(1))
	writeSource(t, cfg.InputDir, "chars.txt", "ab    cdefgh")

	_, err := newTestRunner(t, cfg).Run(context.Background())
	require.NoError(t, err)

	pairs := readDataset(t, filepath.Join(cfg.OutputDir, "balanced_chars.csv"))
	require.Len(t, pairs, 1)
	assert.Equal(t, "ab", pairs[0].SpanA, "cut after 6 of 12 runes, spaces included")
	assert.Equal(t, "cdefgh", pairs[0].SpanB)
}

func TestRun_ShardCapTruncates(t *testing.T) {
	cfg := newTestConfig(t, config.WithSharding(10, 2))
	writeSource(t, cfg.InputDir, "corpus.txt", sentences(0, 25)...)

	summary, err := newTestRunner(t, cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, summary.PairsEmitted)
	assert.Equal(t, 5, summary.Truncated)
	assert.Equal(t, 10, summary.Unrelated)
	assert.NoFileExists(t, dataset.ShardPath(filepath.Join(cfg.OutputDir, "balanced_corpus"), 3))
}

func TestRun_ChunkedBalancing(t *testing.T) {
	cfg := newTestConfig(t, config.WithChunkSize(4))
	writeSource(t, cfg.InputDir, "corpus.txt", sentences(0, 11)...)

	summary, err := newTestRunner(t, cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 11, summary.PairsEmitted)
	assert.Equal(t, 2+2+1, summary.Unrelated)
}

func TestRun_BlocksMode(t *testing.T) {
	cfg := newTestConfig(t,
		config.WithMode(config.ModeBlocks),
		config.WithMinUnitCount(20),
	)
	para1 := []string{sentence(0), sentence(1)}
	para2 := []string{sentence(2), sentence(3)}
	lines := append(append(append(para1, ""), para2...), "", sentence(0), sentence(1), "", "short block")
	writeSource(t, cfg.InputDir, "book.txt", lines...)

	summary, err := newTestRunner(t, cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.PairsEmitted)
	assert.Equal(t, 1, summary.Duplicates, "repeated paragraph")
	assert.Equal(t, 1, summary.PairsDropped)

	pairs := readDataset(t, filepath.Join(cfg.OutputDir, "balanced_book.csv"))
	require.Len(t, pairs, 2)
	for _, p := range pairs {
		assert.Equal(t, 16, core.UnitWords.Measure(p.SpanA), "24 words cut at 0.7")
	}
}

func TestRun_BlocksModeChunksLongParagraphs(t *testing.T) {
	cfg := newTestConfig(t,
		config.WithMode(config.ModeBlocks),
		config.WithMinUnitCount(10),
		config.WithMaxBlockUnits(12),
	)
	writeSource(t, cfg.InputDir, "book.txt", sentence(0), sentence(1), sentence(2))

	summary, err := newTestRunner(t, cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.PairsEmitted, "one 36-word paragraph becomes three chunks")
}

func TestRun_Resume(t *testing.T) {
	manifest, backend, err := badger.NewMemoryManifest()
	require.NoError(t, err)
	defer backend.Close()

	cfg := newTestConfig(t, config.WithManifest("memory", true))
	writeSource(t, cfg.InputDir, "a.txt", sentences(0, 6)...)
	writeSource(t, cfg.InputDir, "b.txt", sentences(6, 12)...)

	first, err := newTestRunner(t, cfg, WithManifest(manifest)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.FilesProcessed)

	record, err := manifest.LoadFileRecord(context.Background(), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "balanced_a.csv"), record.Output)
	assert.Equal(t, 6, record.Pairs)
	assert.Equal(t, 3, record.Unrelated)

	writeSource(t, cfg.InputDir, "b.txt", sentences(6, 14)...)

	rec := mock.NewRecorder()
	second, err := newTestRunner(t, cfg, WithManifest(manifest), WithRecorder(rec)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, second.FilesSkipped)
	assert.Equal(t, 1, second.FilesProcessed)
	assert.Equal(t, 8, second.PairsEmitted)
	require.Len(t, rec.ForSource("a.txt"), 1)
	assert.Equal(t, events.KindFileSkipped, rec.ForSource("a.txt")[0].Kind)

	require.NoError(t, os.Remove(filepath.Join(cfg.OutputDir, "balanced_a.csv")))
	third, err := newTestRunner(t, cfg, WithManifest(manifest)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, third.FilesProcessed, "missing output is rebuilt")
	assert.Equal(t, 1, third.FilesSkipped)
}

func TestRun_ManifestWithoutResumeStillRecords(t *testing.T) {
	manifest, backend, err := badger.NewMemoryManifest()
	require.NoError(t, err)
	defer backend.Close()

	cfg := newTestConfig(t)
	writeSource(t, cfg.InputDir, "a.txt", sentences(0, 4)...)

	for range 2 {
		summary, err := newTestRunner(t, cfg, WithManifest(manifest)).Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, summary.FilesProcessed)
	}

	records, err := manifest.ListFileRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	_, err = manifest.LoadFileRecord(context.Background(), "missing.txt")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRun_Publishes(t *testing.T) {
	cfg := newTestConfig(t,
		config.WithSharding(4, 0),
		config.WithPublish(config.PublishConfig{Bucket: "datasets", Region: "us-east-1", KeyPrefix: "nsp"}),
	)
	writeSource(t, cfg.InputDir, "corpus.txt", sentences(0, 6)...)

	pub := &mockPublisher{}
	rec := mock.NewRecorder()
	summary, err := newTestRunner(t, cfg, WithPublisher(pub), WithRecorder(rec)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.FilesProcessed)

	require.Len(t, pub.inputs, 2)
	assert.Equal(t, "nsp/test-run/balanced_corpus_batch_1.csv", pub.inputs[0].Key)
	assert.Equal(t, "nsp/test-run/balanced_corpus_batch_2.csv", pub.inputs[1].Key)
	assert.Equal(t, 2, rec.Count(events.KindDatasetPublished))
}

func TestRun_PublishRetriesThenFails(t *testing.T) {
	cfg := newTestConfig(t, config.WithRetry(3, time.Millisecond))
	writeSource(t, cfg.InputDir, "corpus.txt", sentences(0, 4)...)

	boom := errors.New("service unavailable")
	pub := &mockPublisher{PublishFunc: func(context.Context, publish.Input) (publish.Result, error) {
		return publish.Result{}, boom
	}}
	manifest, backend, err := badger.NewMemoryManifest()
	require.NoError(t, err)
	defer backend.Close()

	summary, err := newTestRunner(t, cfg, WithPublisher(pub), WithManifest(manifest)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.FilesFailed)
	assert.ErrorIs(t, summary.Failures[0].Err, boom)
	assert.Len(t, pub.inputs, 3)

	_, err = manifest.LoadFileRecord(context.Background(), "corpus.txt")
	assert.ErrorIs(t, err, storage.ErrNotFound, "failed files are not recorded")
}

func TestRun_PublishPermanentErrorNotRetried(t *testing.T) {
	cfg := newTestConfig(t, config.WithRetry(3, time.Millisecond))
	writeSource(t, cfg.InputDir, "corpus.txt", sentences(0, 4)...)

	pub := &mockPublisher{PublishFunc: func(context.Context, publish.Input) (publish.Result, error) {
		return publish.Result{}, publish.ErrMissingPath
	}}
	summary, err := newTestRunner(t, cfg, WithPublisher(pub)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.FilesFailed)
	assert.Len(t, pub.inputs, 1)
}

func TestRun_Cancelled(t *testing.T) {
	cfg := newTestConfig(t)
	writeSource(t, cfg.InputDir, "a.txt", sentences(0, 4)...)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := newTestRunner(t, cfg).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, summary)
	assert.Equal(t, 0, summary.FilesProcessed)
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, "balanced_a.csv"))
}

func TestRun_Progress(t *testing.T) {
	cfg := newTestConfig(t)
	writeSource(t, cfg.InputDir, "a.txt", sentences(0, 4)...)
	writeSource(t, cfg.InputDir, "b.txt", sentences(0, 4)...)

	var buf strings.Builder
	_, err := newTestRunner(t, cfg, WithProgress(&buf)).Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "[2/2] 100% built=2 failed=0 skipped=0 pairs=8")
}

func TestSummary_Write(t *testing.T) {
	s := &Summary{
		RunID:          "run-1",
		FilesProcessed: 2,
		FilesFailed:    1,
		PairsEmitted:   10,
		Related:        5,
		Unrelated:      5,
		Failures:       []FileFailure{{Source: "bad.txt", Err: core.ErrInput}},
	}
	var buf strings.Builder
	require.NoError(t, s.Write(&buf))

	out := buf.String()
	assert.Contains(t, out, "Run run-1")
	assert.Contains(t, out, "pairs emitted:   10 (5 related, 5 unrelated)")
	assert.Contains(t, out, "failed bad.txt: input error")
	assert.NotContains(t, out, "truncated")
}
