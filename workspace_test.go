package pairgen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/pairgen/config"
	"github.com/poiesic/pairgen/events"
	"github.com/poiesic/pairgen/events/mock"
	"github.com/poiesic/pairgen/publish"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpus(t *testing.T, dir string, n int) {
	t.Helper()
	var b strings.Builder
	for i := range n {
		fmt.Fprintf(&b, "%d:%d: line %d of the corpus is long enough to become a pair\n", 1, i+1, i)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "corpus.txt"), []byte(b.String()), 0o644))
}

func TestNewWorkspace(t *testing.T) {
	t.Run("without manifest", func(t *testing.T) {
		ws, err := NewWorkspace(config.DefaultConfig())
		require.NoError(t, err)
		defer ws.Close()

		assert.Nil(t, ws.Manifest())
		assert.True(t, publish.IsDisabled(ws.Publisher()))
		assert.NotNil(t, ws.logger)
	})

	t.Run("with manifest", func(t *testing.T) {
		cfg := config.NewConfig(config.WithManifest(filepath.Join(t.TempDir(), "manifest"), true))
		ws, err := NewWorkspace(cfg)
		require.NoError(t, err)
		defer ws.Close()

		assert.NotNil(t, ws.Manifest())
		assert.NotNil(t, ws.backend)
	})

	t.Run("invalid config", func(t *testing.T) {
		ws, err := NewWorkspace(config.NewConfig(config.WithWorkers(0)))
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
		assert.Nil(t, ws)
	})

	t.Run("manifest path is a file", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0o644))

		ws, err := NewWorkspace(config.NewConfig(config.WithManifest(tmpFile, false)))
		assert.Error(t, err)
		assert.Nil(t, ws)
	})
}

func TestWorkspace_Close(t *testing.T) {
	cfg := config.NewConfig(config.WithManifest(t.TempDir(), false))
	ws, err := NewWorkspace(cfg)
	require.NoError(t, err)

	assert.NoError(t, ws.Close())
	assert.NoError(t, ws.Close(), "second close is a no-op")
}

func TestWorkspace_RunAndResume(t *testing.T) {
	input, output := t.TempDir(), t.TempDir()
	writeCorpus(t, input, 12)

	cfg := config.NewConfig(
		config.WithInputDir(input),
		config.WithOutputDir(output),
		config.WithSeed(7),
		config.WithManifest(filepath.Join(t.TempDir(), "manifest"), true),
	)

	rec := mock.NewRecorder()
	ws, err := NewWorkspace(cfg, WithRecorder(rec))
	require.NoError(t, err)

	runner, err := ws.NewRunner()
	require.NoError(t, err)
	summary, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.FilesProcessed)
	assert.Equal(t, 12, summary.PairsEmitted)
	assert.Equal(t, 6, summary.Unrelated)
	require.NoError(t, ws.Close())

	// Reopen from disk: the manifest survives and the file is skipped.
	ws, err = NewWorkspace(cfg, WithRecorder(rec))
	require.NoError(t, err)
	defer ws.Close()

	records, err := ws.Manifest().ListFileRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "corpus.txt", records[0].Source)

	runner, err = ws.NewRunner()
	require.NoError(t, err)
	summary, err = runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.FilesSkipped)
	assert.Equal(t, 1, rec.Count(events.KindFileSkipped))
}
