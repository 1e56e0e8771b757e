package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/pairgen/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, 0.7, cfg.SplitRatio)
	assert.Equal(t, 10, cfg.MinUnitCount)
	assert.Equal(t, core.UnitWords, cfg.Unit)
	assert.Equal(t, ModeLines, cfg.Mode)
	assert.Equal(t, []string{".txt"}, cfg.Extensions)
	assert.Equal(t, "balanced_", cfg.OutputPrefix)
	assert.Equal(t, 1, cfg.Workers)
	assert.True(t, cfg.StripVersePrefix)
	assert.False(t, cfg.Seeded())
	assert.False(t, cfg.Publish.Enabled())
	require.NoError(t, cfg.Validate())
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("with seed", func(t *testing.T) {
		cfg := NewConfig(WithSeed(42))
		require.True(t, cfg.Seeded())
		assert.Equal(t, int64(42), *cfg.RandomSeed)
	})

	t.Run("blocks mode raises default minimum", func(t *testing.T) {
		cfg := NewConfig(WithMode(ModeBlocks))
		assert.Equal(t, ModeBlocks, cfg.Mode)
		assert.Equal(t, MinUnitsBlocks, cfg.MinUnitCount)
	})

	t.Run("blocks mode keeps explicit minimum", func(t *testing.T) {
		cfg := NewConfig(WithMinUnitCount(50), WithMode(ModeBlocks))
		assert.Equal(t, 50, cfg.MinUnitCount)
	})

	t.Run("with multiple options", func(t *testing.T) {
		cfg := NewConfig(
			WithInputDir("in"),
			WithOutputDir("out"),
			WithUnit(core.UnitCharacters),
			WithSplitRatio(0.5),
			WithSharding(100, 3),
			WithWorkers(4),
			WithRetry(5, 10*time.Millisecond),
		)
		assert.Equal(t, "in", cfg.InputDir)
		assert.Equal(t, "out", cfg.OutputDir)
		assert.Equal(t, core.UnitCharacters, cfg.Unit)
		assert.Equal(t, 0.5, cfg.SplitRatio)
		assert.Equal(t, 100, cfg.ShardSize)
		assert.Equal(t, 3, cfg.MaxShards)
		assert.Equal(t, 4, cfg.Workers)
		assert.Equal(t, 5, cfg.MaxRetries)
		assert.Equal(t, 10*time.Millisecond, cfg.RetryDelay)
	})
}

func TestConfig_Normalize(t *testing.T) {
	cfg := NewConfig(WithExtensions("TXT", ".Md", " .csv "))
	cfg.Normalize()
	assert.Equal(t, []string{".txt", ".md", ".csv"}, cfg.Extensions)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr string
	}{
		{name: "defaults", opts: nil},
		{name: "ratio zero", opts: []Option{WithSplitRatio(0)}, wantErr: "split_ratio"},
		{name: "ratio one", opts: []Option{WithSplitRatio(1)}, wantErr: "split_ratio"},
		{name: "min units zero", opts: []Option{WithMinUnitCount(0)}, wantErr: "min_unit_count"},
		{name: "invalid unit", opts: []Option{WithUnit(core.Unit(9))}, wantErr: "invalid unit"},
		{name: "invalid mode", opts: []Option{WithMode("pages")}, wantErr: "mode"},
		{name: "no extensions", opts: []Option{WithExtensions()}, wantErr: "extension"},
		{name: "negative chunk", opts: []Option{WithChunkSize(-1)}, wantErr: "negative"},
		{name: "max shards without size", opts: []Option{WithSharding(0, 2)}, wantErr: "max_shards"},
		{name: "zero workers", opts: []Option{WithWorkers(0)}, wantErr: "workers"},
		{name: "resume without manifest", opts: []Option{WithManifest("", true)}, wantErr: "resume"},
		{name: "bucket without region", opts: []Option{WithPublish(PublishConfig{Bucket: "b"})}, wantErr: "publish.region"},
		{name: "zero retries", opts: []Option{WithRetry(0, time.Second)}, wantErr: "max_retries"},
		{name: "zero report interval", opts: []Option{WithReportInterval(0)}, wantErr: "report_interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConfig(tt.opts...).Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("Blocks")
	require.NoError(t, err)
	assert.Equal(t, ModeBlocks, mode)

	_, err = ParseMode("pages")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pairgen.yaml")
	content := `
split_ratio: 0.6
min_unit_count: 100
unit_of_measure: characters
random_seed: 7
input_dir: corpus
output_dir: out
extensions: [".txt", ".text"]
mode: blocks
chunk_size: 500
retry_delay: 250ms
publish:
  bucket: datasets
  region: us-east-1
  force_path_style: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.6, cfg.SplitRatio)
	assert.Equal(t, 100, cfg.MinUnitCount)
	assert.Equal(t, core.UnitCharacters, cfg.Unit)
	require.NotNil(t, cfg.RandomSeed)
	assert.Equal(t, int64(7), *cfg.RandomSeed)
	assert.Equal(t, "corpus", cfg.InputDir)
	assert.Equal(t, []string{".txt", ".text"}, cfg.Extensions)
	assert.Equal(t, ModeBlocks, cfg.Mode)
	assert.Equal(t, 500, cfg.ChunkSize)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, "datasets", cfg.Publish.Bucket)
	assert.True(t, cfg.Publish.ForcePathStyle)
	// Untouched keys keep their defaults.
	assert.Equal(t, "balanced_", cfg.OutputPrefix)
	assert.Equal(t, 3, cfg.MaxRetries)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PAIRGEN_WORKERS", "4")
	t.Setenv("PAIRGEN_RANDOM_SEED", "99")
	t.Setenv("PAIRGEN_PUBLISH_BUCKET", "from-env")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Workers)
	require.NotNil(t, cfg.RandomSeed)
	assert.Equal(t, int64(99), *cfg.RandomSeed)
	assert.Equal(t, "from-env", cfg.Publish.Bucket)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("unknown unit", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("unit_of_measure: tokens\n"), 0644))

		_, err := Load(path)
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.ErrorIs(t, err, core.ErrInvalidUnit)
	})
}
