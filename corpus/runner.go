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
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/pairgen/config"
	"github.com/poiesic/pairgen/core"
	"github.com/poiesic/pairgen/events"
	"github.com/poiesic/pairgen/ingest"
	"github.com/poiesic/pairgen/publish"
	"github.com/poiesic/pairgen/storage"
)

// Runner turns every source file of an input directory into a balanced
// sentence-pair dataset.
type Runner struct {
	cfg        *config.Config
	recorder   events.Recorder
	manifest   storage.ManifestRepository
	publisher  publish.Publisher
	progress   io.Writer
	logger     *slog.Logger
	runID      string
	normalizer *ingest.Normalizer
	chunker    *ingest.BlockChunker
}

// Option configures a Runner.
type Option func(*Runner) error

// WithRecorder sets the event recorder. Default discards events.
func WithRecorder(recorder events.Recorder) Option {
	return func(r *Runner) error {
		if recorder == nil {
			recorder = events.Discard()
		}
		r.recorder = recorder
		return nil
	}
}

// WithManifest enables the manifest. Finished files are recorded in it and,
// when the config asks for resume, unchanged files are skipped.
func WithManifest(manifest storage.ManifestRepository) Option {
	return func(r *Runner) error {
		r.manifest = manifest
		return nil
	}
}

// WithPublisher sets where finished datasets are uploaded.
// Default is publish.Disabled().
func WithPublisher(publisher publish.Publisher) Option {
	return func(r *Runner) error {
		if publisher == nil {
			publisher = publish.Disabled()
		}
		r.publisher = publisher
		return nil
	}
}

// WithProgress prints a progress line to w as files finish.
func WithProgress(w io.Writer) Option {
	return func(r *Runner) error {
		r.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(r *Runner) error {
		r.runID = id
		return nil
	}
}

// NewRunner creates a Runner for cfg. The config is validated here.
func NewRunner(cfg *config.Config, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.InputDir == "" || cfg.OutputDir == "" {
		return nil, fmt.Errorf("%w: input and output directories are required", config.ErrInvalidConfig)
	}

	r := &Runner{
		cfg:       cfg,
		recorder:  events.Discard(),
		publisher: publish.Disabled(),
		logger:    slog.Default(),
		runID:     uuid.NewString(),
		normalizer: ingest.NewNormalizer(ingest.NormalizeOptions{
			StripVersePrefix: cfg.StripVersePrefix,
			DropLatin:        cfg.DropLatin,
			StripPunctuation: cfg.StripPunctuation,
			KeepSpacing:      cfg.Unit == core.UnitCharacters,
		}),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	if cfg.Resume && r.manifest == nil {
		return nil, ErrManifestRequired
	}

	if cfg.Mode == config.ModeBlocks && cfg.MaxBlockUnits > 0 {
		chunker, err := ingest.NewBlockChunker(cfg.MaxBlockUnits, cfg.Unit)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
		}
		r.chunker = chunker
	}

	return r, nil
}

// RunID returns the identifier stamped on this runner's events and
// published object keys.
func (r *Runner) RunID() string {
	return r.runID
}

// Run processes every matching file. A file that fails is logged, counted
// and left without output; the other files continue. Run itself only fails
// when the input cannot be listed, the output directory cannot be created,
// or ctx is cancelled. On cancellation the partial summary is returned with
// the context error.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()

	files, err := r.sources()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	r.logger.Info("starting dataset build",
		"run_id", r.runID, "files", len(files), "workers", r.cfg.Workers, "mode", r.cfg.Mode)

	var progress *progressLine
	if r.progress != nil {
		progress = newProgressLine(r.progress, len(files), r.cfg.ReportInterval)
	}

	pool, err := ants.NewPool(r.cfg.Workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	var (
		sb summaryBuilder
		wg sync.WaitGroup
	)
	for _, path := range files {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			result := r.processFile(ctx, path)
			sb.add(result)
			if progress != nil {
				progress.fileDone(result)
			}
		})
		if submitErr != nil {
			wg.Done()
			sb.add(fileResult{source: filepath.Base(path), err: submitErr})
		}
	}
	wg.Wait()

	if progress != nil {
		progress.finish()
	}

	summary := sb.finish(r.runID, time.Since(start))
	r.recorder.Record(ctx, events.RunCompleted(r.runID,
		summary.FilesProcessed, summary.FilesFailed, summary.FilesSkipped, summary.PairsEmitted))

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// sources lists the files to process, sorted by name. InputDir may name a
// single file, which is then processed regardless of its extension.
func (r *Runner) sources() ([]string, error) {
	info, err := os.Stat(r.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInput, err)
	}
	if !info.IsDir() {
		return []string{r.cfg.InputDir}, nil
	}

	entries, err := os.ReadDir(r.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInput, err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !slices.Contains(r.cfg.Extensions, ext) {
			continue
		}
		files = append(files, filepath.Join(r.cfg.InputDir, entry.Name()))
	}
	slices.Sort(files)
	return files, nil
}

// outputBase returns the output path for source without the .csv suffix.
func (r *Runner) outputBase(source string) string {
	stem := strings.TrimSuffix(source, filepath.Ext(source))
	return filepath.Join(r.cfg.OutputDir, r.cfg.OutputPrefix+stem)
}

// balanceChunkSize is the configured chunk size. Sharded output without an
// explicit chunk size balances every shard on its own.
func (r *Runner) balanceChunkSize() int {
	if r.cfg.ChunkSize == 0 && r.cfg.ShardSize > 0 {
		return r.cfg.ShardSize
	}
	return r.cfg.ChunkSize
}
