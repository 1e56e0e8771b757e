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
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/poiesic/pairgen/config"
	"github.com/poiesic/pairgen/core"
	"github.com/poiesic/pairgen/dataset"
	"github.com/poiesic/pairgen/events"
	"github.com/poiesic/pairgen/ingest"
	"github.com/poiesic/pairgen/pairing"
	"github.com/poiesic/pairgen/publish"
	"github.com/poiesic/pairgen/storage"
)

// processFile runs one source file through the pipeline and reports the
// outcome. Errors are recorded on the result, never returned, so one bad
// file cannot stop the batch.
func (r *Runner) processFile(ctx context.Context, path string) fileResult {
	source := filepath.Base(path)
	result := fileResult{source: source}
	log := r.logger.With("source", source)

	if err := ctx.Err(); err != nil {
		result.err = err
		return result
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result.err = fmt.Errorf("%w: %w", core.ErrInput, err)
		r.fail(ctx, log, result)
		return result
	}
	contentID := core.IDFromContent(string(data))

	if reason, skip := r.shouldSkip(ctx, source, contentID); skip {
		result.skipped = true
		log.Debug("skipping file", "reason", reason)
		r.recorder.Record(ctx, events.FileSkipped(source, reason))
		return result
	}

	r.recorder.Record(ctx, events.FileStarted(source))

	pairs, dropped, duplicates, err := r.buildPairs(data)
	if err != nil {
		result.err = err
		r.fail(ctx, log, result)
		return result
	}
	result.dropped = dropped
	result.duplicates = duplicates

	stats, err := r.balance(source, pairs)
	if err != nil {
		result.err = err
		r.fail(ctx, log, result)
		return result
	}
	r.recorder.Record(ctx, events.DatasetBalanced(source, stats.Related, stats.Unrelated))

	paths, truncated, err := r.write(source, pairs)
	if err != nil {
		result.err = err
		r.fail(ctx, log, result)
		return result
	}
	r.recorder.Record(ctx, events.DatasetWritten(source, paths, truncated))

	written := dataset.Summarize(pairs[:len(pairs)-truncated])
	result.pairs = written.Rows
	result.related = written.Related
	result.unrelated = written.Unrelated
	result.truncated = truncated

	if err := r.publishAll(ctx, source, paths); err != nil {
		result.err = err
		r.fail(ctx, log, result)
		return result
	}

	if r.manifest != nil {
		record := &core.FileRecord{
			Source:     source,
			ContentID:  contentID,
			Output:     paths[0],
			Pairs:      result.pairs,
			Related:    result.related,
			Unrelated:  result.unrelated,
			Dropped:    result.dropped,
			Duplicates: result.duplicates,
		}
		if err := r.manifest.SaveFileRecord(ctx, record); err != nil {
			// Output stays; the file is rebuilt on the next resume.
			log.Warn("failed to record file in manifest", "err", err)
		}
	}

	log.Info("file complete",
		"pairs", result.pairs, "related", result.related, "unrelated", result.unrelated,
		"dropped", result.dropped, "duplicates", result.duplicates)
	r.recorder.Record(ctx, events.FileCompleted(source, result.pairs, result.dropped, result.duplicates))
	return result
}

func (r *Runner) fail(ctx context.Context, log *slog.Logger, result fileResult) {
	log.Error("file failed", "err", result.err)
	r.recorder.Record(ctx, events.FileFailed(result.source, result.err))
}

// shouldSkip reports whether resume allows skipping source: the manifest
// must hold a record with the same content hash whose output still exists.
func (r *Runner) shouldSkip(ctx context.Context, source string, contentID core.ID) (string, bool) {
	if !r.cfg.Resume || r.manifest == nil {
		return "", false
	}
	record, err := r.manifest.LoadFileRecord(ctx, source)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			r.logger.Warn("manifest lookup failed", "source", source, "err", err)
		}
		return "", false
	}
	if record.ContentID != contentID {
		return "", false
	}
	if _, err := os.Stat(record.Output); err != nil {
		return "", false
	}
	return "unchanged since " + record.CompletedAt.Format(time.RFC3339), true
}

// buildPairs reads, deduplicates, cleans and splits the source contents.
func (r *Runner) buildPairs(data []byte) (pairs []core.SentencePair, dropped, duplicates int, err error) {
	var reader *ingest.LineReader
	if r.cfg.Mode == config.ModeBlocks {
		reader = ingest.Dedup(ingest.NewBlockReader(bytes.NewReader(data)))
	} else {
		reader = ingest.NewLineReader(bytes.NewReader(data))
	}

	builder := pairing.NewBuilder(pairing.Splitter{
		Ratio:    r.cfg.SplitRatio,
		Unit:     r.cfg.Unit,
		MinUnits: r.cfg.MinUnitCount,
	})

	rejected := 0
	for reader.Scan() {
		sentence, ok := r.normalizer.Normalize(reader.Text())
		if !ok {
			rejected++
			continue
		}
		if r.chunker == nil {
			builder.Add(sentence)
			continue
		}
		pieces, err := r.chunker.Chunk(sentence)
		if err != nil {
			return nil, 0, 0, err
		}
		for _, piece := range pieces {
			builder.Add(piece)
		}
	}
	if err := reader.Err(); err != nil {
		return nil, 0, 0, fmt.Errorf("%w: %w", core.ErrInput, err)
	}

	return builder.Pairs(), builder.Dropped() + rejected, reader.Duplicates(), nil
}

// balance relabels pairs with a randomness source owned by this file. With a
// seed, the stream is derived from the file name so results do not depend on
// worker scheduling.
func (r *Runner) balance(source string, pairs []core.SentencePair) (pairing.BalanceStats, error) {
	var rnd pairing.Rand
	if r.cfg.Seeded() {
		rnd = pairing.NewRand(*r.cfg.RandomSeed, uint64(core.IDFromContent(source)))
	} else {
		rnd = pairing.NewRandomRand()
	}

	balancer, err := pairing.NewBalancer(rnd,
		pairing.WithChunkSize(r.balanceChunkSize()),
		pairing.WithLogger(r.logger))
	if err != nil {
		return pairing.BalanceStats{}, err
	}
	return balancer.Balance(pairs)
}

// write emits the dataset as one file or as shards.
func (r *Runner) write(source string, pairs []core.SentencePair) ([]string, int, error) {
	base := r.outputBase(source)
	if r.cfg.ShardSize > 0 {
		sw := dataset.ShardWriter{Size: r.cfg.ShardSize, MaxShards: r.cfg.MaxShards}
		return sw.Write(base, pairs)
	}
	path := base + ".csv"
	if err := dataset.WriteDataset(path, pairs); err != nil {
		return nil, 0, err
	}
	return []string{path}, 0, nil
}

// publishAll uploads every written file, retrying each with backoff.
func (r *Runner) publishAll(ctx context.Context, source string, paths []string) error {
	if publish.IsDisabled(r.publisher) {
		return nil
	}
	retry := retryPolicy{
		attempts:  r.cfg.MaxRetries,
		delay:     r.cfg.RetryDelay,
		logger:    r.logger.With("source", source),
		permanent: publish.IsPermanent,
	}
	for _, path := range paths {
		input := publish.Input{
			Path: path,
			Key:  publish.Key(r.cfg.Publish.KeyPrefix, r.runID, path),
		}
		var result publish.Result
		err := retry.do(ctx, "publish "+input.Key, func(ctx context.Context) error {
			var err error
			result, err = r.publisher.Publish(ctx, input)
			return err
		})
		if err != nil {
			return fmt.Errorf("publish %s: %w", filepath.Base(path), err)
		}
		r.recorder.Record(ctx, events.DatasetPublished(source, result.Location))
	}
	return nil
}
