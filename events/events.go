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


package events

import (
	"context"
	"log/slog"
	"slices"
	"strings"
)

// Event kinds emitted by the pipeline.
const (
	KindFileStarted      = "file.started"
	KindFileCompleted    = "file.completed"
	KindFileFailed       = "file.failed"
	KindFileSkipped      = "file.skipped"
	KindDatasetBalanced  = "dataset.balanced"
	KindDatasetWritten   = "dataset.written"
	KindDatasetPublished = "dataset.published"
	KindRunCompleted     = "run.completed"
)

// Event is one structured pipeline occurrence.
type Event struct {
	Kind   string
	Source string // Source file the event concerns; empty for run-level events
	Attrs  map[string]any
	Err    error
}

// Recorder receives pipeline events. Implementations must be safe for
// concurrent use.
type Recorder interface {
	Record(ctx context.Context, ev Event)
}

// FileStarted reports that processing of source began.
func FileStarted(source string) Event {
	return Event{Kind: KindFileStarted, Source: source}
}

// FileCompleted reports the outcome of a processed file.
func FileCompleted(source string, pairs, dropped, duplicates int) Event {
	return Event{Kind: KindFileCompleted, Source: source, Attrs: map[string]any{
		"pairs":      pairs,
		"dropped":    dropped,
		"duplicates": duplicates,
	}}
}

// FileFailed reports a per-file failure.
func FileFailed(source string, err error) Event {
	return Event{Kind: KindFileFailed, Source: source, Err: err}
}

// FileSkipped reports a file left untouched, with the reason.
func FileSkipped(source, reason string) Event {
	return Event{Kind: KindFileSkipped, Source: source, Attrs: map[string]any{"reason": reason}}
}

// DatasetBalanced reports the label counts after balancing.
func DatasetBalanced(source string, related, unrelated int) Event {
	return Event{Kind: KindDatasetBalanced, Source: source, Attrs: map[string]any{
		"related":   related,
		"unrelated": unrelated,
	}}
}

// DatasetWritten reports the files written for source.
func DatasetWritten(source string, paths []string, truncated int) Event {
	return Event{Kind: KindDatasetWritten, Source: source, Attrs: map[string]any{
		"paths":     paths,
		"truncated": truncated,
	}}
}

// DatasetPublished reports an uploaded dataset.
func DatasetPublished(source, location string) Event {
	return Event{Kind: KindDatasetPublished, Source: source, Attrs: map[string]any{"location": location}}
}

// RunCompleted reports the totals of a run.
func RunCompleted(runID string, processed, failed, skipped, pairs int) Event {
	return Event{Kind: KindRunCompleted, Attrs: map[string]any{
		"run_id":    runID,
		"processed": processed,
		"failed":    failed,
		"skipped":   skipped,
		"pairs":     pairs,
	}}
}

// SlogRecorder writes events to a slog.Logger.
type SlogRecorder struct {
	logger *slog.Logger
}

var _ Recorder = (*SlogRecorder)(nil)

// NewSlogRecorder creates a recorder backed by logger.
// A nil logger uses slog.Default().
func NewSlogRecorder(logger *slog.Logger) *SlogRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogRecorder{logger: logger}
}

// Record logs ev. Events carrying an error log at Error, failures and skips
// at Warn, everything else at Info.
func (r *SlogRecorder) Record(ctx context.Context, ev Event) {
	level := slog.LevelInfo
	switch {
	case ev.Err != nil:
		level = slog.LevelError
	case strings.HasSuffix(ev.Kind, ".failed"), ev.Kind == KindFileSkipped:
		level = slog.LevelWarn
	}

	attrs := make([]slog.Attr, 0, len(ev.Attrs)+2)
	if ev.Source != "" {
		attrs = append(attrs, slog.String("source", ev.Source))
	}
	// Sorted keys keep log lines stable between runs.
	keys := make([]string, 0, len(ev.Attrs))
	for k := range ev.Attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, ev.Attrs[k]))
	}
	if ev.Err != nil {
		attrs = append(attrs, slog.Any("err", ev.Err))
	}

	r.logger.LogAttrs(ctx, level, ev.Kind, attrs...)
}

type discard struct{}

func (discard) Record(context.Context, Event) {}

// Discard returns a recorder that drops every event.
func Discard() Recorder {
	return discard{}
}
