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


// Package pairgen builds balanced sentence-pair datasets for next sentence
// prediction from plain-text corpora.
//
// A Workspace wires the pieces a build needs from one config.Config: the
// optional BadgerDB manifest, the optional S3 publisher and a structured
// event recorder.
//
//	cfg, err := config.Load("pairgen.yaml")
//	ws, err := pairgen.NewWorkspace(cfg)
//	defer ws.Close()
//	runner, err := ws.NewRunner(corpus.WithProgress(os.Stderr))
//	summary, err := runner.Run(ctx)
package pairgen

import (
	"context"
	"log/slog"

	"github.com/poiesic/pairgen/config"
	"github.com/poiesic/pairgen/corpus"
	"github.com/poiesic/pairgen/events"
	"github.com/poiesic/pairgen/publish"
	"github.com/poiesic/pairgen/storage"
	"github.com/poiesic/pairgen/storage/badger"
)

type Workspace struct {
	cfg       *config.Config
	backend   *badger.Backend
	manifest  storage.ManifestRepository
	publisher publish.Publisher
	recorder  events.Recorder
	logger    *slog.Logger
}

// WorkspaceOption configures a Workspace.
type WorkspaceOption func(*workspaceOptions)

type workspaceOptions struct {
	logger    *slog.Logger
	recorder  events.Recorder
	publisher publish.Publisher
}

// WithLogger sets the logger used by the workspace and its runners.
func WithLogger(logger *slog.Logger) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.logger = logger
	}
}

// WithRecorder replaces the default slog event recorder.
func WithRecorder(recorder events.Recorder) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.recorder = recorder
	}
}

// WithPublisher replaces the publisher built from cfg.Publish.
func WithPublisher(publisher publish.Publisher) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.publisher = publisher
	}
}

// NewWorkspace validates cfg and opens what it asks for. The manifest is
// opened on disk when cfg.ManifestPath is set.
func NewWorkspace(cfg *config.Config, opts ...WorkspaceOption) (*Workspace, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &workspaceOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	if options.recorder == nil {
		options.recorder = events.NewSlogRecorder(options.logger)
	}

	ws := &Workspace{
		cfg:      cfg,
		recorder: options.recorder,
		logger:   options.logger,
	}

	if cfg.ManifestPath != "" {
		backend, err := badger.OpenBackendWithLogger(cfg.ManifestPath, false, options.logger)
		if err != nil {
			return nil, err
		}
		ws.backend = backend
		ws.manifest = badger.NewManifestRepository(backend)
	}

	ws.publisher = options.publisher
	if ws.publisher == nil {
		publisher, err := publish.NewPublisher(context.Background(), publish.Config{
			Bucket:         cfg.Publish.Bucket,
			Region:         cfg.Publish.Region,
			Endpoint:       cfg.Publish.Endpoint,
			KeyPrefix:      cfg.Publish.KeyPrefix,
			ForcePathStyle: cfg.Publish.ForcePathStyle,
		})
		if err != nil {
			ws.Close()
			return nil, err
		}
		ws.publisher = publisher
	}

	return ws, nil
}

// Close releases the manifest. It is safe to call more than once.
func (ws *Workspace) Close() error {
	if ws.manifest != nil {
		if err := ws.manifest.Close(); err != nil {
			ws.logger.Error("error closing manifest repository", "err", err)
			return err
		}
	}
	if ws.backend != nil && !ws.backend.IsClosed() {
		if err := ws.backend.Close(); err != nil {
			ws.logger.Error("error closing manifest storage", "err", err)
			return err
		}
	}
	return nil
}

// Config returns the validated configuration.
func (ws *Workspace) Config() *config.Config {
	return ws.cfg
}

// Manifest returns the manifest repository, or nil when none is configured.
func (ws *Workspace) Manifest() storage.ManifestRepository {
	return ws.manifest
}

// Publisher returns the dataset publisher. It is publish.Disabled() when
// publication is not configured.
func (ws *Workspace) Publisher() publish.Publisher {
	return ws.publisher
}

// NewRunner creates a corpus runner wired to the workspace. Extra options
// are applied after the workspace's own.
func (ws *Workspace) NewRunner(opts ...corpus.Option) (*corpus.Runner, error) {
	base := []corpus.Option{
		corpus.WithLogger(ws.logger),
		corpus.WithRecorder(ws.recorder),
		corpus.WithPublisher(ws.publisher),
	}
	if ws.manifest != nil {
		base = append(base, corpus.WithManifest(ws.manifest))
	}
	return corpus.NewRunner(ws.cfg, append(base, opts...)...)
}
