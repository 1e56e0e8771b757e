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


package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/poiesic/pairgen"
	"github.com/poiesic/pairgen/config"
	"github.com/poiesic/pairgen/core"
	"github.com/poiesic/pairgen/corpus"
	"github.com/urfave/cli/v2"
)

func buildCommandSpec() *cli.Command {
	return &cli.Command{
		Name:   "build",
		Usage:  "Turn every source file of a directory into a balanced pair dataset",
		Action: buildCommand,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "Input directory or single source file"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output directory"},
			&cli.Int64Flag{Name: "seed", Usage: "Random seed for reproducible datasets"},
			&cli.Float64Flag{Name: "ratio", Usage: "Fraction of each sentence that goes to sentence_a", Value: 0.7},
			&cli.IntFlag{Name: "min-units", Usage: "Drop sentences shorter than this many units", Value: config.MinUnitsLines},
			&cli.StringFlag{Name: "unit", Usage: "Unit of measure (words, characters)", Value: "words"},
			&cli.StringFlag{Name: "mode", Usage: "Sentence source (lines, blocks)", Value: string(config.ModeLines)},
			&cli.StringSliceFlag{Name: "ext", Usage: "Source file extensions to include"},
			&cli.StringFlag{Name: "prefix", Usage: "Output file name prefix", Value: "balanced_"},
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "Files processed concurrently", Value: 1},
			&cli.StringFlag{Name: "manifest", Usage: "Path to BadgerDB manifest directory"},
			&cli.BoolFlag{Name: "resume", Usage: "Skip files unchanged since their last build"},
			&cli.IntFlag{Name: "chunk-size", Usage: "Balance every run of N pairs on its own"},
			&cli.IntFlag{Name: "shard-size", Usage: "Write at most N pairs per output file"},
			&cli.IntFlag{Name: "max-shards", Usage: "Stop after this many shards per source"},
			&cli.IntFlag{Name: "max-block-units", Usage: "Chunk paragraphs longer than this (blocks mode)"},
			&cli.BoolFlag{Name: "keep-verse-prefix", Usage: "Keep chapter:verse: prefixes"},
			&cli.BoolFlag{Name: "drop-latin", Usage: "Drop sentences containing Latin-script words"},
			&cli.BoolFlag{Name: "strip-punctuation", Usage: "Remove . , ; ، ؛ before splitting"},
			&cli.StringFlag{Name: "bucket", Usage: "S3 bucket to publish datasets to"},
			&cli.StringFlag{Name: "region", Usage: "S3 region"},
			&cli.StringFlag{Name: "endpoint", Usage: "S3-compatible endpoint URL"},
			&cli.StringFlag{Name: "key-prefix", Usage: "Object key prefix for published datasets"},
			&cli.BoolFlag{Name: "path-style", Usage: "Use path-style S3 addressing"},
			&cli.IntFlag{Name: "max-retries", Usage: "Maximum publish attempts per file", Value: 3},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Do not print progress"},
		},
	}
}

// loadConfig layers the config file, PAIRGEN_* environment and explicit flags.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	var opts []config.Option
	// Mode first: switching to blocks raises the default minimum length.
	if c.IsSet("mode") {
		mode, err := config.ParseMode(c.String("mode"))
		if err != nil {
			return nil, err
		}
		opts = append(opts, config.WithMode(mode))
	}
	if c.IsSet("input") {
		opts = append(opts, config.WithInputDir(c.String("input")))
	}
	if c.IsSet("output") {
		opts = append(opts, config.WithOutputDir(c.String("output")))
	}
	if c.IsSet("seed") {
		opts = append(opts, config.WithSeed(c.Int64("seed")))
	}
	if c.IsSet("ratio") {
		opts = append(opts, config.WithSplitRatio(c.Float64("ratio")))
	}
	if c.IsSet("min-units") {
		opts = append(opts, config.WithMinUnitCount(c.Int("min-units")))
	}
	if c.IsSet("unit") {
		unit, err := core.ParseUnit(c.String("unit"))
		if err != nil {
			return nil, err
		}
		opts = append(opts, config.WithUnit(unit))
	}
	if c.IsSet("ext") {
		opts = append(opts, config.WithExtensions(c.StringSlice("ext")...))
	}
	if c.IsSet("prefix") {
		opts = append(opts, config.WithOutputPrefix(c.String("prefix")))
	}
	if c.IsSet("workers") {
		opts = append(opts, config.WithWorkers(c.Int("workers")))
	}
	if c.IsSet("manifest") || c.IsSet("resume") {
		path := cfg.ManifestPath
		if c.IsSet("manifest") {
			path = c.String("manifest")
		}
		resume := cfg.Resume
		if c.IsSet("resume") {
			resume = c.Bool("resume")
		}
		opts = append(opts, config.WithManifest(path, resume))
	}
	if c.IsSet("chunk-size") {
		opts = append(opts, config.WithChunkSize(c.Int("chunk-size")))
	}
	if c.IsSet("shard-size") || c.IsSet("max-shards") {
		size, maxShards := cfg.ShardSize, cfg.MaxShards
		if c.IsSet("shard-size") {
			size = c.Int("shard-size")
		}
		if c.IsSet("max-shards") {
			maxShards = c.Int("max-shards")
		}
		opts = append(opts, config.WithSharding(size, maxShards))
	}
	if c.IsSet("max-block-units") {
		opts = append(opts, config.WithMaxBlockUnits(c.Int("max-block-units")))
	}
	if c.IsSet("keep-verse-prefix") || c.IsSet("drop-latin") || c.IsSet("strip-punctuation") {
		strip, latin, punct := cfg.StripVersePrefix, cfg.DropLatin, cfg.StripPunctuation
		if c.IsSet("keep-verse-prefix") {
			strip = !c.Bool("keep-verse-prefix")
		}
		if c.IsSet("drop-latin") {
			latin = c.Bool("drop-latin")
		}
		if c.IsSet("strip-punctuation") {
			punct = c.Bool("strip-punctuation")
		}
		opts = append(opts, config.WithCleaning(strip, latin, punct))
	}
	if c.IsSet("max-retries") {
		opts = append(opts, config.WithRetry(c.Int("max-retries"), cfg.RetryDelay))
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if c.IsSet("bucket") {
		cfg.Publish.Bucket = c.String("bucket")
	}
	if c.IsSet("region") {
		cfg.Publish.Region = c.String("region")
	}
	if c.IsSet("endpoint") {
		cfg.Publish.Endpoint = c.String("endpoint")
	}
	if c.IsSet("key-prefix") {
		cfg.Publish.KeyPrefix = c.String("key-prefix")
	}
	if c.IsSet("path-style") {
		cfg.Publish.ForcePathStyle = c.Bool("path-style")
	}

	return cfg, nil
}

func buildCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if cfg.InputDir == "" || cfg.OutputDir == "" {
		return fmt.Errorf("input and output are required (flags or config file)")
	}

	ws, err := pairgen.NewWorkspace(cfg)
	if err != nil {
		return fmt.Errorf("failed to open workspace: %w", err)
	}
	defer ws.Close()

	var opts []corpus.Option
	if !c.Bool("quiet") {
		opts = append(opts, corpus.WithProgress(c.App.ErrWriter))
	}
	runner, err := ws.NewRunner(opts...)
	if err != nil {
		return err
	}

	summary, err := runner.Run(ctx)
	if summary != nil {
		if werr := summary.Write(c.App.Writer); werr != nil {
			return werr
		}
	}
	if err != nil {
		return err
	}
	if summary.FilesFailed > 0 {
		return fmt.Errorf("%d of %d files failed", summary.FilesFailed,
			summary.FilesFailed+summary.FilesProcessed+summary.FilesSkipped)
	}
	return nil
}
