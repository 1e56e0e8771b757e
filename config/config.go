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


package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/pairgen/core"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Mode selects how a source file is cut into sentences.
type Mode string

const (
	// ModeLines treats every line as one sentence.
	ModeLines Mode = "lines"
	// ModeBlocks treats blank-line separated paragraphs as one unit.
	ModeBlocks Mode = "blocks"
)

// ParseMode decodes a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeLines:
		return ModeLines, nil
	case ModeBlocks:
		return ModeBlocks, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, s)
	}
}

const (
	// MinUnitsLines is the minimum sentence length used by the line pipeline.
	MinUnitsLines = 10
	// MinUnitsBlocks is the minimum paragraph length used by the block pipeline.
	MinUnitsBlocks = 100
)

// PublishConfig describes the optional S3-compatible destination for datasets.
// Publication is disabled while Bucket is empty.
type PublishConfig struct {
	Bucket         string
	Region         string
	Endpoint       string
	KeyPrefix      string
	ForcePathStyle bool
}

// Enabled reports whether a bucket and region are both configured.
func (p PublishConfig) Enabled() bool {
	return p.Bucket != "" && p.Region != ""
}

// Config holds every knob of the dataset build.
type Config struct {
	// SplitRatio is the fraction of a sentence that goes to span_a.
	// Must be strictly between 0 and 1. Default: 0.7
	SplitRatio float64

	// MinUnitCount drops sentences shorter than this many units.
	// Default: 10
	MinUnitCount int

	// Unit selects words or characters for measuring and cutting.
	Unit core.Unit

	// RandomSeed makes shuffling and donor selection reproducible when set.
	RandomSeed *int64

	InputDir  string
	OutputDir string

	// Extensions filters input files. Matching is case-insensitive.
	Extensions []string

	// OutputPrefix is prepended to the source file name of each dataset.
	OutputPrefix string

	Mode Mode

	// MaxBlockUnits chunks paragraphs longer than this. Zero disables chunking.
	MaxBlockUnits int

	StripVersePrefix bool
	DropLatin        bool
	StripPunctuation bool

	// ChunkSize balances every run of this many pairs on its own. Zero balances
	// the whole file at once.
	ChunkSize int

	// ShardSize splits output into files of at most this many pairs. Zero writes
	// a single file. MaxShards caps the number of shards; zero means no cap.
	ShardSize int
	MaxShards int

	// Workers is the number of files processed concurrently.
	Workers int

	// ManifestPath is the BadgerDB directory used to remember finished files.
	ManifestPath string
	Resume       bool

	Publish PublishConfig

	MaxRetries int
	RetryDelay time.Duration

	// ReportInterval prints progress every N files.
	ReportInterval int
}

// Option is a functional option for configuring a Config.
type Option func(*Config)

// WithSplitRatio sets the head/tail split ratio.
func WithSplitRatio(ratio float64) Option {
	return func(c *Config) {
		c.SplitRatio = ratio
	}
}

// WithMinUnitCount sets the minimum sentence length.
func WithMinUnitCount(n int) Option {
	return func(c *Config) {
		c.MinUnitCount = n
	}
}

// WithUnit sets the unit of measure.
func WithUnit(unit core.Unit) Option {
	return func(c *Config) {
		c.Unit = unit
	}
}

// WithSeed fixes the random seed.
func WithSeed(seed int64) Option {
	return func(c *Config) {
		c.RandomSeed = &seed
	}
}

// WithInputDir sets the directory scanned for source files.
func WithInputDir(dir string) Option {
	return func(c *Config) {
		c.InputDir = dir
	}
}

// WithOutputDir sets the directory datasets are written to.
func WithOutputDir(dir string) Option {
	return func(c *Config) {
		c.OutputDir = dir
	}
}

// WithExtensions replaces the input file extension filter.
func WithExtensions(exts ...string) Option {
	return func(c *Config) {
		c.Extensions = exts
	}
}

// WithOutputPrefix sets the dataset file name prefix.
func WithOutputPrefix(prefix string) Option {
	return func(c *Config) {
		c.OutputPrefix = prefix
	}
}

// WithMode sets the sentence mode. Switching to blocks also raises the
// minimum length to MinUnitsBlocks when it is still at the line default.
func WithMode(mode Mode) Option {
	return func(c *Config) {
		c.Mode = mode
		if mode == ModeBlocks && c.MinUnitCount == MinUnitsLines {
			c.MinUnitCount = MinUnitsBlocks
		}
	}
}

// WithMaxBlockUnits sets the paragraph chunking threshold.
func WithMaxBlockUnits(n int) Option {
	return func(c *Config) {
		c.MaxBlockUnits = n
	}
}

// WithCleaning sets the text cleaning switches.
func WithCleaning(stripVersePrefix, dropLatin, stripPunctuation bool) Option {
	return func(c *Config) {
		c.StripVersePrefix = stripVersePrefix
		c.DropLatin = dropLatin
		c.StripPunctuation = stripPunctuation
	}
}

// WithChunkSize sets the balancing chunk size.
func WithChunkSize(n int) Option {
	return func(c *Config) {
		c.ChunkSize = n
	}
}

// WithSharding splits output into shards of size pairs, at most maxShards files.
func WithSharding(size, maxShards int) Option {
	return func(c *Config) {
		c.ShardSize = size
		c.MaxShards = maxShards
	}
}

// WithWorkers sets the number of concurrent files.
func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Workers = n
	}
}

// WithManifest enables the file manifest at path.
func WithManifest(path string, resume bool) Option {
	return func(c *Config) {
		c.ManifestPath = path
		c.Resume = resume
	}
}

// WithPublish sets the publication destination.
func WithPublish(p PublishConfig) Option {
	return func(c *Config) {
		c.Publish = p
	}
}

// WithRetry sets the publication retry policy.
func WithRetry(maxRetries int, delay time.Duration) Option {
	return func(c *Config) {
		c.MaxRetries = maxRetries
		c.RetryDelay = delay
	}
}

// WithReportInterval sets how often progress is printed.
func WithReportInterval(n int) Option {
	return func(c *Config) {
		c.ReportInterval = n
	}
}

// DefaultConfig returns the configuration of the line pipeline.
func DefaultConfig() *Config {
	return &Config{
		SplitRatio:       0.7,
		MinUnitCount:     MinUnitsLines,
		Unit:             core.UnitWords,
		Extensions:       []string{".txt"},
		OutputPrefix:     "balanced_",
		Mode:             ModeLines,
		StripVersePrefix: true,
		Workers:          1,
		MaxRetries:       3,
		RetryDelay:       time.Second,
		ReportInterval:   1,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithInputDir("corpus/"),
//	    WithOutputDir("out/"),
//	    WithSeed(42),
//	)
func NewConfig(opts ...Option) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Seeded reports whether a random seed was configured.
func (c *Config) Seeded() bool {
	return c.RandomSeed != nil
}

// Normalize puts extensions in canonical form: lower case with a leading dot.
func (c *Config) Normalize() {
	for i, ext := range c.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Extensions[i] = ext
	}
}

// Validate checks that the configuration is usable.
// It normalizes the configuration first.
func (c *Config) Validate() error {
	c.Normalize()

	if !(c.SplitRatio > 0 && c.SplitRatio < 1) {
		return fmt.Errorf("%w: split_ratio must be between 0 and 1, got %v", ErrInvalidConfig, c.SplitRatio)
	}
	if c.MinUnitCount < 1 {
		return fmt.Errorf("%w: min_unit_count must be at least 1", ErrInvalidConfig)
	}
	if err := core.ValidateUnit(c.Unit); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Mode != ModeLines && c.Mode != ModeBlocks {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("%w: at least one extension is required", ErrInvalidConfig)
	}
	for _, ext := range c.Extensions {
		if ext == "" {
			return fmt.Errorf("%w: empty extension", ErrInvalidConfig)
		}
	}
	if c.MaxBlockUnits < 0 || c.ChunkSize < 0 || c.ShardSize < 0 || c.MaxShards < 0 {
		return fmt.Errorf("%w: sizes must not be negative", ErrInvalidConfig)
	}
	if c.MaxShards > 0 && c.ShardSize == 0 {
		return fmt.Errorf("%w: max_shards requires shard_size", ErrInvalidConfig)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalidConfig)
	}
	if c.Resume && c.ManifestPath == "" {
		return fmt.Errorf("%w: resume requires manifest_path", ErrInvalidConfig)
	}
	if c.Publish.Bucket != "" && c.Publish.Region == "" {
		return fmt.Errorf("%w: publish.region is required with publish.bucket", ErrInvalidConfig)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("%w: max_retries must be at least 1", ErrInvalidConfig)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("%w: retry_delay must not be negative", ErrInvalidConfig)
	}
	if c.ReportInterval < 1 {
		return fmt.Errorf("%w: report_interval must be at least 1", ErrInvalidConfig)
	}
	return nil
}
