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
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/pairgen/core"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PAIRGEN_SPLIT_RATIO
// or PAIRGEN_PUBLISH_BUCKET.
const EnvPrefix = "PAIRGEN"

// fileConfig mirrors Config with plain types so viper can decode it.
type fileConfig struct {
	SplitRatio       float64  `mapstructure:"split_ratio"`
	MinUnitCount     int      `mapstructure:"min_unit_count"`
	UnitOfMeasure    string   `mapstructure:"unit_of_measure"`
	RandomSeed       *int64   `mapstructure:"random_seed"`
	InputDir         string   `mapstructure:"input_dir"`
	OutputDir        string   `mapstructure:"output_dir"`
	Extensions       []string `mapstructure:"extensions"`
	OutputPrefix     string   `mapstructure:"output_prefix"`
	Mode             string   `mapstructure:"mode"`
	MaxBlockUnits    int      `mapstructure:"max_block_units"`
	StripVersePrefix bool     `mapstructure:"strip_verse_prefix"`
	DropLatin        bool     `mapstructure:"drop_latin"`
	StripPunctuation bool     `mapstructure:"strip_punctuation"`
	ChunkSize        int      `mapstructure:"chunk_size"`
	ShardSize        int      `mapstructure:"shard_size"`
	MaxShards        int      `mapstructure:"max_shards"`
	Workers          int      `mapstructure:"workers"`
	ManifestPath     string   `mapstructure:"manifest_path"`
	Resume           bool     `mapstructure:"resume"`
	Publish          struct {
		Bucket         string `mapstructure:"bucket"`
		Region         string `mapstructure:"region"`
		Endpoint       string `mapstructure:"endpoint"`
		KeyPrefix      string `mapstructure:"key_prefix"`
		ForcePathStyle bool   `mapstructure:"force_path_style"`
	} `mapstructure:"publish"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelay     time.Duration `mapstructure:"retry_delay"`
	ReportInterval int           `mapstructure:"report_interval"`
}

// Load reads configuration from path (YAML, JSON or TOML, chosen by extension)
// on top of DefaultConfig, then applies PAIRGEN_* environment overrides.
// An empty path loads defaults and environment only.
// The result is not validated.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// random_seed has no default, so AutomaticEnv alone would never see it.
	if err := v.BindEnv("random_seed"); err != nil {
		return nil, fmt.Errorf("failed to bind random_seed: %w", err)
	}

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return fc.toConfig()
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("split_ratio", d.SplitRatio)
	v.SetDefault("min_unit_count", d.MinUnitCount)
	v.SetDefault("unit_of_measure", d.Unit.String())
	v.SetDefault("input_dir", d.InputDir)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("extensions", d.Extensions)
	v.SetDefault("output_prefix", d.OutputPrefix)
	v.SetDefault("mode", string(d.Mode))
	v.SetDefault("max_block_units", d.MaxBlockUnits)
	v.SetDefault("strip_verse_prefix", d.StripVersePrefix)
	v.SetDefault("drop_latin", d.DropLatin)
	v.SetDefault("strip_punctuation", d.StripPunctuation)
	v.SetDefault("chunk_size", d.ChunkSize)
	v.SetDefault("shard_size", d.ShardSize)
	v.SetDefault("max_shards", d.MaxShards)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("manifest_path", d.ManifestPath)
	v.SetDefault("resume", d.Resume)
	v.SetDefault("publish.bucket", d.Publish.Bucket)
	v.SetDefault("publish.region", d.Publish.Region)
	v.SetDefault("publish.endpoint", d.Publish.Endpoint)
	v.SetDefault("publish.key_prefix", d.Publish.KeyPrefix)
	v.SetDefault("publish.force_path_style", d.Publish.ForcePathStyle)
	v.SetDefault("max_retries", d.MaxRetries)
	v.SetDefault("retry_delay", d.RetryDelay)
	v.SetDefault("report_interval", d.ReportInterval)
}

func (fc *fileConfig) toConfig() (*Config, error) {
	unit, err := core.ParseUnit(fc.UnitOfMeasure)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	mode, err := ParseMode(fc.Mode)
	if err != nil {
		return nil, err
	}

	return &Config{
		SplitRatio:       fc.SplitRatio,
		MinUnitCount:     fc.MinUnitCount,
		Unit:             unit,
		RandomSeed:       fc.RandomSeed,
		InputDir:         fc.InputDir,
		OutputDir:        fc.OutputDir,
		Extensions:       fc.Extensions,
		OutputPrefix:     fc.OutputPrefix,
		Mode:             mode,
		MaxBlockUnits:    fc.MaxBlockUnits,
		StripVersePrefix: fc.StripVersePrefix,
		DropLatin:        fc.DropLatin,
		StripPunctuation: fc.StripPunctuation,
		ChunkSize:        fc.ChunkSize,
		ShardSize:        fc.ShardSize,
		MaxShards:        fc.MaxShards,
		Workers:          fc.Workers,
		ManifestPath:     fc.ManifestPath,
		Resume:           fc.Resume,
		Publish: PublishConfig{
			Bucket:         fc.Publish.Bucket,
			Region:         fc.Publish.Region,
			Endpoint:       fc.Publish.Endpoint,
			KeyPrefix:      fc.Publish.KeyPrefix,
			ForcePathStyle: fc.Publish.ForcePathStyle,
		},
		MaxRetries:     fc.MaxRetries,
		RetryDelay:     fc.RetryDelay,
		ReportInterval: fc.ReportInterval,
	}, nil
}
