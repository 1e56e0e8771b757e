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


package dataset

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/poiesic/pairgen/core"
)

// ErrInvalidShardSize is returned by a ShardWriter with a size below 1.
var ErrInvalidShardSize = errors.New("shard size must be at least 1")

// ShardWriter splits a dataset across numbered files.
type ShardWriter struct {
	Size      int // Pairs per shard
	MaxShards int // Zero means no limit
}

// ShardPath returns the path of shard n (1-based) for base.
func ShardPath(base string, n int) string {
	return fmt.Sprintf("%s_batch_%d.csv", base, n)
}

// Write writes pairs to base_batch_1.csv, base_batch_2.csv, ... with a header
// in every shard. Pairs beyond MaxShards*Size are not written; their number
// is returned as truncated. An empty set still produces one header-only shard.
//
// The shards replace the previous set as a whole: every shard is staged
// before any is renamed into place, and if one cannot be committed the
// earlier files are restored. Shards numbered past the new last one are
// removed after a successful write.
func (sw ShardWriter) Write(base string, pairs []core.SentencePair) (paths []string, truncated int, err error) {
	if sw.Size < 1 {
		return nil, 0, ErrInvalidShardSize
	}

	limit := len(pairs)
	if sw.MaxShards > 0 {
		limit = min(limit, sw.MaxShards*sw.Size)
	}
	truncated = len(pairs) - limit

	var staged []string
	defer func() {
		if err != nil {
			for _, tmp := range staged {
				_ = os.Remove(tmp)
			}
		}
	}()

	for start, n := 0, 1; start < limit || n == 1; start, n = start+sw.Size, n+1 {
		chunk := pairs[start:min(start+sw.Size, limit)]
		path := ShardPath(base, n)
		tmp, err := stage(path, 0o644, func(w io.Writer) error {
			return WriteCSV(w, chunk)
		})
		if err != nil {
			return nil, truncated, fmt.Errorf("shard %d: %w", n, err)
		}
		staged = append(staged, tmp)
		paths = append(paths, path)
	}

	if err := commitAll(staged, paths); err != nil {
		return nil, truncated, err
	}
	if err := removeShardsFrom(base, len(paths)+1); err != nil {
		return paths, truncated, err
	}
	_ = syncDir(filepath.Dir(base))
	return paths, truncated, nil
}

// commitAll renames every staged file over its target, or none of them.
// Existing targets are moved aside first and put back if a later rename fails.
func commitAll(staged, targets []string) error {
	for i, target := range targets {
		info, err := os.Lstat(target)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("shard %d: %w", i+1, err)
		}
		if !info.Mode().IsRegular() {
			return fmt.Errorf("shard %d: %s is not a regular file", i+1, target)
		}
	}

	backups := make([]string, len(targets))
	undo := func(n int) {
		for j := n - 1; j >= 0; j-- {
			_ = os.Remove(targets[j])
			if backups[j] != "" {
				_ = os.Rename(backups[j], targets[j])
			}
		}
	}

	for i, target := range targets {
		if _, err := os.Lstat(target); err == nil {
			backup := staged[i] + ".prev"
			if err := os.Rename(target, backup); err != nil {
				undo(i)
				return fmt.Errorf("shard %d: %w", i+1, err)
			}
			backups[i] = backup
		}
		if err := os.Rename(staged[i], target); err != nil {
			if backups[i] != "" {
				_ = os.Rename(backups[i], target)
			}
			undo(i)
			return fmt.Errorf("shard %d: %w", i+1, err)
		}
	}

	for _, backup := range backups {
		if backup != "" {
			_ = os.Remove(backup)
		}
	}
	return nil
}

// removeShardsFrom deletes shard n and every consecutive shard after it.
func removeShardsFrom(base string, n int) error {
	for ; ; n++ {
		err := os.Remove(ShardPath(base, n))
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("remove stale shard %d: %w", n, err)
		}
	}
}
