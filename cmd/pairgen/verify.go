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
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/pairgen/core"
	"github.com/poiesic/pairgen/dataset"
	"github.com/urfave/cli/v2"
)

var errUnbalanced = errors.New("dataset is not balanced")

func verifyCommandSpec() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "Check that datasets hold exactly floor(N/2) unrelated pairs",
		ArgsUsage: "<csv>...",
		Action:    verifyCommand,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "chunk-size",
				Usage: "Check every run of N rows on its own, matching build --chunk-size",
			},
		},
	}
}

func verifyCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one dataset file is required")
	}
	chunkSize := c.Int("chunk-size")
	if chunkSize < 0 {
		return fmt.Errorf("chunk-size must not be negative")
	}

	bad := 0
	for _, path := range c.Args().Slice() {
		pairs, err := dataset.ReadFile(path)
		if err != nil {
			slog.Error("failed to read dataset", "path", path, "err", err)
			bad++
			continue
		}

		stats := dataset.Summarize(pairs)
		ok := balancedChunks(pairs, chunkSize)
		status := "ok"
		if !ok {
			status = "UNBALANCED"
			bad++
		}
		fmt.Fprintf(c.App.Writer, "%s: rows=%d related=%d unrelated=%d %s\n",
			path, stats.Rows, stats.Related, stats.Unrelated, status)
	}

	if bad > 0 {
		return fmt.Errorf("%w: %d of %d files", errUnbalanced, bad, c.NArg())
	}
	return nil
}

// balancedChunks reports whether every consecutive run of chunkSize pairs,
// or the whole set when chunkSize is 0, is balanced.
func balancedChunks(pairs []core.SentencePair, chunkSize int) bool {
	if chunkSize == 0 || chunkSize > len(pairs) {
		chunkSize = max(len(pairs), 1)
	}
	for start := 0; start < len(pairs); start += chunkSize {
		end := min(start+chunkSize, len(pairs))
		if !dataset.Summarize(pairs[start:end]).Balanced() {
			return false
		}
	}
	return true
}
