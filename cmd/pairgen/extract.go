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
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/poiesic/pairgen/dataset"
	"github.com/poiesic/pairgen/ingest"
	"github.com/urfave/cli/v2"
)

func extractCommandSpec() *cli.Command {
	return &cli.Command{
		Name:   "extract",
		Usage:  "Pull candidate sentences out of XML sources into text files",
		Action: extractCommand,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Directory of .xml files, or a single XML file",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "Directory for extracted_<name>.txt files",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "min-words",
				Usage: "Drop text runs shorter than this many words",
				Value: ingest.DefaultMinWords,
			},
			&cli.StringFlag{
				Name:  "pattern",
				Usage: "Regular expression selecting sentence text",
				Value: ingest.DefaultSentencePattern.String(),
			},
			&cli.StringFlag{
				Name:  "element-suffix",
				Usage: "Take text from elements whose name ends with this",
				Value: ingest.DefaultElementSuffix,
			},
		},
	}
}

func extractCommand(c *cli.Context) error {
	pattern, err := regexp.Compile(c.String("pattern"))
	if err != nil {
		return fmt.Errorf("invalid pattern: %w", err)
	}
	opts := ingest.ExtractOptions{
		Pattern:       pattern,
		MinWords:      c.Int("min-words"),
		ElementSuffix: c.String("element-suffix"),
	}

	sources, err := xmlSources(c.String("input"))
	if err != nil {
		return err
	}
	outDir := c.String("output")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	failed := 0
	for _, src := range sources {
		stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		dst := filepath.Join(outDir, "extracted_"+stem+".txt")
		stats, err := extractFile(src, dst, opts)
		if err != nil {
			slog.Error("extraction failed", "source", src, "err", err)
			failed++
			continue
		}
		fmt.Fprintf(c.App.Writer, "%s: %d sentences from %d elements (%d too short) -> %s\n",
			filepath.Base(src), stats.Sentences, stats.Elements, stats.Rejected, dst)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(sources))
	}
	return nil
}

func extractFile(src, dst string, opts ingest.ExtractOptions) (ingest.ExtractStats, error) {
	f, err := os.Open(src)
	if err != nil {
		return ingest.ExtractStats{}, err
	}
	defer f.Close()

	var stats ingest.ExtractStats
	err = dataset.WriteFileAtomic(dst, 0o644, func(w io.Writer) error {
		var err error
		stats, err = ingest.ExtractSentences(f, w, opts)
		return err
	})
	return stats, err
}

func xmlSources(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{input}, nil
	}
	matches, err := filepath.Glob(filepath.Join(input, "*.xml"))
	if err != nil {
		return nil, err
	}
	slices.Sort(matches)
	return matches, nil
}
