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
	"text/tabwriter"
	"time"

	"github.com/poiesic/pairgen/storage/badger"
	"github.com/urfave/cli/v2"
)

func manifestCommandSpec() *cli.Command {
	return &cli.Command{
		Name:   "manifest",
		Usage:  "List or forget the source files recorded in a build manifest",
		Action: manifestCommand,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "db",
				Aliases:  []string{"d"},
				Usage:    "Path to BadgerDB manifest directory",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:  "forget",
				Usage: "Remove the record for this source so the next resume rebuilds it",
			},
		},
	}
}

func manifestCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open manifest: %w", err)
	}
	defer backend.Close()

	repo := badger.NewManifestRepository(backend)
	defer repo.Close()

	for _, source := range c.StringSlice("forget") {
		if err := repo.DeleteFileRecord(ctx, source); err != nil {
			return fmt.Errorf("failed to forget %s: %w", source, err)
		}
		fmt.Fprintf(c.App.Writer, "forgot %s\n", source)
	}

	records, err := repo.ListFileRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to list manifest: %w", err)
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tPAIRS\tRELATED\tUNRELATED\tDROPPED\tDUPLICATES\tCOMPLETED\tOUTPUT")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%s\t%s\n",
			r.Source, r.Pairs, r.Related, r.Unrelated, r.Dropped, r.Duplicates,
			r.CompletedAt.Format(time.RFC3339), r.Output)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%d files recorded\n", len(records))
	return nil
}
