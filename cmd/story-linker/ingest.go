// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/story-linker/internal/collect"
	"github.com/pdiddy/story-linker/internal/store"
	"github.com/pdiddy/story-linker/pkg/types"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [batch.json...]",
	Short: "Ingest collected record batches into the store",
	Long: `Ingest reads record batch JSON files exported by collectors and
upserts them into the SQLite record store. Upserts are idempotent on
(source_id, url): re-ingesting an unchanged batch is a no-op.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	dataDir := flagOrConfig(cmd, "data-dir", "data_dir", "data")
	st, err := store.NewStore(types.StoreConfig{DataDir: dataDir})
	if err != nil {
		return err
	}
	defer st.Close()

	source, _ := cmd.Flags().GetString("source")

	var total store.UpsertSummary
	for _, path := range args {
		c := &collect.FileCollector{Name: source, Path: path}
		records, err := c.Collect(ctx)
		if err != nil {
			return err
		}

		summary, err := st.UpsertRecords(ctx, records)
		if err != nil {
			return fmt.Errorf("ingesting %s: %w", path, err)
		}

		logger.Info().
			Str("path", path).
			Int("inserted", summary.Inserted).
			Int("updated", summary.Updated).
			Int("unchanged", summary.Unchanged).
			Msg("batch ingested")

		total.Inserted += summary.Inserted
		total.Updated += summary.Updated
		total.Unchanged += summary.Unchanged
	}

	fmt.Printf("inserted: %d, updated: %d, unchanged: %d\n",
		total.Inserted, total.Updated, total.Unchanged)
	return nil
}

func init() {
	ingestCmd.Flags().String("data-dir", "", "base directory for the record store (default data)")
	ingestCmd.Flags().String("source", "batch", "source name attributed to ingested records")

	rootCmd.AddCommand(ingestCmd)
}
