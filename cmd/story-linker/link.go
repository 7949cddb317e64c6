// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/story-linker/internal/collect"
	"github.com/pdiddy/story-linker/internal/entity"
	"github.com/pdiddy/story-linker/internal/linker"
	"github.com/pdiddy/story-linker/internal/snapshot"
	"github.com/pdiddy/story-linker/internal/store"
	"github.com/pdiddy/story-linker/pkg/types"
)

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link a record batch into deduplicated stories",
	Long: `Link loads records from the store (or a JSON batch file given with
--input), merges them into stories, writes a snapshot JSON file plus its
SHA-256 checksum, and records the run in the store's audit table.`,
	RunE: runLink,
}

func runLink(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfgPath := flagOrConfig(cmd, "entities", "entities", "entities.yaml")
	cfg, err := entity.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	dataDir := flagOrConfig(cmd, "data-dir", "data_dir", "data")
	st, err := store.NewStore(types.StoreConfig{DataDir: dataDir})
	if err != nil {
		return err
	}
	defer st.Close()

	var records []types.Record
	if input, _ := cmd.Flags().GetString("input"); input != "" {
		source, _ := cmd.Flags().GetString("source")
		c := &collect.FileCollector{Name: source, Path: input}
		records, err = c.Collect(ctx)
	} else {
		records, err = st.LoadRecords(ctx)
	}
	if err != nil {
		return err
	}

	metrics := &linker.AtomicMetrics{}
	result := linker.New(cfg, metrics).Link(records)

	logger.Info().
		Int("items_in", result.ItemsIn).
		Int("stories_out", result.StoriesOut).
		Int("merges", result.MergesTotal).
		Int("fallback_merges", result.FallbackMerges).
		Msg("batch linked")

	runID := snapshot.NewRunID()
	generatedAt := time.Now()
	snap := snapshot.Build(runID, generatedAt, result.Stories)

	outputDir := flagOrConfig(cmd, "output", "output_dir", "output/snapshots")
	path, checksum, err := snapshot.Write(outputDir, snap)
	if err != nil {
		return err
	}
	if err := st.RecordRun(ctx, runID, generatedAt, result, checksum); err != nil {
		return err
	}

	logger.Info().
		Str("run_id", runID).
		Str("path", path).
		Str("checksum", checksum).
		Msg("snapshot written")

	if rationales, _ := cmd.Flags().GetBool("rationales"); rationales {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Rationales)
	}

	fmt.Printf("%d records -> %d stories (%d merged, %d fallback)\n",
		result.ItemsIn, result.StoriesOut, result.MergesTotal, result.FallbackMerges)
	fmt.Printf("snapshot %s\nchecksum %s\n", path, checksum)
	return nil
}

func init() {
	linkCmd.Flags().String("entities", "", "entity config file (default entities.yaml)")
	linkCmd.Flags().String("input", "", "record batch JSON file (default: link everything in the store)")
	linkCmd.Flags().String("source", "batch", "source name attributed to --input records")
	linkCmd.Flags().String("data-dir", "", "base directory for the record store (default data)")
	linkCmd.Flags().String("output", "", "snapshot output directory (default output/snapshots)")
	linkCmd.Flags().Bool("rationales", false, "print merge rationales as JSON")

	rootCmd.AddCommand(linkCmd)
}
