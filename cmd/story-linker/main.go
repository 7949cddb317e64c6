// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the story-linker CLI: ingest
// collected record batches, link them into deduplicated stories, and
// write snapshot files for downstream consumers.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/story-linker/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is shared by all commands, built in the root PersistentPreRunE.
var logger zerolog.Logger

// rootCmd is the base command for the story-linker CLI.
var rootCmd = &cobra.Command{
	Use:   "story-linker",
	Short: "Cross-source deduplication and story linking",
	Long: `story-linker merges content records collected from many upstream sources
(papers, releases, models, blog posts) into deduplicated stories. Records
describing the same real-world event are grouped by stable identifier
(arXiv ID, GitHub release, HuggingFace or ModelScope model) or by a
deterministic content-derived fallback key, merged under documented
rules, and emitted in a stable order with an audit rationale per story.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		console, _ := cmd.Flags().GetBool("console")
		l, err := logging.New(level, console)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./story-linker.yaml or ~/.config/story-linker/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("console", false, "human-readable log output instead of JSON lines")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("story-linker")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "story-linker"))
		}
	}

	viper.SetEnvPrefix("STORY_LINKER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// flagOrConfig returns the flag value when set, falling back to the
// viper key and then the built-in default.
func flagOrConfig(cmd *cobra.Command, flag, key, fallback string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	if v := viper.GetString(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
