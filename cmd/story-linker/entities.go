// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/story-linker/internal/entity"
)

var entitiesCmd = &cobra.Command{
	Use:   "entities",
	Short: "Inspect the entity registry",
}

var entitiesValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the entity config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath := flagOrConfig(cmd, "entities", "entities", "entities.yaml")
		cfg, err := entity.LoadConfig(cfgPath)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d entities OK\n", cfgPath, len(cfg.Entities))
		return nil
	},
}

var entitiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured entities",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath := flagOrConfig(cmd, "entities", "entities", "entities.yaml")
		cfg, err := entity.LoadConfig(cfgPath)
		if err != nil {
			return err
		}
		fmt.Printf("%-20s  %-30s  %s\n", "ID", "Name", "Keywords")
		fmt.Println(strings.Repeat("-", 80))
		for _, e := range cfg.Entities {
			terms := strings.Join(e.Keywords, ", ")
			if len(e.Aliases) > 0 {
				terms += " (+" + strings.Join(e.Aliases, ", ") + ")"
			}
			fmt.Printf("%-20s  %-30s  %s\n", e.ID, e.Name, terms)
		}
		return nil
	},
}

func init() {
	entitiesCmd.PersistentFlags().String("entities", "", "entity config file (default entities.yaml)")

	entitiesCmd.AddCommand(entitiesValidateCmd)
	entitiesCmd.AddCommand(entitiesListCmd)
	rootCmd.AddCommand(entitiesCmd)
}
