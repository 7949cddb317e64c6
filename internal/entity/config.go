// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entity

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/story-linker/pkg/types"
)

// LoadConfig reads the linker configuration (entity registry plus
// optional link-type precedence) from a YAML file. Entity order in the
// file is preserved: it drives score tie-breaks and fallback-ID
// derivation.
func LoadConfig(path string) (types.LinkerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.LinkerConfig{}, fmt.Errorf("reading entity config: %w", err)
	}

	var cfg types.LinkerConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return types.LinkerConfig{}, fmt.Errorf("parsing entity config %s: %w", path, err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return types.LinkerConfig{}, fmt.Errorf("invalid entity config %s: %w", path, err)
	}
	return cfg, nil
}

// ValidateConfig checks structural invariants the linker depends on:
// every entity has an ID, a name, and at least one keyword, and IDs are
// unique across the registry.
func ValidateConfig(cfg types.LinkerConfig) error {
	if len(cfg.Entities) == 0 {
		return fmt.Errorf("no entities configured")
	}
	seen := make(map[string]bool, len(cfg.Entities))
	for i, e := range cfg.Entities {
		if e.ID == "" {
			return fmt.Errorf("entity %d: missing id", i)
		}
		if seen[e.ID] {
			return fmt.Errorf("entity %q: duplicate id", e.ID)
		}
		seen[e.ID] = true
		if e.Name == "" {
			return fmt.Errorf("entity %q: missing name", e.ID)
		}
		if len(e.Keywords) == 0 {
			return fmt.Errorf("entity %q: at least one keyword required", e.ID)
		}
	}
	return nil
}
