// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pdiddy/story-linker/pkg/types"
)

// FileCollector reads a record batch from a JSON file: either a bare
// array of records or an object with a "records" array. Out-of-repo
// collectors export this format.
type FileCollector struct {
	// Name is the source identifier reported for this batch file.
	Name string

	// Path is the JSON file to read.
	Path string
}

// Source returns the collector's source identifier.
func (c *FileCollector) Source() string { return c.Name }

// Collect parses the batch file.
func (c *FileCollector) Collect(ctx context.Context) ([]types.Record, error) {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, fmt.Errorf("reading record batch: %w", err)
	}
	return ParseBatch(data)
}

// ParseBatch decodes a record batch from JSON bytes.
func ParseBatch(data []byte) ([]types.Record, error) {
	var records []types.Record
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}

	var wrapped struct {
		Records []types.Record `json:"records"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("parsing record batch: %w", err)
	}
	return wrapped.Records, nil
}
