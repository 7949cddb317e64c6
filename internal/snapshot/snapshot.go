// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package snapshot serializes a linking run's story set to the
// versioned JSON snapshot format and computes its content checksum.
// Serialization is byte-for-byte reproducible for a given (runID,
// generatedAt, stories) triple: downstream change detection hashes
// these exact bytes, so stability is a correctness requirement here,
// not cosmetics. Fields are declared in alphabetical tag order because
// encoding/json emits struct fields in declaration order.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/story-linker/pkg/types"
)

// Version is the snapshot format version.
const Version = "1.0"

// Snapshot is the persistable form of one linking run.
type Snapshot struct {
	GeneratedAt time.Time `json:"generated_at"`
	RunID       string    `json:"run_id"`
	Stories     []Story   `json:"stories"`
	StoryCount  int       `json:"story_count"`
	Version     string    `json:"version"`
}

// Story is the serialized story shape. published_at is RFC 3339 UTC or
// null.
type Story struct {
	ArxivID          string     `json:"arxiv_id,omitempty"`
	Entities         []string   `json:"entities"`
	GitHubReleaseURL string     `json:"github_release_url,omitempty"`
	HFModelID        string     `json:"hf_model_id,omitempty"`
	ItemCount        int        `json:"item_count"`
	Links            []Link     `json:"links"`
	PrimaryLink      Link       `json:"primary_link"`
	PublishedAt      *time.Time `json:"published_at"`
	StoryID          string     `json:"story_id"`
	Title            string     `json:"title"`
}

// Link is the serialized story-link shape.
type Link struct {
	LinkType string `json:"link_type"`
	SourceID string `json:"source_id"`
	Tier     int    `json:"tier"`
	Title    string `json:"title,omitempty"`
	URL      string `json:"url"`
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Build assembles a Snapshot. Timestamps are normalized to second
// precision in UTC so the serialized bytes do not depend on the host
// timezone or clock resolution.
func Build(runID string, generatedAt time.Time, stories []types.Story) Snapshot {
	out := make([]Story, len(stories))
	for i, s := range stories {
		out[i] = toStory(s)
	}
	return Snapshot{
		GeneratedAt: generatedAt.UTC().Truncate(time.Second),
		RunID:       runID,
		Stories:     out,
		StoryCount:  len(out),
		Version:     Version,
	}
}

func toStory(s types.Story) Story {
	links := make([]Link, len(s.Links))
	for i, ln := range s.Links {
		links[i] = toLink(ln)
	}
	entities := s.Entities
	if entities == nil {
		entities = []string{}
	}
	var published *time.Time
	if s.PublishedAt != nil {
		t := s.PublishedAt.UTC().Truncate(time.Second)
		published = &t
	}
	return Story{
		ArxivID:          s.ArxivID,
		Entities:         entities,
		GitHubReleaseURL: s.GitHubReleaseURL,
		HFModelID:        s.HFModelID,
		ItemCount:        s.ItemCount,
		Links:            links,
		PrimaryLink:      toLink(s.PrimaryLink),
		PublishedAt:      published,
		StoryID:          s.StoryID,
		Title:            s.Title,
	}
}

func toLink(ln types.StoryLink) Link {
	return Link{
		LinkType: string(ln.LinkType),
		SourceID: ln.SourceID,
		Tier:     ln.Tier,
		Title:    ln.Title,
		URL:      ln.URL,
	}
}

// Marshal serializes the snapshot to its canonical byte form.
func Marshal(s Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// Checksum returns the SHA-256 hex digest (64 chars) of the serialized
// snapshot bytes.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Write marshals the snapshot into dir as stories-<runID>.json and
// returns the file path, the serialized bytes' checksum, and any error.
func Write(dir string, s Snapshot) (string, string, error) {
	data, err := Marshal(s)
	if err != nil {
		return "", "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating snapshot directory: %w", err)
	}
	path := filepath.Join(dir, "stories-"+s.RunID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", "", fmt.Errorf("writing snapshot: %w", err)
	}
	return path, Checksum(data), nil
}
