// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for the story-linker
// pipeline: input Records, tagged intermediates, merged Stories, and the
// configuration structs consumed by the CLI layer.
package types

import "time"

// DateConfidence grades how trustworthy a record's publishedAt is.
// Sources that report exact publication timestamps (APIs) are high;
// feed-derived dates are medium; inferred dates are low.
type DateConfidence string

const (
	ConfidenceHigh   DateConfidence = "high"
	ConfidenceMedium DateConfidence = "medium"
	ConfidenceLow    DateConfidence = "low"
)

// Rank orders confidences for sorting: high sorts before medium before
// low. Unknown values sort last.
func (c DateConfidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 0
	case ConfidenceMedium:
		return 1
	case ConfidenceLow:
		return 2
	default:
		return 3
	}
}

// Record is one normalized unit of ingested content from a single
// source. Records are immutable inputs: the linker never mutates them,
// and the URL must already be canonicalized (tracking parameters
// stripped, scheme and host lower-cased) by the collector layer.
type Record struct {
	// URL is the canonical URL of the content.
	URL string `json:"url" yaml:"url"`

	// SourceID identifies the collector that produced this record
	// (e.g. "arxiv-api", "openai-blog", "hf-models").
	SourceID string `json:"source_id" yaml:"source_id"`

	// Tier is the source authoritativeness rank: 0 is most
	// authoritative (vendor-official), 1 is primary coverage, 2 is
	// aggregators.
	Tier int `json:"tier" yaml:"tier"`

	// Kind classifies the content: "paper", "blog", "news", "release",
	// "model", "docs".
	Kind string `json:"kind" yaml:"kind"`

	// Title is the content title as reported by the source.
	Title string `json:"title" yaml:"title"`

	// PublishedAt is the publication timestamp, nil when the source
	// did not report one.
	PublishedAt *time.Time `json:"published_at,omitempty" yaml:"published_at,omitempty"`

	// DateConfidence grades PublishedAt.
	DateConfidence DateConfidence `json:"date_confidence" yaml:"date_confidence"`

	// ContentHash is a hash of the record body computed by the
	// collector, used for change detection upstream.
	ContentHash string `json:"content_hash" yaml:"content_hash"`

	// Metadata is a free-form document carried along from the source
	// (abstract, authors, embedded identifiers). The linker only reads
	// it for text search and stable-ID discovery; a malformed or
	// missing blob degrades to "no additional signal", never an error.
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// EntityMatch reports one configured entity found in a record's text.
type EntityMatch struct {
	// EntityID is the configured entity identifier.
	EntityID string `json:"entity_id"`

	// EntityName is the configured display name.
	EntityName string `json:"entity_name"`

	// MatchedKeywords lists the distinct keyword and alias strings
	// that hit, in declaration order (keywords before aliases).
	MatchedKeywords []string `json:"matched_keywords"`

	// MatchScore is the count of matched terms plus one per matched
	// term that also occurs in the title.
	MatchScore int `json:"match_score"`
}

// TaggedRecord is a Record enriched with entity matches and its
// extracted stable identifier. Created once during the tagging phase
// and never mutated after.
type TaggedRecord struct {
	Record Record

	// Matches are the entity matches sorted by score descending,
	// ties broken by entity declaration order.
	Matches []EntityMatch

	// EntityIDs are the matched entity IDs in match order.
	EntityIDs []string

	// StableID is the extracted external identifier, empty when the
	// record carries none.
	StableID string

	// StableIDType is one of "arxiv", "github", "huggingface",
	// "modelscope", or "none".
	StableIDType string
}
