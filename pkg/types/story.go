// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// LinkType classifies a StoryLink for primary-link selection.
type LinkType string

const (
	LinkOfficial    LinkType = "official"
	LinkArxiv       LinkType = "arxiv"
	LinkGitHub      LinkType = "github"
	LinkHuggingFace LinkType = "huggingface"
	LinkModelScope  LinkType = "modelscope"
	LinkOpenReview  LinkType = "openreview"
	LinkPaper       LinkType = "paper"
	LinkBlog        LinkType = "blog"
	LinkDocs        LinkType = "docs"
)

// StoryLink is one URL attached to a Story. Immutable value.
type StoryLink struct {
	URL      string   `json:"url" yaml:"url"`
	LinkType LinkType `json:"link_type" yaml:"link_type"`
	SourceID string   `json:"source_id" yaml:"source_id"`
	Tier     int      `json:"tier" yaml:"tier"`
	Title    string   `json:"title,omitempty" yaml:"title,omitempty"`
}

// Story is one deduplicated real-world event merged from one or more
// Records. Stories own copies of their derived data (links, entity
// lists): mutating a returned Story cannot corrupt shared Record state.
type Story struct {
	// StoryID is deterministic: "<type>:<externalID>" when a stable
	// identifier exists, otherwise "fallback:<16-hex-digest>". It is
	// reproducible from the member Records alone.
	StoryID string `json:"story_id"`

	// Title is the merged title (from the first member record).
	Title string `json:"title"`

	// PrimaryLink is the canonical URL chosen for the story.
	PrimaryLink StoryLink `json:"primary_link"`

	// Links are the member links deduplicated by (linkType, url) in
	// first-seen order.
	Links []StoryLink `json:"links"`

	// Entities are matched entity IDs, deduplicated, first-seen order.
	Entities []string `json:"entities"`

	// PublishedAt is the best available date across members, preferring
	// high date confidence; nil when no member carried a date.
	PublishedAt *time.Time `json:"published_at"`

	// Stable identifiers discovered anywhere in the group, independent
	// of which record supplied the grouping key.
	ArxivID          string `json:"arxiv_id,omitempty"`
	HFModelID        string `json:"hf_model_id,omitempty"`
	GitHubReleaseURL string `json:"github_release_url,omitempty"`

	// ItemCount is the number of member records merged into the story.
	ItemCount int `json:"item_count"`

	// Records are the member records, kept for traceability.
	Records []Record `json:"-"`
}

// MergeRationale is the per-story audit record explaining why a group
// of records became one story.
type MergeRationale struct {
	// StoryID is the story this rationale belongs to.
	StoryID string `json:"story_id"`

	// EntityIDs are the entity IDs matched across the group.
	EntityIDs []string `json:"entity_ids"`

	// StableIDs maps identifier type to the discovered identifier,
	// for every type found in the group.
	StableIDs map[string]string `json:"stable_ids"`

	// FallbackHeuristic names the key-derivation heuristic when no
	// stable ID existed ("title+entity+date"); empty otherwise.
	FallbackHeuristic string `json:"fallback_heuristic,omitempty"`

	// SourceIDs are the contributing source IDs in member order,
	// deduplicated.
	SourceIDs []string `json:"source_ids"`

	// ItemsMerged is the member count.
	ItemsMerged int `json:"items_merged"`
}

// LinkerResult is the outcome of one linking run.
type LinkerResult struct {
	// Stories is the final deterministic-ordered story set.
	Stories []Story `json:"stories"`

	// ItemsIn is the input record count.
	ItemsIn int `json:"items_in"`

	// StoriesOut is the output story count.
	StoriesOut int `json:"stories_out"`

	// MergesTotal counts stories merged from more than one record.
	MergesTotal int `json:"merges_total"`

	// FallbackMerges counts stories whose ID was fallback-derived.
	FallbackMerges int `json:"fallback_merges"`

	// Rationales holds one MergeRationale per story, in story order.
	Rationales []MergeRationale `json:"rationales"`
}
