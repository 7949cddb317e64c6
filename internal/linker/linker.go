// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package linker merges batches of ingested records into deduplicated
// stories: entity tagging, candidate grouping by stable identifier,
// rule-based merge resolution, primary-link selection, and deterministic
// output ordering. One linking run is a single-pass, synchronous batch
// transform with no I/O; the same input always produces the same story
// IDs, merges, and ordering.
package linker

import (
	"github.com/pdiddy/story-linker/internal/entity"
	"github.com/pdiddy/story-linker/internal/stableid"
	"github.com/pdiddy/story-linker/pkg/types"
)

// Linker links record batches against a fixed entity registry and
// link-type precedence. Safe for concurrent use: Link holds no state
// across calls, and the injected Metrics implementation handles its own
// synchronization.
type Linker struct {
	entities    []types.Entity
	entityByID  map[string]types.Entity
	preferOrder []string
	metrics     Metrics
}

// New builds a Linker from the configuration. A nil metrics sink
// defaults to NopMetrics; an empty link preference defaults to
// types.DefaultLinkPreference.
func New(cfg types.LinkerConfig, m Metrics) *Linker {
	prefer := cfg.LinkPreference
	if len(prefer) == 0 {
		prefer = types.DefaultLinkPreference
	}
	if m == nil {
		m = NopMetrics{}
	}
	byID := make(map[string]types.Entity, len(cfg.Entities))
	for _, e := range cfg.Entities {
		byID[e.ID] = e
	}
	return &Linker{
		entities:    cfg.Entities,
		entityByID:  byID,
		preferOrder: prefer,
		metrics:     m,
	}
}

// Link runs the four linking phases over one record batch and returns
// the merged, deterministically ordered story set. Records are borrowed
// read-only for the duration of the call; the returned stories own
// their derived data. An empty batch still walks every phase.
func (l *Linker) Link(records []types.Record) types.LinkerResult {
	r := &run{phase: PhaseItemsReady}

	tagged := l.tag(records)
	r.advance(PhaseEntityTagged)

	groups := group(tagged)
	r.advance(PhaseCandidateGrouped)

	stories := make([]types.Story, 0, len(groups))
	byStoryID := make(map[string]types.MergeRationale, len(groups))
	merges, fallbacks := 0, 0
	for _, g := range groups {
		story, rationale := l.resolveGroup(g)
		stories = append(stories, story)
		byStoryID[story.StoryID] = rationale
		if rationale.ItemsMerged > 1 {
			merges++
		}
		if rationale.FallbackHeuristic != "" {
			fallbacks++
		}
	}
	r.advance(PhaseStoriesMerged)

	stories = finalize(stories)
	rationales := make([]types.MergeRationale, len(stories))
	for i, s := range stories {
		rationales[i] = byStoryID[s.StoryID]
	}
	r.advance(PhaseStoriesFinal)

	l.metrics.AddItemsIn(len(records))
	l.metrics.AddStoriesOut(len(stories))
	l.metrics.AddMerges(merges)
	l.metrics.AddFallbackMerges(fallbacks)

	return types.LinkerResult{
		Stories:        stories,
		ItemsIn:        len(records),
		StoriesOut:     len(stories),
		MergesTotal:    merges,
		FallbackMerges: fallbacks,
		Rationales:     rationales,
	}
}

// tag enriches each record with its entity matches and extracted
// stable identifier.
func (l *Linker) tag(records []types.Record) []types.TaggedRecord {
	tagged := make([]types.TaggedRecord, len(records))
	for i, rec := range records {
		matches := entity.Match(rec, l.entities)
		ids := make([]string, len(matches))
		for j, m := range matches {
			ids[j] = m.EntityID
		}
		id, typ := stableid.Extract(rec)
		tagged[i] = types.TaggedRecord{
			Record:       rec,
			Matches:      matches,
			EntityIDs:    ids,
			StableID:     id,
			StableIDType: typ.String(),
		}
	}
	return tagged
}

// preferOrderFor returns the link precedence for a story: the primary
// matched entity's preferLinks override when configured, otherwise the
// linker-wide order.
func (l *Linker) preferOrderFor(entityIDs []string) []string {
	if len(entityIDs) > 0 {
		if e, ok := l.entityByID[entityIDs[0]]; ok && len(e.PreferLinks) > 0 {
			return e.PreferLinks
		}
	}
	return l.preferOrder
}
