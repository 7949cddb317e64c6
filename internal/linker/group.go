// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package linker

import (
	"github.com/pdiddy/story-linker/internal/stableid"
	"github.com/pdiddy/story-linker/pkg/types"
)

// candidateGroup accumulates the tagged records sharing one group key.
// It exists only during the grouping phase and is consumed when the
// group resolves into a Story.
type candidateGroup struct {
	key     string
	members []types.TaggedRecord
}

// groupKey returns the key a tagged record groups under: its stable
// identifier (qualified by type, so a HuggingFace and a ModelScope
// model with the same org/model path never collide), or its own
// single-item fallback story ID. Every record lands in exactly one
// group, and the key is a pure function of record content plus matched
// entities, never of arrival order.
func groupKey(tr types.TaggedRecord) string {
	if tr.StableID != "" {
		return tr.StableIDType + ":" + tr.StableID
	}
	entityID := ""
	if len(tr.EntityIDs) > 0 {
		entityID = tr.EntityIDs[0]
	}
	return stableid.FallbackID(tr.Record.Title, entityID, tr.Record.PublishedAt)
}

// group partitions tagged records into candidate groups. Single pass,
// O(n); group order follows first appearance (an explicit ordered list
// plus index map, since map iteration order is not deterministic).
func group(tagged []types.TaggedRecord) []candidateGroup {
	index := make(map[string]int, len(tagged))
	var groups []candidateGroup
	for _, tr := range tagged {
		k := groupKey(tr)
		if i, ok := index[k]; ok {
			groups[i].members = append(groups[i].members, tr)
			continue
		}
		index[k] = len(groups)
		groups = append(groups, candidateGroup{key: k, members: []types.TaggedRecord{tr}})
	}
	return groups
}
