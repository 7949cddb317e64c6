// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package linker

import (
	"sort"

	"github.com/pdiddy/story-linker/pkg/types"
)

// finalize orders stories deterministically: dated stories first,
// newest first with story-ID descending as the tie-break, then undated
// stories by story-ID ascending. Undated stories cannot participate in
// a total order with real dates, so they get their own partition with
// an explicit placement rule.
func finalize(stories []types.Story) []types.Story {
	dated := make([]types.Story, 0, len(stories))
	undated := make([]types.Story, 0)
	for _, s := range stories {
		if s.PublishedAt != nil {
			dated = append(dated, s)
		} else {
			undated = append(undated, s)
		}
	}

	sort.Slice(dated, func(i, j int) bool {
		ti, tj := *dated[i].PublishedAt, *dated[j].PublishedAt
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return dated[i].StoryID > dated[j].StoryID
	})
	sort.Slice(undated, func(i, j int) bool {
		return undated[i].StoryID < undated[j].StoryID
	})

	return append(dated, undated...)
}
