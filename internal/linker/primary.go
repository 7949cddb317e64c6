// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package linker

import (
	"sort"

	"github.com/pdiddy/story-linker/pkg/types"
)

// primaryCandidates is the fixed set of link types eligible for
// primary-link selection. Link types outside this set pass through a
// story's link list but never become the primary link (unless they are
// the only link, or nothing eligible remains).
var primaryCandidates = map[types.LinkType]bool{
	types.LinkOfficial:    true,
	types.LinkArxiv:       true,
	types.LinkGitHub:      true,
	types.LinkHuggingFace: true,
	types.LinkModelScope:  true,
	types.LinkOpenReview:  true,
	types.LinkPaper:       true,
	types.LinkBlog:        true,
	types.LinkDocs:        true,
}

// SelectPrimary picks the canonical link for a story: filter to the
// eligible link types, then order by (precedence index, tier, URL)
// ascending and take the first. Types absent from preferOrder sort
// after all explicitly ordered types; the URL tie-break keeps the pick
// independent of link arrival order when a story carries two links of
// the same type and tier. A single link is returned unconditionally;
// if filtering removes everything, the first link in original order
// wins.
//
// Empty input is a caller bug and panics.
func SelectPrimary(links []types.StoryLink, preferOrder []string) types.StoryLink {
	if len(links) == 0 {
		panic("linker: SelectPrimary called with no links")
	}
	if len(links) == 1 {
		return links[0]
	}

	eligible := make([]types.StoryLink, 0, len(links))
	for _, ln := range links {
		if primaryCandidates[ln.LinkType] {
			eligible = append(eligible, ln)
		}
	}
	if len(eligible) == 0 {
		return links[0]
	}

	rank := make(map[string]int, len(preferOrder))
	for i, t := range preferOrder {
		rank[t] = i
	}
	precedence := func(t types.LinkType) int {
		if i, ok := rank[string(t)]; ok {
			return i
		}
		return len(preferOrder)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		pi, pj := precedence(eligible[i].LinkType), precedence(eligible[j].LinkType)
		if pi != pj {
			return pi < pj
		}
		if eligible[i].Tier != eligible[j].Tier {
			return eligible[i].Tier < eligible[j].Tier
		}
		return eligible[i].URL < eligible[j].URL
	})
	return eligible[0]
}
