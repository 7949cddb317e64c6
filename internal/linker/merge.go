// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package linker

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/story-linker/internal/stableid"
	"github.com/pdiddy/story-linker/pkg/types"
)

// fallbackHeuristicName labels fallback-derived story IDs in the merge
// rationale.
const fallbackHeuristicName = "title+entity+date"

// resolveGroup merges one candidate group into a Story and the
// rationale explaining the merge. Pure function of the group and the
// precedence order.
func (l *Linker) resolveGroup(g candidateGroup) (types.Story, types.MergeRationale) {
	records := make([]types.Record, len(g.members))
	for i, m := range g.members {
		records[i] = m.Record
	}

	// Union of matched entity IDs, first-seen order.
	var entityIDs []string
	seenEntity := make(map[string]bool)
	for _, m := range g.members {
		for _, id := range m.EntityIDs {
			if !seenEntity[id] {
				seenEntity[id] = true
				entityIDs = append(entityIDs, id)
			}
		}
	}

	// Re-run stable-ID discovery across all members, not just the
	// record that supplied the grouping key.
	storyID, idType := stableid.GroupID(records, entityIDs)
	discovered := stableid.Discover(records)

	links := dedupeLinks(buildLinks(g.members))

	story := types.Story{
		StoryID:          storyID,
		Title:            records[0].Title,
		PrimaryLink:      SelectPrimary(links, l.preferOrderFor(entityIDs)),
		Links:            links,
		Entities:         entityIDs,
		PublishedAt:      bestDate(records),
		ArxivID:          discovered[stableid.TypeArxiv],
		HFModelID:        discovered[stableid.TypeHuggingFace],
		GitHubReleaseURL: stableid.ReleaseURL(records),
		ItemCount:        len(records),
		Records:          records,
	}

	rationale := types.MergeRationale{
		StoryID:     storyID,
		EntityIDs:   entityIDs,
		StableIDs:   stableIDStrings(discovered),
		SourceIDs:   sourceIDs(records),
		ItemsMerged: len(records),
	}
	if idType == stableid.TypeFallback {
		rationale.FallbackHeuristic = fallbackHeuristicName
	}

	return story, rationale
}

// buildLinks produces one StoryLink per member record.
func buildLinks(members []types.TaggedRecord) []types.StoryLink {
	links := make([]types.StoryLink, len(members))
	for i, m := range members {
		links[i] = types.StoryLink{
			URL:      m.Record.URL,
			LinkType: inferLinkType(m.Record),
			SourceID: m.Record.SourceID,
			Tier:     m.Record.Tier,
			Title:    m.Record.Title,
		}
	}
	return links
}

// dedupeLinks drops links repeating a (linkType, url) pair, keeping
// first-seen order.
func dedupeLinks(links []types.StoryLink) []types.StoryLink {
	type key struct {
		t types.LinkType
		u string
	}
	seen := make(map[key]bool, len(links))
	out := links[:0:0]
	for _, ln := range links {
		k := key{ln.LinkType, ln.URL}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, ln)
	}
	return out
}

// inferLinkType classifies a record's URL: host pattern first, then the
// record kind, then the tier heuristic (tier 0 sources are official,
// everything else is coverage).
func inferLinkType(r types.Record) types.LinkType {
	if u, err := url.Parse(r.URL); err == nil {
		host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
		switch {
		case hostIs(host, "arxiv.org"):
			return types.LinkArxiv
		case hostIs(host, "github.com"):
			return types.LinkGitHub
		case hostIs(host, "huggingface.co"):
			return types.LinkHuggingFace
		case hostIs(host, "modelscope.cn"):
			return types.LinkModelScope
		case hostIs(host, "openreview.net"):
			return types.LinkOpenReview
		}
	}

	switch r.Kind {
	case "blog", "news":
		return types.LinkBlog
	case "paper":
		return types.LinkPaper
	case "docs":
		return types.LinkDocs
	case "release":
		return types.LinkGitHub
	}

	if r.Tier == 0 {
		return types.LinkOfficial
	}
	return types.LinkBlog
}

// hostIs reports whether host is domain or a subdomain of it.
func hostIs(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// bestDate returns the first non-nil publishedAt when members are
// ordered by ascending date confidence (high first), ties keeping
// original order. A group with no dated member yields nil.
func bestDate(records []types.Record) *time.Time {
	ordered := make([]types.Record, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].DateConfidence.Rank() < ordered[j].DateConfidence.Rank()
	})
	for _, r := range ordered {
		if r.PublishedAt != nil {
			return r.PublishedAt
		}
	}
	return nil
}

// sourceIDs lists contributing sources in member order, deduplicated.
func sourceIDs(records []types.Record) []string {
	seen := make(map[string]bool, len(records))
	var out []string
	for _, r := range records {
		if !seen[r.SourceID] {
			seen[r.SourceID] = true
			out = append(out, r.SourceID)
		}
	}
	return out
}

// stableIDStrings converts the discovery map to string keys for the
// rationale.
func stableIDStrings(found map[stableid.Type]string) map[string]string {
	out := make(map[string]string, len(found))
	for t, id := range found {
		out[t.String()] = id
	}
	return out
}
