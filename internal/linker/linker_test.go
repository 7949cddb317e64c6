// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package linker

import (
	"sort"
	"testing"
	"time"

	"github.com/pdiddy/story-linker/pkg/types"
)

var testConfig = types.LinkerConfig{
	Entities: []types.Entity{
		{ID: "openai", Name: "OpenAI", Keywords: []string{"OpenAI"}, Aliases: []string{"GPT-4"}},
		{ID: "anthropic", Name: "Anthropic", Keywords: []string{"Anthropic"}, Aliases: []string{"Claude"}},
	},
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
	return &t
}

func TestLinkMergeCorrectness(t *testing.T) {
	records := []types.Record{
		{URL: "https://arxiv.org/abs/2401.12345", SourceID: "arxiv-api", Tier: 1, Kind: "paper", Title: "Paper A"},
		{URL: "https://arxiv.org/abs/2401.12345v2", SourceID: "rss", Tier: 2, Kind: "paper", Title: "Paper A (v2)"},
		{URL: "https://arxiv.org/abs/2401.99999", SourceID: "arxiv-api", Tier: 1, Kind: "paper", Title: "Paper B"},
	}

	result := New(testConfig, nil).Link(records)

	if result.StoriesOut != 2 {
		t.Fatalf("StoriesOut = %d, want 2", result.StoriesOut)
	}
	var merged *types.Story
	for i := range result.Stories {
		if result.Stories[i].StoryID == "arxiv:2401.12345" {
			merged = &result.Stories[i]
		}
	}
	if merged == nil {
		t.Fatalf("no story with ID arxiv:2401.12345; got %v", storyIDs(result.Stories))
	}
	if merged.ItemCount != 2 {
		t.Errorf("ItemCount = %d, want 2", merged.ItemCount)
	}
	if merged.ArxivID != "2401.12345" {
		t.Errorf("ArxivID = %q, want 2401.12345", merged.ArxivID)
	}
	if result.MergesTotal != 1 {
		t.Errorf("MergesTotal = %d, want 1", result.MergesTotal)
	}
	if result.FallbackMerges != 0 {
		t.Errorf("FallbackMerges = %d, want 0", result.FallbackMerges)
	}
}

func TestLinkIdempotentUnderInputOrder(t *testing.T) {
	records := []types.Record{
		{URL: "https://arxiv.org/abs/2401.12345", SourceID: "arxiv-api", Tier: 1, Kind: "paper", Title: "Paper A", PublishedAt: datePtr(2024, 1, 20), DateConfidence: types.ConfidenceHigh},
		{URL: "https://openai.com/blog/paper-a", SourceID: "openai-blog", Tier: 0, Kind: "blog", Title: "Paper A announced", Metadata: map[string]any{"arxiv_id": "2401.12345"}},
		{URL: "https://openai.com/blog/other", SourceID: "openai-blog", Tier: 0, Kind: "blog", Title: "Something with OpenAI", PublishedAt: datePtr(2024, 2, 2), DateConfidence: types.ConfidenceMedium},
		{URL: "https://huggingface.co/org/model", SourceID: "hf-models", Tier: 1, Kind: "model", Title: "org/model"},
	}

	l := New(testConfig, nil)
	forward := l.Link(records)

	reversed := make([]types.Record, len(records))
	for i, r := range records {
		reversed[len(records)-1-i] = r
	}
	backward := l.Link(reversed)

	a, b := storyIDs(forward.Stories), storyIDs(backward.Stories)
	sort.Strings(a)
	sort.Strings(b)
	if len(a) != len(b) {
		t.Fatalf("story counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("story ID multiset differs: %v vs %v", a, b)
			break
		}
	}

	primary := func(stories []types.Story) map[string]string {
		m := make(map[string]string)
		for _, s := range stories {
			m[s.StoryID] = s.PrimaryLink.URL
		}
		return m
	}
	pf, pb := primary(forward.Stories), primary(backward.Stories)
	for id, url := range pf {
		if pb[id] != url {
			t.Errorf("story %s primary link differs: %q vs %q", id, url, pb[id])
		}
	}
}

func TestLinkPrimaryLinkStableUnderInputOrder(t *testing.T) {
	// Two records of one story whose links tie on both precedence and
	// tier (abs and pdf URLs of the same arXiv paper): the chosen
	// primary link must not follow batch order.
	records := []types.Record{
		{URL: "https://arxiv.org/abs/2401.12345", SourceID: "arxiv-api", Tier: 1, Kind: "paper", Title: "Paper A"},
		{URL: "https://arxiv.org/pdf/2401.12345", SourceID: "rss", Tier: 1, Kind: "paper", Title: "Paper A"},
	}
	reversed := []types.Record{records[1], records[0]}

	l := New(testConfig, nil)
	forward := l.Link(records)
	backward := l.Link(reversed)

	if forward.StoriesOut != 1 || backward.StoriesOut != 1 {
		t.Fatalf("StoriesOut = %d/%d, want 1/1", forward.StoriesOut, backward.StoriesOut)
	}
	fu, bu := forward.Stories[0].PrimaryLink.URL, backward.Stories[0].PrimaryLink.URL
	if fu != bu {
		t.Errorf("primary link depends on input order: %q vs %q", fu, bu)
	}
}

func TestLinkEmptyInput(t *testing.T) {
	result := New(testConfig, nil).Link(nil)
	if result.ItemsIn != 0 {
		t.Errorf("ItemsIn = %d, want 0", result.ItemsIn)
	}
	if len(result.Stories) != 0 {
		t.Errorf("Stories = %v, want empty", result.Stories)
	}
	if len(result.Rationales) != 0 {
		t.Errorf("Rationales = %v, want empty", result.Rationales)
	}
}

func TestLinkFallbackGrouping(t *testing.T) {
	date := datePtr(2024, 5, 1)
	records := []types.Record{
		{URL: "https://openai.com/blog/report", SourceID: "openai-blog", Tier: 0, Kind: "blog", Title: "GPT-4: A Report!", PublishedAt: date, DateConfidence: types.ConfidenceHigh},
		{URL: "https://news.example.com/gpt4-report", SourceID: "news", Tier: 2, Kind: "news", Title: "gpt-4 a report", PublishedAt: date, DateConfidence: types.ConfidenceLow},
	}

	result := New(testConfig, nil).Link(records)

	if result.StoriesOut != 1 {
		t.Fatalf("StoriesOut = %d, want 1: %v", result.StoriesOut, storyIDs(result.Stories))
	}
	s := result.Stories[0]
	if s.StoryID[:9] != "fallback:" {
		t.Errorf("StoryID = %q, want fallback-derived", s.StoryID)
	}
	if s.ItemCount != 2 {
		t.Errorf("ItemCount = %d, want 2", s.ItemCount)
	}
	if result.FallbackMerges != 1 {
		t.Errorf("FallbackMerges = %d, want 1", result.FallbackMerges)
	}
	r := result.Rationales[0]
	if r.FallbackHeuristic != "title+entity+date" {
		t.Errorf("FallbackHeuristic = %q", r.FallbackHeuristic)
	}
	if len(r.SourceIDs) != 2 {
		t.Errorf("SourceIDs = %v, want both sources", r.SourceIDs)
	}
}

func TestLinkStableIDFieldsAcrossGroup(t *testing.T) {
	records := []types.Record{
		{URL: "https://arxiv.org/abs/2401.12345", SourceID: "arxiv-api", Tier: 1, Kind: "paper", Title: "Paper A"},
		{URL: "https://github.com/acme/model/releases/tag/v1.0", SourceID: "github", Tier: 1, Kind: "release", Title: "v1.0", Metadata: map[string]any{"arxiv_id": "2401.12345"}},
	}

	result := New(testConfig, nil).Link(records)

	if result.StoriesOut != 1 {
		t.Fatalf("StoriesOut = %d, want 1: %v", result.StoriesOut, storyIDs(result.Stories))
	}
	s := result.Stories[0]
	if s.StoryID != "arxiv:2401.12345" {
		t.Errorf("StoryID = %q", s.StoryID)
	}
	if s.ArxivID != "2401.12345" {
		t.Errorf("ArxivID = %q", s.ArxivID)
	}
	// The release URL is discovered even though arXiv supplied the key.
	if s.GitHubReleaseURL != "https://github.com/acme/model/releases/tag/v1.0" {
		t.Errorf("GitHubReleaseURL = %q", s.GitHubReleaseURL)
	}
	r := result.Rationales[0]
	if r.StableIDs["arxiv"] != "2401.12345" || r.StableIDs["github"] != "acme/model:v1.0" {
		t.Errorf("StableIDs = %v", r.StableIDs)
	}
}

func TestLinkDateConfidencePreference(t *testing.T) {
	lowDate := datePtr(2024, 1, 1)
	highDate := datePtr(2024, 1, 3)
	records := []types.Record{
		{URL: "https://arxiv.org/abs/2401.12345", SourceID: "rss", Tier: 2, Kind: "paper", Title: "Paper A", PublishedAt: lowDate, DateConfidence: types.ConfidenceLow},
		{URL: "https://arxiv.org/abs/2401.12345v2", SourceID: "arxiv-api", Tier: 1, Kind: "paper", Title: "Paper A", PublishedAt: highDate, DateConfidence: types.ConfidenceHigh},
	}

	result := New(testConfig, nil).Link(records)
	if result.StoriesOut != 1 {
		t.Fatalf("StoriesOut = %d, want 1", result.StoriesOut)
	}
	got := result.Stories[0].PublishedAt
	if got == nil || !got.Equal(*highDate) {
		t.Errorf("PublishedAt = %v, want high-confidence %v", got, highDate)
	}
}

func TestLinkTypeInference(t *testing.T) {
	tests := []struct {
		name   string
		record types.Record
		want   types.LinkType
	}{
		{"arxiv host", types.Record{URL: "https://arxiv.org/abs/2401.12345"}, types.LinkArxiv},
		{"github host", types.Record{URL: "https://github.com/a/b"}, types.LinkGitHub},
		{"huggingface host", types.Record{URL: "https://huggingface.co/a/b"}, types.LinkHuggingFace},
		{"modelscope host", types.Record{URL: "https://modelscope.cn/models/a/b"}, types.LinkModelScope},
		{"openreview host", types.Record{URL: "https://openreview.net/forum?id=x"}, types.LinkOpenReview},
		{"www prefix stripped", types.Record{URL: "https://www.github.com/a/b"}, types.LinkGitHub},
		{"kind blog", types.Record{URL: "https://example.com/x", Kind: "blog"}, types.LinkBlog},
		{"kind news", types.Record{URL: "https://example.com/x", Kind: "news"}, types.LinkBlog},
		{"kind paper", types.Record{URL: "https://example.com/x", Kind: "paper"}, types.LinkPaper},
		{"kind docs", types.Record{URL: "https://example.com/x", Kind: "docs"}, types.LinkDocs},
		{"kind release", types.Record{URL: "https://example.com/x", Kind: "release"}, types.LinkGitHub},
		{"tier 0 default", types.Record{URL: "https://example.com/x", Tier: 0}, types.LinkOfficial},
		{"tier 1 default", types.Record{URL: "https://example.com/x", Tier: 1}, types.LinkBlog},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inferLinkType(tt.record); got != tt.want {
				t.Errorf("inferLinkType = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLinkDedupesLinks(t *testing.T) {
	// Same URL from two sources: one link survives, both records count.
	records := []types.Record{
		{URL: "https://arxiv.org/abs/2401.12345", SourceID: "rss", Tier: 2, Kind: "paper", Title: "Paper A"},
		{URL: "https://arxiv.org/abs/2401.12345", SourceID: "arxiv-api", Tier: 1, Kind: "paper", Title: "Paper A"},
	}
	result := New(testConfig, nil).Link(records)
	if result.StoriesOut != 1 {
		t.Fatalf("StoriesOut = %d, want 1", result.StoriesOut)
	}
	s := result.Stories[0]
	if len(s.Links) != 1 {
		t.Errorf("Links = %d, want 1 after (linkType, url) dedup", len(s.Links))
	}
	if s.ItemCount != 2 {
		t.Errorf("ItemCount = %d, want 2", s.ItemCount)
	}
}

func TestLinkEntityPreferLinksOverride(t *testing.T) {
	cfg := types.LinkerConfig{
		Entities: []types.Entity{
			{ID: "openai", Name: "OpenAI", Keywords: []string{"OpenAI"}, PreferLinks: []string{"blog", "arxiv"}},
		},
	}
	records := []types.Record{
		{URL: "https://arxiv.org/abs/2401.12345", SourceID: "arxiv-api", Tier: 1, Kind: "paper", Title: "OpenAI paper"},
		{URL: "https://openai.com/blog/paper", SourceID: "openai-blog", Tier: 0, Kind: "blog", Title: "OpenAI paper", Metadata: map[string]any{"arxiv_id": "2401.12345"}},
	}
	result := New(cfg, nil).Link(records)
	if result.StoriesOut != 1 {
		t.Fatalf("StoriesOut = %d, want 1", result.StoriesOut)
	}
	if got := result.Stories[0].PrimaryLink.LinkType; got != types.LinkBlog {
		t.Errorf("PrimaryLink.LinkType = %v, want blog (entity override)", got)
	}
}

func TestLinkMetrics(t *testing.T) {
	m := &AtomicMetrics{}
	l := New(testConfig, m)

	records := []types.Record{
		{URL: "https://arxiv.org/abs/2401.12345", SourceID: "a", Tier: 1, Kind: "paper", Title: "Paper A"},
		{URL: "https://arxiv.org/abs/2401.12345v2", SourceID: "b", Tier: 2, Kind: "paper", Title: "Paper A"},
		{URL: "https://example.com/post", SourceID: "c", Tier: 2, Kind: "blog", Title: "Unrelated"},
	}
	l.Link(records)
	l.Link(records)

	snap := m.Snapshot()
	if snap.ItemsIn != 6 {
		t.Errorf("ItemsIn = %d, want 6", snap.ItemsIn)
	}
	if snap.StoriesOut != 4 {
		t.Errorf("StoriesOut = %d, want 4", snap.StoriesOut)
	}
	if snap.Merges != 2 {
		t.Errorf("Merges = %d, want 2", snap.Merges)
	}
	if snap.FallbackMerges != 2 {
		t.Errorf("FallbackMerges = %d, want 2", snap.FallbackMerges)
	}

	m.Reset()
	if s := m.Snapshot(); s != (MetricsSnapshot{}) {
		t.Errorf("Snapshot after Reset = %+v, want zero", s)
	}
}

func TestLinkRationalesFollowStoryOrder(t *testing.T) {
	records := []types.Record{
		{URL: "https://arxiv.org/abs/2401.12345", SourceID: "a", Tier: 1, Kind: "paper", Title: "Paper A", PublishedAt: datePtr(2024, 1, 1), DateConfidence: types.ConfidenceHigh},
		{URL: "https://arxiv.org/abs/2401.99999", SourceID: "a", Tier: 1, Kind: "paper", Title: "Paper B", PublishedAt: datePtr(2024, 2, 1), DateConfidence: types.ConfidenceHigh},
	}
	result := New(testConfig, nil).Link(records)
	if len(result.Rationales) != len(result.Stories) {
		t.Fatalf("rationales %d vs stories %d", len(result.Rationales), len(result.Stories))
	}
	for i, s := range result.Stories {
		if result.Rationales[i].StoryID != s.StoryID {
			t.Errorf("rationale %d is for %s, story is %s", i, result.Rationales[i].StoryID, s.StoryID)
		}
	}
}

func storyIDs(stories []types.Story) []string {
	ids := make([]string, len(stories))
	for i, s := range stories {
		ids[i] = s.StoryID
	}
	return ids
}
