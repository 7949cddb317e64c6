// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stableid extracts canonical external identifiers (arXiv,
// GitHub release, HuggingFace model, ModelScope model) from records and
// derives deterministic story IDs, including the content-hash fallback
// used when no stable identifier exists.
package stableid

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/story-linker/pkg/types"
)

// Type classifies an extracted identifier.
type Type int

const (
	TypeNone Type = iota
	TypeArxiv
	TypeGitHub
	TypeHuggingFace
	TypeModelScope
	TypeFallback
)

func (t Type) String() string {
	switch t {
	case TypeArxiv:
		return "arxiv"
	case TypeGitHub:
		return "github"
	case TypeHuggingFace:
		return "huggingface"
	case TypeModelScope:
		return "modelscope"
	case TypeFallback:
		return "fallback"
	default:
		return "none"
	}
}

// arxivURLPattern matches arXiv paper URLs: abs, pdf, and html paths,
// with or without a version suffix. The version is deliberately outside
// the capture: "2401.12345" and "2401.12345v2" are the same paper.
var arxivURLPattern = regexp.MustCompile(`arxiv\.org/(?:abs|pdf|html)/(\d{4}\.\d{4,5})(?:v\d+)?`)

// arxivIDPattern matches bare arXiv IDs from metadata: "2301.07041",
// "arXiv:2301.07041v2".
var arxivIDPattern = regexp.MustCompile(`^(?:arXiv:)?(\d{4}\.\d{4,5})(?:v\d+)?$`)

// githubReleasePattern matches release-tag URLs on github.com.
var githubReleasePattern = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)/releases/tag/([^/?#]+)`)

// extractors, in priority order. The order is load-bearing: a record
// carrying both an arXiv link and a GitHub release must group by the
// arXiv ID, whichever URL the collector happened to report first.
var extractors = []struct {
	typ     Type
	extract func(types.Record) string
}{
	{TypeArxiv, extractArxiv},
	{TypeGitHub, extractGitHubRelease},
	{TypeHuggingFace, func(r types.Record) string { return extractModelID(r, "huggingface.co") }},
	{TypeModelScope, func(r types.Record) string { return extractModelID(r, "modelscope.cn") }},
}

// Extract returns the record's stable identifier and its type, checking
// identifier classes in priority order. Records with no recognizable
// identifier return ("", TypeNone).
func Extract(r types.Record) (string, Type) {
	for _, e := range extractors {
		if id := e.extract(r); id != "" {
			return id, e.typ
		}
	}
	return "", TypeNone
}

// extractArxiv finds an arXiv ID in the record URL or in an explicit
// "arxiv_id" metadata field, stripping any trailing version suffix.
func extractArxiv(r types.Record) string {
	if m := arxivURLPattern.FindStringSubmatch(r.URL); m != nil {
		return m[1]
	}
	if raw := r.MetaString("arxiv_id"); raw != "" {
		if m := arxivIDPattern.FindStringSubmatch(strings.TrimSpace(raw)); m != nil {
			return m[1]
		}
	}
	return ""
}

// extractGitHubRelease returns "owner/repo:tag" (lower-cased) for
// GitHub release-tag URLs.
func extractGitHubRelease(r types.Record) string {
	m := githubReleasePattern.FindStringSubmatch(r.URL)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1] + "/" + m[2] + ":" + m[3])
}

// reservedHubSegments are first path segments on model-hub hosts that
// never denote an owning org, so no model ID can be extracted.
var reservedHubSegments = map[string]bool{
	"blog":     true,
	"docs":     true,
	"papers":   true,
	"datasets": true,
	"spaces":   true,
}

// extractModelID returns "org/model" (lower-cased) for model pages on
// the given hub host. Extra path segments (tree/main, blob paths) are
// ignored: the first two segments identify the model. ModelScope nests
// models under a leading "models" segment; it is skipped so both hubs
// normalize to the same shape.
func extractModelID(r types.Record, host string) string {
	u, err := url.Parse(r.URL)
	if err != nil {
		return ""
	}
	h := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if h != host {
		return ""
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segs) > 0 && segs[0] == "models" {
		segs = segs[1:]
	}
	if len(segs) < 2 || segs[0] == "" || segs[1] == "" {
		return ""
	}
	if reservedHubSegments[strings.ToLower(segs[0])] {
		return ""
	}
	return strings.ToLower(segs[0] + "/" + segs[1])
}

// Discover collects every identifier class present across a group of
// records: for each type, the first identifier found in member order.
// Used by the merge resolver so a story records all of its stable IDs,
// not just the one that supplied the grouping key.
func Discover(records []types.Record) map[Type]string {
	found := make(map[Type]string)
	for _, e := range extractors {
		for _, r := range records {
			if id := e.extract(r); id != "" {
				found[e.typ] = id
				break
			}
		}
	}
	return found
}

// ReleaseURL returns the first GitHub release URL found across the
// records, or "" when none carries one.
func ReleaseURL(records []types.Record) string {
	for _, r := range records {
		if githubReleasePattern.MatchString(r.URL) {
			return r.URL
		}
	}
	return ""
}

// fallbackPunct is the punctuation stripped during title normalization.
const fallbackPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// maxNormalizedTitle caps the normalized title length (in runes) fed
// into the fallback digest.
const maxNormalizedTitle = 80

// NormalizeTitle reduces a title to the canonical form used for
// fallback-ID derivation: NFKD decomposition, lower-case, fixed
// punctuation set stripped, whitespace collapsed, truncated. Two
// superficially different renderings of the same headline ("GPT-4: A
// Report!" vs "gpt-4 a report") normalize identically.
func NormalizeTitle(title string) string {
	s := norm.NFKD.String(title)
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(fallbackPunct, r) {
			return -1
		}
		return r
	}, s)
	s = strings.Join(strings.Fields(s), " ")
	if runes := []rune(s); len(runes) > maxNormalizedTitle {
		s = string(runes[:maxNormalizedTitle])
	}
	return s
}

// FallbackID derives the deterministic fallback story ID for a record
// group: "fallback:" plus a 16-hex prefix of the SHA-256 digest of the
// normalized title, the primary entity ID (or "unknown"), and the date
// bucket (YYYY-MM-DD, or "unknown" when undated).
func FallbackID(title, entityID string, date *time.Time) string {
	if entityID == "" {
		entityID = "unknown"
	}
	bucket := "unknown"
	if date != nil {
		bucket = date.UTC().Format("2006-01-02")
	}
	seed := NormalizeTitle(title) + "|" + entityID + "|" + bucket
	sum := sha256.Sum256([]byte(seed))
	return "fallback:" + hex.EncodeToString(sum[:])[:16]
}

// GroupID computes the story ID for a group of records. Identifier
// classes are checked in priority order across the whole group (every
// member is checked for an arXiv ID before any is checked for a GitHub
// release), so the result does not depend on which member supplied the
// grouping key. When no member carries a stable identifier, the ID
// falls back to FallbackID seeded by the first record's title, the
// first matched entity, and the first available date.
func GroupID(records []types.Record, entityIDs []string) (string, Type) {
	for _, e := range extractors {
		for _, r := range records {
			if id := e.extract(r); id != "" {
				return e.typ.String() + ":" + id, e.typ
			}
		}
	}
	if len(records) == 0 {
		return "", TypeNone
	}

	entityID := ""
	if len(entityIDs) > 0 {
		entityID = entityIDs[0]
	}
	var date *time.Time
	for _, r := range records {
		if r.PublishedAt != nil {
			date = r.PublishedAt
			break
		}
	}
	return FallbackID(records[0].Title, entityID, date), TypeFallback
}
