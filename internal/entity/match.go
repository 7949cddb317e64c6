// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package entity tags records with configured entities (organizations,
// researchers, institutions) by keyword and alias matching over title
// and metadata text.
package entity

import (
	"sort"
	"strings"
	"unicode"

	"github.com/pdiddy/story-linker/pkg/types"
)

// Match scores a record against the configured entities. Pure function:
// no I/O, no side effects, and malformed or missing metadata degrades
// to "no additional search text", never an error.
//
// A term matches on word boundaries, case-insensitively: keyword "AI"
// does not match inside "OpenAI". Score is the count of distinct
// matched terms, plus one for each matched term that also occurs in the
// title — an entity named only in an abstract ranks below one named in
// the headline. Results sort by score descending, ties kept in entity
// declaration order.
func Match(r types.Record, entities []types.Entity) []types.EntityMatch {
	searchText := strings.ToLower(buildSearchText(r))
	title := strings.ToLower(r.Title)

	var matches []types.EntityMatch
	for _, e := range entities {
		var matched []string
		score := 0
		seen := make(map[string]bool)

		terms := make([]string, 0, len(e.Keywords)+len(e.Aliases))
		terms = append(terms, e.Keywords...)
		terms = append(terms, e.Aliases...)

		for _, term := range terms {
			lt := strings.ToLower(strings.TrimSpace(term))
			if lt == "" || seen[lt] {
				continue
			}
			seen[lt] = true
			if !containsWord(searchText, lt) {
				continue
			}
			matched = append(matched, term)
			score++
			if strings.Contains(title, lt) {
				score++
			}
		}

		if score > 0 {
			matches = append(matches, types.EntityMatch{
				EntityID:        e.ID,
				EntityName:      e.Name,
				MatchedKeywords: matched,
				MatchScore:      score,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})
	return matches
}

// buildSearchText concatenates the title with the metadata fields worth
// searching: abstract, description, and the author list.
func buildSearchText(r types.Record) string {
	parts := []string{r.Title}
	if s := r.MetaString("abstract"); s != "" {
		parts = append(parts, s)
	}
	if s := r.MetaString("description"); s != "" {
		parts = append(parts, s)
	}
	if s := r.MetaAuthors(); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

// containsWord reports whether term occurs in text on word boundaries.
// Both arguments must already be lower-cased. A regexp \b would
// misfire on terms that begin or end with non-word runes ("C++",
// "GPT-4"), so boundaries are checked by inspecting the neighboring
// runes directly.
func containsWord(text, term string) bool {
	if term == "" {
		return false
	}
	for from := 0; ; {
		i := strings.Index(text[from:], term)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(term)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}
		from = start + 1
	}
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r := lastRune(text[:i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r := firstRune(text[i:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func lastRune(s string) rune {
	var last rune
	for _, r := range s {
		last = r
	}
	return last
}
