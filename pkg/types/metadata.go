// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// MetaString returns the metadata value for key as a string. Source
// payloads are inconsistent: the same field arrives as a bare string
// from one collector and as {"value": "..."} from another, so both
// shapes unwrap here, at the model boundary, rather than inside the
// matching logic. Anything else yields "".
func (r Record) MetaString(key string) string {
	v, ok := r.Metadata[key]
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		if s, ok := t["value"].(string); ok {
			return s
		}
	}
	return ""
}

// MetaAuthors returns the metadata "authors" field flattened to one
// string. Collectors send either a list of names or a pre-joined
// string; malformed entries are skipped, never an error.
func (r Record) MetaAuthors() string {
	v, ok := r.Metadata["authors"]
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case []any:
		var names []string
		for _, e := range t {
			switch n := e.(type) {
			case string:
				names = append(names, n)
			case map[string]any:
				if s, ok := n["name"].(string); ok {
					names = append(names, s)
				}
			}
		}
		return strings.Join(names, ", ")
	}
	return ""
}
