// Package selector holds the uniform option shape fed to search and
// dropdown inputs.
package selector

import "strings"

// MinSearchLen is the minimum search-term length (in runes, after trimming)
// before a search-backed selector issues a backend query.
const MinSearchLen = 2

// Option is a value/label pair built from a raw backend record.
type Option struct {
	Value int64  `json:"value"`
	Label string `json:"label"`
}

// TooShort reports whether a search term is below the minimum length and the
// selector should answer with an empty set without a network call.
func TooShort(term string) bool {
	return len([]rune(strings.TrimSpace(term))) < MinSearchLen
}
