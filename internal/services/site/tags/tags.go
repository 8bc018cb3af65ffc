// Package tags defines the closed set of topics content can be tagged with.
package tags

import (
	"strings"

	"golang.org/x/text/message"
)

// Kind identifies one topic.
type Kind string

const (
	Architecture Kind = "architecture"
	Frontend     Kind = "frontend"
	Testing      Kind = "testing"
	Career       Kind = "career"
	Tools        Kind = "tools"
	Patterns     Kind = "patterns"
	Refactoring  Kind = "refactoring"
)

var all = []Kind{Architecture, Frontend, Testing, Career, Tools, Patterns, Refactoring}

// All returns every known tag in display order.
func All() []Kind {
	out := make([]Kind, len(all))
	copy(out, all)
	return out
}

// Parse returns the tag named by value. Matching ignores case and
// surrounding space.
func Parse(value string) (Kind, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, kind := range all {
		if string(kind) == value {
			return kind, true
		}
	}
	return "", false
}

// ParseAll keeps the recognized tags from values, dropping unknown and
// duplicate entries.
func ParseAll(values []string) []Kind {
	out := make([]Kind, 0, len(values))
	seen := make(map[Kind]bool, len(values))
	for _, value := range values {
		kind, ok := Parse(value)
		if !ok || seen[kind] {
			continue
		}
		seen[kind] = true
		out = append(out, kind)
	}
	return out
}

// ValueOf returns the localized display name of a tag.
func ValueOf(kind Kind, p *message.Printer) string {
	if p == nil {
		return string(kind)
	}
	return p.Sprintf("tag." + string(kind))
}

// Contains reports whether kinds includes kind.
func Contains(kinds []Kind, kind Kind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
