// Package fileext builds file name predicates keyed on extension tags.
package fileext

import "strings"

// Extension is a recognized content file extension tag.
type Extension string

const (
	MDX Extension = "mdx"
	TSX Extension = "tsx"
)

// Only returns a predicate reporting whether a file name contains
// "."+ext anywhere. The match is not anchored to the end of the name, so
// "post.mdx.bak" passes an MDX filter.
func Only(ext Extension) func(fileName string) bool {
	needle := "." + string(ext)
	return func(fileName string) bool {
		return strings.Contains(fileName, needle)
	}
}

// OnlyMDX keeps MDX content files.
var OnlyMDX = Only(MDX)

// Filter returns the names accepted by keep, preserving order.
func Filter(names []string, keep func(string) bool) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if keep(name) {
			out = append(out, name)
		}
	}
	return out
}
