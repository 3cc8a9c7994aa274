package template

import (
	"io"
	"strings"
)

// TemplateRenderer expands template source against a data context.
type TemplateRenderer interface {
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	// RenderWithTags renders templateContent in which tag invocations were
	// replaced by Placeholder markers. call runs once per marker reached, in
	// document order, so markers inside untaken branches never run and
	// markers inside loops run once per iteration.
	RenderWithTags(templateContent string, data any, call TagCall) (string, error)
	// Placeholder returns the source marker for the tag at index.
	Placeholder(index int) string
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}

// TagCall evaluates the tag behind a placeholder. locals holds variables the
// template introduced at that point (loop, with and set variables) and is
// nil at the top level. The returned text is inserted without escaping.
type TagCall func(index int, locals map[string]any) (string, error)

// Safe marks a context value as already rendered output. Renderers insert it
// verbatim instead of escaping it.
type Safe string

// ContainsSyntax reports whether s holds variable or block markup and
// therefore needs the renderer at all.
func ContainsSyntax(s string) bool {
	return strings.Contains(s, "{{") || strings.Contains(s, "{%")
}
