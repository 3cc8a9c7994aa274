// Package vars holds the render-scoped variable store used by the var tag
// plugin. A Store lives for exactly one render pass: it is created empty when
// the pass begins, mutated by tag writes in document order, and discarded when
// the pass ends.
//
// Lookups distinguish a missing variable from one holding the empty string
// through the Value type, so `{{ var:color is="" }}` is a real write while
// `{{ var:color }}` is a read.
package vars
