// Package template defines the renderer-agnostic seam the tag pipeline uses to
// expand plain template text. Adapters live in sub-packages.
package template
