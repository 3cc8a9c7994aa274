package render

import (
	"fmt"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer filters rendered markup. *bluemonday.Policy satisfies it.
type Sanitizer interface {
	Sanitize(s string) string
}

// SanitizerFunc adapts a plain function to Sanitizer.
type SanitizerFunc func(string) string

// Sanitize implements Sanitizer.
func (fn SanitizerFunc) Sanitize(s string) string {
	return fn(s)
}

var (
	ugcPolicyOnce    sync.Once
	ugcPolicy        *bluemonday.Policy
	strictPolicyOnce sync.Once
	strictPolicy     *bluemonday.Policy
)

// UGCSanitizer keeps the markup a user comment may contain and drops
// scripts, styles and event handlers.
func UGCSanitizer() Sanitizer {
	ugcPolicyOnce.Do(func() {
		ugcPolicy = bluemonday.UGCPolicy()
	})
	return ugcPolicy
}

// StrictSanitizer strips every element, leaving text only.
func StrictSanitizer() Sanitizer {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// SanitizerByName maps "ugc" and "strict" to their policies. "none" and the
// empty string return nil.
func SanitizerByName(name string) (Sanitizer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return nil, nil
	case "ugc":
		return UGCSanitizer(), nil
	case "strict":
		return StrictSanitizer(), nil
	default:
		return nil, fmt.Errorf("render: unknown sanitizer %q", name)
	}
}
