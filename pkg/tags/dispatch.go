package tags

import (
	"context"
	"fmt"
)

// Handler serves one named method.
type Handler func(ctx context.Context, inv *Invocation) (any, error)

// FallbackHandler serves every method without a named handler. name is the
// literal method used in the template.
type FallbackHandler func(ctx context.Context, name string, inv *Invocation) (any, error)

// Methods is the dispatch table of a plugin.
type Methods struct {
	Named    map[string]Handler
	Fallback FallbackHandler
}

// Plugin serves every tag of one namespace.
type Plugin interface {
	Namespace() string
	Methods() Methods
}

// Dispatch routes inv to its named handler, or to the fallback when the
// method is not one of the named ones.
func (m Methods) Dispatch(ctx context.Context, inv *Invocation) (any, error) {
	if handler, ok := m.Named[inv.Method]; ok && handler != nil {
		return handler(ctx, inv)
	}
	if m.Fallback != nil {
		return m.Fallback(ctx, inv.Method, inv)
	}
	return nil, fmt.Errorf("%w: %s:%s", ErrUnknownMethod, inv.Namespace, inv.Method)
}
