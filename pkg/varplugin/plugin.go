package varplugin

import (
	"context"
	"io"
	"log/slog"

	"github.com/goliatone/go-tagvars/pkg/tags"
)

// Namespace is the tag namespace served by the plugin.
const Namespace = "var"

// Reserved method names. Every other method is a shorthand variable name.
const (
	MethodWith    = "with"
	MethodExists  = "exists"
	MethodExtract = "extract"
)

const (
	paramName    = "name"
	paramDefault = "default"
)

// DefaultValueAliases are the parameters accepted as a literal write value,
// in priority order.
var DefaultValueAliases = []string{"is", "value", "val"}

// Option customises the plugin.
type Option func(*Plugin)

// WithValueAliases overrides the ordered value parameter aliases.
func WithValueAliases(aliases ...string) Option {
	return func(p *Plugin) {
		if len(aliases) == 0 {
			return
		}
		p.valueAliases = append([]string(nil), aliases...)
	}
}

// WithRecursiveExtract controls whether var:extract expands template syntax
// found inside stored values before rendering the block.
func WithRecursiveExtract(enabled bool) Option {
	return func(p *Plugin) {
		p.recursiveExtract = enabled
	}
}

// WithLogger sets the logger used for debug tracing of reads and writes.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Plugin) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Plugin implements tags.Plugin for the var namespace.
type Plugin struct {
	valueAliases     []string
	recursiveExtract bool
	logger           *slog.Logger
}

var _ tags.Plugin = (*Plugin)(nil)

// New constructs the plugin with the default aliases and recursive
// extraction enabled.
func New(options ...Option) *Plugin {
	p := &Plugin{
		valueAliases:     DefaultValueAliases,
		recursiveExtract: true,
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	return p
}

// Namespace implements tags.Plugin.
func (p *Plugin) Namespace() string {
	return Namespace
}

// Methods implements tags.Plugin. Unreserved names fall through to Shorthand.
func (p *Plugin) Methods() tags.Methods {
	return tags.Methods{
		Named: map[string]tags.Handler{
			MethodWith:    p.With,
			MethodExists:  p.Exists,
			MethodExtract: p.Extract,
		},
		Fallback: p.Shorthand,
	}
}

// With reads or writes the variable named by the `name` parameter. Reads fall
// back to the `default` parameter, which is ignored on writes.
//
//	{{ var:with name="color" is="red" }}
//	{{ var:with name="color" default="blue" }}
func (p *Plugin) With(ctx context.Context, inv *tags.Invocation) (any, error) {
	name, err := inv.RequireParam(paramName)
	if err != nil {
		return nil, err
	}
	def := absent
	if value, ok := inv.Param([]string{paramDefault}); ok {
		def = present(value)
	}
	return p.readOrWrite(ctx, inv, name, def)
}

// Shorthand reads or writes the variable named by the method itself.
//
//	{{ var:color is="red" }}
//	{{ var:color }}
func (p *Plugin) Shorthand(ctx context.Context, name string, inv *tags.Invocation) (any, error) {
	return p.readOrWrite(ctx, inv, name, absent)
}

// Exists reports whether the variable named by the `name` parameter was
// written during the current pass.
func (p *Plugin) Exists(_ context.Context, inv *tags.Invocation) (any, error) {
	name, err := inv.RequireParam(paramName)
	if err != nil {
		return nil, err
	}
	store, err := storeOf(inv)
	if err != nil {
		return nil, err
	}
	return store.Exists(name), nil
}
