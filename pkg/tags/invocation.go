package tags

import (
	"context"
	"errors"
	"strconv"

	"github.com/goliatone/go-tagvars/pkg/vars"
)

// RenderFunc expands template source against data. It must be re-entrant:
// tags reached while rendering may call it again before it returns.
type RenderFunc func(ctx context.Context, content string, data map[string]any) (string, error)

// Invocation carries one tag use to its handler together with the pass state
// it may read or mutate.
type Invocation struct {
	Namespace string
	Method    string
	Params    Params
	Content   string
	// Data is the rendering context at the point of the tag.
	Data map[string]any
	// Store is the variable store of the current render pass.
	Store *vars.Store

	// Expand renders content through the full pipeline, tags included.
	Expand RenderFunc
}

// Param looks up the first present alias.
func (inv *Invocation) Param(aliases []string, options ...ParamOption) (string, bool) {
	if inv == nil {
		return "", false
	}
	return inv.Params.Get(aliases, options...)
}

// RequireParam returns the named parameter or a *ConfigError wrapping
// ErrMissingParam.
func (inv *Invocation) RequireParam(name string, options ...ParamOption) (string, error) {
	if value, ok := inv.Param([]string{name}, options...); ok {
		return value, nil
	}
	return "", &ConfigError{
		Namespace: inv.Namespace,
		Method:    inv.Method,
		Param:     name,
		Err:       ErrMissingParam,
	}
}

// BlockContent returns the raw source between the opening and closing
// markers, or "" for a self-closing tag.
func (inv *Invocation) BlockContent() string {
	if inv == nil {
		return ""
	}
	return inv.Content
}

// Render expands content through the full pipeline against data.
func (inv *Invocation) Render(ctx context.Context, content string, data map[string]any) (string, error) {
	if inv == nil || inv.Expand == nil {
		return "", errors.New("tags: invocation has no renderer")
	}
	return inv.Expand(ctx, content, data)
}

// FormatResult converts a handler result into template output.
func FormatResult(result any) string {
	switch v := result.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case vars.Value:
		return v.String()
	case interface{ String() string }:
		return v.String()
	default:
		return ""
	}
}
