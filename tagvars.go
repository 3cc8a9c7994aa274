// Package tagvars renders templates that declare and read render-scoped
// variables with `{{ var:... }}` tags. It wires the pongo2 template engine
// and the var plugin into a ready-to-use render.Engine.
package tagvars

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-tagvars/pkg/render"
	"github.com/goliatone/go-tagvars/pkg/render/template/gotemplate"
	"github.com/goliatone/go-tagvars/pkg/varplugin"
	"github.com/goliatone/go-tagvars/pkg/vars"
)

// Value is an optional string; absence is distinct from "".
type Value = vars.Value

// Store is the variable store of one render pass.
type Store = vars.Store

// Engine renders templates mixing pongo2 syntax and registered tags.
type Engine = render.Engine

// Pass is one rendering pass sharing a single Store.
type Pass = render.Pass

// Option aliases render.Option so callers can pass engine options through
// New without importing the render package.
type Option = render.Option

// TemplateOption configures the default pongo2 renderer.
type TemplateOption = gotemplate.Option

// Template renderer options, re-exported for NewWithTemplate.
var (
	// WithIncludeDir resolves `{% include %}` from a directory on disk.
	WithIncludeDir = gotemplate.WithBaseDir
	// WithIncludeFS resolves `{% include %}` from an fs.FS.
	WithIncludeFS = gotemplate.WithFS
	// WithFuncs exposes functions and filters to templates.
	WithFuncs = gotemplate.WithTemplateFunc
	// WithGlobals seeds values visible to every render.
	WithGlobals = gotemplate.WithGlobalData
	// WithParseCache bounds the parsed template cache.
	WithParseCache = gotemplate.WithCacheSize
)

// New builds an Engine with the pongo2 renderer and the var plugin. Options
// are applied afterwards, so WithTemplateRenderer replaces the default
// renderer and WithPlugins adds further namespaces.
func New(options ...Option) (*Engine, error) {
	return NewWithTemplate(nil, options...)
}

// NewWithFS is New with `{% include %}` resolved against fsys.
func NewWithFS(fsys fs.FS, options ...Option) (*Engine, error) {
	return NewWithTemplate([]TemplateOption{WithIncludeFS(fsys)}, options...)
}

// NewWithTemplate is New with the pongo2 renderer configured by
// templateOptions.
func NewWithTemplate(templateOptions []TemplateOption, options ...Option) (*Engine, error) {
	renderer, err := gotemplate.New(templateOptions...)
	if err != nil {
		return nil, fmt.Errorf("tagvars: template renderer: %w", err)
	}
	return NewWithRenderer(renderer, options...)
}

// NewWithRenderer builds an Engine around renderer with the var plugin
// registered.
func NewWithRenderer(renderer *gotemplate.Engine, options ...Option) (*Engine, error) {
	base := []Option{
		render.WithTemplateRenderer(renderer),
		render.WithPlugins(varplugin.New()),
	}
	return render.New(append(base, options...)...)
}

// Render expands content in a fresh pass of a default engine.
func Render(ctx context.Context, content string, data map[string]any) (string, error) {
	engine, err := New()
	if err != nil {
		return "", err
	}
	return engine.Render(ctx, content, data)
}

// Some wraps s as a present Value.
func Some(s string) Value {
	return vars.Some(s)
}

// None is the absent Value.
var None = vars.None
