package render

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/goliatone/go-tagvars/pkg/render/template"
	"github.com/goliatone/go-tagvars/pkg/tags"
)

// Engine expands templates that mix plain template syntax with registered
// tags. Each top-level render runs inside a Pass that owns the variable
// store; the Engine itself holds no per-render state.
type Engine struct {
	renderer  template.TemplateRenderer
	registry  *tags.Registry
	logger    *slog.Logger
	sanitizer Sanitizer
	trim      bool
}

// New builds an Engine. A template renderer is required.
func New(options ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	if cfg.renderer == nil {
		return nil, ErrNoRenderer
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	registry := tags.NewRegistry()
	for _, plugin := range cfg.plugins {
		if err := registry.Register(plugin); err != nil {
			return nil, fmt.Errorf("render: register plugin: %w", err)
		}
	}

	return &Engine{
		renderer:  cfg.renderer,
		registry:  registry,
		logger:    cfg.logger,
		sanitizer: cfg.sanitizer,
		trim:      cfg.trim,
	}, nil
}

// Registry exposes the tag namespaces known to the engine.
func (e *Engine) Registry() *tags.Registry {
	return e.registry
}

// Renderer returns the template renderer used for text fragments.
func (e *Engine) Renderer() template.TemplateRenderer {
	return e.renderer
}

// Render expands content in a fresh pass that is discarded on return.
func (e *Engine) Render(ctx context.Context, content string, data map[string]any) (string, error) {
	pass := e.BeginPass(ctx)
	defer pass.End()
	return pass.Render(ctx, content, data)
}

// RenderFS reads name from fsys and renders it in a fresh pass.
func (e *Engine) RenderFS(ctx context.Context, fsys fs.FS, name string, data map[string]any) (string, error) {
	if fsys == nil {
		return "", fmt.Errorf("render: file system is required")
	}
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", fmt.Errorf("render: read template %q: %w", name, err)
	}
	return e.Render(ctx, string(raw), data)
}
