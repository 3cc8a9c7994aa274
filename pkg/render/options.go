package render

import (
	"log/slog"

	"github.com/goliatone/go-tagvars/pkg/render/template"
	"github.com/goliatone/go-tagvars/pkg/tags"
)

// Option customises an Engine before it is built.
type Option func(*config)

type config struct {
	renderer  template.TemplateRenderer
	plugins   []tags.Plugin
	logger    *slog.Logger
	sanitizer Sanitizer
	trim      bool
}

// WithTemplateRenderer sets the renderer documents are rendered with. Tags
// run from its placeholders. It is required.
func WithTemplateRenderer(renderer template.TemplateRenderer) Option {
	return func(cfg *config) {
		cfg.renderer = renderer
	}
}

// WithPlugins registers tag namespaces. Duplicate namespaces fail New.
func WithPlugins(plugins ...tags.Plugin) Option {
	return func(cfg *config) {
		cfg.plugins = append(cfg.plugins, plugins...)
	}
}

// WithLogger enables debug tracing of passes and tag dispatch.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithSanitizer filters the final output of every top-level render.
func WithSanitizer(sanitizer Sanitizer) Option {
	return func(cfg *config) {
		cfg.sanitizer = sanitizer
	}
}

// WithTrimOutput trims surrounding whitespace from top-level output.
func WithTrimOutput(enabled bool) Option {
	return func(cfg *config) {
		cfg.trim = enabled
	}
}
