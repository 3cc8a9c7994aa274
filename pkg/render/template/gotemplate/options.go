package gotemplate

import (
	"io/fs"
	"strings"
)

const defaultCacheSize = 256

// Option configures the pongo2 adapter before construction.
type Option func(*config)

type config struct {
	baseDir   string
	templates fs.FS
	funcs     map[string]any
	globals   map[string]any
	cacheSize int
}

// WithBaseDir resolves `{% include %}` and friends from a directory on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS resolves `{% include %}` and friends from an fs.FS. It is consulted
// after WithBaseDir when both are set.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithTemplateFunc exposes functions to templates. A pongo2.FilterFunction
// is registered as a filter; any other func becomes a global callable, as in
// `{{ env("HOME") }}`.
func WithTemplateFunc(funcs map[string]any) Option {
	return func(cfg *config) {
		if len(funcs) == 0 {
			return
		}
		if cfg.funcs == nil {
			cfg.funcs = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			cfg.funcs[strings.TrimSpace(name)] = fn
		}
	}
}

// WithGlobalData seeds values visible to every render.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globals[strings.TrimSpace(key)] = value
		}
	}
}

// WithCacheSize bounds how many parsed sources are kept. Zero disables the
// cache. A full cache is dropped and refilled.
func WithCacheSize(n int) Option {
	return func(cfg *config) {
		if n < 0 {
			n = 0
		}
		cfg.cacheSize = n
	}
}
