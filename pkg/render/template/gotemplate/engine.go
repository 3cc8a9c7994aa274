package gotemplate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-tagvars/pkg/render/template"
)

// tagFunc is the context callable placeholders invoke.
const tagFunc = "__tagvars_tag"

// Engine satisfies template.TemplateRenderer using a pongo2 template set.
type Engine struct {
	mu sync.RWMutex

	set       *pongo2.TemplateSet
	parsed    map[string]*pongo2.Template
	cacheSize int
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New constructs an Engine. Without a base dir or fs.FS, includes resolve
// relative to the working directory.
func New(options ...Option) (*Engine, error) {
	cfg := &config{cacheSize: defaultCacheSize}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	loaders, err := buildLoaders(cfg)
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		set:       pongo2.NewSet("tagvars", loaders...),
		parsed:    make(map[string]*pongo2.Template),
		cacheSize: cfg.cacheSize,
	}
	registerDefaultFilters()

	if err := engine.GlobalContext(cfg.globals); err != nil {
		return nil, fmt.Errorf("gotemplate: apply global data: %w", err)
	}
	for name, fn := range cfg.funcs {
		if err := engine.registerFunc(name, fn); err != nil {
			return nil, fmt.Errorf("gotemplate: register func %q: %w", name, err)
		}
	}
	return engine, nil
}

func buildLoaders(cfg *config) ([]pongo2.TemplateLoader, error) {
	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		info, err := os.Stat(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: base dir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("gotemplate: base dir %q is not a directory", cfg.baseDir)
		}
		// String templates hand include paths to the loader unresolved, so the
		// directory is mounted as an fs.FS rather than used as a path prefix.
		loaders = append(loaders, pongo2.NewFSLoader(os.DirFS(cfg.baseDir)))
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}
	if len(loaders) == 0 {
		loader, err := pongo2.NewLocalFileSystemLoader("")
		if err != nil {
			return nil, fmt.Errorf("gotemplate: default loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	return loaders, nil
}

// RenderString parses templateContent and executes it against data.
func (e *Engine) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	viewContext, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: convert data: %w", err)
	}
	rendered, err := e.execute(templateContent, viewContext)
	if err != nil {
		return "", err
	}
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

// RenderWithTags implements template.TemplateRenderer.
func (e *Engine) RenderWithTags(templateContent string, data any, call template.TagCall) (string, error) {
	if call == nil {
		return "", errors.New("gotemplate: tag call is required")
	}
	viewContext, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: convert data: %w", err)
	}
	viewContext[tagFunc] = func(ec *pongo2.ExecutionContext, index int) (*pongo2.Value, error) {
		out, err := call(index, locals(ec))
		if err != nil {
			return nil, err
		}
		return pongo2.AsSafeValue(out), nil
	}
	return e.execute(templateContent, viewContext)
}

// Placeholder implements template.TemplateRenderer.
func (e *Engine) Placeholder(index int) string {
	return fmt.Sprintf("{{ %s(%d) }}", tagFunc, index)
}

// RegisterFilter registers a filter with pongo2. Filters are process-wide;
// registering an existing name fails.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("gotemplate: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var paramVal any
		if param != nil {
			paramVal = param.Interface()
		}
		result, err := fn(in.Interface(), paramVal)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	})
}

// GlobalContext merges data into the values visible to every render.
func (e *Engine) GlobalContext(data any) error {
	if e == nil || e.set == nil {
		return errors.New("gotemplate: engine is nil")
	}
	if data == nil {
		return nil
	}
	globals, err := toContext(data)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set.Globals == nil {
		e.set.Globals = make(pongo2.Context)
	}
	e.set.Globals.Update(globals)
	return nil
}

func (e *Engine) execute(content string, viewContext pongo2.Context) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	tmpl, err := e.parse(content)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(viewContext, &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute: %w", err)
	}
	return buf.String(), nil
}

func (e *Engine) parse(content string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.parsed[content]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.parsed[content]; ok {
		return tmpl, nil
	}

	tmpl, err := e.set.FromString(content)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: parse: %w", err)
	}
	if e.cacheSize > 0 {
		if len(e.parsed) >= e.cacheSize {
			e.parsed = make(map[string]*pongo2.Template)
		}
		e.parsed[content] = tmpl
	}
	return tmpl, nil
}

// cached reports how many parsed sources are held.
func (e *Engine) cached() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.parsed)
}

func (e *Engine) registerFunc(name string, fn any) error {
	if name == "" || fn == nil {
		return errors.New("name and function required")
	}
	if filter, ok := fn.(pongo2.FilterFunction); ok {
		if pongo2.FilterExists(name) {
			return nil
		}
		return pongo2.RegisterFilter(name, filter)
	}
	if !isCallable(fn) {
		return fmt.Errorf("%T is not a function", fn)
	}
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("%q is not a valid identifier", name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set.Globals == nil {
		e.set.Globals = make(pongo2.Context)
	}
	e.set.Globals[name] = fn
	return nil
}
