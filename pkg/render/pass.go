package render

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/goliatone/go-tagvars/pkg/render/template"
	"github.com/goliatone/go-tagvars/pkg/tags"
	"github.com/goliatone/go-tagvars/pkg/vars"
)

// Pass is one rendering pass. Variables written by tags live in its store
// and are visible to every later tag of the pass, including tags reached
// through nested expansion. A Pass is not safe for concurrent use.
type Pass struct {
	engine *Engine
	store  *vars.Store
	ended  bool
	depth  int
}

// maxDepth bounds nested expansion, such as an extract of a value that
// extracts itself.
const maxDepth = 32

// BeginPass starts a pass with an empty store.
func (e *Engine) BeginPass(ctx context.Context) *Pass {
	e.logger.DebugContext(ctx, "pass begin")
	return &Pass{
		engine: e,
		store:  vars.New(),
	}
}

// Store returns the variable store of the pass.
func (p *Pass) Store() *vars.Store {
	return p.store
}

// End discards the store. Calling End more than once is a no-op.
func (p *Pass) End() {
	if p.ended {
		return
	}
	p.engine.logger.Debug("pass end", "variables", p.store.Names())
	p.store.Reset()
	p.ended = true
}

// Render expands content against data within the pass. Several calls share
// the same variables. Sanitisation and trimming apply to the returned text.
func (p *Pass) Render(ctx context.Context, content string, data map[string]any) (string, error) {
	if p.ended {
		return "", ErrPassEnded
	}
	if data == nil {
		data = map[string]any{}
	}

	out, err := p.expand(ctx, content, data)
	if err != nil {
		return "", err
	}
	if p.engine.sanitizer != nil {
		out = p.engine.sanitizer.Sanitize(out)
	}
	if p.engine.trim {
		out = strings.TrimSpace(out)
	}
	return out, nil
}

// expand renders content as one template. Each tag is swapped for a renderer
// placeholder and dispatched when the renderer reaches it, so tags nested in
// loops and conditionals follow the template's control flow.
func (p *Pass) expand(ctx context.Context, content string, data map[string]any) (string, error) {
	if p.ended {
		return "", ErrPassEnded
	}
	if p.depth >= maxDepth {
		return "", ErrMaxDepth
	}
	p.depth++
	defer func() { p.depth-- }()

	nodes, err := tags.Scan(content, p.engine.registry.Has)
	if err != nil {
		return "", err
	}

	var (
		src   strings.Builder
		found []*tags.Tag
	)
	for _, node := range nodes {
		switch n := node.(type) {
		case tags.Text:
			src.WriteString(string(n))
		case *tags.Tag:
			src.WriteString(p.engine.renderer.Placeholder(len(found)))
			found = append(found, n)
		}
	}

	if len(found) == 0 {
		if !template.ContainsSyntax(content) {
			return content, nil
		}
		return p.engine.renderer.RenderString(content, data)
	}

	// The renderer flattens callback errors to text; keep the original.
	var callErr error
	out, err := p.engine.renderer.RenderWithTags(src.String(), data, func(index int, locals map[string]any) (string, error) {
		if callErr != nil {
			return "", callErr
		}
		if index < 0 || index >= len(found) {
			callErr = fmt.Errorf("render: unknown tag placeholder %d", index)
			return "", callErr
		}
		rendered, err := p.dispatch(ctx, found[index], scope(data, locals))
		if err != nil {
			callErr = err
			return "", err
		}
		return rendered, nil
	})
	if callErr != nil {
		return "", callErr
	}
	if err != nil {
		return "", err
	}
	return out, nil
}

// scope overlays template locals on the pass data.
func scope(data, locals map[string]any) map[string]any {
	if len(locals) == 0 {
		return data
	}
	out := make(map[string]any, len(data)+len(locals))
	maps.Copy(out, data)
	maps.Copy(out, locals)
	return out
}

func (p *Pass) dispatch(ctx context.Context, tag *tags.Tag, data map[string]any) (string, error) {
	inv := &tags.Invocation{
		Namespace: tag.Namespace,
		Method:    tag.Method,
		Params:    tag.Params,
		Content:   tag.Content,
		Data:      data,
		Store:     p.store,
		Expand:    p.expand,
	}

	p.engine.logger.DebugContext(ctx, "tag dispatch",
		"tag", tag.Name(),
		"line", tag.Line,
		"paired", tag.Paired,
	)

	result, err := p.engine.registry.Dispatch(ctx, inv)
	if err != nil {
		return "", tagError(tag, err)
	}
	return tags.FormatResult(result), nil
}
