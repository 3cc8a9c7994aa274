package varplugin

import (
	"context"
	"strings"

	"github.com/goliatone/go-tagvars/pkg/render/template"
	"github.com/goliatone/go-tagvars/pkg/tags"
)

// Extract renders the block with every stored variable overlaid on the
// current context, so stored names can be used as bare template variables.
// Stored values win over context keys of the same name and are inserted as
// already rendered text, exactly as a var read prints them.
//
//	{{ var:color is="green" }}
//	{{ var:extract }}My {{ color }} tie{{ /var:extract }}
func (p *Plugin) Extract(ctx context.Context, inv *tags.Invocation) (any, error) {
	store, err := storeOf(inv)
	if err != nil {
		return nil, err
	}

	content := inv.BlockContent()
	if content == "" {
		return "", nil
	}

	entries := store.Entries()
	merged := make(map[string]any, len(inv.Data)+len(entries))
	for key, value := range inv.Data {
		merged[key] = value
	}
	for key, value := range entries {
		merged[key] = template.Safe(value)
	}

	if p.recursiveExtract {
		p.expandReferenced(ctx, inv, store.Names(), entries, content, merged)
	}

	p.logger.DebugContext(ctx, "var extract", "variables", len(entries))
	return inv.Render(ctx, content, merged)
}

// expandReferenced renders the stored values the block names that hold
// template syntax, once, against the unexpanded context. A value that fails
// to render is used as written.
func (p *Plugin) expandReferenced(ctx context.Context, inv *tags.Invocation, names []string, entries map[string]string, content string, merged map[string]any) {
	expanded := make(map[string]string)
	for _, key := range names {
		value := entries[key]
		if !template.ContainsSyntax(value) || !references(content, key) {
			continue
		}
		out, err := inv.Render(ctx, value, merged)
		if err != nil {
			p.logger.DebugContext(ctx, "var extract kept raw value", "name", key, "error", err)
			continue
		}
		expanded[key] = out
	}
	for key, value := range expanded {
		merged[key] = template.Safe(value)
	}
}

// references reports whether key appears in content as a whole identifier.
func references(content, key string) bool {
	if key == "" {
		return false
	}
	for offset := 0; ; {
		i := strings.Index(content[offset:], key)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(key)
		if (start == 0 || !identByte(content[start-1])) && (end == len(content) || !identByte(content[end])) {
			return true
		}
		offset = start + 1
	}
}

func identByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
