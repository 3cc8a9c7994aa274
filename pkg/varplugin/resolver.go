package varplugin

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-tagvars/pkg/tags"
	"github.com/goliatone/go-tagvars/pkg/vars"
)

// ErrNoStore is returned when a tag is dispatched outside a render pass.
var ErrNoStore = errors.New("varplugin: invocation has no variable store")

var (
	absent  = vars.None
	present = vars.Some
)

// ResolveValue computes the write value of a tag. Non-empty block content
// wins and is expanded then trimmed, even when the result is empty; otherwise
// the first present alias is used verbatim. None means the tag is a read.
func ResolveValue(ctx context.Context, inv *tags.Invocation, aliases []string) (vars.Value, error) {
	if content := inv.BlockContent(); content != "" {
		expanded, err := inv.Render(ctx, content, inv.Data)
		if err != nil {
			return absent, err
		}
		return present(strings.TrimSpace(expanded)), nil
	}
	if value, ok := inv.Param(aliases, tags.CaseSensitive(true), tags.ColonAllowed(true)); ok {
		return present(value), nil
	}
	return absent, nil
}

// readOrWrite is shared by the named and shorthand forms. A resolved value is
// stored and produces no output; otherwise the stored value or def is
// returned.
func (p *Plugin) readOrWrite(ctx context.Context, inv *tags.Invocation, name string, def vars.Value) (any, error) {
	store, err := storeOf(inv)
	if err != nil {
		return nil, err
	}

	value, err := ResolveValue(ctx, inv, p.valueAliases)
	if err != nil {
		return nil, err
	}

	written, ok := value.Get()
	if !ok {
		got := store.Get(name, def)
		p.logger.DebugContext(ctx, "var read", "name", name, "found", store.Exists(name), "value", got.String())
		return got, nil
	}

	store.Set(name, written)
	p.logger.DebugContext(ctx, "var write", "name", name, "value", written)
	return "", nil
}

func storeOf(inv *tags.Invocation) (*vars.Store, error) {
	if inv == nil || inv.Store == nil {
		return nil, ErrNoStore
	}
	return inv.Store, nil
}
