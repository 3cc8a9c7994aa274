package render_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-tagvars/pkg/render"
	"github.com/goliatone/go-tagvars/pkg/render/template/gotemplate"
	"github.com/goliatone/go-tagvars/pkg/tags"
	"github.com/goliatone/go-tagvars/pkg/testsupport"
	"github.com/goliatone/go-tagvars/pkg/varplugin"
	"github.com/goliatone/go-tagvars/pkg/vars"
)

func newEngine(t *testing.T, options ...render.Option) *render.Engine {
	t.Helper()

	renderer, err := gotemplate.New()
	if err != nil {
		t.Fatalf("gotemplate: %v", err)
	}
	base := []render.Option{
		render.WithTemplateRenderer(renderer),
		render.WithPlugins(varplugin.New()),
	}
	engine, err := render.New(append(base, options...)...)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	return engine
}

func TestPassGoldens(t *testing.T) {
	engine := newEngine(t)
	data := map[string]any{"name": "Ada"}

	for _, tc := range testsupport.LoadCases(t, filepath.Join("testdata", "passes")) {
		t.Run(tc.Name, func(t *testing.T) {
			got, err := engine.Render(testsupport.Context(), tc.Template, data)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if testsupport.WriteMaybeGolden(t, tc.Path, []byte(got)) {
				return
			}
			if diff := testsupport.CompareGolden(tc.Golden, got); diff != "" {
				t.Fatalf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStoreDoesNotLeakAcrossPasses(t *testing.T) {
	engine := newEngine(t)
	ctx := testsupport.Context()

	if _, err := engine.Render(ctx, `{{ var:color is="red" }}`, nil); err != nil {
		t.Fatalf("first render: %v", err)
	}
	got, err := engine.Render(ctx, `{{ var:exists name="color" }}[{{ var:color }}]`, nil)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if got != "false[]" {
		t.Fatalf("second pass saw earlier writes: %q", got)
	}
}

func TestPassSharesStoreAcrossRenders(t *testing.T) {
	engine := newEngine(t)
	ctx := testsupport.Context()

	pass := engine.BeginPass(ctx)
	defer pass.End()

	if _, err := pass.Render(ctx, `{{ var:color is="red" }}`, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := pass.Render(ctx, `{{ var:color }}`, nil)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != "red" {
		t.Fatalf("read = %q, want red", got)
	}
	if value, ok := pass.Store().Get("color", vars.None).Get(); !ok || value != "red" {
		t.Fatalf("store = %q (%v)", value, ok)
	}
}

func TestPassEnd(t *testing.T) {
	engine := newEngine(t)
	ctx := testsupport.Context()

	pass := engine.BeginPass(ctx)
	if _, err := pass.Render(ctx, `{{ var:color is="red" }}`, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	pass.End()
	pass.End()

	if pass.Store().Len() != 0 {
		t.Fatalf("End must discard the store")
	}
	if _, err := pass.Render(ctx, `{{ var:color }}`, nil); !errors.Is(err, render.ErrPassEnded) {
		t.Fatalf("expected ErrPassEnded, got %v", err)
	}
}

func TestMissingNameSurfacesConfigError(t *testing.T) {
	engine := newEngine(t)

	_, err := engine.Render(testsupport.Context(), "ok\n  {{ var:with is=\"red\" }}", nil)
	if !errors.Is(err, tags.ErrMissingParam) {
		t.Fatalf("expected ErrMissingParam, got %v", err)
	}
	var cfgErr *tags.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *tags.ConfigError in chain, got %T", err)
	}
	var tagErr *render.TagError
	if !errors.As(err, &tagErr) {
		t.Fatalf("expected *render.TagError, got %T", err)
	}
	if tagErr.Tag != "var:with" || tagErr.Line != 2 || tagErr.Column != 3 {
		t.Fatalf("unexpected location: %+v", tagErr)
	}
}

func TestNestedErrorKeepsInnermostLocation(t *testing.T) {
	engine := newEngine(t)

	_, err := engine.Render(testsupport.Context(), `{{ var:outer }}{{ var:exists }}{{ /var:outer }}`, nil)
	var tagErr *render.TagError
	if !errors.As(err, &tagErr) {
		t.Fatalf("expected *render.TagError, got %v", err)
	}
	if tagErr.Tag != "var:exists" {
		t.Fatalf("error attributed to %q", tagErr.Tag)
	}
}

func TestSyntaxErrorSurfaces(t *testing.T) {
	engine := newEngine(t)

	_, err := engine.Render(testsupport.Context(), `{{ var:color is="red }}`, nil)
	var syntaxErr *tags.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected *tags.SyntaxError, got %v", err)
	}
}

func TestTagsFollowTemplateControlFlow(t *testing.T) {
	engine := newEngine(t)
	data := map[string]any{"colors": []string{"red", "blue"}}

	cases := []struct {
		name string
		src  string
		want string
	}{
		{"inside if", `{{ var:color is="red" }}{% if true %}{{ var:color }}{% endif %}`, "red"},
		{"untaken branch", `{% if false %}{{ var:color is="red" }}{% endif %}{{ var:exists name="color" }}`, "false"},
		{"loop locals", `{% for c in colors %}{{ var:last }}{{ c }}{{ /var:last }}{% endfor %}{{ var:last }}`, "blue"},
		{"loop order", `{% for c in colors %}{{ var:acc }}{{ var:extract }}{{ acc }}{{ /var:extract }}{{ c }};{{ /var:acc }}{% endfor %}{{ var:acc }}`, "red;blue;"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := engine.Render(testsupport.Context(), tc.src, data)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExtractToleratesStoredValues(t *testing.T) {
	engine := newEngine(t)

	cases := []struct {
		name string
		src  string
		want string
	}{
		{
			"unreferenced malformed value",
			`{{ var:snippet is="{{ oops" }}{{ var:color is="green" }}{{ var:extract }}{{ color }}{{ /var:extract }}`,
			"green",
		},
		{
			"referenced malformed value stays raw",
			`{{ var:snippet is="{{ oops" }}{{ var:extract }}[{{ snippet }}]{{ /var:extract }}`,
			"[{{ oops]",
		},
		{
			"value holding a tag",
			`{{ var:b is="B" }}{{ var:a is="{{ var:b }}" }}{{ var:extract }}{{ a }}{{ /var:extract }}`,
			"B",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := engine.Render(testsupport.Context(), tc.src, nil)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExtractMatchesTagReads(t *testing.T) {
	engine := newEngine(t)
	ctx := testsupport.Context()

	got, err := engine.Render(ctx, `{{ var:a is="<i>x</i>" }}{{ var:a }}|{{ var:extract }}{{ a }}{{ /var:extract }}`, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "<i>x</i>|<i>x</i>" {
		t.Fatalf("got %q", got)
	}

	got, err = engine.Render(ctx, `{{ var:a is="{{ h }}" }}{{ var:extract }}{{ a }}{{ /var:extract }}`, map[string]any{"h": "<b>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "&lt;b&gt;" {
		t.Fatalf("context value escaped %q, want once", got)
	}
}

func TestSelfReferencingExtractTerminates(t *testing.T) {
	engine := newEngine(t)
	src := `{{ var:a is="{{ var:extract }}{{ a }}{{ /var:extract }}" }}{{ var:extract }}{{ a }}{{ /var:extract }}`

	got, err := engine.Render(testsupport.Context(), src, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "{{ var:extract }}{{ a }}{{ /var:extract }}" {
		t.Fatalf("got %q", got)
	}
}

// echoPlugin re-renders its own tag forever.
type echoPlugin struct{}

func (echoPlugin) Namespace() string { return "echo" }

func (echoPlugin) Methods() tags.Methods {
	return tags.Methods{
		Fallback: func(ctx context.Context, _ string, inv *tags.Invocation) (any, error) {
			return inv.Render(ctx, "{{ echo:again }}", inv.Data)
		},
	}
}

func TestExpansionDepthIsBounded(t *testing.T) {
	engine := newEngine(t, render.WithPlugins(echoPlugin{}))

	_, err := engine.Render(testsupport.Context(), "{{ echo:start }}", nil)
	if !errors.Is(err, render.ErrMaxDepth) {
		t.Fatalf("expected ErrMaxDepth, got %v", err)
	}
}

func TestUnknownNamespaceIsLeftToRenderer(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.Render(testsupport.Context(), `{{ title|lower }}`, map[string]any{"title": "HELLO"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "hello" {
		t.Fatalf("got %q", got)
	}
}

func TestSanitizers(t *testing.T) {
	src := `{{ var:x is="<script>alert(1)</script><b>ok</b>" }}{{ var:x }}`

	cases := []struct {
		name      string
		sanitizer render.Sanitizer
		want      string
	}{
		{"ugc", render.UGCSanitizer(), "<b>ok</b>"},
		{"strict", render.StrictSanitizer(), "ok"},
		{"func", render.SanitizerFunc(strings.ToUpper), "<SCRIPT>ALERT(1)</SCRIPT><B>OK</B>"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := newEngine(t, render.WithSanitizer(tc.sanitizer))
			got, err := engine.Render(testsupport.Context(), src, nil)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSanitizerByName(t *testing.T) {
	for _, name := range []string{"", "none", "NONE"} {
		s, err := render.SanitizerByName(name)
		if err != nil || s != nil {
			t.Fatalf("%q: got %v, %v", name, s, err)
		}
	}
	if s, err := render.SanitizerByName("ugc"); err != nil || s == nil {
		t.Fatalf("ugc: got %v, %v", s, err)
	}
	if _, err := render.SanitizerByName("loose"); err == nil {
		t.Fatalf("expected error for unknown sanitizer")
	}
}

func TestTrimOutput(t *testing.T) {
	engine := newEngine(t, render.WithTrimOutput(true))

	got, err := engine.Render(testsupport.Context(), "\n  {{ var:a is=\"1\" }}{{ var:a }}  \n", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "1" {
		t.Fatalf("got %q", got)
	}
}

func TestRenderFS(t *testing.T) {
	engine := newEngine(t)
	fsys := fstest.MapFS{
		"pages/home.tpl": {Data: []byte(`{{ var:who is="{{ name }}" }}{{ var:extract }}Hi {{ who }}{{ /var:extract }}`)},
	}

	got, err := engine.RenderFS(context.Background(), fsys, "pages/home.tpl", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render fs: %v", err)
	}
	if got != "Hi Ada" {
		t.Fatalf("got %q", got)
	}

	if _, err := engine.RenderFS(context.Background(), fsys, "missing.tpl", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := render.New(); !errors.Is(err, render.ErrNoRenderer) {
		t.Fatalf("expected ErrNoRenderer, got %v", err)
	}

	renderer, err := gotemplate.New()
	if err != nil {
		t.Fatalf("gotemplate: %v", err)
	}
	_, err = render.New(
		render.WithTemplateRenderer(renderer),
		render.WithPlugins(varplugin.New(), varplugin.New()),
	)
	if err == nil {
		t.Fatalf("expected duplicate namespace error")
	}
}

func TestRegistryListsPlugins(t *testing.T) {
	engine := newEngine(t)
	if got := engine.Registry().List(); len(got) != 1 || got[0] != varplugin.Namespace {
		t.Fatalf("registry = %v", got)
	}
}
