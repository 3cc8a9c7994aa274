package tagvars_test

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-tagvars"
	"github.com/goliatone/go-tagvars/pkg/datasource"
	"github.com/goliatone/go-tagvars/pkg/render"
	"github.com/goliatone/go-tagvars/pkg/testsupport"
)

func TestRender(t *testing.T) {
	got, err := tagvars.Render(context.Background(), `{{ var:color is="red" }}{{ var:color }}`, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "red" {
		t.Fatalf("got %q", got)
	}
}

func TestExampleTemplates(t *testing.T) {
	fsys := tagvars.ExampleTemplatesFS()

	raw, err := fs.ReadFile(fsys, "context.yaml")
	if err != nil {
		t.Fatalf("read context: %v", err)
	}
	data, err := datasource.Load(raw, "context.yaml")
	if err != nil {
		t.Fatalf("load context: %v", err)
	}

	engine, err := tagvars.New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	got, err := engine.RenderFS(context.Background(), fsys, "page.tpl", data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	goldenPath := filepath.Join("templates", "page.golden")
	if testsupport.WriteMaybeGolden(t, goldenPath, []byte(got)) {
		return
	}
	want := testsupport.MustReadGoldenString(t, goldenPath)
	if diff := testsupport.CompareGolden(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestNewWithFSResolvesIncludes(t *testing.T) {
	fsys := fstest.MapFS{
		"partials/badge.tpl": {Data: []byte(`<em>{{ label }}</em>`)},
	}
	engine, err := tagvars.NewWithFS(fsys, render.WithTrimOutput(true))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	got, err := engine.Render(context.Background(),
		`{{ var:label is="new" }}{{ var:extract }}{% include "partials/badge.tpl" %}{{ /var:extract }}`, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "<em>new</em>" {
		t.Fatalf("got %q", got)
	}
}

func TestNewWithTemplate(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "sig.tpl"), []byte(`-- {{ who }}`), 0o644); err != nil {
		t.Fatalf("write partial: %v", err)
	}
	engine, err := tagvars.NewWithTemplate([]tagvars.TemplateOption{
		tagvars.WithIncludeDir(dir),
		tagvars.WithFuncs(map[string]any{"shout": strings.ToUpper}),
		tagvars.WithGlobals(map[string]any{"site": "docs"}),
		tagvars.WithParseCache(8),
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	got, err := engine.Render(context.Background(),
		`{{ var:who is="ada" }}{{ var:extract }}{{ shout(who) }}@{{ site }} {% include "sig.tpl" %}{{ /var:extract }}`, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "ADA@docs -- ada" {
		t.Fatalf("got %q", got)
	}

	if _, err := tagvars.NewWithTemplate([]tagvars.TemplateOption{tagvars.WithIncludeDir("does-not-exist")}); err == nil {
		t.Fatalf("expected missing include dir to fail")
	}
}

func TestValueAliases(t *testing.T) {
	if v := tagvars.Some(""); !v.IsSet() {
		t.Fatalf("Some(\"\") must be present")
	}
	if tagvars.None.IsSet() {
		t.Fatalf("None must be absent")
	}
}
