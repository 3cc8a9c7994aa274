package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Case is a template fixture paired with its expected output. Fixtures live
// in testdata as NAME.tpl with a sibling NAME.golden.
type Case struct {
	Name     string
	Template string
	Golden   string
	Path     string
}

// LoadCases collects every *.tpl fixture in dir together with its golden
// output. A missing golden is returned as the empty string so UPDATE_GOLDENS
// runs can create it.
func LoadCases(t *testing.T, dir string) []Case {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(dir, "*.tpl"))
	if err != nil {
		t.Fatalf("glob fixtures: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no fixtures found in %s", dir)
	}

	cases := make([]Case, 0, len(matches))
	for _, path := range matches {
		name := strings.TrimSuffix(filepath.Base(path), ".tpl")
		goldenPath := strings.TrimSuffix(path, ".tpl") + ".golden"

		golden, err := os.ReadFile(goldenPath)
		if err != nil && !os.IsNotExist(err) {
			t.Fatalf("read golden %s: %v", goldenPath, err)
		}
		cases = append(cases, Case{
			Name:     name,
			Template: MustReadGoldenString(t, path),
			Golden:   string(golden),
			Path:     goldenPath,
		})
	}
	return cases
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents. Tests can assert
// the renderer returns and writes the same payload without duplicating buffer
// setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
