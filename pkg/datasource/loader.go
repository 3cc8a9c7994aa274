// Package datasource loads render contexts from JSON, YAML and HCL files.
package datasource

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for files whose extension has no decoder.
var ErrUnsupportedFormat = errors.New("datasource: unsupported format")

// Format identifies a context file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// FormatOf maps a file name to its format by extension.
func FormatOf(name string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".hcl":
		return FormatHCL, true
	default:
		return "", false
	}
}

// LoadFile reads and decodes a context file from disk.
func LoadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("datasource: read %s: %w", path, err)
	}
	return Load(data, path)
}

// Load decodes data using the format implied by name. Empty input yields an
// empty context.
func Load(data []byte, name string) (map[string]any, error) {
	format, ok := FormatOf(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return map[string]any{}, nil
	}

	var (
		out map[string]any
		err error
	)
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &out)
	case FormatYAML:
		err = yaml.Unmarshal(data, &out)
	case FormatHCL:
		out, err = decodeHCL(data, name)
	}
	if err != nil {
		return nil, fmt.Errorf("datasource: parse %s: %w", name, err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

// LoadFS walks fsys and merges every context file it finds. Files are visited
// in lexical path order and later files win on key collisions. Files with
// other extensions are skipped.
func LoadFS(fsys fs.FS) (map[string]any, error) {
	merged := map[string]any{}
	if fsys == nil {
		return merged, nil
	}

	var paths []string
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		if _, ok := FormatOf(path); ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("datasource: read %s: %w", path, err)
		}
		values, err := Load(data, path)
		if err != nil {
			return nil, err
		}
		Merge(merged, values)
	}
	return merged, nil
}

// Merge copies src into dst, overwriting top-level keys.
func Merge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
