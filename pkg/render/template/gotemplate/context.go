package gotemplate

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-tagvars/pkg/render/template"
)

// pongo2 rejects context keys that are not plain identifiers.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

func toContext(data any) (pongo2.Context, error) {
	var in map[string]any
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		in = v
	case map[string]any:
		in = v
	case map[string]string:
		in = make(map[string]any, len(v))
		for key, value := range v {
			in[key] = value
		}
	default:
		decoded, err := roundTrip(v)
		if err != nil {
			return nil, err
		}
		m, ok := decoded.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("context must be an object, got %T", data)
		}
		in = m
	}

	out := make(pongo2.Context, len(in))
	for key, value := range in {
		// Unaddressable keys stay reachable through tags only.
		if !identifierPattern.MatchString(key) {
			continue
		}
		converted, err := convertValue(value)
		if err != nil {
			return nil, err
		}
		out[key] = converted
	}
	return out, nil
}

func convertValue(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case template.Safe:
		return pongo2.AsSafeValue(string(v)), nil
	case *pongo2.Value, string, bool, int, int64, float64:
		return v, nil
	case map[string]any:
		return convertMap(v)
	case pongo2.Context:
		return convertMap(v)
	case []any:
		return convertSlice(v)
	}
	if isCallable(value) {
		return value, nil
	}

	decoded, err := roundTrip(value)
	if err != nil {
		return nil, err
	}
	return convertValue(decoded)
}

func convertMap(in map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(in))
	for key, value := range in {
		converted, err := convertValue(value)
		if err != nil {
			return nil, err
		}
		out[key] = converted
	}
	return out, nil
}

func convertSlice(in []any) ([]any, error) {
	out := make([]any, 0, len(in))
	for _, value := range in {
		converted, err := convertValue(value)
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	return out, nil
}

// roundTrip flattens structs and typed collections into JSON-shaped values.
func roundTrip(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// locals collects the variables a template introduced at the current point.
// The pongo2 meta entry and the loop bookkeeping are left out.
func locals(ec *pongo2.ExecutionContext) map[string]any {
	if ec == nil || len(ec.Private) == 0 {
		return nil
	}
	out := make(map[string]any, len(ec.Private))
	for key, value := range ec.Private {
		if key == "pongo2" || key == "forloop" {
			continue
		}
		if v, ok := value.(*pongo2.Value); ok {
			value = v.Interface()
		}
		out[key] = value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func isCallable(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.IsValid() && rv.Kind() == reflect.Func
}
