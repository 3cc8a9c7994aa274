package tags

import "strings"

// Param is a single name/value pair parsed from a tag.
type Param struct {
	Name  string
	Value string
}

// Params keeps tag parameters in source order.
type Params []Param

type paramConfig struct {
	caseSensitive bool
	colonAllowed  bool
}

// ParamOption tunes a Params.Get lookup.
type ParamOption func(*paramConfig)

// CaseSensitive keeps the value as written when true. When false the value is
// lowercased before it is returned.
func CaseSensitive(enabled bool) ParamOption {
	return func(cfg *paramConfig) {
		cfg.caseSensitive = enabled
	}
}

// ColonAllowed controls whether a value containing ':' is accepted. When
// false such values are reported as absent.
func ColonAllowed(enabled bool) ParamOption {
	return func(cfg *paramConfig) {
		cfg.colonAllowed = enabled
	}
}

// Get returns the value of the first alias present in the parameter list.
// A parameter written with an empty value is present.
func (p Params) Get(aliases []string, options ...ParamOption) (string, bool) {
	cfg := paramConfig{caseSensitive: true, colonAllowed: true}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	for _, alias := range aliases {
		value, ok := p.lookup(alias)
		if !ok {
			continue
		}
		if !cfg.colonAllowed && strings.Contains(value, ":") {
			return "", false
		}
		if !cfg.caseSensitive {
			value = strings.ToLower(value)
		}
		return value, true
	}
	return "", false
}

// Has reports whether name was supplied.
func (p Params) Has(name string) bool {
	_, ok := p.lookup(name)
	return ok
}

// Map returns the parameters keyed by name. As with Get, the first
// occurrence of a repeated name wins.
func (p Params) Map() map[string]string {
	out := make(map[string]string, len(p))
	for _, param := range p {
		if _, seen := out[param.Name]; seen {
			continue
		}
		out[param.Name] = param.Value
	}
	return out
}

func (p Params) lookup(name string) (string, bool) {
	for _, param := range p {
		if param.Name == name {
			return param.Value, true
		}
	}
	return "", false
}
