package vars

import "sort"

// Store is a flat name to value mapping scoped to a single render pass. It is
// not safe for concurrent use; a pass processes tags sequentially.
type Store struct {
	values map[string]string
}

// New returns an empty store.
func New() *Store {
	return &Store{values: make(map[string]string)}
}

// Set records value under name, replacing any previous value. Names are not
// validated; the empty string is a valid key.
func (s *Store) Set(name, value string) {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[name] = value
}

// Get returns the stored value for name, or def unchanged when name was never
// written.
func (s *Store) Get(name string, def Value) Value {
	if s == nil {
		return def
	}
	if value, ok := s.values[name]; ok {
		return Some(value)
	}
	return def
}

// Exists reports whether name was written since the store was created or
// last reset.
func (s *Store) Exists(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.values[name]
	return ok
}

// Entries returns a copy of every stored pair. Later writes do not affect a
// snapshot that was already returned.
func (s *Store) Entries() map[string]string {
	if s == nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(s.values))
	for name, value := range s.values {
		out[name] = value
	}
	return out
}

// Names returns the stored names in sorted order.
func (s *Store) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of stored variables.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Reset drops every stored variable.
func (s *Store) Reset() {
	s.values = make(map[string]string)
}
