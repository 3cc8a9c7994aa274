package vars

// Value is an optional string. The zero Value is None.
type Value struct {
	s   string
	set bool
}

// None is the absent value.
var None = Value{}

// Some wraps s as a present value, including the empty string.
func Some(s string) Value {
	return Value{s: s, set: true}
}

// Get returns the wrapped string and whether it is present.
func (v Value) Get() (string, bool) {
	return v.s, v.set
}

// IsSet reports whether v holds a value.
func (v Value) IsSet() bool {
	return v.set
}

// String renders None as the empty string, matching how templates print a
// read of an unknown variable.
func (v Value) String() string {
	return v.s
}
