package tags

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingParam reports a required parameter absent from a tag.
	ErrMissingParam = errors.New("tags: missing required parameter")
	// ErrUnknownMethod reports a method with no handler and no fallback.
	ErrUnknownMethod = errors.New("tags: unknown method")
	// ErrUnknownNamespace reports a tag whose namespace is not registered.
	ErrUnknownNamespace = errors.New("tags: unknown namespace")
)

// ConfigError is raised when a tag is used without the parameters it needs.
// It is surfaced to the template author rather than defaulted.
type ConfigError struct {
	Namespace string
	Method    string
	Param     string
	Err       error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("tags: %s:%s requires parameter %q", e.Namespace, e.Method, e.Param)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// SyntaxError reports malformed tag markup.
type SyntaxError struct {
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("tags: syntax error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
