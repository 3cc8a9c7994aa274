package render

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-tagvars/pkg/tags"
)

var (
	// ErrNoRenderer is returned by New when no template renderer is set.
	ErrNoRenderer = errors.New("render: template renderer is required")
	// ErrPassEnded is returned when a pass is used after End.
	ErrPassEnded = errors.New("render: pass already ended")
	// ErrMaxDepth is returned when nested expansion recurses too deeply.
	ErrMaxDepth = errors.New("render: maximum expansion depth exceeded")
)

// TagError locates a failing tag in the source it was scanned from.
type TagError struct {
	Tag    string
	Line   int
	Column int
	Err    error
}

func (e *TagError) Error() string {
	return fmt.Sprintf("render: %s at %d:%d: %v", e.Tag, e.Line, e.Column, e.Err)
}

func (e *TagError) Unwrap() error {
	return e.Err
}

func tagError(tag *tags.Tag, err error) error {
	var located *TagError
	if errors.As(err, &located) {
		return err
	}
	return &TagError{
		Tag:    tag.Name(),
		Line:   tag.Line,
		Column: tag.Column,
		Err:    err,
	}
}
