package schema

import (
	"errors"
	"fmt"
)

// ErrInvalidDate is returned for dates not in YYYY-MM-DD form.
var ErrInvalidDate = errors.New("invalid date")

// ErrInvalidDateRange is returned when a report window starts after it ends.
var ErrInvalidDateRange = errors.New("start date cannot be after end date")

// ParseError reports an external response that failed validation at the boundary.
type ParseError struct {
	Source string // e.g. "asana sections"
	Field  string // offending field, empty when the whole payload is bad
	Err    error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid %s response: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("invalid %s response: field %q: %v", e.Source, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
