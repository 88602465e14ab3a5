package validation

import (
	"errors"
	"fmt"
)

var (
	// ErrNilValidator is returned when a Form is bound without a validator.
	ErrNilValidator = errors.New("validation: validator is nil")
	// ErrNilRecord is returned when a Form is bound without a record.
	ErrNilRecord = errors.New("validation: record is nil")
	// ErrEmptyPath is returned by path helpers when the key is blank.
	ErrEmptyPath = errors.New("validation: empty path")
)

// PatternError reports a field whose pattern is not a valid regular
// expression. It always indicates a schema authoring bug.
type PatternError struct {
	Field   string
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("validation: field %q: invalid pattern %q: %v", e.Field, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}
