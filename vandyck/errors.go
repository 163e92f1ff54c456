package vandyck

import (
	"errors"
	"fmt"
)

var (
	ErrFieldNotFound = errors.New("field not found")
	ErrFieldFormat   = errors.New("malformed field")
)

// ExtractionError reports a listing entry that has a trailer and a title but is
// missing, or cannot parse, one of its required fields.
type ExtractionError struct {
	Entry int
	Title string
	Field string
	Value string
	Err   error
}

func (e *ExtractionError) Error() string {
	where := fmt.Sprintf("entry %d", e.Entry)
	if e.Title != "" {
		where += fmt.Sprintf(" (%q)", e.Title)
	}
	if e.Value != "" {
		return fmt.Sprintf("%s: %s %q: %v", where, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", where, e.Field, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
