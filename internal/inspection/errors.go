package inspection

import (
	"errors"
	"fmt"
)

// ErrNotFound reports an unknown record, item, or photo id.
var ErrNotFound = errors.New("not found")

// DuplicateNameError reports a custom item or part whose name collides with an
// existing one. Names are compared case-sensitively.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate name: %q", e.Name)
}

// MalformedWireDataError reports an embedded JSON field that failed to parse on
// load. The field is treated as empty; the rest of the record still loads.
type MalformedWireDataError struct {
	Field string
	Err   error
}

func (e *MalformedWireDataError) Error() string {
	return fmt.Sprintf("malformed wire field %s: %v", e.Field, e.Err)
}

func (e *MalformedWireDataError) Unwrap() error {
	return e.Err
}
