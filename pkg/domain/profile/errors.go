package profile

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSelection is returned when an operation needs a current profile
	// and the collection is empty.
	ErrNoSelection = errors.New("no profile selected")
	// ErrUnknownField is returned by SetField for keys outside the schema.
	ErrUnknownField = errors.New("unknown profile field")
	// ErrNotInCollection is returned when a profile is not a member of the
	// collection it is removed or copied from.
	ErrNotInCollection = errors.New("profile is not in the collection")
	// ErrUnsupportedVersion is returned for settings documents newer than
	// this build understands.
	ErrUnsupportedVersion = errors.New("unsupported settings version")
)

// IndexError reports an out of range index.
type IndexError struct {
	Kind  string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0,%d)", e.Kind, e.Index, e.Len)
}

// FieldError reports a value that could not be decoded into a profile field.
type FieldError struct {
	Key string
	Err error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Key, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
