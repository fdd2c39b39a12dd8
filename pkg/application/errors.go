package application

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned when a save-and-test is requested while another
	// one is still in flight.
	ErrBusy = errors.New("a save-and-test is already in progress")

	// ErrTemplateNotFound indicates the catalog has no template by that name.
	ErrTemplateNotFound = errors.New("template not found")
)

// SaveError reports that persisting the collection failed. The test-fire
// was not attempted.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save settings: %v", e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

// TestFireError reports that the trigger request failed after a successful
// save. The save is not rolled back.
type TestFireError struct {
	Event string
	Index int
	Err   error
}

func (e *TestFireError) Error() string {
	return fmt.Sprintf("test %s on profile %d: %v", e.Event, e.Index, e.Err)
}

func (e *TestFireError) Unwrap() error {
	return e.Err
}
