package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced suggestion ID does not exist.
var ErrNotFound = errors.New("suggestion not found")

// ErrInvalidSuggestion is returned when a caller-supplied payload is not a
// usable mapping.
var ErrInvalidSuggestion = errors.New("invalid suggestion")

// IOError reports a failure to write the backing file during a persist step.
// It is raised after the in-memory mutation has already been applied, so
// in-memory and on-disk state can diverge until the next successful persist.
// That window is a documented limitation, not something the store reconciles.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
