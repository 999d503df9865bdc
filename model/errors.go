package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the referenced expense does not exist.
var ErrNotFound = errors.New("Not Found")

// ValidationError describes the first field of a payload that failed validation.
type ValidationError struct {
	Field   string
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StorageError wraps any failure of the data access layer.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
