package qa

import (
	"errors"
	"fmt"
)

var (
	// ErrBlankBody is returned when a question or answer body is blank.
	ErrBlankBody = errors.New("body is blank")

	// ErrNotFound is returned for id lookups that match no row.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyAnswered is returned when a second answer is stored for a
	// question.
	ErrAlreadyAnswered = errors.New("question already answered")

	// ErrStorage matches every *StorageError via errors.Is.
	ErrStorage = errors.New("storage unavailable")
)

// StorageError wraps a driver or pool failure with the failing operation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrStorage) succeed for any StorageError.
func (e *StorageError) Is(target error) bool { return target == ErrStorage }
