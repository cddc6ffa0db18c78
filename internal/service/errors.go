package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Cheertaboi/coupon-ledger/internal/repository"
)

var (
	// ErrNotFound marks a missing coupon, guestbook entry or referenced issued coupon.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks client input that is missing required fields.
	ErrValidation = errors.New("validation failed")
)

// ValidationError lists the required fields that were missing or empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StorageError wraps a persistence failure. Its message is not meant for clients.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func validation(fields []string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// translate maps repository errors onto the service taxonomy. Errors that
// already belong to it pass through unchanged.
func translate(op string, err error) error {
	var storageErr *StorageError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrValidation), errors.As(err, &storageErr):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	default:
		return &StorageError{Op: op, Err: err}
	}
}
