package errors

import (
	"errors"
	"fmt"
)

// NotFoundError reports that an operation referenced a book id that is not in the catalog.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("book %d not found", e.ID)
}

// NewNotFoundError creates a NotFoundError for the given id.
func NewNotFoundError(id int64) *NotFoundError {
	return &NotFoundError{ID: id}
}

// IsNotFoundError reports whether err is a NotFoundError (even when wrapped).
func IsNotFoundError(err error) bool {
	var nfErr *NotFoundError
	return errors.As(err, &nfErr)
}
