package errors

import "errors"

// CancelledError is returned when the user declines a confirmation prompt
// or quits an interactive flow before it completes.
type CancelledError struct {
	Action string
}

func (e *CancelledError) Error() string {
	if e.Action == "" {
		return "cancelled by user"
	}
	return e.Action + " cancelled by user"
}

// NewCancelledError creates a CancelledError for the named action.
func NewCancelledError(action string) *CancelledError {
	return &CancelledError{Action: action}
}

// IsCancelledError reports whether err is a CancelledError (even when wrapped).
func IsCancelledError(err error) bool {
	var cErr *CancelledError
	return errors.As(err, &cErr)
}
